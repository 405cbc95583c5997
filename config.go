package qcollapse

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full engine and benchmark configuration.
type Config struct {
	Transformer TransformerConfig `yaml:"transformer"`
	Benchmark   BenchmarkConfig   `yaml:"benchmark"`
}

/*
TransformerConfig controls a single solve. Zero MaxIterations means n², zero
Timeout means no wall-clock ceiling.
*/
type TransformerConfig struct {
	ConvergenceThreshold float64       `yaml:"convergence_threshold"`
	MaxIterations        int           `yaml:"max_iterations"`
	Timeout              time.Duration `yaml:"timeout"`
	CorrectionInterval   int           `yaml:"correction_interval"`
	CorrectionFactor     float64       `yaml:"correction_factor"`
	StopOnFixedPoint     bool          `yaml:"stop_on_fixed_point"`
	Refine               bool          `yaml:"refine"`
}

// BenchmarkConfig controls a harness run.
type BenchmarkConfig struct {
	Problems     []ProblemType `yaml:"problems"`
	Sizes        []int         `yaml:"sizes"`
	Trials       int           `yaml:"trials"`
	Workers      int           `yaml:"workers"`
	Seed         uint64        `yaml:"seed"`
	TrialTimeout time.Duration `yaml:"trial_timeout"`
}

func NewConfig() *Config {
	return &Config{
		Transformer: NewTransformerConfig(),
		Benchmark: BenchmarkConfig{
			Problems:     []ProblemType{ProblemSAT},
			Sizes:        []int{4, 8, 12, 16},
			Trials:       3,
			Workers:      runtime.NumCPU(),
			Seed:         1,
			TrialTimeout: 30 * time.Second,
		},
	}
}

func NewTransformerConfig() TransformerConfig {
	return TransformerConfig{
		ConvergenceThreshold: 1e-6,
		CorrectionInterval:   100,
		CorrectionFactor:     1.1,
		Refine:               true,
	}
}

/*
LoadConfig reads a YAML file over the defaults, so a file only needs the keys
it wants to change.
*/
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %v: %w", path, err, ErrConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if err := cfg.Transformer.Validate(); err != nil {
		return err
	}
	return cfg.Benchmark.Validate()
}

func (tc TransformerConfig) Validate() error {
	switch {
	case tc.ConvergenceThreshold < 0:
		return fmt.Errorf("convergence_threshold %v: %w", tc.ConvergenceThreshold, ErrConfig)
	case tc.MaxIterations < 0:
		return fmt.Errorf("max_iterations %d: %w", tc.MaxIterations, ErrConfig)
	case tc.Timeout < 0:
		return fmt.Errorf("timeout %v: %w", tc.Timeout, ErrConfig)
	case tc.CorrectionInterval < 0:
		return fmt.Errorf("correction_interval %d: %w", tc.CorrectionInterval, ErrConfig)
	case tc.CorrectionFactor < 0:
		return fmt.Errorf("correction_factor %v: %w", tc.CorrectionFactor, ErrConfig)
	}
	return nil
}

func (bc BenchmarkConfig) Validate() error {
	if len(bc.Problems) == 0 {
		return fmt.Errorf("no problems: %w", ErrConfig)
	}
	for _, pt := range bc.Problems {
		if !pt.Valid() {
			return fmt.Errorf("%s: %w", pt, ErrUnknownProblem)
		}
	}
	if len(bc.Sizes) == 0 {
		return fmt.Errorf("no sizes: %w", ErrConfig)
	}
	for _, size := range bc.Sizes {
		if size <= 0 {
			return fmt.Errorf("size %d: %w", size, ErrConfig)
		}
	}
	if bc.Trials <= 0 {
		return fmt.Errorf("trials %d: %w", bc.Trials, ErrConfig)
	}
	if bc.Workers <= 0 {
		return fmt.Errorf("workers %d: %w", bc.Workers, ErrConfig)
	}
	if bc.TrialTimeout < 0 {
		return fmt.Errorf("trial_timeout %v: %w", bc.TrialTimeout, ErrConfig)
	}
	return nil
}
