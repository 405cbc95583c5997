package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "qcollapse version "+version)
}

func TestSolveCmd(t *testing.T) {
	t.Run("satisfiable formula from stdin", func(t *testing.T) {
		out, err := execute(t, "p cnf 2 2\n1 2 0\n-1 2 0\n", "solve", "-")
		require.NoError(t, err)
		assert.Contains(t, out, "s SATISFIABLE")
		assert.Contains(t, out, "v ")
		assert.True(t, strings.HasSuffix(strings.TrimSpace(out), " 0"))
	})

	t.Run("contradiction from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "unsat.cnf")
		require.NoError(t, os.WriteFile(path, []byte("c x and not x\np cnf 1 2\n1 0\n-1 0\n"), 0644))

		out, err := execute(t, "", "solve", path)
		require.NoError(t, err)
		assert.Contains(t, out, "s UNKNOWN")
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := execute(t, "p dnf 1 1\n1 0\n", "solve", "-")
		require.Error(t, err)
	})

	t.Run("negative variable count", func(t *testing.T) {
		require.NotPanics(t, func() {
			_, err := execute(t, "p cnf -3 0\n", "solve", "-")
			require.Error(t, err)
		})
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "", "solve", filepath.Join(t.TempDir(), "absent.cnf"))
		require.Error(t, err)
	})
}

func TestBenchCmd(t *testing.T) {
	t.Run("flags drive a small run", func(t *testing.T) {
		out, err := execute(t, "",
			"bench", "--problem", "sat,vertex_cover", "--sizes", "3,4,5", "--trials", "1", "--workers", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "problem: sat")
		assert.Contains(t, out, "problem: vertex_cover")
		assert.Contains(t, out, "growth:")
	})

	t.Run("config file with flag override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bench.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
benchmark:
  problems: [knapsack]
  sizes: [2, 3, 4]
  trials: 1
  workers: 1
`), 0644))

		out, err := execute(t, "", "bench", "--config", path, "--trials", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "problem: knapsack")
		assert.Contains(t, out, "summary: 6 trials")
	})

	t.Run("unknown problem", func(t *testing.T) {
		_, err := execute(t, "", "bench", "--problem", "tsp")
		require.Error(t, err)
	})
}
