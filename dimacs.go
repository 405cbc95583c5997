package qcollapse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CNF is a formula read from DIMACS input.
type CNF struct {
	Variables int
	Clauses   [][]int
}

/*
ReadDIMACS parses a DIMACS CNF stream: "c" comment lines, one "p cnf <vars>
<clauses>" header, then whitespace separated literals where 0 ends a clause.
Clauses may span lines. A trailing clause without its 0 is accepted.
*/
func ReadDIMACS(r io.Reader) (*CNF, error) {
	scanner := bufio.NewScanner(r)
	cnf := &CNF{}
	header := false
	declared := 0
	var clause []int

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == 'c' || text[0] == '%' {
			continue
		}

		if text[0] == 'p' {
			fields := strings.Fields(text)
			if len(fields) != 4 || fields[1] != "cnf" {
				return nil, fmt.Errorf("line %d: bad header %q: %w", line, text, ErrEncoding)
			}
			vars, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrEncoding)
			}
			count, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrEncoding)
			}
			if vars < 0 {
				return nil, fmt.Errorf("line %d: %d variables: %w", line, vars, ErrDimension)
			}
			if count < 0 {
				return nil, fmt.Errorf("line %d: %d clauses: %w", line, count, ErrEncoding)
			}
			cnf.Variables, declared, header = vars, count, true
			continue
		}

		if !header {
			return nil, fmt.Errorf("line %d: clause before header: %w", line, ErrEncoding)
		}

		for _, field := range strings.Fields(text) {
			lit, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: literal %q: %w", line, field, ErrEncoding)
			}
			if lit == 0 {
				cnf.Clauses = append(cnf.Clauses, clause)
				clause = nil
				continue
			}
			if lit > cnf.Variables || -lit > cnf.Variables {
				return nil, fmt.Errorf("line %d: literal %d with %d variables: %w", line, lit, cnf.Variables, ErrVariableRange)
			}
			clause = append(clause, lit)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !header {
		return nil, fmt.Errorf("missing p cnf header: %w", ErrEncoding)
	}
	if len(clause) > 0 {
		cnf.Clauses = append(cnf.Clauses, clause)
	}
	if declared != len(cnf.Clauses) {
		return nil, fmt.Errorf("header declares %d clauses, found %d: %w", declared, len(cnf.Clauses), ErrEncoding)
	}

	return cnf, nil
}

// Encode hands the formula to EncodeSAT.
func (cnf *CNF) Encode() (*SymbolicState, error) {
	return EncodeSAT(cnf.Variables, cnf.Clauses)
}
