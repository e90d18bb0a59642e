package sat

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type minisatSolver struct {
	path string
}

func NewMinisatSolver(path string) SATSolver {
	return &minisatSolver{path: path}
}

func (solver *minisatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	// Minisat writes the model to a file instead of its standard output
	outputTempFile, err := os.CreateTemp("", "minisat_output-*.cnf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %v", err)
	}
	outputTempFile.Close()
	defer os.Remove(outputTempFile.Name()) // Ensure the file is removed after execution

	satisfiable, _, err := runSolver(ctx, "minisat", dimacs, solver.path, "-verb=0", "/dev/stdin", outputTempFile.Name())
	if err != nil || !satisfiable {
		return nil, err
	}

	output, err := os.ReadFile(outputTempFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %v", err)
	}
	return solver.parseSolution(string(output))
}

// parseSolution reads minisat's result file: a "SAT" header followed by the literals line
func (solver *minisatSolver) parseSolution(solverOutput string) (SATSolution, error) {
	lines := strings.Split(solverOutput, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "SAT" {
		return nil, fmt.Errorf("unexpected minisat output: %q", solverOutput)
	}
	return parseLiterals(strings.Fields(lines[1]))
}
