package sat

import "context"

type cadicalSolver struct {
	path string
}

func NewCadicalSolver(path string) SATSolver {
	return &cadicalSolver{path: path}
}

func (solver *cadicalSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	satisfiable, output, err := runSolver(ctx, "cadical", dimacs, solver.path, "-q")
	if err != nil || !satisfiable {
		return nil, err
	}
	return parseSolution(output)
}
