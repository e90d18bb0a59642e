package sat

import "context"

type kissatSolver struct {
	path string
}

func NewKissatSolver(path string) SATSolver {
	return &kissatSolver{path: path}
}

func (solver *kissatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	satisfiable, output, err := runSolver(ctx, "kissat", dimacs, solver.path, "-q", "--relaxed")
	if err != nil || !satisfiable {
		return nil, err
	}
	return parseSolution(output)
}
