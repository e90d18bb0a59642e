package sat

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type SATSolver interface {
	// Returns a solution of the SAT instance if satisfiable, else returns nil (both are valid outputs where error shall be nil)
	Solve(ctx context.Context, sat SAT) (SATSolution, error)
}

var constructors = map[string]func(path string) SATSolver{
	"kissat":  NewKissatSolver,
	"cadical": NewCadicalSolver,
	"minisat": NewMinisatSolver,
}

// NewSolver builds the solver registered under name. An empty path falls back to the solver's name, resolved through PATH.
func NewSolver(name, path string) (SATSolver, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown sat solver \"%v\" (available: %v)", name, Solvers())
	}
	if path == "" {
		path = name
	}
	return constructor(path), nil
}

// Solvers lists the registered solver names in alphabetical order
func Solvers() []string {
	names := lo.Keys(constructors)
	slices.Sort(names)
	return names
}
