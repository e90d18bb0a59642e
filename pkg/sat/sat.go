package sat

import (
	"fmt"
	"strings"
)

// SATSolution holds the literals of a satisfying assignment. A nil solution means unsatisfiable.
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Positive returns the variables set to true in the solution
func (solution SATSolution) Positive() []int64 {
	positive := make([]int64, 0, len(solution))
	for _, literal := range solution {
		if literal > 0 {
			positive = append(positive, literal)
		}
	}
	return positive
}
