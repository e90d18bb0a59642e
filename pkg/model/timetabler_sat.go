package model

import (
	"context"
	"fmt"

	"github.com/limaJavier/classscheduler/pkg/sat"
	"github.com/samber/lo"
)

// satTimetabler asks a SAT solver for a conflict-free schedule and falls back to the depth-first search when there is none
type satTimetabler struct {
	solver   sat.SATSolver
	weights  ScoringWeights
	fallback Timetabler
}

func NewSatTimetabler(solver sat.SATSolver, weights ScoringWeights) Timetabler {
	return &satTimetabler{
		solver:   solver,
		weights:  weights,
		fallback: NewFirstFitTimetabler(weights),
	}
}

func (timetabler *satTimetabler) Build(ctx context.Context, catalog Catalog, options Options) (Result, error) {
	if err := options.Validate(); err != nil {
		return Result{}, err
	}

	//** Initialize dependencies
	space, err := newSearchSpace(catalog, options)
	if err != nil {
		return Result{}, err
	}
	if unschedulable := space.unschedulable(); len(unschedulable) > 0 {
		return emptyResult(StrategySat, unschedulable), nil
	}
	scorer := newScorer(catalog, timetabler.weights, options)

	//** Build SAT instance
	constraints := []func(state constraintState) [][]int64{
		completenessConstraints,
		uniquenessConstraints,
		negationConstraints,
		overlapConstraints,
	}
	state := constraintState{
		space:   space,
		indexer: space.indexer,
	}
	satInstance, explicitVariables := buildSat(space.indexer.Size(), constraints, state)

	//** Solve SAT instance
	solution, err := timetabler.solver.Solve(ctx, satInstance)
	if err != nil {
		return Result{}, fmt.Errorf("cannot solve section assignment: %w", err)
	} else if solution == nil { // Every schedule has conflicts, let the search find the fewest
		result, err := timetabler.fallback.Build(ctx, catalog, options)
		result.Strategy = StrategySat + "+" + StrategyFirst
		return result, err
	}

	// Filter solution by taking only positive and explicit variables
	solution = lo.Filter(solution, func(variable int64, _ int) bool {
		return variable > 0 && explicitVariables[variable]
	})

	assignment := NewAssignment(len(catalog.Courses))
	for _, variable := range solution {
		course, section := space.indexer.Attributes(uint64(variable))
		if assignment[course] != Unassigned {
			return Result{}, fmt.Errorf("solver assigned two sections to course %q", catalog.Courses[course].Name)
		}
		assignment[course] = section
	}
	if !assignment.Complete() {
		return Result{}, fmt.Errorf("solver left courses without a section")
	}

	conflicts := FindConflicts(catalog, assignment).Count()
	quality, metrics := scorer.Quality(assignment)
	return Result{
		Schedules: []RankedResult{rankedResult(catalog, scorer, options, candidate{
			assignment: assignment,
			conflicts:  conflicts,
			quality:    quality,
			metrics:    metrics,
		})},
		Strategy: StrategySat,
	}, nil
}

func (timetabler *satTimetabler) Verify(catalog Catalog, selections []SelectionRequest) (ConflictReport, error) {
	return verify(catalog, selections)
}
