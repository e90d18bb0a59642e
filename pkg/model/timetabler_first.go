package model

import (
	"context"
	"math"
)

// firstFitTimetabler returns the first minimum-conflict schedule in depth-first order
type firstFitTimetabler struct {
	weights ScoringWeights
}

func NewFirstFitTimetabler(weights ScoringWeights) Timetabler {
	return &firstFitTimetabler{weights: weights}
}

func (timetabler *firstFitTimetabler) Build(ctx context.Context, catalog Catalog, options Options) (Result, error) {
	if err := options.Validate(); err != nil {
		return Result{}, err
	}

	//** Initialize dependencies
	space, err := newSearchSpace(catalog, options)
	if err != nil {
		return Result{}, err
	}
	if unschedulable := space.unschedulable(); len(unschedulable) > 0 {
		return emptyResult(StrategyFirst, unschedulable), nil
	}
	floor, err := conflictFloor(space)
	if err != nil {
		return Result{}, err
	}
	scorer := newScorer(catalog, timetabler.weights, options)
	walker := newWalker(ctx, space, searchBudget(options.MaxExplored, len(catalog.Courses)))

	//** Search
	var best Assignment
	bestConflicts := uint64(math.MaxUint64)
	walker.walk(
		NewAssignment(len(catalog.Courses)),
		0,
		0,
		// Only a strict improvement can replace the incumbent
		func(conflicts uint64) bool {
			return conflicts >= bestConflicts
		},
		func(assignment Assignment, conflicts uint64) bool {
			best, bestConflicts = assignment.Clone(), conflicts
			return conflicts > floor
		},
	)

	result := Result{
		Schedules:     make([]RankedResult, 0, 1),
		Explored:      walker.explored,
		Truncated:     walker.truncated,
		ConflictFloor: floor,
		Strategy:      StrategyFirst,
	}
	if best != nil {
		quality, metrics := scorer.Quality(best)
		result.Schedules = append(result.Schedules, rankedResult(catalog, scorer, options, candidate{
			assignment: best,
			conflicts:  bestConflicts,
			quality:    quality,
			metrics:    metrics,
		}))
	}
	return result, nil
}

func (timetabler *firstFitTimetabler) Verify(catalog Catalog, selections []SelectionRequest) (ConflictReport, error) {
	return verify(catalog, selections)
}
