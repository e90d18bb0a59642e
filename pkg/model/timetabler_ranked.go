package model

import "context"

// rankedTimetabler keeps the best schedules of the whole space. The sections of the first course split the space into
// independent subtrees that are explored concurrently and merged in a deterministic order.
type rankedTimetabler struct {
	weights ScoringWeights
}

func NewRankedTimetabler(weights ScoringWeights) Timetabler {
	return &rankedTimetabler{weights: weights}
}

type subtreeResult struct {
	root      uint64
	kept      []candidate
	explored  uint64
	truncated bool
}

func (timetabler *rankedTimetabler) Build(ctx context.Context, catalog Catalog, options Options) (Result, error) {
	if err := options.Validate(); err != nil {
		return Result{}, err
	}

	//** Initialize dependencies
	space, err := newSearchSpace(catalog, options)
	if err != nil {
		return Result{}, err
	}
	if unschedulable := space.unschedulable(); len(unschedulable) > 0 {
		return emptyResult(StrategyRanked, unschedulable), nil
	}
	floor, err := conflictFloor(space)
	if err != nil {
		return Result{}, err
	}
	scorer := newScorer(catalog, timetabler.weights, options)

	//** Explore every subtree on its own goroutine
	roots := space.candidates[0]
	budgets := splitBudget(searchBudget(options.MaxExplored, len(catalog.Courses)), len(roots), len(catalog.Courses))
	subtreesChannel := make(chan subtreeResult)

	for position := range budgets {
		go func(position int) {
			subtreesChannel <- timetabler.exploreSubtree(ctx, space, scorer, options.ResultCount, uint64(position), budgets[position])
		}(position)
	}

	subtrees := make([]subtreeResult, len(budgets))
	for range budgets {
		subtree := <-subtreesChannel
		subtrees[subtree.root] = subtree
	}
	close(subtreesChannel)

	//** Merge
	result := Result{
		ConflictFloor: floor,
		Strategy:      StrategyRanked,
		// Subtrees the budget could not afford are never explored
		Truncated: len(budgets) < len(roots),
	}
	merged := newTopK(options.ResultCount)
	for _, subtree := range subtrees {
		result.Explored += subtree.explored
		result.Truncated = result.Truncated || subtree.truncated
		for _, kept := range subtree.kept {
			merged.Offer(kept)
		}
	}
	drained := merged.Drain()
	result.Schedules = make([]RankedResult, 0, len(drained))
	for _, kept := range drained {
		result.Schedules = append(result.Schedules, rankedResult(catalog, scorer, options, kept))
	}

	return result, nil
}

func (timetabler *rankedTimetabler) exploreSubtree(ctx context.Context, space searchSpace, scorer scorer, capacity int, root uint64, budget uint64) subtreeResult {
	buffer := newTopK(capacity)
	walker := newWalker(ctx, space, budget)

	// The root commit counts against the subtree's budget
	assignment := NewAssignment(len(space.candidates))
	assignment[0] = space.candidates[0][root]
	walker.explored++

	sequence := uint64(0)
	walker.walk(
		assignment,
		1,
		0,
		// Once full, the buffer only takes schedules with at most as many conflicts as its worst one
		func(conflicts uint64) bool {
			return buffer.Full() && conflicts > buffer.Worst().conflicts
		},
		func(assignment Assignment, conflicts uint64) bool {
			sequence++
			quality, metrics := scorer.Quality(assignment)
			found := candidate{
				assignment: assignment,
				conflicts:  conflicts,
				quality:    quality,
				metrics:    metrics,
				order:      searchOrder{root: root, sequence: sequence},
			}
			if buffer.Admits(found) {
				found.assignment = assignment.Clone()
				buffer.Offer(found)
			}
			return true
		},
	)

	return subtreeResult{
		root:      root,
		kept:      buffer.Drain(),
		explored:  walker.explored,
		truncated: walker.truncated,
	}
}

// splitBudget shares a budget between subtrees so that the shares add up to it, handing the remainder to the first ones.
// Every share affords a full descent, so a budget too small for every subtree only funds the first ones.
// A zero budget stays unlimited for every subtree.
func splitBudget(budget uint64, subtrees int, courses int) []uint64 {
	if budget == 0 {
		return make([]uint64, subtrees)
	}
	funded := min(uint64(subtrees), max(budget/uint64(courses), 1))
	budgets := make([]uint64, funded)
	share, remainder := budget/funded, budget%funded
	for i := range budgets {
		budgets[i] = share
		if uint64(i) < remainder {
			budgets[i]++
		}
	}
	return budgets
}

func (timetabler *rankedTimetabler) Verify(catalog Catalog, selections []SelectionRequest) (ConflictReport, error) {
	return verify(catalog, selections)
}
