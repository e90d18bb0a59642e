package model

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// Cancellation is polled once every this many commits
const cancellationStride = 1024

// searchSpace holds what every strategy derives from a catalog before exploring it
type searchSpace struct {
	catalog    Catalog
	indexer    indexer
	evaluator  predicateEvaluator
	candidates [][]uint64 // Eligible sections per course in catalog order
}

// unschedulable names the courses left without eligible sections, no complete assignment exists while any is left
func (space searchSpace) unschedulable() []string {
	courses := make([]string, 0)
	for i, candidates := range space.candidates {
		if len(candidates) == 0 {
			courses = append(courses, space.catalog.Courses[i].Name)
		}
	}
	return courses
}

// emptyResult is the answer of every strategy when some course cannot take any section
func emptyResult(strategy string, unschedulable []string) Result {
	return Result{
		Schedules:     make([]RankedResult, 0),
		Strategy:      strategy,
		Unschedulable: unschedulable,
	}
}

func newSearchSpace(catalog Catalog, options Options) (searchSpace, error) {
	if len(catalog.Courses) == 0 {
		return searchSpace{}, malformed("courses", "must have at least 1 entries")
	}

	indexer := newIndexer(catalog)
	evaluator := newPredicateEvaluator(catalog, indexer, options.ExcludeWeekend && !options.SoftWeekend)

	candidates := make([][]uint64, len(catalog.Courses))
	for i, course := range catalog.Courses {
		candidates[i] = lo.FilterMap(course.Sections, func(section Section, _ int) (uint64, bool) {
			return section.Id, evaluator.Eligible(course.Id, section.Id)
		})
		if len(course.Sections) == 0 {
			return searchSpace{}, malformed(fmt.Sprintf("courses[%d].sections", i), "must have at least 1 entries")
		}
	}

	return searchSpace{
		catalog:    catalog,
		indexer:    indexer,
		evaluator:  evaluator,
		candidates: candidates,
	}, nil
}

type frame struct {
	course uint64
	next   int // Position in the course's candidates to try next
}

// walker enumerates complete assignments depth-first over course order with an explicit stack
type walker struct {
	ctx       context.Context
	space     searchSpace
	budget    uint64 // Maximum tentative commits, 0 for unlimited
	explored  uint64
	truncated bool
}

func newWalker(ctx context.Context, space searchSpace, budget uint64) *walker {
	return &walker{ctx: ctx, space: space, budget: budget}
}

// walk explores every completion of assignment, whose courses before from are already committed and contribute base conflicts.
// prune reports whether a partial assignment with the given conflicts can be abandoned, and complete receives every complete
// assignment (owned by the walker, clone it to keep it) and reports whether the walk should go on.
// walk returns false when it stopped before exhausting the space.
func (walker *walker) walk(
	assignment Assignment,
	from uint64,
	base uint64,
	prune func(conflicts uint64) bool,
	complete func(assignment Assignment, conflicts uint64) bool,
) bool {
	courses := uint64(len(walker.space.candidates))
	if from >= courses {
		return complete(assignment, base)
	}

	// partial[d] holds the conflicts of the assignment once the course at stack depth d is committed
	partial := make([]uint64, 0, courses-from)
	stack := make([]frame, 0, courses-from)
	stack = append(stack, frame{course: from})

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		candidates := walker.space.candidates[top.course]

		// Exhausted course: backtrack
		if top.next >= len(candidates) {
			assignment[top.course] = Unassigned
			if len(partial) == len(stack) {
				partial = partial[:len(partial)-1]
			}
			stack = stack[:len(stack)-1]
			continue
		}

		if walker.budget > 0 && walker.explored >= walker.budget {
			walker.truncated = true
			return false
		}
		if walker.explored > 0 && walker.explored%cancellationStride == 0 && walker.ctx.Err() != nil {
			walker.truncated = true
			return false
		}

		// Replace the section committed by the previous iteration at this depth
		if len(partial) == len(stack) {
			partial = partial[:len(partial)-1]
		}

		previous := base
		if len(partial) > 0 {
			previous = partial[len(partial)-1]
		}

		assignment[top.course] = candidates[top.next]
		top.next++
		walker.explored++

		conflicts := previous + countConflictsWith(walker.space.evaluator, assignment, top.course)
		if prune(conflicts) {
			assignment[top.course] = Unassigned
			continue
		}
		partial = append(partial, conflicts)

		if top.course+1 == courses {
			if !complete(assignment, conflicts) {
				return false
			}
			continue
		}

		stack = append(stack, frame{course: top.course + 1})
	}

	return true
}
