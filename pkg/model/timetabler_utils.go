package model

import (
	"fmt"

	"github.com/limaJavier/classscheduler/pkg/sat"
)

func verify(catalog Catalog, selections []SelectionRequest) (ConflictReport, error) {
	assignment := NewAssignment(len(catalog.Courses))

	for i, selection := range selections {
		course, ok := catalog.CourseByName(selection.Course)
		if !ok {
			return ConflictReport{}, &UnknownSelectionError{
				Course:  selection.Course,
				Section: selection.Section,
				Reason:  "course is not in the catalog",
			}
		}
		if selection.Section >= uint64(len(course.Sections)) {
			return ConflictReport{}, &UnknownSelectionError{
				Course:  selection.Course,
				Section: selection.Section,
				Reason:  fmt.Sprintf("course offers %d sections", len(course.Sections)),
			}
		}
		if assignment[course.Id] != Unassigned {
			return ConflictReport{}, malformed(fmt.Sprintf("selections[%d].course", i), "course %q is selected more than once", selection.Course)
		}
		assignment[course.Id] = selection.Section
	}

	return FindConflicts(catalog, assignment), nil
}

// searchBudget never lets a budget starve the first descent, so every search yields at least one schedule
func searchBudget(maxExplored uint64, courses int) uint64 {
	if maxExplored == 0 {
		return 0
	}
	return max(maxExplored, uint64(courses))
}

func rankedResult(catalog Catalog, scorer scorer, options Options, candidate candidate) RankedResult {
	conflicts := FindConflicts(catalog, candidate.assignment)
	result := RankedResult{
		Assignment:       candidate.assignment,
		Selections:       candidate.assignment.Selections(),
		Conflicts:        conflicts,
		ConflictCount:    conflicts.Count(),
		Score:            scorer.Score(candidate.conflicts, candidate.quality),
		Quality:          candidate.quality,
		WeekendCompliant: !options.ExcludeWeekend || candidate.metrics.WeekendMeetings == 0,
		FormatCompliant:  true,
		Metrics:          candidate.metrics,
	}
	if options.RequireFormat != nil {
		for _, selection := range result.Selections {
			if !catalog.Section(selection).DeliveredAs(*options.RequireFormat) {
				result.FormatCompliant = false
				break
			}
		}
	}
	return result
}

func buildSat(variables uint64, constraints []func(state constraintState) [][]int64, state constraintState) (satInstance sat.SAT, explicitVariables map[int64]bool) {
	satInstance = sat.SAT{
		Variables: variables,
		Clauses:   [][]int64{},
	}

	type generated struct {
		position int
		clauses  [][]int64
	}

	explicitVariables = make(map[int64]bool)         // Variables that are explicitly stated in the clauses
	constraintsChannel := make(chan generated)       // Channel to collect constraints
	collected := make([][][]int64, len(constraints)) // Clauses per constraint function, kept in declaration order

	// Execute constraints functions on different goroutines to improve performance
	for position, constraint := range constraints {
		go func(position int, constraint func(state constraintState) [][]int64) {
			constraintsChannel <- generated{position: position, clauses: constraint(state)}
		}(position, constraint)
	}

	// Collect generated constraints
	for range constraints {
		result := <-constraintsChannel
		collected[result.position] = result.clauses
	}
	close(constraintsChannel)

	for _, clauses := range collected {
		for _, clause := range clauses {
			for _, variable := range clause {
				// Check whether the variable is positive, since required explicit variables ought to be positive
				if variable > 0 {
					explicitVariables[variable] = true
				}
			}
		}
		// Append clauses to the SAT instance
		satInstance.Clauses = append(satInstance.Clauses, clauses...)
	}

	return satInstance, explicitVariables
}
