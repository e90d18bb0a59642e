package model

import (
	"slices"
	"strings"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// conflictFloor returns a lower bound on the conflicts of any complete assignment of the space.
// Sections with identical meeting times always collide, so courses are matched to distinct meeting patterns: every course
// left out of a largest matching must share a pattern with a matched course and adds at least one conflicting pair.
func conflictFloor(space searchSpace) (uint64, error) {
	patterns := make([]string, 0)
	patternIds := make(map[string]int)
	relationships := make(map[[2]int]bool)

	for course, candidates := range space.candidates {
		for _, section := range candidates {
			pattern := meetingPattern(space.catalog.Courses[course].Sections[section])
			id, ok := patternIds[pattern]
			if !ok {
				id = len(patterns)
				patternIds[pattern] = id
				patterns = append(patterns, pattern)
			}
			relationships[[2]int{course, id}] = true
		}
	}

	// Build neighbors predicate based on relationships
	neighbors := func(courseAny any, patternAny any) (bool, error) {
		return relationships[[2]int{courseAny.(int), patternAny.(int)}], nil
	}

	// Transform courses and patterns to slices of any
	coursesAny := lo.Times(len(space.candidates), func(course int) any { return course })
	patternsAny := lo.Times(len(patterns), func(pattern int) any { return pattern })

	graph, err := bipartitegraph.NewBipartiteGraph(coursesAny, patternsAny, neighbors)
	if err != nil {
		return 0, err
	}

	matching := graph.LargestMatching()
	return uint64(len(coursesAny) - len(matching)), nil
}

// meetingPattern is a canonical key of the section's meeting times, regardless of format
func meetingPattern(section Section) string {
	keys := lo.Map(section.Slots, func(slot MeetingSlot, _ int) string {
		return Window{Day: slot.Day, Start: slot.Start, End: slot.End}.String()
	})
	slices.Sort(keys)
	return strings.Join(keys, ";")
}
