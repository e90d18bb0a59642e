package model

type constraintState struct {
	space   searchSpace
	indexer indexer
}

// Every course takes at least one of its eligible sections
func completenessConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0, len(state.space.candidates))
	for course, candidates := range state.space.candidates {
		clause := make([]int64, 0, len(candidates))
		for _, section := range candidates {
			clause = append(clause, int64(state.indexer.Index(uint64(course), section)))
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// No course takes two sections
func uniquenessConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for course, candidates := range state.space.candidates {
		for i := range len(candidates) - 1 {
			for j := i + 1; j < len(candidates); j++ {
				x1 := int64(state.indexer.Index(uint64(course), candidates[i]))
				x2 := int64(state.indexer.Index(uint64(course), candidates[j]))
				clauses = append(clauses, []int64{-x1, -x2})
			}
		}
	}
	return clauses
}

// Sections left out of the candidates (weekend ones when they are excluded) are never taken
func negationConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for course, entry := range state.space.catalog.Courses {
		for _, section := range entry.Sections {
			if !state.space.evaluator.Eligible(uint64(course), section.Id) {
				clauses = append(clauses, []int64{-int64(state.indexer.Index(uint64(course), section.Id))})
			}
		}
	}
	return clauses
}

// Overlapping sections of different courses are never taken together
func overlapConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	candidates := state.space.candidates
	for course1 := range len(candidates) - 1 {
		for course2 := course1 + 1; course2 < len(candidates); course2++ {
			for _, section1 := range candidates[course1] {
				for _, section2 := range candidates[course2] {
					if state.space.evaluator.Overlap(uint64(course1), section1, uint64(course2), section2) {
						x1 := int64(state.indexer.Index(uint64(course1), section1))
						x2 := int64(state.indexer.Index(uint64(course2), section2))
						clauses = append(clauses, []int64{-x1, -x2})
					}
				}
			}
		}
	}
	return clauses
}
