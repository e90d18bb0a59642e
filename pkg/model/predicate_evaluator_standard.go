package model

type predicateEvaluatorStandard struct {
	indexer        indexer
	overlaps       [][]bool // Overlap matrix between every pair of indexed sections
	weekend        []bool   // Weekend flag per indexed section
	excludeWeekend bool
}

func newPredicateEvaluator(catalog Catalog, indexer indexer, excludeWeekend bool) predicateEvaluator {
	size := indexer.Size()

	evaluator := predicateEvaluatorStandard{
		indexer:        indexer,
		overlaps:       make([][]bool, size),
		weekend:        make([]bool, size),
		excludeWeekend: excludeWeekend,
	}

	sections := make([]Section, 0, size)
	for _, course := range catalog.Courses {
		sections = append(sections, course.Sections...)
	}

	for i, section := range sections {
		evaluator.overlaps[i] = make([]bool, size)
		evaluator.weekend[i] = section.OnWeekend()
	}

	// The matrix is symmetric so only the upper triangle is computed
	for i := range sections {
		for j := i + 1; j < len(sections); j++ {
			if sectionsOverlap(sections[i], sections[j]) {
				evaluator.overlaps[i][j] = true
				evaluator.overlaps[j][i] = true
			}
		}
	}

	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) Overlap(course1, section1, course2, section2 uint64) bool {
	index1 := evaluator.indexer.Index(course1, section1) - 1
	index2 := evaluator.indexer.Index(course2, section2) - 1
	return evaluator.overlaps[index1][index2]
}

func (evaluator *predicateEvaluatorStandard) Weekend(course, section uint64) bool {
	return evaluator.weekend[evaluator.indexer.Index(course, section)-1]
}

func (evaluator *predicateEvaluatorStandard) Eligible(course, section uint64) bool {
	return !evaluator.excludeWeekend || !evaluator.Weekend(course, section)
}

func sectionsOverlap(section1, section2 Section) bool {
	for _, slot1 := range section1.Slots {
		for _, slot2 := range section2.Slots {
			if Overlaps(slot1, slot2) {
				return true
			}
		}
	}
	return false
}
