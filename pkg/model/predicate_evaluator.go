package model

type predicateEvaluator interface {
	// Checks whether some meeting of section1 (of course1) and some meeting of section2 (of course2) share a day and intersect
	Overlap(course1, section1, course2, section2 uint64) bool

	// Checks whether the section meets on Saturday or Sunday
	Weekend(course, section uint64) bool

	// Checks whether the section may be chosen under the search options
	Eligible(course, section uint64) bool
}
