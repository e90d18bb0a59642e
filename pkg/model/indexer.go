package model

// indexer interface is designed to give a unique index to a course-section pair and vice versa
type indexer interface {
	// Returns a unique index (starting at 1) to a course-section pair
	Index(course, section uint64) uint64
	// Returns the course-section pair from a unique index
	Attributes(index uint64) (course uint64, section uint64)
	// Returns the number of indexed pairs
	Size() uint64
}

func newIndexer(catalog Catalog) indexer {
	offsets := make([]uint64, len(catalog.Courses)+1)
	for course, entry := range catalog.Courses {
		offsets[course+1] = offsets[course] + uint64(len(entry.Sections))
	}
	return &indexerImplementation{offsets: offsets}
}
