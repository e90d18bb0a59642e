package model

import "sort"

type indexerImplementation struct {
	offsets []uint64 // offsets[i] is the number of sections offered by the courses before course i
}

func (indexer *indexerImplementation) Index(course, section uint64) uint64 {
	return indexer.offsets[course] + section + 1
}

func (indexer *indexerImplementation) Attributes(index uint64) (course, section uint64) {
	index = index - 1
	// First course whose range ends after the index
	course = uint64(sort.Search(len(indexer.offsets)-1, func(i int) bool {
		return indexer.offsets[i+1] > index
	}))
	return course, index - indexer.offsets[course]
}

func (indexer *indexerImplementation) Size() uint64 {
	return indexer.offsets[len(indexer.offsets)-1]
}
