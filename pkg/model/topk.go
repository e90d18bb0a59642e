package model

import (
	"slices"
	"sort"
)

// searchOrder locates a complete assignment in the deterministic enumeration: the position of its first-course section, then the discovery sequence under it
type searchOrder struct {
	root     uint64
	sequence uint64
}

func (order searchOrder) before(other searchOrder) bool {
	if order.root != other.root {
		return order.root < other.root
	}
	return order.sequence < other.sequence
}

type candidate struct {
	assignment Assignment
	conflicts  uint64
	quality    float64
	metrics    Metrics
	order      searchOrder
}

// outranks orders by fewer conflicts, then higher quality, then earlier discovery
func (c candidate) outranks(other candidate) bool {
	if c.conflicts != other.conflicts {
		return c.conflicts < other.conflicts
	}
	if c.quality != other.quality {
		return c.quality > other.quality
	}
	return c.order.before(other.order)
}

// topK keeps the best candidates offered so far, best first
type topK struct {
	capacity int
	items    []candidate
}

// Buffers start this large and grow with what they keep, the requested capacity only bounds them
const topKInitialSize = 16

func newTopK(capacity int) *topK {
	return &topK{capacity: capacity, items: make([]candidate, 0, min(capacity, topKInitialSize)+1)}
}

func (buffer *topK) Len() int {
	return len(buffer.items)
}

func (buffer *topK) Full() bool {
	return len(buffer.items) >= buffer.capacity
}

func (buffer *topK) Worst() candidate {
	return buffer.items[len(buffer.items)-1]
}

func (buffer *topK) Admits(c candidate) bool {
	return !buffer.Full() || c.outranks(buffer.Worst())
}

// Offer inserts the candidate when it ranks among the best, evicting the worst one if the buffer overflows
func (buffer *topK) Offer(c candidate) bool {
	if !buffer.Admits(c) {
		return false
	}
	position := sort.Search(len(buffer.items), func(i int) bool {
		return c.outranks(buffer.items[i])
	})
	buffer.items = slices.Insert(buffer.items, position, c)
	if len(buffer.items) > buffer.capacity {
		buffer.items = buffer.items[:buffer.capacity]
	}
	return true
}

// Drain returns the kept candidates best first and empties the buffer
func (buffer *topK) Drain() []candidate {
	items := buffer.items
	buffer.items = make([]candidate, 0, min(buffer.capacity, topKInitialSize)+1)
	return items
}
