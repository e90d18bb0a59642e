package model

import (
	"math"

	"github.com/samber/lo"
)

type Section struct {
	Id         uint64
	Course     uint64
	Instructor string
	Slots      []MeetingSlot
}

type Course struct {
	Id       uint64
	Name     string
	Sections []Section
}

// Catalog is the validated, immutable offering of a term. Course ids are positions in Courses and section ids are positions in Sections.
type Catalog struct {
	Program string
	Term    string
	Courses []Course
}

type Selection struct {
	Course  uint64 `json:"course"`
	Section uint64 `json:"section"`
}

// SelectionRequest names a section the way a student writes it down
type SelectionRequest struct {
	Course  string `json:"course" mapstructure:"course" validate:"required"`
	Section uint64 `json:"section" mapstructure:"section"`
}

// Unassigned marks a course without a chosen section
const Unassigned uint64 = math.MaxUint64

// Assignment maps each course id to the chosen section id
type Assignment []uint64

func NewAssignment(courses int) Assignment {
	assignment := make(Assignment, courses)
	for course := range assignment {
		assignment[course] = Unassigned
	}
	return assignment
}

func (assignment Assignment) Complete() bool {
	return !lo.Contains(assignment, Unassigned)
}

func (assignment Assignment) Clone() Assignment {
	clone := make(Assignment, len(assignment))
	copy(clone, assignment)
	return clone
}

func (assignment Assignment) Selections() []Selection {
	selections := make([]Selection, 0, len(assignment))
	for course, section := range assignment {
		if section != Unassigned {
			selections = append(selections, Selection{Course: uint64(course), Section: section})
		}
	}
	return selections
}

func (section Section) OnWeekend() bool {
	return lo.SomeBy(section.Slots, func(slot MeetingSlot) bool {
		return slot.Day.Weekend()
	})
}

// DeliveredAs reports whether every meeting of the section has the given format
func (section Section) DeliveredAs(format Format) bool {
	return lo.EveryBy(section.Slots, func(slot MeetingSlot) bool {
		return slot.Format == format
	})
}

func (catalog Catalog) CourseByName(name string) (Course, bool) {
	return lo.Find(catalog.Courses, func(course Course) bool {
		return course.Name == name
	})
}

func (catalog Catalog) Section(selection Selection) Section {
	return catalog.Courses[selection.Course].Sections[selection.Section]
}

// SelectionRequests renders the assigned sections with course names, in course order
func (catalog Catalog) SelectionRequests(assignment Assignment) []SelectionRequest {
	return lo.Map(assignment.Selections(), func(selection Selection, _ int) SelectionRequest {
		return SelectionRequest{Course: catalog.Courses[selection.Course].Name, Section: selection.Section}
	})
}

func (catalog Catalog) TotalSections() uint64 {
	return lo.SumBy(catalog.Courses, func(course Course) uint64 {
		return uint64(len(course.Sections))
	})
}
