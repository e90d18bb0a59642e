package model

// Conflict is a pair of chosen sections of different courses whose meetings intersect. First belongs to the course that comes earlier in the catalog.
type Conflict struct {
	First   Selection `json:"first"`
	Second  Selection `json:"second"`
	Windows []Window  `json:"windows"`
}

type ConflictReport struct {
	Conflicts []Conflict `json:"conflicts"`
}

// Count is the number of conflicting course pairs
func (report ConflictReport) Count() uint64 {
	return uint64(len(report.Conflicts))
}

func (report ConflictReport) Empty() bool {
	return len(report.Conflicts) == 0
}

// FindConflicts lists every conflicting pair of the assigned courses ordered by (first, second). Unassigned courses are skipped.
func FindConflicts(catalog Catalog, assignment Assignment) ConflictReport {
	report := ConflictReport{Conflicts: make([]Conflict, 0)}
	for first := range assignment {
		if assignment[first] == Unassigned {
			continue
		}
		for second := first + 1; second < len(assignment); second++ {
			if assignment[second] == Unassigned {
				continue
			}
			firstSelection := Selection{Course: uint64(first), Section: assignment[first]}
			secondSelection := Selection{Course: uint64(second), Section: assignment[second]}
			windows := overlapWindows(catalog.Section(firstSelection), catalog.Section(secondSelection))
			if len(windows) > 0 {
				report.Conflicts = append(report.Conflicts, Conflict{
					First:   firstSelection,
					Second:  secondSelection,
					Windows: windows,
				})
			}
		}
	}
	return report
}

// countConflictsWith counts the committed courses before course that overlap its assigned section
func countConflictsWith(evaluator predicateEvaluator, assignment Assignment, course uint64) uint64 {
	conflicts := uint64(0)
	section := assignment[course]
	for previous := uint64(0); previous < course; previous++ {
		if assignment[previous] != Unassigned && evaluator.Overlap(previous, assignment[previous], course, section) {
			conflicts++
		}
	}
	return conflicts
}

func overlapWindows(section1, section2 Section) []Window {
	windows := make([]Window, 0)
	for _, slot1 := range section1.Slots {
		for _, slot2 := range section2.Slots {
			if window, ok := OverlapWindow(slot1, slot2); ok {
				windows = append(windows, window)
			}
		}
	}
	return windows
}
