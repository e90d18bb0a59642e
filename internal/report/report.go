package report

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/limaJavier/classscheduler/pkg/model"
)

// Entry is one chosen section in the shape clients submit sections in
type Entry struct {
	Course    string             `json:"course"`
	Section   uint64             `json:"section"`
	Professor string             `json:"professor"`
	Day1      *model.MeetingSlot `json:"day1,omitempty"`
	Day2      *model.MeetingSlot `json:"day2,omitempty"`
}

type Conflict struct {
	FirstCourse   string         `json:"first_course"`
	FirstSection  uint64         `json:"first_section"`
	SecondCourse  string         `json:"second_course"`
	SecondSection uint64         `json:"second_section"`
	Windows       []model.Window `json:"windows"`
}

type Ranked struct {
	Schedules        []Entry       `json:"schedules"`
	ConflictCount    uint64        `json:"conflict_count"`
	Conflicts        []Conflict    `json:"conflicts"`
	Score            float64       `json:"score"`
	Quality          float64       `json:"quality"`
	WeekendCompliant bool          `json:"weekend_compliant"`
	FormatCompliant  bool          `json:"format_compliant"`
	Metrics          model.Metrics `json:"metrics"`
}

// Synthesis repeats the best schedule at the top level next to the full ranking
type Synthesis struct {
	Result        string   `json:"result"`
	Schedules     []Entry  `json:"schedules"`
	ConflictCount uint64   `json:"conflict_count"`
	Score         float64  `json:"score"`
	Truncated     bool     `json:"truncated"`
	Explored      uint64   `json:"explored"`
	ConflictFloor uint64   `json:"conflict_floor"`
	Strategy      string   `json:"strategy"`
	Unschedulable []string `json:"unschedulable,omitempty"`
	Ranked        []Ranked `json:"ranked"`
}

type Validation struct {
	ConflictCount uint64     `json:"conflict_count"`
	Conflicts     []Conflict `json:"conflicts"`
	Valid         bool       `json:"valid"`
}

func NewSynthesis(catalog model.Catalog, result model.Result) Synthesis {
	ranked := lo.Map(result.Schedules, func(schedule model.RankedResult, _ int) Ranked {
		return NewRanked(catalog, schedule)
	})

	synthesis := Synthesis{
		Schedules:     make([]Entry, 0),
		Truncated:     result.Truncated,
		Explored:      result.Explored,
		ConflictFloor: result.ConflictFloor,
		Strategy:      result.Strategy,
		Unschedulable: result.Unschedulable,
		Ranked:        ranked,
	}
	switch {
	case len(result.Unschedulable) > 0:
		synthesis.Result = fmt.Sprintf("No valid schedule found (no eligible sections for: %v)", strings.Join(result.Unschedulable, ", "))
	case len(ranked) == 0:
		synthesis.Result = "No valid schedule found within the time limit."
	default:
		best := ranked[0]
		synthesis.Result = fmt.Sprintf(
			"Optimal Schedule (Weekday days off: %d, Online-only days: %d)",
			best.Metrics.DaysOff,
			best.Metrics.OnlineOnlyDays,
		)
		synthesis.Schedules = best.Schedules
		synthesis.ConflictCount = best.ConflictCount
		synthesis.Score = best.Score
	}
	return synthesis
}

func NewRanked(catalog model.Catalog, schedule model.RankedResult) Ranked {
	return Ranked{
		Schedules: lo.Map(schedule.Selections, func(selection model.Selection, _ int) Entry {
			return NewEntry(catalog, selection)
		}),
		ConflictCount:    schedule.ConflictCount,
		Conflicts:        NewConflicts(catalog, schedule.Conflicts),
		Score:            schedule.Score,
		Quality:          schedule.Quality,
		WeekendCompliant: schedule.WeekendCompliant,
		FormatCompliant:  schedule.FormatCompliant,
		Metrics:          schedule.Metrics,
	}
}

func NewEntry(catalog model.Catalog, selection model.Selection) Entry {
	section := catalog.Section(selection)
	entry := Entry{
		Course:    catalog.Courses[selection.Course].Name,
		Section:   selection.Section,
		Professor: section.Instructor,
	}
	if len(section.Slots) > 0 {
		entry.Day1 = &section.Slots[0]
	}
	if len(section.Slots) > 1 {
		entry.Day2 = &section.Slots[1]
	}
	return entry
}

func NewConflicts(catalog model.Catalog, report model.ConflictReport) []Conflict {
	return lo.Map(report.Conflicts, func(conflict model.Conflict, _ int) Conflict {
		return Conflict{
			FirstCourse:   catalog.Courses[conflict.First.Course].Name,
			FirstSection:  conflict.First.Section,
			SecondCourse:  catalog.Courses[conflict.Second.Course].Name,
			SecondSection: conflict.Second.Section,
			Windows:       conflict.Windows,
		}
	})
}

func NewValidation(catalog model.Catalog, report model.ConflictReport) Validation {
	return Validation{
		ConflictCount: report.Count(),
		Conflicts:     NewConflicts(catalog, report),
		Valid:         report.Empty(),
	}
}
