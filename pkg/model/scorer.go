package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ScoringWeights balance the soft preferences that order schedules with the same number of conflicts
type ScoringWeights struct {
	Weekend float64 `mapstructure:"weekend"`
	Idle    float64 `mapstructure:"idle"`
	DaysOff float64 `mapstructure:"days_off"`
	Online  float64 `mapstructure:"online"`
	Span    float64 `mapstructure:"span"` // Share of the score range the soft preferences may move
}

func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Weekend: 0.5,
		Idle:    0.2,
		DaysOff: 0.2,
		Online:  0.1,
		Span:    0.5,
	}
}

func (weights ScoringWeights) Validate() error {
	if weights.Weekend < 0 || weights.Idle < 0 || weights.DaysOff < 0 || weights.Online < 0 {
		return fmt.Errorf("scoring weights must not be negative: %+v", weights)
	}
	if weights.sum() == 0 {
		return fmt.Errorf("at least one scoring weight must be positive")
	}
	if weights.Span <= 0 || weights.Span >= 1 {
		return fmt.Errorf("scoring span must lie strictly between 0 and 1, got %v", weights.Span)
	}
	return nil
}

func (weights ScoringWeights) sum() float64 {
	return weights.Weekend + weights.Idle + weights.DaysOff + weights.Online
}

type Metrics struct {
	DaysOff         uint64 `json:"days_off"`         // Working days without meetings
	OnlineOnlyDays  uint64 `json:"online_only_days"` // Working days whose meetings are all online
	IdleMinutes     uint64 `json:"idle_minutes"`     // Gaps between meetings of the same day
	WeekendMeetings uint64 `json:"weekend_meetings"`
	Meetings        uint64 `json:"meetings"`
}

type scorer struct {
	catalog         Catalog
	weights         ScoringWeights
	penalizeWeekend bool
}

func newScorer(catalog Catalog, weights ScoringWeights, options Options) scorer {
	return scorer{
		catalog:         catalog,
		weights:         weights,
		penalizeWeekend: options.ExcludeWeekend && options.SoftWeekend,
	}
}

// Quality is 1 for a schedule that satisfies every soft preference and decreases towards 0 as they are violated
func (scorer scorer) Quality(assignment Assignment) (float64, Metrics) {
	metrics, span := measure(scorer.catalog, assignment)

	weekendShare, idleShare := 0.0, 0.0
	if scorer.penalizeWeekend && metrics.Meetings > 0 {
		weekendShare = float64(metrics.WeekendMeetings) / float64(metrics.Meetings)
	}
	if span > 0 {
		idleShare = float64(metrics.IdleMinutes) / float64(span)
	}
	daysOffShare := float64(metrics.DaysOff) / WorkingDays
	onlineShare := float64(metrics.OnlineOnlyDays) / WorkingDays

	penalty := scorer.weights.Weekend*weekendShare +
		scorer.weights.Idle*idleShare +
		scorer.weights.DaysOff*(1-daysOffShare) +
		scorer.weights.Online*(1-onlineShare)

	return 1 - penalty/scorer.weights.sum(), metrics
}

// Score maps conflicts and quality into (0, 1]. Every conflict costs more than the soft preferences can recover.
func (scorer scorer) Score(conflicts uint64, quality float64) float64 {
	return 1 / (1 + float64(conflicts) + scorer.weights.Span*(1-quality))
}

// measure computes the schedule metrics and the summed first-to-last meeting span of every busy day
func measure(catalog Catalog, assignment Assignment) (metrics Metrics, span uint64) {
	var days [DaysPerWeek][]MeetingSlot
	for _, selection := range assignment.Selections() {
		for _, slot := range catalog.Section(selection).Slots {
			days[slot.Day] = append(days[slot.Day], slot)
		}
	}

	for day, slots := range days {
		weekday := Weekday(day)
		metrics.Meetings += uint64(len(slots))
		if weekday.Weekend() {
			metrics.WeekendMeetings += uint64(len(slots))
		}

		if len(slots) == 0 {
			if !weekday.Weekend() {
				metrics.DaysOff++
			}
			continue
		}

		if !weekday.Weekend() && lo.EveryBy(slots, func(slot MeetingSlot) bool { return slot.Format == Online }) {
			metrics.OnlineOnlyDays++
		}

		slices.SortFunc(slots, func(a, b MeetingSlot) int { return int(a.Start) - int(b.Start) })
		daySpan, covered := dayCoverage(slots)
		span += daySpan
		metrics.IdleMinutes += daySpan - covered
	}

	return metrics, span
}

// dayCoverage returns the first-to-last span and the minutes covered by the union of the sorted slots
func dayCoverage(slots []MeetingSlot) (span, covered uint64) {
	start, end := slots[0].Start, slots[0].End
	last := end
	for _, slot := range slots[1:] {
		if slot.Start > end {
			covered += uint64(end - start)
			start, end = slot.Start, slot.End
		} else {
			end = max(end, slot.End)
		}
		last = max(last, slot.End)
	}
	covered += uint64(end - start)
	return uint64(last - slots[0].Start), covered
}
