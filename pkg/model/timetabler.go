package model

import (
	"context"
	"fmt"
)

const (
	StrategyFirst  = "first"
	StrategyRanked = "ranked"
	StrategySat    = "sat"
)

type Options struct {
	ExcludeWeekend bool    // Keep weekend sections out of every schedule
	SoftWeekend    bool    // With ExcludeWeekend, penalize weekend sections instead of filtering them
	ResultCount    int     // Number of schedules to return in ranked mode
	MaxExplored    uint64  // Maximum tentative commits, 0 for unlimited
	RequireFormat  *Format // Report whether every meeting has this format
}

func (options Options) Validate() error {
	if options.ResultCount < 1 {
		return malformed("result_count", "must be at least 1, got %d", options.ResultCount)
	}
	return nil
}

type RankedResult struct {
	Assignment       Assignment     `json:"assignment"`
	Selections       []Selection    `json:"selections"`
	Conflicts        ConflictReport `json:"conflicts"`
	ConflictCount    uint64         `json:"conflict_count"`
	Score            float64        `json:"score"`
	Quality          float64        `json:"quality"`
	WeekendCompliant bool           `json:"weekend_compliant"`
	FormatCompliant  bool           `json:"format_compliant"`
	Metrics          Metrics        `json:"metrics"`
}

type Result struct {
	Schedules     []RankedResult `json:"schedules"`
	Explored      uint64         `json:"explored"`
	Truncated     bool           `json:"truncated"`
	ConflictFloor uint64         `json:"conflict_floor"`
	Strategy      string         `json:"strategy"`
	Unschedulable []string       `json:"unschedulable,omitempty"` // Courses without eligible sections
}

// Best returns the top schedule
func (result Result) Best() (RankedResult, bool) {
	if len(result.Schedules) == 0 {
		return RankedResult{}, false
	}
	return result.Schedules[0], true
}

type Timetabler interface {
	Build(ctx context.Context, catalog Catalog, options Options) (Result, error)

	Verify(catalog Catalog, selections []SelectionRequest) (ConflictReport, error)
}

// NewTimetabler builds the timetabler for a strategy name. The sat strategy needs a solver, see NewSatTimetabler.
func NewTimetabler(strategy string, weights ScoringWeights) (Timetabler, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	switch strategy {
	case StrategyFirst:
		return NewFirstFitTimetabler(weights), nil
	case StrategyRanked:
		return NewRankedTimetabler(weights), nil
	default:
		return nil, fmt.Errorf("unknown strategy \"%v\"", strategy)
	}
}
