package model

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler picks a timetabler by strategy name and runs requests through it
type Scheduler struct {
	timetablers map[string]Timetabler
	logger      *zap.Logger
}

func NewScheduler(timetablers map[string]Timetabler, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{timetablers: timetablers, logger: logger}
}

func (scheduler *Scheduler) Strategies() []string {
	strategies := make([]string, 0, len(scheduler.timetablers))
	for _, strategy := range []string{StrategyFirst, StrategyRanked, StrategySat} {
		if _, ok := scheduler.timetablers[strategy]; ok {
			strategies = append(strategies, strategy)
		}
	}
	return strategies
}

func (scheduler *Scheduler) Synthesize(ctx context.Context, strategy string, catalog Catalog, options Options) (Result, error) {
	timetabler, ok := scheduler.timetablers[strategy]
	if !ok {
		return Result{}, malformed("strategy", "strategy \"%v\" is not available (available: %v)", strategy, scheduler.Strategies())
	}

	start := time.Now()
	result, err := timetabler.Build(ctx, catalog, options)
	if err != nil {
		return Result{}, err
	}

	fields := []zap.Field{
		zap.String("strategy", result.Strategy),
		zap.Int("courses", len(catalog.Courses)),
		zap.Uint64("explored", result.Explored),
		zap.Uint64("conflict_floor", result.ConflictFloor),
		zap.Int("schedules", len(result.Schedules)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if best, ok := result.Best(); ok {
		fields = append(fields, zap.Uint64("conflicts", best.ConflictCount), zap.Float64("score", best.Score))
	}
	if result.Truncated {
		scheduler.logger.Warn("search stopped before exhausting the schedule space", fields...)
	} else {
		scheduler.logger.Debug("search finished", fields...)
	}

	return result, nil
}

// Validate checks a hand-made schedule against the catalog
func (scheduler *Scheduler) Validate(catalog Catalog, selections []SelectionRequest) (ConflictReport, error) {
	report, err := verify(catalog, selections)
	if err != nil {
		return ConflictReport{}, err
	}
	scheduler.logger.Debug("schedule validated", zap.Int("selections", len(selections)), zap.Uint64("conflicts", report.Count()))
	return report, nil
}
