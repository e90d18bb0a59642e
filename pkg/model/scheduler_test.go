package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestScheduler() (*Scheduler, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	weights := DefaultScoringWeights()
	scheduler := NewScheduler(map[string]Timetabler{
		StrategyFirst:  NewFirstFitTimetabler(weights),
		StrategyRanked: NewRankedTimetabler(weights),
	}, zap.New(core))
	return scheduler, logs
}

func TestScheduler(t *testing.T) {
	catalog, _ := loadReadmeCatalog(t)

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		scheduler, logs := newTestScheduler()

		//** Act
		result, err := scheduler.Synthesize(context.Background(), StrategyRanked, catalog, Options{ExcludeWeekend: true, ResultCount: 2})

		//** Assert
		require.NoError(t, err)
		assert.Len(t, result.Schedules, 2)
		assert.Equal(t, StrategyRanked, result.Strategy)
		entries := logs.FilterMessage("search finished").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("Truncation is logged", func(t *testing.T) {
		//** Arrange
		scheduler, logs := newTestScheduler()

		//** Act
		result, err := scheduler.Synthesize(context.Background(), StrategyFirst, overlappingCatalog(t, 6, 3), Options{ResultCount: 1, MaxExplored: 10})

		//** Assert
		require.NoError(t, err)
		assert.True(t, result.Truncated)
		assert.Equal(t, 1, logs.FilterMessage("search stopped before exhausting the schedule space").FilterLevelExact(zapcore.WarnLevel).Len())
	})

	t.Run("Unknown strategy", func(t *testing.T) {
		scheduler, _ := newTestScheduler()
		_, err := scheduler.Synthesize(context.Background(), StrategySat, catalog, Options{ResultCount: 1})
		assert.ErrorContains(t, err, "not available")
		var malformedErr *MalformedInputError
		require.ErrorAs(t, err, &malformedErr)
		assert.Equal(t, "strategy", malformedErr.Path)
	})

	t.Run("Validate", func(t *testing.T) {
		scheduler := NewScheduler(nil, nil)
		report, err := scheduler.Validate(catalog, []SelectionRequest{{Course: "MATH 200", Section: 1}, {Course: "CS 310"}})
		require.NoError(t, err)
		assert.True(t, report.Empty())
	})

	t.Run("Strategies", func(t *testing.T) {
		scheduler, _ := newTestScheduler()
		assert.Equal(t, []string{StrategyFirst, StrategyRanked}, scheduler.Strategies())
	})
}
