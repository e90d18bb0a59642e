package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/limaJavier/classscheduler/internal/config"
	"github.com/limaJavier/classscheduler/pkg/model"
	"github.com/limaJavier/classscheduler/pkg/sat"
)

// NewScheduler registers the first-fit, ranked and sat strategies with the configured weights and solver
func NewScheduler(cfg *config.Config, logger *zap.Logger) (*model.Scheduler, error) {
	timetablers := make(map[string]model.Timetabler)
	for _, strategy := range []string{model.StrategyFirst, model.StrategyRanked} {
		timetabler, err := model.NewTimetabler(strategy, cfg.Scoring)
		if err != nil {
			return nil, fmt.Errorf("cannot build %v timetabler: %w", strategy, err)
		}
		timetablers[strategy] = timetabler
	}

	solver, err := sat.NewSolver(cfg.Sat.Solver, cfg.Sat.Path())
	if err != nil {
		return nil, err
	}
	timetablers[model.StrategySat] = model.NewSatTimetabler(solver, cfg.Scoring)

	logger.Debug("scheduler ready",
		zap.Strings("strategies", []string{model.StrategyFirst, model.StrategyRanked, model.StrategySat}),
		zap.String("solver", cfg.Sat.Solver),
		zap.String("solver_path", cfg.Sat.Path()),
	)
	return model.NewScheduler(timetablers, logger), nil
}
