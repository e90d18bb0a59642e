package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/limaJavier/classscheduler/pkg/model"
	"github.com/limaJavier/classscheduler/pkg/sat"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig         `mapstructure:"server"`
	Log     LogConfig            `mapstructure:"log"`
	Search  SearchConfig         `mapstructure:"search"`
	Scoring model.ScoringWeights `mapstructure:"scoring"`
	Sat     SatConfig            `mapstructure:"sat"`
	Store   StoreConfig          `mapstructure:"store"`
	Export  ExportConfig         `mapstructure:"export"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SearchConfig struct {
	MaxExplored        uint64 `mapstructure:"max_explored"`
	DefaultResultCount int    `mapstructure:"default_result_count"`
	MaxResultCount     int    `mapstructure:"max_result_count"` // Largest result_count a request may ask for
	Strategy           string `mapstructure:"strategy"` // Strategy of the single-schedule endpoint
	ExcludeWeekend     bool   `mapstructure:"exclude_weekend"`
}

type SatConfig struct {
	Solver string            `mapstructure:"solver"`
	Paths  map[string]string `mapstructure:"paths"`
}

// Path returns the executable configured for the selected solver
func (c SatConfig) Path() string {
	return c.Paths[c.Solver]
}

type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

type ExportConfig struct {
	TermStart string `mapstructure:"term_start"` // First day of the term, YYYY-MM-DD
	Timezone  string `mapstructure:"timezone"`
}

// Anchor returns the term start in the configured timezone
func (c ExportConfig) Anchor() (time.Time, error) {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid export.timezone %q: %w", c.Timezone, err)
	}
	anchor, err := time.ParseInLocation(time.DateOnly, c.TermStart, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid export.term_start %q: %w", c.TermStart, err)
	}
	return anchor, nil
}

// Load reads defaults, then the config file, then SCHEDULER_* environment variables, later sources winning
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("search.max_explored", 200000)
	v.SetDefault("search.default_result_count", 3)
	v.SetDefault("search.max_result_count", 20)
	v.SetDefault("search.strategy", model.StrategyFirst)
	v.SetDefault("search.exclude_weekend", true)

	defaults := model.DefaultScoringWeights()
	v.SetDefault("scoring.weekend", defaults.Weekend)
	v.SetDefault("scoring.idle", defaults.Idle)
	v.SetDefault("scoring.days_off", defaults.DaysOff)
	v.SetDefault("scoring.online", defaults.Online)
	v.SetDefault("scoring.span", defaults.Span)

	v.SetDefault("sat.solver", "kissat")
	v.SetDefault("sat.paths.kissat", "kissat")
	v.SetDefault("sat.paths.cadical", "cadical")
	v.SetDefault("sat.paths.minisat", "minisat")

	v.SetDefault("store.dsn", "scheduler.db")

	v.SetDefault("export.term_start", "2025-09-01")
	v.SetDefault("export.timezone", "UTC")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SCHEDULER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Without a config file only defaults and environment apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must lie between 1 and 65535")
	}
	if c.Search.DefaultResultCount < 1 {
		return fmt.Errorf("invalid config: search.default_result_count must be at least 1")
	}
	if c.Search.MaxResultCount < c.Search.DefaultResultCount {
		return fmt.Errorf("invalid config: search.max_result_count must be at least search.default_result_count")
	}
	if !lo.Contains([]string{model.StrategyFirst, model.StrategyRanked, model.StrategySat}, c.Search.Strategy) {
		return fmt.Errorf("invalid config: unknown search.strategy %q", c.Search.Strategy)
	}
	if !lo.Contains(sat.Solvers(), c.Sat.Solver) {
		return fmt.Errorf("invalid config: unknown sat.solver %q (available: %v)", c.Sat.Solver, sat.Solvers())
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Export.Anchor(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
