package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/limaJavier/classscheduler/internal/config"
	"github.com/limaJavier/classscheduler/internal/engine"
	"github.com/limaJavier/classscheduler/internal/export"
	"github.com/limaJavier/classscheduler/internal/logger"
	"github.com/limaJavier/classscheduler/internal/report"
	"github.com/limaJavier/classscheduler/pkg/model"
	"github.com/limaJavier/classscheduler/pkg/sat"
)

// Exit codes follow the sat solver convention
const (
	exitConflictFree = 10 // The best schedule has no conflicts
	exitConflicting  = 20 // Every schedule found has conflicts
	exitInvalid      = 15 // A validated selection has conflicts
)

var (
	validStrategies = []string{model.StrategyFirst, model.StrategyRanked, model.StrategySat}
	validFormats    = []string{"json", "ics", "xlsx"}
)

func main() {
	// Define arguments
	configPathPtr := flag.String("config", "", "Path to a yaml config file; if empty, ./config/config.yaml or ./config.yaml is used when present")
	filePathPtr := flag.String("file", "", "Path to the catalog file")
	strategyPtr := flag.String("strategy", "", `Strategy to build the schedule. Allowed values are:
- "first" (depth-first search returning the first conflict-minimal schedule),
- "ranked" (exhaustive search returning the best -count schedules by score) and
- "sat" (conflict-free schedule through the SAT solver, falling back to "first"), where the configured search.strategy is the default`)
	solverPtr := flag.String("solver", "", fmt.Sprintf("SAT-Solver used by the sat strategy. Allowed values are: %v, where the configured sat.solver is the default", sat.Solvers()))
	countPtr := flag.Int("count", 0, "Number of schedules returned by the ranked strategy")
	excludeWeekendPtr := flag.Bool("exclude-weekend", true, "Keep weekend sections out of every schedule")
	maxExploredPtr := flag.Uint64("max-explored", 0, "Maximum tentative section commits, 0 keeps the configured budget")
	formatPtr := flag.String("format", "json", `Output format. Allowed values are "json", "ics" (best schedule as weekly recurring events) and "xlsx" (weekly grid per schedule)`)
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	validatePtr := flag.String("validate", "", "Path to a json file with a \"selections\" list to check against the catalog instead of building a schedule")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	if set["solver"] {
		cfg.Sat.Solver = strings.ToLower(*solverPtr)
	}
	strategy := cfg.Search.Strategy
	if set["strategy"] {
		strategy = strings.ToLower(*strategyPtr)
	}
	format := strings.ToLower(*formatPtr)
	filePath := *filePathPtr
	outFile := *outFilePathPtr

	// Validate arguments
	if !slices.Contains(validStrategies, strategy) {
		log.Fatalf("%v is not a valid strategy", strategy)
	} else if !slices.Contains(sat.Solvers(), cfg.Sat.Solver) {
		log.Fatalf("%v is not a valid solver", cfg.Sat.Solver)
	} else if !slices.Contains(validFormats, format) {
		log.Fatalf("%v is not a valid format", format)
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if set["count"] && (*countPtr < 1 || *countPtr > cfg.Search.MaxResultCount) {
		log.Fatalf("count must lie between 1 and %v: %v", cfg.Search.MaxResultCount, *countPtr)
	} else if format == "xlsx" && outFile == "" {
		log.Fatal("xlsx output must be written to a file")
	}

	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer zapLogger.Sync()

	// Extract input
	catalog, rawOptions, err := model.CatalogFromJson(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	// Initialize engines
	scheduler, err := engine.NewScheduler(cfg, zapLogger)
	if err != nil {
		log.Fatalf("cannot initialize scheduler: %v", err)
	}

	var output io.Writer = os.Stdout
	if outFile != "" {
		file, err := os.Create(outFile)
		if err != nil {
			log.Fatalf("an error occurred while creating the output file: %v", err)
		}
		defer file.Close()
		output = file
	}

	if *validatePtr != "" {
		os.Exit(validate(scheduler, catalog, *validatePtr, output))
	}

	// Flags take precedence over the options of the catalog file, which take precedence over the config
	options, err := rawOptions.Options(cfg.Search.DefaultResultCount, cfg.Search.MaxResultCount, cfg.Search.ExcludeWeekend)
	if err != nil {
		log.Fatalf("invalid options in input file: %v", err)
	}
	if set["exclude-weekend"] {
		options.ExcludeWeekend = *excludeWeekendPtr
	}
	if set["count"] {
		options.ResultCount = *countPtr
	}
	if set["max-explored"] {
		options.MaxExplored = *maxExploredPtr
	} else if options.MaxExplored == 0 {
		options.MaxExplored = cfg.Search.MaxExplored
	}

	// Build schedules
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := scheduler.Synthesize(ctx, strategy, catalog, options)
	if err != nil {
		log.Fatalf("an error occurred during schedule construction: %v", err)
	}
	best, found := result.Best()

	switch format {
	case "json":
		writeJson(output, report.NewSynthesis(catalog, result))
	case "ics":
		anchor, err := cfg.Export.Anchor()
		if err != nil {
			log.Fatal(err)
		}
		if err := export.WriteCalendar(output, catalog, best, export.Term{Start: anchor}); err != nil {
			log.Fatalf("an error occurred while writing the calendar: %v", err)
		}
	case "xlsx":
		if err := export.WriteWorkbook(output, catalog, result.Schedules); err != nil {
			log.Fatalf("an error occurred while writing the workbook: %v", err)
		}
	}

	zapLogger.Info("schedule built",
		zap.String("strategy", result.Strategy),
		zap.Uint64("conflicts", best.ConflictCount),
		zap.Uint64("explored", result.Explored),
		zap.Bool("truncated", result.Truncated),
	)

	zapLogger.Sync()
	if found && best.ConflictCount == 0 {
		os.Exit(exitConflictFree)
	}
	os.Exit(exitConflicting)
}

func validate(scheduler *model.Scheduler, catalog model.Catalog, selectionsFile string, output io.Writer) int {
	content, err := os.ReadFile(selectionsFile)
	if err != nil {
		log.Fatalf("cannot read selections file: %v", err)
	}
	var inputJson map[string]any
	if err := json.Unmarshal(content, &inputJson); err != nil {
		log.Fatalf("cannot parse selections file: %v", err)
	}
	selections, err := model.DecodeSelections(inputJson)
	if err != nil {
		log.Fatalf("invalid selections file: %v", err)
	}

	conflicts, err := scheduler.Validate(catalog, selections)
	if err != nil {
		log.Fatalf("cannot validate selections: %v", err)
	}

	writeJson(output, report.NewValidation(catalog, conflicts))
	if !conflicts.Empty() {
		return exitInvalid
	}
	return 0
}

func writeJson(output io.Writer, value any) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}
}
