package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/limaJavier/classscheduler/internal/config"
	"github.com/limaJavier/classscheduler/pkg/model"
	"github.com/limaJavier/classscheduler/pkg/sat"
)

const MB float32 = 1024 * 1024

type ResultType int

const (
	conflictFree ResultType = iota
	conflicting
	failed
)

var resultTypes = map[ResultType]string{
	conflictFree: "conflict-free",
	conflicting:  "conflicting",
	failed:       "failed",
}

type CatalogMetadata struct {
	Name     string
	Courses  int
	Sections uint64
	Catalog  model.Catalog
}

type TimetablerMetadata struct {
	Strategy string
	Solver   string // Only set for the sat strategy
}

func (metadata TimetablerMetadata) String() string {
	if metadata.Solver == "" {
		return metadata.Strategy
	}
	return fmt.Sprintf("%v/%v", metadata.Strategy, metadata.Solver)
}

type BenchmarkResult struct {
	Timetabler    TimetablerMetadata
	Catalog       CatalogMetadata
	Duration      int64   // Milliseconds
	Memory        float32 // Megabytes allocated during the run
	Explored      uint64
	Truncated     bool
	Conflicts     uint64
	ConflictFloor uint64
	Score         float64
	Strategy      string // Strategy that produced the result, differs from the requested one on sat fallbacks
	Result        ResultType
}

func main() {
	configPathPtr := flag.String("config", "", "Path to a yaml config file")
	directoryPtr := flag.String("dir", "", "Directory of catalog json files to benchmark; if empty, catalogs are generated")
	generatePtr := flag.Int("generate", 5, "Number of generated catalogs")
	coursesPtr := flag.Int("courses", 8, "Courses per generated catalog")
	sectionsPtr := flag.Int("sections", 4, "Sections per course of generated catalogs")
	seedPtr := flag.Uint64("seed", 1, "Seed of the catalog generator")
	countPtr := flag.Int("count", 3, "Number of schedules requested from the ranked strategy")
	maxExploredPtr := flag.Uint64("max-explored", 0, "Maximum tentative section commits, 0 keeps the configured budget")
	outFilePathPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file with the results")
	flag.Parse()

	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	maxExplored := cfg.Search.MaxExplored
	if *maxExploredPtr != 0 {
		maxExplored = *maxExploredPtr
	}

	var catalogs []CatalogMetadata
	if *directoryPtr != "" {
		catalogs = getCatalogs(*directoryPtr)
	} else {
		rng := rand.New(rand.NewPCG(*seedPtr, *seedPtr))
		catalogs = lo.Times(*generatePtr, func(i int) CatalogMetadata {
			catalog := generateCatalog(rng, *coursesPtr, *sectionsPtr)
			return newCatalogMetadata(fmt.Sprintf("generated-%d", i+1), catalog)
		})
	}

	timetablers := getTimetablers(cfg)
	results := make([]BenchmarkResult, 0, len(catalogs)*len(timetablers))

	for _, catalog := range catalogs {
		for _, timetabler := range timetablers {
			fmt.Printf("Benchmarking catalog \"%v\" with strategy \"%v\"\n", catalog.Name, timetabler)

			options := model.Options{ResultCount: *countPtr, MaxExplored: maxExplored, ExcludeWeekend: cfg.Search.ExcludeWeekend}
			results = append(results, measure(cfg, timetabler, catalog, options))
		}
	}

	file, err := os.Create(*outFilePathPtr)
	if err != nil {
		log.Fatalf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := toCsv(file, results); err != nil {
		log.Fatalf("cannot write CSV file: %v", err)
	}
}

func getCatalogs(directory string) []CatalogMetadata {
	files, err := os.ReadDir(directory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	catalogs := make([]CatalogMetadata, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		filename := filepath.Join(directory, file.Name())
		catalog, _, err := model.CatalogFromJson(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}
		catalogs = append(catalogs, newCatalogMetadata(filename, catalog))
	}
	return catalogs
}

func newCatalogMetadata(name string, catalog model.Catalog) CatalogMetadata {
	return CatalogMetadata{
		Name:     name,
		Courses:  len(catalog.Courses),
		Sections: catalog.TotalSections(),
		Catalog:  catalog,
	}
}

// getTimetablers lists the in-process strategies plus the sat strategy for every solver found on the machine
func getTimetablers(cfg *config.Config) []TimetablerMetadata {
	timetablers := []TimetablerMetadata{{Strategy: model.StrategyFirst}, {Strategy: model.StrategyRanked}}
	for _, solver := range sat.Solvers() {
		path := cfg.Sat.Paths[solver]
		if path == "" {
			path = solver
		}
		if _, err := exec.LookPath(path); err != nil {
			continue
		}
		timetablers = append(timetablers, TimetablerMetadata{Strategy: model.StrategySat, Solver: solver})
	}
	return timetablers
}

func newTimetabler(cfg *config.Config, metadata TimetablerMetadata) (model.Timetabler, error) {
	if metadata.Strategy != model.StrategySat {
		return model.NewTimetabler(metadata.Strategy, cfg.Scoring)
	}
	solver, err := sat.NewSolver(metadata.Solver, cfg.Sat.Paths[metadata.Solver])
	if err != nil {
		return nil, err
	}
	return model.NewSatTimetabler(solver, cfg.Scoring), nil
}

func measure(cfg *config.Config, metadata TimetablerMetadata, catalog CatalogMetadata, options model.Options) BenchmarkResult {
	benchmark := BenchmarkResult{Timetabler: metadata, Catalog: catalog, Result: failed}

	timetabler, err := newTimetabler(cfg, metadata)
	if err != nil {
		log.Fatalf("cannot build timetabler \"%v\": %v", metadata, err)
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	start := time.Now()

	result, err := timetabler.Build(context.Background(), catalog.Catalog, options)

	benchmark.Duration = time.Since(start).Milliseconds()
	runtime.ReadMemStats(&after)
	benchmark.Memory = float32(after.TotalAlloc-before.TotalAlloc) / MB

	if err != nil {
		log.Printf("an error occurred at catalog \"%v\" using strategy \"%v\": %v", catalog.Name, metadata, err)
		return benchmark
	}

	best, found := result.Best()
	benchmark.Explored = result.Explored
	benchmark.Truncated = result.Truncated
	benchmark.Conflicts = best.ConflictCount
	benchmark.ConflictFloor = result.ConflictFloor
	benchmark.Score = best.Score
	benchmark.Strategy = result.Strategy
	if !found {
		benchmark.Result = failed
	} else if best.ConflictCount == 0 {
		benchmark.Result = conflictFree
	} else {
		benchmark.Result = conflicting
	}
	return benchmark
}

func toCsv(w io.Writer, results []BenchmarkResult) error {
	writer := csv.NewWriter(w)

	header := []string{"Timetabler", "Catalog", "Courses", "Sections", "Duration(ms)", "Memory(MB)", "Explored", "Truncated", "Conflicts", "Conflict Floor", "Score", "Strategy", "Result"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Timetabler.String(),
			result.Catalog.Name,
			fmt.Sprintf("%d", result.Catalog.Courses),
			fmt.Sprintf("%d", result.Catalog.Sections),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.Explored),
			fmt.Sprintf("%v", result.Truncated),
			fmt.Sprintf("%d", result.Conflicts),
			fmt.Sprintf("%d", result.ConflictFloor),
			fmt.Sprintf("%.4f", result.Score),
			result.Strategy,
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// generateCatalog draws sections meeting once or twice a week on a half-hour grid between 08:00 and 18:00
func generateCatalog(rng *rand.Rand, courses, sections int) model.Catalog {
	durations := []int{50, 80, 110, 170}

	block := func(day model.Weekday) *model.RawDayBlock {
		start := 8*60 + 30*rng.IntN(21)
		end := start + durations[rng.IntN(len(durations))]
		format := ""
		if rng.IntN(10) < 3 {
			format = model.Online.String()
		}
		return &model.RawDayBlock{
			Day:    day.String(),
			Start:  model.FormatClock(uint16(start)),
			End:    model.FormatClock(uint16(end)),
			Format: format,
		}
	}

	rawCatalog := model.RawCatalog{Program: "Benchmark", Term: "Generated"}
	for i := range courses {
		rawCourse := model.RawCourse{Course: fmt.Sprintf("COURSE %03d", i+1)}
		for j := range sections {
			// One weekend section in ten
			first := model.Weekday(rng.IntN(model.WorkingDays))
			if rng.IntN(10) == 0 {
				first = model.Saturday
			}
			rawSection := model.RawSection{Professor: fmt.Sprintf("Professor %d", j+1), Day1: block(first)}
			if rng.IntN(2) == 0 {
				second := (first + 2) % model.DaysPerWeek
				rawSection.Day2 = block(second)
			}
			rawCourse.Sections = append(rawCourse.Sections, rawSection)
		}
		rawCatalog.Courses = append(rawCatalog.Courses, rawCourse)
	}

	catalog, err := model.ProcessRawCatalog(rawCatalog)
	if err != nil {
		log.Fatalf("generated an invalid catalog: %v", err)
	}
	return catalog
}
