package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"testing"

	"github.com/limaJavier/classscheduler/pkg/sat"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readmeExpectation struct {
	Expected struct {
		First struct {
			Assignment    []uint64        `json:"assignment"`
			ConflictCount uint64          `json:"conflict_count"`
			Conflicts     json.RawMessage `json:"conflicts"`
		} `json:"first"`
		Ranked [][]uint64 `json:"ranked"`
	} `json:"expected"`
}

func loadReadmeCatalog(t *testing.T) (Catalog, readmeExpectation) {
	catalog, _, err := CatalogFromJson(readmeCatalogFile)
	require.NoError(t, err)

	bytes, err := os.ReadFile(readmeCatalogFile)
	require.NoError(t, err)
	var expectation readmeExpectation
	require.NoError(t, json.Unmarshal(bytes, &expectation))

	return catalog, expectation
}

func TestReadmeCatalog(t *testing.T) {
	catalog, expectation := loadReadmeCatalog(t)
	weights := DefaultScoringWeights()

	t.Run("Single schedule without weekends", func(t *testing.T) {
		//** Arrange
		timetabler := NewFirstFitTimetabler(weights)

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ExcludeWeekend: true, ResultCount: 1})

		//** Assert
		require.NoError(t, err)
		require.Len(t, result.Schedules, 1)
		best := result.Schedules[0]
		assert.Equal(t, Assignment(expectation.Expected.First.Assignment), best.Assignment)
		assert.Equal(t, expectation.Expected.First.ConflictCount, best.ConflictCount)
		assert.True(t, best.WeekendCompliant)
		assert.Zero(t, best.Metrics.WeekendMeetings)
		assert.False(t, result.Truncated)

		conflicts, err := json.Marshal(best.Conflicts.Conflicts)
		require.NoError(t, err)
		assert.JSONEq(t, string(expectation.Expected.First.Conflicts), string(conflicts))
	})

	t.Run("Single schedule with weekends", func(t *testing.T) {
		//** Arrange
		timetabler := NewFirstFitTimetabler(weights)

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 1})

		//** Assert
		require.NoError(t, err)
		best, ok := result.Best()
		require.True(t, ok)
		assert.Equal(t, Assignment{0, 0, 1, 0, 0}, best.Assignment)
		assert.Zero(t, best.ConflictCount)
		assert.Equal(t, uint64(2), best.Metrics.WeekendMeetings)
		assert.True(t, best.WeekendCompliant)
		assert.InDelta(t, 1/(1+0.5*(1-best.Quality)), best.Score, 1e-9)
	})

	t.Run("Ranked schedules without weekends", func(t *testing.T) {
		//** Arrange
		timetabler := NewRankedTimetabler(weights)

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ExcludeWeekend: true, ResultCount: 3})

		//** Assert
		require.NoError(t, err)
		require.Len(t, result.Schedules, 3)
		for i, schedule := range result.Schedules {
			assert.Equal(t, Assignment(expectation.Expected.Ranked[i]), schedule.Assignment)
			assert.Equal(t, uint64(1), schedule.ConflictCount)
			assert.True(t, schedule.WeekendCompliant)
		}
		assertRanked(t, result.Schedules)
	})
}

func TestFirstFitTimetabler(t *testing.T) {
	timetabler := NewFirstFitTimetabler(DefaultScoringWeights())

	t.Run("Single course with a single section", func(t *testing.T) {
		//** Arrange
		catalog := mustCatalog(t, RawCatalog{Courses: []RawCourse{
			{Course: "A", Sections: []RawSection{{Day1: block("Sa", "09:00", "10:00")}}},
		}})

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 1})

		//** Assert
		require.NoError(t, err)
		require.Len(t, result.Schedules, 1)
		assert.Equal(t, Assignment{0}, result.Schedules[0].Assignment)
		assert.Equal(t, uint64(1), result.Explored)
	})

	t.Run("Unavoidable conflicts", func(t *testing.T) {
		//** Arrange
		catalog := mustCatalog(t, RawCatalog{Courses: []RawCourse{
			{Course: "A", Sections: []RawSection{{Day1: block("Mo", "09:00", "10:00")}}},
			{Course: "B", Sections: []RawSection{{Day1: block("Mo", "09:00", "10:00")}}},
			{Course: "C", Sections: []RawSection{{Day1: block("Mo", "09:30", "10:30")}, {Day1: block("Mo", "09:00", "10:00")}}},
		}})

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 1})

		//** Assert
		require.NoError(t, err)
		best, _ := result.Best()
		assert.Equal(t, uint64(1), result.ConflictFloor)
		assert.Equal(t, uint64(3), best.ConflictCount)
		assert.Equal(t, Assignment{0, 0, 0}, best.Assignment)
	})

	t.Run("Weekend-only course", func(t *testing.T) {
		//** Arrange
		catalog := mustCatalog(t, RawCatalog{Courses: []RawCourse{
			{Course: "A", Sections: []RawSection{{Day1: block("Mo", "09:00", "10:00")}}},
			{Course: "B", Sections: []RawSection{{Day1: block("Sa", "09:00", "10:00")}, {Day1: block("Su", "09:00", "10:00")}}},
		}})

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ExcludeWeekend: true, ResultCount: 1})

		//** Assert
		require.NoError(t, err)
		assert.Empty(t, result.Schedules)
		assert.Equal(t, []string{"B"}, result.Unschedulable)
		assert.Equal(t, StrategyFirst, result.Strategy)
	})

	t.Run("Empty catalog", func(t *testing.T) {
		_, err := timetabler.Build(context.Background(), Catalog{}, Options{ResultCount: 1})
		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("Invalid result count", func(t *testing.T) {
		catalog, _ := loadReadmeCatalog(t)
		_, err := timetabler.Build(context.Background(), catalog, Options{})
		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("Budget", func(t *testing.T) {
		//** Arrange
		catalog := overlappingCatalog(t, 8, 4)

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 1, MaxExplored: 20})

		//** Assert
		require.NoError(t, err)
		assert.True(t, result.Truncated)
		assert.Equal(t, uint64(20), result.Explored)
		require.Len(t, result.Schedules, 1)
		assert.True(t, result.Schedules[0].Assignment.Complete())
		assert.Equal(t, uint64(28), result.Schedules[0].ConflictCount)
		assert.Equal(t, uint64(4), result.ConflictFloor)
	})
}

func TestRankedTimetabler(t *testing.T) {
	weights := DefaultScoringWeights()
	timetabler := NewRankedTimetabler(weights)

	t.Run("Matches an exhaustive ranking", func(t *testing.T) {
		for seed := int64(1); seed <= 6; seed++ {
			//** Arrange
			catalog := generateCatalog(t, seed, 5, 3)
			options := Options{ResultCount: 4}

			//** Act
			result, err := timetabler.Build(context.Background(), catalog, options)

			//** Assert
			require.NoError(t, err)
			assert.False(t, result.Truncated)
			expected := exhaustiveRanking(t, catalog, weights, options)
			actual := lo.Map(result.Schedules, func(schedule RankedResult, _ int) Assignment { return schedule.Assignment })
			assert.Equal(t, expected, actual, fmt.Sprintf("seed %d", seed))
			assertRanked(t, result.Schedules)

			for _, schedule := range result.Schedules {
				assert.Equal(t, FindConflicts(catalog, schedule.Assignment).Count(), schedule.ConflictCount)
				assert.True(t, schedule.Score > 0 && schedule.Score <= 1)
			}
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		//** Arrange
		catalog := generateCatalog(t, 42, 7, 3)
		options := Options{ResultCount: 5, MaxExplored: 500}

		//** Act
		first, err := timetabler.Build(context.Background(), catalog, options)
		require.NoError(t, err)
		second, err := timetabler.Build(context.Background(), catalog, options)
		require.NoError(t, err)

		//** Assert
		assert.Equal(t, first, second)
	})

	t.Run("Fewer schedules than requested", func(t *testing.T) {
		//** Arrange
		catalog := mustCatalog(t, RawCatalog{Courses: []RawCourse{
			{Course: "A", Sections: []RawSection{{Day1: block("Mo", "09:00", "10:00")}, {Day1: block("Tu", "09:00", "10:00")}}},
		}})

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 5})

		//** Assert
		require.NoError(t, err)
		assert.Len(t, result.Schedules, 2)
	})

	t.Run("Soft weekend penalty", func(t *testing.T) {
		//** Arrange
		catalog := mustCatalog(t, RawCatalog{Courses: []RawCourse{
			{Course: "A", Sections: []RawSection{{Day1: block("Sa", "09:00", "10:00")}, {Day1: block("Mo", "09:00", "10:00")}}},
		}})

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 2, ExcludeWeekend: true, SoftWeekend: true})

		//** Assert
		require.NoError(t, err)
		require.Len(t, result.Schedules, 2)
		assert.Equal(t, Assignment{1}, result.Schedules[0].Assignment)
		assert.True(t, result.Schedules[0].WeekendCompliant)
		assert.False(t, result.Schedules[1].WeekendCompliant)
	})

	t.Run("Format compliance", func(t *testing.T) {
		//** Arrange
		catalog := mustCatalog(t, RawCatalog{Courses: []RawCourse{
			{Course: "A", Sections: []RawSection{
				{Day1: block("Mo", "09:00", "10:00", "online")},
				{Day1: block("Tu", "09:00", "10:00", "in-person")},
			}},
		}})
		online := Online

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 2, RequireFormat: &online})

		//** Assert
		require.NoError(t, err)
		compliance := lo.SliceToMap(result.Schedules, func(schedule RankedResult) (uint64, bool) {
			return schedule.Assignment[0], schedule.FormatCompliant
		})
		assert.Equal(t, map[uint64]bool{0: true, 1: false}, compliance)
	})

	t.Run("Huge result count", func(t *testing.T) {
		//** Arrange
		catalog := mustCatalog(t, RawCatalog{Courses: []RawCourse{
			{Course: "A", Sections: []RawSection{{Day1: block("Mo", "09:00", "10:00")}}},
		}})

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 1 << 50})

		//** Assert
		require.NoError(t, err)
		require.Len(t, result.Schedules, 1)
		assert.Equal(t, Assignment{0}, result.Schedules[0].Assignment)
	})

	t.Run("Weekend-only course", func(t *testing.T) {
		//** Arrange
		catalog := mustCatalog(t, RawCatalog{Courses: []RawCourse{
			{Course: "A", Sections: []RawSection{{Day1: block("Sa", "09:00", "10:00")}}},
			{Course: "B", Sections: []RawSection{{Day1: block("Mo", "09:00", "10:00")}}},
		}})

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ExcludeWeekend: true, ResultCount: 3})

		//** Assert
		require.NoError(t, err)
		assert.Empty(t, result.Schedules)
		assert.Equal(t, []string{"A"}, result.Unschedulable)
		assert.Zero(t, result.Explored)
	})

	t.Run("Budget is shared between subtrees", func(t *testing.T) {
		//** Arrange
		catalog := overlappingCatalog(t, 3, 20)

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 2, MaxExplored: 5})

		//** Assert
		require.NoError(t, err)
		assert.True(t, result.Truncated)
		assert.LessOrEqual(t, result.Explored, uint64(5))
		assert.NotEmpty(t, result.Schedules)
	})

	t.Run("Cancellation", func(t *testing.T) {
		//** Arrange
		catalog := disjointCatalog(t, 7, 3)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		//** Act
		result, err := timetabler.Build(ctx, catalog, Options{ResultCount: 2})

		//** Assert
		require.NoError(t, err)
		assert.True(t, result.Truncated)
		assert.Len(t, result.Schedules, 2)
	})
}

func TestSatTimetabler(t *testing.T) {
	catalog, expectation := loadReadmeCatalog(t)
	weights := DefaultScoringWeights()

	t.Run("Conflict-free schedule", func(t *testing.T) {
		//** Arrange
		solver := &bruteForceSolver{}
		timetabler := NewSatTimetabler(solver, weights)

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 1})

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, StrategySat, result.Strategy)
		best, ok := result.Best()
		require.True(t, ok)
		assert.True(t, best.Assignment.Complete())
		assert.Zero(t, best.ConflictCount)
		assert.Equal(t, catalog.TotalSections(), solver.instance.Variables)
	})

	t.Run("Unsatisfiable falls back to search", func(t *testing.T) {
		//** Arrange
		timetabler := NewSatTimetabler(&bruteForceSolver{}, weights)

		//** Act
		result, err := timetabler.Build(context.Background(), catalog, Options{ExcludeWeekend: true, ResultCount: 1})

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, StrategySat+"+"+StrategyFirst, result.Strategy)
		best, _ := result.Best()
		assert.Equal(t, Assignment(expectation.Expected.First.Assignment), best.Assignment)
		assert.Equal(t, uint64(1), best.ConflictCount)
	})

	t.Run("Solver failure", func(t *testing.T) {
		//** Arrange
		failure := errors.New("solver crashed")
		timetabler := NewSatTimetabler(&bruteForceSolver{err: failure}, weights)

		//** Act
		_, err := timetabler.Build(context.Background(), catalog, Options{ResultCount: 1})

		//** Assert
		assert.ErrorIs(t, err, failure)
	})
}

func TestSplitBudget(t *testing.T) {
	t.Run("Correct flow", func(t *testing.T) {
		//** Act
		budgets := splitBudget(20, 3, 4)

		//** Assert
		assert.Equal(t, []uint64{7, 7, 6}, budgets)
	})

	t.Run("Shares never exceed the budget", func(t *testing.T) {
		//** Act
		budgets := splitBudget(10, 20, 3)

		//** Assert
		assert.Equal(t, []uint64{4, 3, 3}, budgets)
		assert.Equal(t, uint64(10), lo.Sum(budgets))
	})

	t.Run("Unlimited", func(t *testing.T) {
		assert.Equal(t, []uint64{0, 0}, splitBudget(0, 2, 5))
	})
}

func TestVerify(t *testing.T) {
	catalog, _ := loadReadmeCatalog(t)
	timetabler := NewRankedTimetabler(DefaultScoringWeights())

	t.Run("Round trip", func(t *testing.T) {
		//** Arrange
		result, err := timetabler.Build(context.Background(), catalog, Options{ExcludeWeekend: true, ResultCount: 3})
		require.NoError(t, err)

		for _, schedule := range result.Schedules {
			//** Act
			report, err := timetabler.Verify(catalog, catalog.SelectionRequests(schedule.Assignment))

			//** Assert
			require.NoError(t, err)
			assert.Equal(t, schedule.Conflicts, report)
		}
	})

	t.Run("Unknown course", func(t *testing.T) {
		_, err := timetabler.Verify(catalog, []SelectionRequest{{Course: "BIO 101", Section: 0}})
		var unknownErr *UnknownSelectionError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, "BIO 101", unknownErr.Course)
		assert.ErrorIs(t, err, ErrUnknownSelection)
	})

	t.Run("Section out of range", func(t *testing.T) {
		_, err := timetabler.Verify(catalog, []SelectionRequest{{Course: "CS 310", Section: 1}})
		assert.ErrorIs(t, err, ErrUnknownSelection)
	})

	t.Run("Course selected twice", func(t *testing.T) {
		_, err := timetabler.Verify(catalog, []SelectionRequest{{Course: "CS 310"}, {Course: "CS 310"}})
		var malformedErr *MalformedInputError
		require.ErrorAs(t, err, &malformedErr)
		assert.Equal(t, "selections[1].course", malformedErr.Path)
	})

	t.Run("Partial schedule", func(t *testing.T) {
		report, err := timetabler.Verify(catalog, []SelectionRequest{{Course: "CS 330"}, {Course: "CS 310"}})
		require.NoError(t, err)
		require.Equal(t, uint64(1), report.Count())
		assert.Equal(t, Selection{Course: 1, Section: 0}, report.Conflicts[0].First)
	})
}

func TestNewTimetabler(t *testing.T) {
	t.Run("Correct flow", func(t *testing.T) {
		for _, strategy := range []string{StrategyFirst, StrategyRanked} {
			timetabler, err := NewTimetabler(strategy, DefaultScoringWeights())
			assert.NoError(t, err)
			assert.NotNil(t, timetabler)
		}
	})

	t.Run("Unknown strategy", func(t *testing.T) {
		_, err := NewTimetabler("greedy", DefaultScoringWeights())
		assert.Error(t, err)
	})

	t.Run("Invalid weights", func(t *testing.T) {
		weights := DefaultScoringWeights()
		weights.Span = 1
		_, err := NewTimetabler(StrategyFirst, weights)
		assert.Error(t, err)
	})
}

func assertRanked(t *testing.T, schedules []RankedResult) {
	for i := 1; i < len(schedules); i++ {
		previous, current := schedules[i-1], schedules[i]
		assert.LessOrEqual(t, previous.ConflictCount, current.ConflictCount)
		assert.GreaterOrEqual(t, previous.Score, current.Score)
	}
}

func mustCatalog(t *testing.T, raw RawCatalog) Catalog {
	catalog, err := ProcessRawCatalog(raw)
	require.NoError(t, err)
	return catalog
}

// generateCatalog builds a reproducible catalog with random meetings between Monday and Saturday
func generateCatalog(t *testing.T, seed int64, courses, sections int) Catalog {
	random := rand.New(rand.NewSource(seed))
	formats := []string{"in-person", "online"}

	raw := RawCatalog{}
	for course := range courses {
		rawCourse := RawCourse{Course: fmt.Sprintf("C%d", course)}
		for range sections {
			day1 := random.Intn(6)
			start := uint16(480 + 30*random.Intn(16))
			end := start + uint16(50+30*random.Intn(2))
			section := RawSection{
				Professor: fmt.Sprintf("P%d", random.Intn(4)),
				Day1:      block(dayCodes[day1], FormatClock(start), FormatClock(end), formats[random.Intn(2)]),
			}
			if day2 := random.Intn(6); day2 != day1 {
				section.Day2 = block(dayCodes[day2], FormatClock(start), FormatClock(end), formats[random.Intn(2)])
			}
			rawCourse.Sections = append(rawCourse.Sections, section)
		}
		raw.Courses = append(raw.Courses, rawCourse)
	}

	return mustCatalog(t, raw)
}

// disjointCatalog gives every course its own day so no assignment has conflicts and nothing gets pruned
func disjointCatalog(t *testing.T, courses, sections int) Catalog {
	raw := RawCatalog{}
	for course := range courses {
		rawCourse := RawCourse{Course: fmt.Sprintf("C%d", course)}
		for section := range sections {
			start := uint16(420 + 60*section)
			rawCourse.Sections = append(rawCourse.Sections, RawSection{
				Day1: block(dayCodes[course%DaysPerWeek], FormatClock(start), FormatClock(start+50)),
			})
		}
		raw.Courses = append(raw.Courses, rawCourse)
	}
	return mustCatalog(t, raw)
}

// overlappingCatalog puts every section on Monday morning, ten minutes apart, so every pair of courses collides
func overlappingCatalog(t *testing.T, courses, sections int) Catalog {
	raw := RawCatalog{}
	for course := range courses {
		rawCourse := RawCourse{Course: fmt.Sprintf("C%d", course)}
		for section := range sections {
			start := uint16(540 + 10*section)
			rawCourse.Sections = append(rawCourse.Sections, RawSection{
				Day1: block("Mo", FormatClock(start), FormatClock(start+60)),
			})
		}
		raw.Courses = append(raw.Courses, rawCourse)
	}
	return mustCatalog(t, raw)
}

// exhaustiveRanking scores every complete assignment and keeps the best ones
func exhaustiveRanking(t *testing.T, catalog Catalog, weights ScoringWeights, options Options) []Assignment {
	space, err := newSearchSpace(catalog, options)
	require.NoError(t, err)
	scorer := newScorer(catalog, weights, options)

	all := make([]candidate, 0)
	assignment := NewAssignment(len(catalog.Courses))
	var enumerate func(course int)
	enumerate = func(course int) {
		if course == len(catalog.Courses) {
			quality, _ := scorer.Quality(assignment)
			all = append(all, candidate{
				assignment: assignment.Clone(),
				conflicts:  FindConflicts(catalog, assignment).Count(),
				quality:    quality,
				order:      searchOrder{sequence: uint64(len(all))},
			})
			return
		}
		for _, section := range space.candidates[course] {
			assignment[course] = section
			enumerate(course + 1)
		}
	}
	enumerate(0)

	slices.SortFunc(all, func(a, b candidate) int {
		if a.outranks(b) {
			return -1
		} else if b.outranks(a) {
			return 1
		}
		return 0
	})
	return lo.Map(all[:min(options.ResultCount, len(all))], func(c candidate, _ int) Assignment { return c.assignment })
}

// bruteForceSolver tries every truth assignment, which is enough for catalogs of a handful of sections
type bruteForceSolver struct {
	err      error
	instance sat.SAT
}

func (solver *bruteForceSolver) Solve(_ context.Context, instance sat.SAT) (sat.SATSolution, error) {
	solver.instance = instance
	if solver.err != nil {
		return nil, solver.err
	}

	for mask := uint64(0); mask < 1<<instance.Variables; mask++ {
		value := func(literal int64) bool {
			variable := uint64(max(literal, -literal)) - 1
			return ((mask>>variable)&1 == 1) == (literal > 0)
		}
		if lo.EveryBy(instance.Clauses, func(clause []int64) bool { return lo.SomeBy(clause, value) }) {
			return lo.Times(int(instance.Variables), func(i int) int64 {
				if (mask>>i)&1 == 1 {
					return int64(i + 1)
				}
				return -int64(i + 1)
			}), nil
		}
	}
	return nil, nil
}
