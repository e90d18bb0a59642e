package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/classscheduler/pkg/model"
)

func testCatalog() model.Catalog {
	return model.Catalog{
		Courses: []model.Course{
			{Id: 0, Name: "CS 101", Sections: []model.Section{
				{Id: 0, Course: 0, Instructor: "Dr. A", Slots: []model.MeetingSlot{
					{Day: model.Monday, Start: 540, End: 620},
					{Day: model.Wednesday, Start: 540, End: 620, Format: model.Online},
				}},
			}},
			{Id: 1, Name: "MATH 200", Sections: []model.Section{
				{Id: 0, Course: 1, Instructor: "Dr. B", Slots: []model.MeetingSlot{
					{Day: model.Monday, Start: 600, End: 650},
				}},
			}},
		},
	}
}

func TestNewSynthesis(t *testing.T) {
	catalog := testCatalog()

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		conflicts := model.FindConflicts(catalog, model.Assignment{0, 0})
		result := model.Result{
			Schedules: []model.RankedResult{{
				Selections:    []model.Selection{{Course: 0, Section: 0}, {Course: 1, Section: 0}},
				Conflicts:     conflicts,
				ConflictCount: conflicts.Count(),
				Score:         0.4,
				Metrics:       model.Metrics{DaysOff: 3, OnlineOnlyDays: 1},
			}},
			Explored: 2,
			Strategy: model.StrategyFirst,
		}

		//** Act
		synthesis := NewSynthesis(catalog, result)

		//** Assert
		assert.Equal(t, "Optimal Schedule (Weekday days off: 3, Online-only days: 1)", synthesis.Result)
		assert.Equal(t, uint64(1), synthesis.ConflictCount)
		assert.Equal(t, 0.4, synthesis.Score)
		assert.Equal(t, model.StrategyFirst, synthesis.Strategy)
		require.Len(t, synthesis.Schedules, 2)
		assert.Equal(t, "CS 101", synthesis.Schedules[0].Course)
		assert.Equal(t, "Dr. A", synthesis.Schedules[0].Professor)
		require.NotNil(t, synthesis.Schedules[0].Day2)
		assert.Equal(t, model.Online, synthesis.Schedules[0].Day2.Format)
		assert.Nil(t, synthesis.Schedules[1].Day2)
		require.Len(t, synthesis.Ranked, 1)
		require.Len(t, synthesis.Ranked[0].Conflicts, 1)
		assert.Equal(t, "MATH 200", synthesis.Ranked[0].Conflicts[0].SecondCourse)
		assert.Equal(t, []model.Window{{Day: model.Monday, Start: 600, End: 620}}, synthesis.Ranked[0].Conflicts[0].Windows)
	})

	t.Run("Empty result", func(t *testing.T) {
		//** Act
		synthesis := NewSynthesis(catalog, model.Result{Truncated: true})

		//** Assert
		assert.Equal(t, "No valid schedule found within the time limit.", synthesis.Result)
		assert.Empty(t, synthesis.Ranked)
		assert.NotNil(t, synthesis.Schedules)
		assert.True(t, synthesis.Truncated)
	})

	t.Run("Unschedulable courses", func(t *testing.T) {
		//** Act
		synthesis := NewSynthesis(catalog, model.Result{Unschedulable: []string{"CS 101"}})

		//** Assert
		assert.Equal(t, "No valid schedule found (no eligible sections for: CS 101)", synthesis.Result)
		assert.Equal(t, []string{"CS 101"}, synthesis.Unschedulable)
		assert.Empty(t, synthesis.Schedules)
	})
}

func TestNewValidation(t *testing.T) {
	catalog := testCatalog()

	//** Act
	clash := NewValidation(catalog, model.FindConflicts(catalog, model.Assignment{0, 0}))
	alone := NewValidation(catalog, model.FindConflicts(catalog, model.Assignment{0, model.Unassigned}))

	//** Assert
	assert.False(t, clash.Valid)
	assert.Equal(t, uint64(1), clash.ConflictCount)
	assert.Equal(t, "CS 101", clash.Conflicts[0].FirstCourse)
	assert.True(t, alone.Valid)
	assert.Empty(t, alone.Conflicts)
}
