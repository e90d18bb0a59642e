package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConflicts(t *testing.T) {
	catalog, _, err := CatalogFromJson(readmeCatalogFile)
	require.NoError(t, err)

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		assignment := Assignment{0, 0, 0, 1, 1}

		//** Act
		report := FindConflicts(catalog, assignment)

		//** Assert
		// MATH 200/0 collides with ENG 150/1 and PHYS 210/1, CS 310 with CS 330, ENG 150/1 with PHYS 210/1
		require.Equal(t, uint64(4), report.Count())
		assert.Equal(t, []Selection{{Course: 0, Section: 0}, {Course: 0, Section: 0}, {Course: 1, Section: 0}, {Course: 3, Section: 1}}, firsts(report))
		assert.Equal(t, []Selection{{Course: 3, Section: 1}, {Course: 4, Section: 1}, {Course: 2, Section: 0}, {Course: 4, Section: 1}}, seconds(report))
		assert.Equal(t, []Window{
			{Day: Monday, Start: 570, End: 620},
			{Day: Wednesday, Start: 570, End: 620},
		}, report.Conflicts[0].Windows)
	})

	t.Run("Unassigned courses are skipped", func(t *testing.T) {
		//** Arrange
		assignment := NewAssignment(len(catalog.Courses))
		assignment[1], assignment[2] = 0, 0

		//** Act
		report := FindConflicts(catalog, assignment)

		//** Assert
		assert.Equal(t, uint64(1), report.Count())
	})

	t.Run("Conflict-free assignment", func(t *testing.T) {
		report := FindConflicts(catalog, Assignment{0, 0, 1, 0, 0})
		assert.True(t, report.Empty())
		assert.NotNil(t, report.Conflicts)
	})

	t.Run("Incremental count matches the full scan", func(t *testing.T) {
		//** Arrange
		indexer := newIndexer(catalog)
		evaluator := newPredicateEvaluator(catalog, indexer, false)
		assignment := Assignment{0, 0, 0, 1, 1}

		//** Act
		total := uint64(0)
		for course := range assignment {
			total += countConflictsWith(evaluator, assignment, uint64(course))
		}

		//** Assert
		assert.Equal(t, FindConflicts(catalog, assignment).Count(), total)
	})
}

func firsts(report ConflictReport) []Selection {
	selections := make([]Selection, 0, len(report.Conflicts))
	for _, conflict := range report.Conflicts {
		selections = append(selections, conflict.First)
	}
	return selections
}

func seconds(report ConflictReport) []Selection {
	selections := make([]Selection, 0, len(report.Conflicts))
	for _, conflict := range report.Conflicts {
		selections = append(selections, conflict.Second)
	}
	return selections
}
