package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexer(t *testing.T) {
	catalog, _, err := CatalogFromJson(readmeCatalogFile)
	require.NoError(t, err)
	indexer := newIndexer(catalog)

	t.Run("Correct flow", func(t *testing.T) {
		assert.Equal(t, catalog.TotalSections(), indexer.Size())

		expected := uint64(1)
		for course, entry := range catalog.Courses {
			for section := range entry.Sections {
				index := indexer.Index(uint64(course), uint64(section))
				assert.Equal(t, expected, index)

				derivedCourse, derivedSection := indexer.Attributes(index)
				assert.Equal(t, uint64(course), derivedCourse)
				assert.Equal(t, uint64(section), derivedSection)
				expected++
			}
		}
	})
}
