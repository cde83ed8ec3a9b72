package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lawnchairsociety/wfctiles/internal/analysis"
	"github.com/lawnchairsociety/wfctiles/internal/wfc"
)

func TestAnalyzeSingleRegion(t *testing.T) {
	grid := [][]wfc.TileIndex{
		{1, 1, 2},
		{1, 2, 2},
		{3, 3, 2},
	}

	report := analysis.Analyze(grid)

	assert.Equal(t, 1, report.Count(1), "tile 1 should form a single contiguous region")
	assert.Equal(t, 1, report.Count(3), "tile 3 should form a single contiguous region")

	largest, ok := report.LargestRegion()
	assert.True(t, ok, "expected a largest region to be found")
	assert.Equal(t, wfc.TileIndex(2), largest.TileIndex, "tile 2 occupies the most cells")
	assert.Len(t, largest.Cells, 4)
}

func TestAnalyzeDisjointRegionsOfSameTile(t *testing.T) {
	grid := [][]wfc.TileIndex{
		{1, 2, 1},
		{2, 2, 2},
		{1, 2, 1},
	}

	report := analysis.Analyze(grid)

	// Tile 1 appears at all four corners, none orthogonally adjacent to
	// another, so it should form four separate single-cell regions.
	assert.Equal(t, 4, report.Count(1))
	assert.Equal(t, 1, report.Count(2))
}

func TestAnalyzeExcludesUndeterminedCells(t *testing.T) {
	grid := [][]wfc.TileIndex{
		{0, 0},
		{0, 0},
	}

	report := analysis.Analyze(grid)

	assert.Empty(t, report.Regions, "undetermined cells (index 0) should not form any region")
}

func TestAnalyzeEmptyGrid(t *testing.T) {
	report := analysis.Analyze(nil)
	assert.Empty(t, report.Regions)

	_, ok := report.LargestRegion()
	assert.False(t, ok, "an empty report has no largest region")
}
