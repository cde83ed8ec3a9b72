// Package analysis reports connectivity diagnostics over a solved grid: for
// each tile index, the contiguous regions it forms. It is a standalone,
// testable version of the live connectivity preview the original rule
// simulator offered implicitly while editing rules.
package analysis

import (
	"github.com/katalvlaran/lvlath/gridgraph"

	"github.com/lawnchairsociety/wfctiles/internal/wfc"
)

// Region is one contiguous block of same-index cells.
type Region struct {
	TileIndex wfc.TileIndex
	Cells     []Cell
}

// Cell is a single grid coordinate within a Region.
type Cell struct {
	X, Y int
}

// Report groups every region found in a solved grid by its tile index.
type Report struct {
	Regions map[wfc.TileIndex][]Region
}

// Analyze converts a SolverState snapshot into a connectivity report. Cells
// still undetermined (TileIndex 0 in the snapshot) are excluded from every
// region, since they aren't land — gridgraph's LandThreshold is set to 1 so
// only real tile indices participate.
func Analyze(grid [][]wfc.TileIndex) Report {
	values := make([][]int, len(grid))
	for y, row := range grid {
		values[y] = make([]int, len(row))
		for x, idx := range row {
			values[y][x] = int(idx)
		}
	}

	report := Report{Regions: make(map[wfc.TileIndex][]Region)}
	if len(values) == 0 || len(values[0]) == 0 {
		return report
	}

	gg, err := gridgraph.NewGridGraph(values, gridgraph.DefaultGridOptions())
	if err != nil {
		// A non-rectangular grid can't happen from SolverState.Snapshot,
		// which always produces Width-length rows; treat it as empty
		// rather than propagating an error no caller can act on.
		return report
	}

	for value, components := range gg.ConnectedComponents() {
		idx := wfc.TileIndex(value)
		for _, comp := range components {
			region := Region{TileIndex: idx, Cells: make([]Cell, len(comp))}
			for i, c := range comp {
				region.Cells[i] = Cell{X: c.X, Y: c.Y}
			}
			report.Regions[idx] = append(report.Regions[idx], region)
		}
	}

	return report
}

// LargestRegion returns the biggest region of any tile index in the report,
// or false if the report is empty.
func (r Report) LargestRegion() (Region, bool) {
	var best Region
	found := false
	for _, regions := range r.Regions {
		for _, region := range regions {
			if !found || len(region.Cells) > len(best.Cells) {
				best = region
				found = true
			}
		}
	}
	return best, found
}

// Count returns the number of regions reported for a tile index.
func (r Report) Count(idx wfc.TileIndex) int {
	return len(r.Regions[idx])
}
