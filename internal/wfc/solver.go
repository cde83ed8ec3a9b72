package wfc

import (
	"log/slog"
	"math/rand"
)

// coord is a grid cell position.
type coord struct{ x, y int }

// undoEntry records a cell's option set before it was overwritten, so a
// failed transaction can replay entries in reverse to restore state
// without a full width*height snapshot per call.
type undoEntry struct {
	at  coord
	was IndexSet
}

// SolverState is a mutable grid of per-cell option sets. It is constructed
// over a Rules value and grid dimensions, then reduced only through Fix,
// FixAtRandom, FillAtRandom, ClearErrors, and Reset.
type SolverState struct {
	Width, Height int
	Rules         *Rules

	options map[coord]IndexSet
	dirty   bool
	rng     *rand.Rand

	// Cursor and LastClick are UI-observed fields the core carries but
	// never acts on; an external shell may set them to reflect selection
	// state without the solver needing to know what they mean.
	Cursor    [2]int
	LastClick [2]int
}

// NewSolverState constructs a SolverState over (rules, width, height) with
// every cell set to rules.AllIndexes. seed drives every random choice this
// state makes, so the same seed and call sequence always reproduce the
// same result.
func NewSolverState(rules *Rules, width, height int, seed int64) *SolverState {
	s := &SolverState{
		Width:  width,
		Height: height,
		Rules:  rules,
		rng:    rand.New(rand.NewSource(seed)),
	}
	s.Reset()
	return s
}

// Reset restores every cell to rules.AllIndexes and marks the state dirty.
func (s *SolverState) Reset() {
	s.options = make(map[coord]IndexSet, s.Width*s.Height)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.options[coord{x, y}] = s.Rules.AllIndexes.Clone()
		}
	}
	s.dirty = true
}

// Get returns the current option set at (x,y), or the empty set if (x,y)
// is out of range.
func (s *SolverState) Get(x, y int) IndexSet {
	return s.options[coord{x, y}]
}

func (s *SolverState) inBounds(x, y int) bool {
	return x >= 0 && x < s.Width && y >= 0 && y < s.Height
}

// Fix attempts to assign choice at (x,y) and propagate the consequences.
// It is transactional: on success the grid reflects the assignment and
// every cascading reduction; on failure the grid is left exactly as it
// was, via an undo log replayed in reverse.
func (s *SolverState) Fix(x, y int, choice TileIndex) bool {
	var log []undoEntry
	ok := s.fix(x, y, choice, &log)
	if !ok {
		for i := len(log) - 1; i >= 0; i-- {
			s.options[log[i].at] = log[i].was
		}
		return false
	}
	s.dirty = true
	return true
}

// record overwrites the option set at c, saving the previous value in log
// for possible revert.
func (s *SolverState) record(c coord, next IndexSet, log *[]undoEntry) {
	*log = append(*log, undoEntry{at: c, was: s.options[c]})
	s.options[c] = next
}

// fix is the recursive propagation worker behind Fix. The direction loop
// iterates Up, Down, Left, Right for reproducibility. When a neighbor is
// reduced to a single option, propagation recurses into it immediately and
// the direction loop aborts without visiting the remaining directions —
// the recursive call is relied on to re-establish consistency around the
// newly fixed neighbor.
func (s *SolverState) fix(x, y int, choice TileIndex, log *[]undoEntry) bool {
	here := coord{x, y}
	s.record(here, NewIndexSet(choice), log)
	slog.Debug("wfc: fixed", "x", x, "y", y, "choice", int(choice))

	rules, err := s.Rules.GetRuleByIndex(choice)
	if err != nil {
		slog.Debug("wfc: no rule for tile", "x", x, "y", y, "choice", int(choice), "err", err)
		return false
	}

	for _, d := range AllDirections() {
		allowed, ok := rules[d]
		if !ok {
			continue
		}
		if allowed.Only(0) {
			// Wildcard: any tile permitted in this direction.
			continue
		}

		dx, dy := d.Offset()
		nx, ny := x+dx, y+dy
		if !s.inBounds(nx, ny) {
			continue
		}
		neighbor := coord{nx, ny}
		other := s.options[neighbor]
		reduced := allowed.Intersect(other)

		if reduced.IsEmpty() {
			slog.Debug("wfc: no valid options", "x", nx, "y", ny, "from_x", x, "from_y", y, "dir", d.String())
			return false
		}
		if reduced.Equals(other) {
			continue
		}

		if single, ok := reduced.Single(); ok {
			s.record(neighbor, reduced, log)
			return s.fix(nx, ny, single, log)
		}

		s.record(neighbor, reduced, log)
	}

	return true
}

// FixAtRandom picks a random member of the current option set at (x,y) and
// tries Fix with it; on failure it tries the next candidate in turn. If
// every candidate fails, it writes {ErrorTile} directly into the cell,
// bypassing propagation — the error tile is a visible marker, not a
// propagating choice, so neighboring cells are left untouched.
func (s *SolverState) FixAtRandom(x, y int) {
	candidates := s.Get(x, y).ToSlice()
	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, choice := range candidates {
		if s.Fix(x, y, choice) {
			return
		}
	}

	s.options[coord{x, y}] = NewIndexSet(s.Rules.ErrorTile)
	s.dirty = true
	slog.Debug("wfc: unsatisfiable cell", "x", x, "y", y)
}

// FillAtRandom drives the grid toward full determination: repeatedly finds
// the undetermined cell(s) with the smallest option set greater than one,
// breaks ties by uniform random choice, and fixes one via FixAtRandom.
// Terminates when every cell has an option set of size 1 — a cell that
// became {ErrorTile} counts as solved even though it isn't a real
// assignment.
func (s *SolverState) FillAtRandom() {
	for {
		target, found := s.smallestUndetermined()
		if !found {
			return
		}
		s.FixAtRandom(target.x, target.y)
	}
}

// smallestUndetermined finds a cell with the smallest option set greater
// than one, breaking ties uniformly at random.
func (s *SolverState) smallestUndetermined() (coord, bool) {
	best := -1
	var candidates []coord
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := coord{x, y}
			n := s.options[c].Len()
			if n <= 1 {
				continue
			}
			switch {
			case best == -1 || n < best:
				best = n
				candidates = candidates[:0]
				candidates = append(candidates, c)
			case n == best:
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return coord{}, false
	}
	return candidates[s.rng.Intn(len(candidates))], true
}

// ClearErrors restores every cell whose sole option is ErrorTile back to
// rules.AllIndexes.
func (s *SolverState) ClearErrors() {
	changed := false
	for c, opts := range s.options {
		if opts.Only(s.Rules.ErrorTile) {
			s.options[c] = s.Rules.AllIndexes.Clone()
			changed = true
		}
	}
	if changed {
		s.dirty = true
	}
}

// IsDirty reports whether the grid has changed since the last ClearDirty.
func (s *SolverState) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the current state as consumed by an external observer.
func (s *SolverState) ClearDirty() {
	s.dirty = false
}

// SetCursor updates the UI-observed selection cursor without affecting
// solver semantics.
func (s *SolverState) SetCursor(x, y int) {
	s.Cursor = [2]int{x, y}
}

// SetLastClick updates the UI-observed last-click coordinates without
// affecting solver semantics.
func (s *SolverState) SetLastClick(x, y int) {
	s.LastClick = [2]int{x, y}
}

// Snapshot returns the grid as a [][]TileIndex, row-major, with 0 standing
// in for any cell that isn't yet a singleton. Used to hand a solved grid to
// external diagnostics such as internal/analysis.
func (s *SolverState) Snapshot() [][]TileIndex {
	out := make([][]TileIndex, s.Height)
	for y := 0; y < s.Height; y++ {
		row := make([]TileIndex, s.Width)
		for x := 0; x < s.Width; x++ {
			if v, ok := s.options[coord{x, y}].Single(); ok {
				row[x] = v
			}
		}
		out[y] = row
	}
	return out
}
