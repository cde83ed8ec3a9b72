package wfc

import (
	"fmt"
	"image"
)

// edgeSide identifies one of the four pixel strips extracted from a tile.
type edgeSide byte

const (
	sideTop edgeSide = iota
	sideBottom
	sideLeft
	sideRight
)

// strip is a sequence of RGBA tuples extracted from one edge of a tile,
// comparable with ==  once converted to a string key.
type strip string

// InferRules builds a Rules value from a TileSet by comparing pixel edges:
// two tiles may touch on an edge iff their corresponding pixel strips are
// bitwise identical. The resulting rules are symmetric by construction.
func InferRules(ts *TileSet) (*Rules, error) {
	if ts.Count() == 0 {
		return nil, fmt.Errorf("%w: tileset has no tiles", ErrInvalidDocument)
	}

	// Index every tile's four strips, then group indexes by (side, strip).
	stripGroups := make(map[edgeSide]map[strip][]TileIndex, 4)
	for _, side := range []edgeSide{sideTop, sideBottom, sideLeft, sideRight} {
		stripGroups[side] = make(map[strip][]TileIndex)
	}

	tileStrips := make(map[TileIndex][4]strip, ts.Count())
	for _, idx := range ts.Indexes() {
		img, err := ts.GetTileByIndex(idx)
		if err != nil {
			return nil, err
		}
		top := extractStrip(img, sideTop)
		bottom := extractStrip(img, sideBottom)
		left := extractStrip(img, sideLeft)
		right := extractStrip(img, sideRight)
		tileStrips[idx] = [4]strip{top, bottom, left, right}

		stripGroups[sideTop][top] = append(stripGroups[sideTop][top], idx)
		stripGroups[sideBottom][bottom] = append(stripGroups[sideBottom][bottom], idx)
		stripGroups[sideLeft][left] = append(stripGroups[sideLeft][left], idx)
		stripGroups[sideRight][right] = append(stripGroups[sideRight][right], idx)
	}

	r := &Rules{
		Name:       ts.Name + " (inferred)",
		FileName:   ts.Name,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
		ErrorTile:  TileIndex(ts.Count() + 1),
		Tiles:      make(map[TileIndex]*TileDefinition, ts.Count()),
	}

	for _, idx := range ts.Indexes() {
		strips := tileStrips[idx]
		def := &TileDefinition{
			Index: idx,
			Rules: map[Direction]IndexSet{
				// Up-neighbors are tiles whose bottom strip equals this
				// tile's top strip, and symmetrically for the others.
				Up:    NewIndexSet(stripGroups[sideBottom][strips[0]]...),
				Down:  NewIndexSet(stripGroups[sideTop][strips[1]]...),
				Left:  NewIndexSet(stripGroups[sideRight][strips[2]]...),
				Right: NewIndexSet(stripGroups[sideLeft][strips[3]]...),
			},
		}
		r.Tiles[idx] = def
		r.AllIndexes.Add(idx)
	}

	// The error tile is synthetic and matches nothing; give it an empty
	// definition so it remains a valid member of AllIndexes.
	r.Tiles[r.ErrorTile] = &TileDefinition{Index: r.ErrorTile, Rules: map[Direction]IndexSet{}}
	r.AllIndexes.Add(r.ErrorTile)

	return r, nil
}

// extractStrip pulls one edge of img as a sequence of RGBA tuples, encoded
// as a comparable string key. Edge equality is exact; there is no
// tolerance for near-identical pixels.
func extractStrip(img image.Image, side edgeSide) strip {
	bounds := img.Bounds()
	buf := make([]byte, 0, 4*(bounds.Dx()+bounds.Dy()))

	write := func(x, y int) {
		r, g, b, a := img.At(x, y).RGBA()
		buf = append(buf, byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8))
	}

	switch side {
	case sideTop:
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			write(x, bounds.Min.Y)
		}
	case sideBottom:
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			write(x, bounds.Max.Y-1)
		}
	case sideLeft:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			write(bounds.Min.X, y)
		}
	case sideRight:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			write(bounds.Max.X-1, y)
		}
	}

	return strip(buf)
}
