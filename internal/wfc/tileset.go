package wfc

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// ErrOutOfRange means GetTileByIndex was called with an index outside
// [1, cols*rows].
var ErrOutOfRange = errors.New("wfc: tile index out of range")

// TileSet holds a 2D grid of tile images plus geometry, and converts
// between (col,row) and the 1-based linear TileIndex.
type TileSet struct {
	Name       string
	TileWidth  int
	TileHeight int
	Cols       int
	Rows       int
	tiles      map[[2]int]image.Image
}

// NewTileSet slices a decoded source image into a Cols x Rows grid of
// tileWidth x tileHeight tiles, in row-major order.
func NewTileSet(name string, src image.Image, tileWidth, tileHeight int) (*TileSet, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("wfc: tile dimensions must be positive, got %dx%d", tileWidth, tileHeight)
	}
	bounds := src.Bounds()
	cols := bounds.Dx() / tileWidth
	rows := bounds.Dy() / tileHeight
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("wfc: image %dx%d too small for %dx%d tiles", bounds.Dx(), bounds.Dy(), tileWidth, tileHeight)
	}

	ts := &TileSet{
		Name:       name,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Cols:       cols,
		Rows:       rows,
		tiles:      make(map[[2]int]image.Image, cols*rows),
	}

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	sub, ok := src.(subImager)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			rect := image.Rect(
				bounds.Min.X+col*tileWidth, bounds.Min.Y+row*tileHeight,
				bounds.Min.X+(col+1)*tileWidth, bounds.Min.Y+(row+1)*tileHeight,
			)
			if ok {
				ts.tiles[[2]int{col, row}] = sub.SubImage(rect)
				continue
			}
			ts.tiles[[2]int{col, row}] = copyRect(src, rect)
		}
	}

	return ts, nil
}

// copyRect is the slow-path fallback for image.Image implementations that
// don't support SubImage.
func copyRect(src image.Image, rect image.Rectangle) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			dst.Set(x, y, src.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return dst
}

// tilesetFilenamePattern matches the legacy "<name>-<w>x<h>.png" convention.
var tilesetFilenamePattern = regexp.MustCompile(`^(.+)-(\d+)x(\d+)\.png$`)

// ParseTilesetFilename derives a tileset name and tile geometry from the
// legacy filename convention "<name>-<w>x<h>.png". The second return value
// is false when the filename doesn't match the convention.
func ParseTilesetFilename(path string) (name string, tileWidth, tileHeight int, ok bool) {
	base := filepath.Base(path)
	m := tilesetFilenamePattern.FindStringSubmatch(base)
	if m == nil {
		return "", 0, 0, false
	}
	w, errW := strconv.Atoi(m[2])
	h, errH := strconv.Atoi(m[3])
	if errW != nil || errH != nil {
		return "", 0, 0, false
	}
	return m[1], w, h, true
}

// LoadTileSetFile loads a PNG tileset image, inferring tile geometry from
// the legacy "<name>-<w>x<h>.png" filename convention when tileWidth and
// tileHeight are both zero.
func LoadTileSetFile(path string, tileWidth, tileHeight int) (*TileSet, error) {
	name := filepath.Base(path)
	if tileWidth == 0 && tileHeight == 0 {
		if n, w, h, ok := ParseTilesetFilename(path); ok {
			name, tileWidth, tileHeight = n, w, h
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wfc: open tileset image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("wfc: decode tileset image: %w", err)
	}

	return NewTileSet(name, img, tileWidth, tileHeight)
}

// coordForIndex converts a 1-based linear TileIndex to (col,row), row-major.
func (ts *TileSet) coordForIndex(i TileIndex) (col, row int) {
	zero := int(i) - 1
	return zero % ts.Cols, zero / ts.Cols
}

// indexForCoord converts (col,row) to a 1-based linear TileIndex.
func (ts *TileSet) indexForCoord(col, row int) TileIndex {
	return TileIndex(row*ts.Cols + col + 1)
}

// GetTileByIndex returns the tile image for a 1-based linear index.
// Returns ErrOutOfRange if i < 1 or i > Cols*Rows.
func (ts *TileSet) GetTileByIndex(i TileIndex) (image.Image, error) {
	total := TileIndex(ts.Cols * ts.Rows)
	if i < 1 || i > total {
		return nil, fmt.Errorf("%w: %d (valid range [1,%d])", ErrOutOfRange, i, total)
	}
	col, row := ts.coordForIndex(i)
	return ts.tiles[[2]int{col, row}], nil
}

// Count returns the total number of tiles in the set.
func (ts *TileSet) Count() int {
	return ts.Cols * ts.Rows
}

// Indexes returns every valid tile index in the set, in ascending order.
func (ts *TileSet) Indexes() []TileIndex {
	out := make([]TileIndex, ts.Count())
	for i := range out {
		out[i] = TileIndex(i + 1)
	}
	return out
}
