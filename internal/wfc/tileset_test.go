package wfc

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNewTileSetGeometry(t *testing.T) {
	img := solidImage(32, 16, color.White)
	ts, err := NewTileSet("test", img, 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Cols != 2 || ts.Rows != 1 {
		t.Errorf("Cols/Rows = %d/%d, want 2/1", ts.Cols, ts.Rows)
	}
	if ts.Count() != 2 {
		t.Errorf("Count() = %d, want 2", ts.Count())
	}
}

func TestNewTileSetTooSmall(t *testing.T) {
	img := solidImage(8, 8, color.White)
	_, err := NewTileSet("test", img, 16, 16)
	if err == nil {
		t.Error("expected an error for an image smaller than one tile")
	}
}

func TestNewTileSetInvalidDimensions(t *testing.T) {
	img := solidImage(16, 16, color.White)
	_, err := NewTileSet("test", img, 0, 16)
	if err == nil {
		t.Error("expected an error for a zero tile dimension")
	}
}

func TestTileSetGetTileByIndexRange(t *testing.T) {
	img := solidImage(32, 16, color.White)
	ts, err := NewTileSet("test", img, 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ts.GetTileByIndex(0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("GetTileByIndex(0) err = %v, want ErrOutOfRange", err)
	}
	if _, err := ts.GetTileByIndex(3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("GetTileByIndex(3) err = %v, want ErrOutOfRange", err)
	}
	if _, err := ts.GetTileByIndex(1); err != nil {
		t.Errorf("GetTileByIndex(1): %v", err)
	}
}

func TestTileSetIndexCoordMapping(t *testing.T) {
	img := solidImage(48, 32, color.White)
	ts, err := NewTileSet("test", img, 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 cols x 2 rows; index 4 is row-major position (col=0, row=1).
	col, row := ts.coordForIndex(4)
	if col != 0 || row != 1 {
		t.Errorf("coordForIndex(4) = (%d, %d), want (0, 1)", col, row)
	}
	if got := ts.indexForCoord(0, 1); got != 4 {
		t.Errorf("indexForCoord(0, 1) = %d, want 4", got)
	}
}

func TestTileSetIndexes(t *testing.T) {
	img := solidImage(32, 16, color.White)
	ts, err := NewTileSet("test", img, 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	idx := ts.Indexes()
	want := []TileIndex{1, 2}
	if len(idx) != len(want) {
		t.Fatalf("Indexes() = %v, want %v", idx, want)
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Errorf("Indexes()[%d] = %d, want %d", i, idx[i], want[i])
		}
	}
}

func TestParseTilesetFilename(t *testing.T) {
	tests := []struct {
		path       string
		wantName   string
		wantW      int
		wantH      int
		wantOk     bool
	}{
		{"dungeon-16x16.png", "dungeon", 16, 16, true},
		{"/some/path/forest-32x32.png", "forest", 32, 32, true},
		{"no-dimensions.png", "", 0, 0, false},
		{"dungeon-16x16.jpg", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			name, w, h, ok := ParseTilesetFilename(tt.path)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if name != tt.wantName || w != tt.wantW || h != tt.wantH {
				t.Errorf("got (%q, %d, %d), want (%q, %d, %d)", name, w, h, tt.wantName, tt.wantW, tt.wantH)
			}
		})
	}
}
