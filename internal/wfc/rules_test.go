package wfc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleDocument = `
Name: test-tiles
Author: someone
FileName: test-tiles.png
TileWidth: 16
TileHeight: 16
ErrorTile: 3
Tiles:
  - Name: grass
    Index: 1
    Rules:
      "*": [1, 2]
  - Name: water
    Index: 2
    Rules:
      Up: [2]
      Down: [2]
      Left: [1, 2]
      Right: [1, 2]
  - Name: error
    Index: 3
    Rules: {}
`

func TestParseRulesValid(t *testing.T) {
	r, err := ParseRules([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Name != "test-tiles" {
		t.Errorf("Name = %q, want %q", r.Name, "test-tiles")
	}
	if r.ErrorTile != 3 {
		t.Errorf("ErrorTile = %d, want 3", r.ErrorTile)
	}
	if r.AllIndexes.Len() != 3 {
		t.Errorf("AllIndexes.Len() = %d, want 3", r.AllIndexes.Len())
	}

	grass, err := r.GetRuleByIndex(1)
	if err != nil {
		t.Fatalf("GetRuleByIndex(1): %v", err)
	}
	want := NewIndexSet(1, 2)
	for _, d := range AllDirections() {
		if !grass[d].Equals(want) {
			t.Errorf("expected grass's %q key to expand to {1,2} in direction %s, got %v", "*", d, grass[d].ToSlice())
		}
	}
}

func TestParseRulesWildcardSentinel(t *testing.T) {
	doc := `
Name: wild
ErrorTile: 2
Tiles:
  - Name: one
    Index: 1
    Rules:
      Up: [0]
  - Name: two
    Index: 2
`
	r, err := ParseRules([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rules, err := r.GetRuleByIndex(1)
	if err != nil {
		t.Fatalf("GetRuleByIndex(1): %v", err)
	}
	if !rules[Up].Only(0) {
		t.Errorf("expected Up rule to be the wildcard sentinel {0}, got %v", rules[Up].ToSlice())
	}
	if _, ok := rules[Down]; ok {
		t.Error("expected Down to be absent (no constraint), not present")
	}
}

func TestParseRulesMissingName(t *testing.T) {
	_, err := ParseRules([]byte(`Tiles: [{Name: x, Index: 1}]`))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestParseRulesEmptyTiles(t *testing.T) {
	_, err := ParseRules([]byte(`Name: empty`))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestParseRulesNonPositiveIndex(t *testing.T) {
	doc := `
Name: bad
ErrorTile: 1
Tiles:
  - Name: zero
    Index: 0
`
	_, err := ParseRules([]byte(doc))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestParseRulesUnknownErrorTile(t *testing.T) {
	doc := `
Name: bad
ErrorTile: 99
Tiles:
  - Name: grass
    Index: 1
`
	_, err := ParseRules([]byte(doc))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestGetRuleByIndexUnknown(t *testing.T) {
	r, err := ParseRules([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = r.GetRuleByIndex(99)
	if !errors.Is(err, ErrUnknownTile) {
		t.Errorf("expected ErrUnknownTile, got %v", err)
	}
}

func TestNeighborsOfWildcardExpansion(t *testing.T) {
	// The wildcard is the {0} sentinel; a "*" key only repeats one set in
	// all four directions, so sampleDocument has no wildcard to expand.
	doc := `
Name: wild
ErrorTile: 3
Tiles:
  - Name: one
    Index: 1
    Rules:
      Up: [0]
  - Name: two
    Index: 2
  - Name: error
    Index: 3
`
	r, err := ParseRules([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	neighbors, err := r.NeighborsOf(1)
	if err != nil {
		t.Fatalf("NeighborsOf(1): %v", err)
	}
	if len(neighbors[Up]) != r.AllIndexes.Len() {
		t.Errorf("expected wildcard to expand to all %d tiles, got %d", r.AllIndexes.Len(), len(neighbors[Up]))
	}
}

func TestNeighborsOfExplicit(t *testing.T) {
	r, err := ParseRules([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	neighbors, err := r.NeighborsOf(2)
	if err != nil {
		t.Fatalf("NeighborsOf(2): %v", err)
	}
	if len(neighbors[Up]) != 1 || neighbors[Up][0] != 2 {
		t.Errorf("neighbors[Up] = %v, want [2]", neighbors[Up])
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules("/nonexistent/rules.yaml")
	if err == nil {
		t.Error("expected an error for a missing rule document")
	}
}

func TestRulesSaveRoundTrip(t *testing.T) {
	r, err := ParseRules([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved document: %v", err)
	}

	reloaded, err := ParseRules(data)
	if err != nil {
		t.Fatalf("reparse saved document: %v", err)
	}
	if reloaded.Name != r.Name {
		t.Errorf("round-tripped Name = %q, want %q", reloaded.Name, r.Name)
	}
	if reloaded.AllIndexes.Len() != r.AllIndexes.Len() {
		t.Errorf("round-tripped AllIndexes.Len() = %d, want %d", reloaded.AllIndexes.Len(), r.AllIndexes.Len())
	}
}
