package wfc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors surfaced by Rules loading and lookup.
var (
	// ErrInvalidDocument means a rule document is missing a required field
	// or has a malformed type. Fatal to the load.
	ErrInvalidDocument = errors.New("wfc: invalid rule document")
	// ErrUnknownTile means GetRuleByIndex was called with an index not
	// present in the rule set.
	ErrUnknownTile = errors.New("wfc: unknown tile index")
)

// Rules is an immutable adjacency rule set: per tile index and per
// direction, the set of tile indices permitted to appear on that side.
type Rules struct {
	Name       string
	Author     string
	FileName   string
	TileWidth  int
	TileHeight int
	ErrorTile  TileIndex
	Tiles      map[TileIndex]*TileDefinition
	AllIndexes IndexSet
}

// ruleDocument mirrors the documented on-disk rule file shape. yaml.v3
// parses both YAML and the JSON-like flow syntax the documented format
// uses, so a rules document may be written in either style.
type ruleDocument struct {
	Name       string              `yaml:"Name"`
	Author     string              `yaml:"Author"`
	FileName   string              `yaml:"FileName"`
	TileWidth  int                 `yaml:"TileWidth"`
	TileHeight int                 `yaml:"TileHeight"`
	ErrorTile  int                 `yaml:"ErrorTile"`
	Tiles      []tileDocumentEntry `yaml:"Tiles"`
}

type tileDocumentEntry struct {
	Name  string           `yaml:"Name"`
	Index int              `yaml:"Index"`
	Rules map[string][]int `yaml:"Rules"`
}

// LoadRules loads a Rules value from a rule document on disk.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wfc: read rule document: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes a rule document already read into memory.
func ParseRules(data []byte) (*Rules, error) {
	var doc ruleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: missing Name", ErrInvalidDocument)
	}
	if len(doc.Tiles) == 0 {
		return nil, fmt.Errorf("%w: Tiles must not be empty", ErrInvalidDocument)
	}

	r := &Rules{
		Name:       doc.Name,
		Author:     doc.Author,
		FileName:   doc.FileName,
		TileWidth:  doc.TileWidth,
		TileHeight: doc.TileHeight,
		ErrorTile:  TileIndex(doc.ErrorTile),
		Tiles:      make(map[TileIndex]*TileDefinition, len(doc.Tiles)),
	}

	for _, entry := range doc.Tiles {
		if entry.Index <= 0 {
			return nil, fmt.Errorf("%w: tile %q has non-positive index %d", ErrInvalidDocument, entry.Name, entry.Index)
		}
		index := TileIndex(entry.Index)
		def := &TileDefinition{
			Name:  entry.Name,
			Index: index,
			Rules: make(map[Direction]IndexSet),
		}

		if wild, ok := entry.Rules["*"]; ok {
			set := intsToIndexSet(wild)
			for _, d := range AllDirections() {
				def.Rules[d] = set
			}
		}
		for key, values := range entry.Rules {
			if key == "*" {
				continue
			}
			dir, ok := parseDirectionKey(key)
			if !ok {
				// Unknown direction keys are ignored with a warning, logged
				// through the slog default logger.
				slog.Warn("wfc: ignoring unknown direction key", "tile", entry.Name, "index", entry.Index, "key", key)
				continue
			}
			def.Rules[dir] = intsToIndexSet(values)
		}

		r.Tiles[index] = def
		r.AllIndexes.Add(index)
	}

	if !r.AllIndexes.Contains(r.ErrorTile) {
		return nil, fmt.Errorf("%w: ErrorTile %d is not a member of Tiles", ErrInvalidDocument, r.ErrorTile)
	}

	return r, nil
}

// intsToIndexSet deduplicates a list of document indices into a set.
func intsToIndexSet(values []int) IndexSet {
	var s IndexSet
	for _, v := range values {
		s.Add(TileIndex(v))
	}
	return s
}

// GetRuleByIndex returns the direction-to-allowed-set mapping for a tile
// index. A "*" key in the document is already expanded into four direction
// entries by ParseRules, so the returned mapping (and the TileDefinition)
// does not retain the "*" shape, and Save writes the four directions out
// separately.
func (r *Rules) GetRuleByIndex(i TileIndex) (map[Direction]IndexSet, error) {
	def, ok := r.Tiles[i]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTile, i)
	}
	return def.Rules, nil
}

// NeighborsOf returns, for each direction, the tiles legal on that side of
// index i. A wildcard direction expands to every known tile index.
func (r *Rules) NeighborsOf(i TileIndex) (map[Direction][]TileIndex, error) {
	rules, err := r.GetRuleByIndex(i)
	if err != nil {
		return nil, err
	}
	out := make(map[Direction][]TileIndex, len(rules))
	for d, set := range rules {
		if set.Only(0) {
			out[d] = r.AllIndexes.ToSlice()
			continue
		}
		out[d] = set.ToSlice()
	}
	return out, nil
}

// Save encodes r back to the on-disk rule-document shape (the inverse of
// LoadRules), useful for persisting a freshly inferred rule set as a
// starting point for manual editing.
func (r *Rules) Save(path string) error {
	doc := ruleDocument{
		Name:       r.Name,
		Author:     r.Author,
		FileName:   r.FileName,
		TileWidth:  r.TileWidth,
		TileHeight: r.TileHeight,
		ErrorTile:  int(r.ErrorTile),
	}

	indexes := r.AllIndexes.ToSlice()
	doc.Tiles = make([]tileDocumentEntry, 0, len(indexes))
	for _, idx := range indexes {
		def := r.Tiles[idx]
		entry := tileDocumentEntry{
			Name:  def.Name,
			Index: int(idx),
			Rules: make(map[string][]int, len(def.Rules)),
		}
		for _, d := range AllDirections() {
			set, ok := def.Rules[d]
			if !ok {
				continue
			}
			ints := make([]int, 0, set.Len())
			for _, v := range set.ToSlice() {
				ints = append(ints, int(v))
			}
			entry.Rules[directionKey(d)] = ints
		}
		doc.Tiles = append(doc.Tiles, entry)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("wfc: encode rule document: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("wfc: write rule document: %w", err)
	}
	return nil
}
