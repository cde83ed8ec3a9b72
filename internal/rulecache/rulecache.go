// Package rulecache persists inferred rule sets in a small SQLite database,
// keyed by a content hash of the tileset pixels that produced them.
// EdgeInference is deterministic but O(tiles^2) over pixel strip
// comparisons; for a tileset that doesn't change between runs, recomputing
// it on every invocation is wasted work.
package rulecache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/wfctiles/internal/wfc"
)

// Cache wraps a SQLite connection holding cached, YAML-encoded Rules values.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the rule cache database at path.
func Open(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("rulecache: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("rulecache: open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("rulecache: enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("rulecache: set busy timeout: %w", err)
	}

	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("rulecache: run migrations: %w", err)
	}
	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS inferred_rules (
		hash       TEXT PRIMARY KEY,
		tileset    TEXT NOT NULL,
		rules_yaml BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// HashTileSet computes the BLAKE2b-256 content hash that keys a TileSet's
// cache entry: its geometry plus the raw pixel bytes of every tile, in
// index order, so two tilesets with identical pixels but different names
// still share a cache entry.
func HashTileSet(ts *wfc.TileSet) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("rulecache: init hash: %w", err)
	}
	fmt.Fprintf(h, "%d:%d:%d:%d\n", ts.Cols, ts.Rows, ts.TileWidth, ts.TileHeight)

	for _, idx := range ts.Indexes() {
		img, err := ts.GetTileByIndex(idx)
		if err != nil {
			return "", err
		}
		bounds := img.Bounds()
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, a := img.At(x, y).RGBA()
				h.Write([]byte{byte(r >> 8), byte(g >> 8), byte(b >> 8), byte(a >> 8)})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Get returns the cached Rules for hash, and whether an entry was found.
func (c *Cache) Get(hash string) (*wfc.Rules, bool, error) {
	var blob []byte
	err := c.db.QueryRow(`SELECT rules_yaml FROM inferred_rules WHERE hash = ?`, hash).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("rulecache: query: %w", err)
	}

	rules, err := wfc.ParseRules(blob)
	if err != nil {
		return nil, false, fmt.Errorf("rulecache: decode cached rules: %w", err)
	}
	return rules, true, nil
}

// Put stores rules under hash, keyed additionally to tileset for
// diagnostics. An existing entry for the same hash is replaced, since the
// hash already commits to the tileset's exact pixel content.
func (c *Cache) Put(hash, tileset string, rules *wfc.Rules) error {
	doc, err := encodeForCache(rules)
	if err != nil {
		return fmt.Errorf("rulecache: encode rules: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT INTO inferred_rules (hash, tileset, rules_yaml) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET tileset = excluded.tileset, rules_yaml = excluded.rules_yaml`,
		hash, tileset, doc,
	)
	if err != nil {
		return fmt.Errorf("rulecache: insert: %w", err)
	}
	return nil
}

// encodeForCache round-trips rules through a temp file via Rules.Save so
// the cache's on-disk format always matches the normal rule document
// shape — the same bytes a caller could hand-edit after being written out.
func encodeForCache(rules *wfc.Rules) ([]byte, error) {
	tmp, err := os.CreateTemp("", "rulecache-*.yaml")
	if err != nil {
		return nil, err
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := rules.Save(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
