package config

import (
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/wfctiles/internal/logger"
)

// AppConfig holds process-wide configuration for the generator and server
// binaries: where the rule document and tileset image live, what the
// generation parameters are, and how to log.
type AppConfig struct {
	Paths      PathsConfig      `yaml:"paths"`
	Generation GenerationConfig `yaml:"generation"`
	Logging    logger.Config    `yaml:"logging"`
	WebSocket  WebSocketConfig  `yaml:"websocket"`
}

// WebSocketConfig holds the settings for cmd/wfcserve's remote Driver API.
type WebSocketConfig struct {
	// ListenAddr is the address wfcserve binds its HTTP/WebSocket listener to.
	ListenAddr string `yaml:"listen_addr"`

	// AllowedOrigins is a list of origins allowed to open a session. An
	// empty list enforces same-origin policy; "*" allows all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum size, in bytes, of one incoming
	// command frame.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// IsOriginAllowed reports whether origin may open a session, given the
// host the request was made to. An empty AllowedOrigins list enforces
// same-origin policy; a single "*" entry allows every origin.
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func isSameOrigin(origin, requestHost string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == requestHost
}

// PathsConfig holds the on-disk locations AppConfig needs.
type PathsConfig struct {
	// RulesFile is a rule document to load directly. wfcserve always
	// requires it; wfcgen requires it unless -infer is given, in which case
	// rules are inferred from TilesetFile and RulesFile is not read.
	RulesFile string `yaml:"rules_file"`

	// TilesetFile is the tileset image to slice. wfcgen requires it with
	// -infer and does not read it otherwise.
	TilesetFile string `yaml:"tileset_file"`

	// RuleCacheDB is the SQLite database backing the inferred-rule cache.
	RuleCacheDB string `yaml:"rule_cache_db"`
}

// GenerationConfig holds the parameters that drive one solve.
type GenerationConfig struct {
	// Seed drives every random choice FillAtRandom makes. 0 means pick a
	// seed from the current time at the call site, not inside this
	// package — config stays free of wall-clock reads so it remains
	// trivially testable.
	Seed int64 `yaml:"seed"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DefaultConfig returns an AppConfig with reasonable defaults: a modest
// grid, a rule cache database in the working directory, and the logger's
// own defaults.
func DefaultConfig() *AppConfig {
	loggingDefaults, _ := logger.LoadConfig("")
	return &AppConfig{
		Paths: PathsConfig{
			RuleCacheDB: "wfc-rulecache.db",
		},
		Generation: GenerationConfig{
			Width:  32,
			Height: 32,
		},
		Logging: loggingDefaults,
		WebSocket: WebSocketConfig{
			ListenAddr:     ":4510",
			AllowedOrigins: []string{},
			MaxMessageSize: 8192,
		},
	}
}

// LoadConfig loads an AppConfig from a YAML file. If the file doesn't
// exist, it returns the defaults rather than an error.
func LoadConfig(path string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}
