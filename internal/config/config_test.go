package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Generation.Width != 32 || cfg.Generation.Height != 32 {
		t.Errorf("expected default 32x32 grid, got %dx%d", cfg.Generation.Width, cfg.Generation.Height)
	}
	if cfg.Paths.RuleCacheDB == "" {
		t.Error("expected a default rule cache path")
	}
}

func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Generation.Width != 32 {
		t.Errorf("expected default width, got %d", cfg.Generation.Width)
	}
}

func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "wfc.yaml")

	content := `
paths:
  rules_file: rules.yaml
  tileset_file: tiles.png
generation:
  seed: 42
  width: 10
  height: 20
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Paths.RulesFile != "rules.yaml" {
		t.Errorf("RulesFile = %q, want %q", cfg.Paths.RulesFile, "rules.yaml")
	}
	if cfg.Generation.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Generation.Seed)
	}
	if cfg.Generation.Width != 10 || cfg.Generation.Height != 20 {
		t.Errorf("Width/Height = %d/%d, want 10/20", cfg.Generation.Width, cfg.Generation.Height)
	}
}

func TestWebSocketConfigIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		origin      string
		requestHost string
		want        bool
	}{
		{"same-origin default allows matching host", nil, "https://example.com", "example.com", true},
		{"same-origin default rejects mismatched host", nil, "https://evil.com", "example.com", false},
		{"wildcard allows anything", []string{"*"}, "https://evil.com", "example.com", true},
		{"exact match allowed", []string{"https://trusted.com"}, "https://trusted.com", "example.com", true},
		{"no match rejected", []string{"https://trusted.com"}, "https://other.com", "example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &WebSocketConfig{AllowedOrigins: tt.allowed}
			if got := c.IsOriginAllowed(tt.origin, tt.requestHost); got != tt.want {
				t.Errorf("IsOriginAllowed(%q, %q) = %v, want %v", tt.origin, tt.requestHost, got, tt.want)
			}
		})
	}
}
