package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateRejectsNonPositiveTolerance(t *testing.T) {
	c := Default()
	c.Tolerance.Default = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for zero tolerance.default")
	}
}

func TestValidateRejectsUnknownJoinType(t *testing.T) {
	c := Default()
	c.Offset.DefaultJoin = "chamfer"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unknown default_join")
	}
}

func TestLoadParsesOverridesAndKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallgeom.yaml")
	body := "tolerance:\n  default: 0.5\ncache:\n  max_entries: 2000\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if c.Tolerance.Default != 0.5 {
		t.Errorf("tolerance.default = %v, want 0.5", c.Tolerance.Default)
	}
	if c.Cache.MaxEntries != 2000 {
		t.Errorf("cache.max_entries = %d, want 2000", c.Cache.MaxEntries)
	}
	if c.Offset.MiterLimit != 10 {
		t.Errorf("offset.miter_limit should keep default 10, got %v", c.Offset.MiterLimit)
	}
}

func TestLoadRejectsInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallgeom.yaml")
	body := "offset:\n  round_segments: 1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected Load to reject round_segments below 3")
	}
}

func TestNewWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallgeom.yaml")
	if err := os.WriteFile(path, []byte("tolerance:\n  default: 0.1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) { reloaded <- c })
	if err != nil {
		t.Fatalf("NewWatcher error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("tolerance:\n  default: 0.3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case c := <-reloaded:
		if c.Tolerance.Default != 0.3 {
			t.Errorf("reloaded tolerance.default = %v, want 0.3", c.Tolerance.Default)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for reload callback")
	}
}
