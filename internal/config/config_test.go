package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{
		DefaultSession:     "work",
		BridgeAPIURL:       "http://localhost:9090/api",
		RequestTimeoutSecs: 10,
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultSession != "work" {
		t.Errorf("DefaultSession = %q, want %q", loaded.DefaultSession, "work")
	}
	if loaded.BridgeAPIURL != "http://localhost:9090/api" {
		t.Errorf("BridgeAPIURL = %q", loaded.BridgeAPIURL)
	}
	if loaded.RequestTimeoutSecs != 10 {
		t.Errorf("RequestTimeoutSecs = %d", loaded.RequestTimeoutSecs)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(path, []byte(`default_session = "main"`), 0600); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.BridgeAPIURL != DefaultBridgeAPIURL {
		t.Errorf("BridgeAPIURL = %q, want default", loaded.BridgeAPIURL)
	}
	if loaded.RequestTimeoutSecs != DefaultTimeoutSecs {
		t.Errorf("RequestTimeoutSecs = %d, want default", loaded.RequestTimeoutSecs)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.BridgeAPIURL != DefaultBridgeAPIURL || cfg.RequestTimeoutSecs != DefaultTimeoutSecs {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultSession: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
