package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.DefaultProfile = "work"
	cfg.Client.SimulateReplies = false
	cfg.Server.DBDriver = "postgres"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
	if loaded.Client.SimulateReplies {
		t.Error("SimulateReplies = true, want false")
	}
	if loaded.Server.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want postgres", loaded.Server.DBDriver)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[client]\nproxy_url = \"http://example:8080\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Client.ProxyURL != "http://example:8080" {
		t.Errorf("ProxyURL = %q", cfg.Client.ProxyURL)
	}
	if cfg.Server.Model != "gemini-2.5-flash" || cfg.DefaultProfile != "main" || !cfg.Client.SimulateReplies {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoadOrDefaultMissing(t *testing.T) {
	t.Setenv("TELECLONE_ADDR", "")
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Errorf("Addr = %q, want :5000", cfg.Server.Addr)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[client]\nbackend = \"etcd\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted unknown backend")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TELECLONE_PROXY_URL": "http://proxy:1",
		"TELECLONE_BACKEND":   "redis",
		"TELECLONE_DB_DSN":    "postgres://x",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Client.ProxyURL != "http://proxy:1" || cfg.Client.Backend != "redis" || cfg.Server.DBDSN != "postgres://x" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Server.Addr != ":5000" {
		t.Errorf("unset variable changed Addr to %q", cfg.Server.Addr)
	}
}

func TestRequestTimeout(t *testing.T) {
	if got := (ClientConfig{}).RequestTimeout(); got != 30*time.Second {
		t.Errorf("zero RequestTimeout() = %v, want 30s", got)
	}
	if got := (ClientConfig{RequestTimeoutSeconds: 5}).RequestTimeout(); got != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, want 5s", got)
	}
}

func TestHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TELECLONE_HOME", dir)
	if got := Path(); got != filepath.Join(dir, "config.toml") {
		t.Errorf("Path() = %q", got)
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, Default()); err != nil {
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
