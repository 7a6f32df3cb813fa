package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matheus3301/teleclone/internal/config"
)

func TestDirHonorsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TELECLONE_HOME", home)

	if got, want := Dir("main"), filepath.Join(home, "profiles", "main"); got != want {
		t.Errorf("Dir(main) = %q, want %q", got, want)
	}
	if got, want := StateDBPath("work"), filepath.Join(home, "profiles", "work", "state.db"); got != want {
		t.Errorf("StateDBPath(work) = %q, want %q", got, want)
	}
	if got, want := LogPath("work", "telectl"), filepath.Join(home, "profiles", "work", "logs", "telectl.log"); got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestEnsureDir(t *testing.T) {
	t.Setenv("TELECLONE_HOME", t.TempDir())
	if err := EnsureDir("test"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(LogDir("test"))
	if err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	if !info.IsDir() || info.Mode().Perm() != 0700 {
		t.Errorf("log dir mode = %v, want dir 0700", info.Mode())
	}
}

func TestResolve(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultProfile = "work"
	tests := []struct {
		flag string
		cfg  *config.Config
		want string
	}{
		{"cli", cfg, "cli"},
		{"", cfg, "work"},
		{"", &config.Config{}, "main"},
		{"", nil, "main"},
	}
	for _, tt := range tests {
		if got := Resolve(tt.flag, tt.cfg); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}
