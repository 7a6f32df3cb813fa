package profile

import (
	"os"
	"path/filepath"

	"github.com/matheus3301/teleclone/internal/config"
)

// BaseDir returns the teleclone home, ~/.teleclone unless TELECLONE_HOME is set.
func BaseDir() string {
	return config.Home()
}

// Dir returns the profile-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "profiles", name)
}

// LockPath returns the lock file path for a profile.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// StateDBPath returns the client state database path.
func StateDBPath(name string) string {
	return filepath.Join(Dir(name), "state.db")
}

// LogDir returns the log directory for a profile.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the log file for the named program, e.g. "teleclone".
func LogPath(name, program string) string {
	return filepath.Join(LogDir(name), program+".log")
}

// ServerLogPath returns the server log file, which is not tied to a profile.
func ServerLogPath() string {
	return filepath.Join(BaseDir(), "logs", "telecloned.log")
}

// RedisPrefix returns the key prefix for the profile in a shared redis.
func RedisPrefix(name string) string {
	return "teleclone:" + name + ":"
}

// EnsureDir creates the profile directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
