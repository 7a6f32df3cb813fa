package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// FileName is the lock file created inside a profile directory.
const FileName = "LOCK"

// LockHeldError is returned when another process holds the profile lock.
type LockHeldError struct {
	PID     int
	Program string
	Path    string
}

func (e *LockHeldError) Error() string {
	program := e.Program
	if program == "" {
		program = "another process"
	}
	return fmt.Sprintf("profile in use by %s (PID %d, %s)", program, e.PID, e.Path)
}

// Lock is an acquired profile lock. A profile's state store has a single
// writer process: the TUI or one telectl invocation at a time.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes an exclusive, non-blocking lock on profileDir on behalf of
// program. Returns *LockHeldError if another process already holds it.
func Acquire(profileDir, program string) (*Lock, error) {
	lockPath := filepath.Join(profileDir, FileName)

	if err := os.MkdirAll(profileDir, 0700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		data, _ := os.ReadFile(lockPath)
		_ = f.Close()
		held := parseOwner(string(data))
		held.Path = lockPath
		return nil, held
	}

	owner := fmt.Sprintf("pid=%d\nprogram=%s\ntime=%s\n", os.Getpid(), program, time.Now().UTC().Format(time.RFC3339))
	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.WriteAt([]byte(owner), 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Lock{file: f, path: lockPath}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release releases the lock. Safe to call on nil receiver and more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

func parseOwner(content string) *LockHeldError {
	held := &LockHeldError{}
	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			held.PID, _ = strconv.Atoi(value)
		case "program":
			held.Program = value
		}
	}
	return held
}
