package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"kodex/internal/core"
)

// staleAfter bounds how long a live holder may keep a project lock.
const staleAfter = 30 * time.Minute

// LockFile is the metadata written into a held lock file.
type LockFile struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Interface string    `json:"interface"` // "cli" or "web"
	Project   string    `json:"project"`
	Timestamp time.Time `json:"timestamp"`
}

// FileLock serializes writers of one project across processes with flock.
type FileLock struct {
	path    string
	project string
	owner   string
	file    *os.File
}

// NewFileLock creates a lock at path for project, tagged with owner.
func NewFileLock(path, project, owner string) *FileLock {
	return &FileLock{path: path, project: project, owner: owner}
}

// Acquire takes the lock without blocking. A lock left behind by a dead
// process, or older than staleAfter, is taken over.
func (l *FileLock) Acquire() error {
	return l.acquire(true)
}

func (l *FileLock) acquire(allowSteal bool) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return &core.LockError{Operation: "acquire", Message: "create lock directory", Err: err}
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return &core.LockError{Operation: "acquire", Message: "open lock file", Err: err}
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()

		existing, readErr := l.readLockFile()
		if readErr == nil && allowSteal && isStale(existing) {
			_ = os.Remove(l.path)
			return l.acquire(false)
		}
		if readErr == nil {
			age := time.Since(existing.Timestamp).Round(time.Second)
			return &core.LockError{
				Operation: "acquire",
				Message: fmt.Sprintf("project %s locked by %s (PID %d, %v ago)",
					l.project, existing.Interface, existing.PID, age),
				Err: err,
			}
		}
		return &core.LockError{Operation: "acquire", Message: "project " + l.project + " is locked", Err: err}
	}

	// Release unlinks the path, so the inode we locked may already be orphaned.
	held, statErr := file.Stat()
	current, pathErr := os.Stat(l.path)
	if statErr != nil || pathErr != nil || !os.SameFile(held, current) {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
		return l.acquire(allowSteal)
	}

	l.file = file

	hostname, _ := os.Hostname()
	data, err := json.MarshalIndent(LockFile{
		PID:       os.Getpid(),
		Hostname:  hostname,
		Interface: l.owner,
		Project:   l.project,
		Timestamp: time.Now(),
	}, "", "  ")
	if err != nil {
		return &core.LockError{Operation: "acquire", Message: "encode lock metadata", Err: err}
	}
	if err := file.Truncate(0); err != nil {
		return &core.LockError{Operation: "acquire", Message: "truncate lock file", Err: err}
	}
	if _, err := file.WriteAt(data, 0); err != nil {
		return &core.LockError{Operation: "acquire", Message: "write lock metadata", Err: err}
	}

	return nil
}

// Release drops the lock and removes the lock file.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	unlockErr := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	removeErr := os.Remove(l.path)
	if errors.Is(removeErr, os.ErrNotExist) {
		removeErr = nil
	}

	if err := errors.Join(unlockErr, closeErr, removeErr); err != nil {
		return &core.LockError{Operation: "release", Message: "project " + l.project, Err: err}
	}
	return nil
}

func (l *FileLock) readLockFile() (*LockFile, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	var lock LockFile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	return &lock, nil
}

// isStale reports whether the holder process is gone or the lock has expired.
func isStale(lock *LockFile) bool {
	process, err := os.FindProcess(lock.PID)
	if err != nil {
		return true
	}
	// FindProcess always succeeds on Unix; signal 0 probes liveness.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return true
	}
	return time.Since(lock.Timestamp) > staleAfter
}
