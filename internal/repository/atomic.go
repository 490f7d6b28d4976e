package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

var errTxClosed = errors.New("version transaction already closed")

// versionTx stages the files of one new assessment version next to the
// project directory and publishes them on Commit.
//
// Snapshot files are immutable: publishing one that already exists fails. The
// changelog is replaced last and is the commit point, since readers resolve
// versions only through it.
type versionTx struct {
	projectDir string
	stagingDir string // projects/.<id>.staging-*/
	staged     []string
	closed     bool
}

// beginVersionTx opens a transaction for projectDir, which need not exist yet.
func beginVersionTx(projectDir string) (*versionTx, error) {
	parent := filepath.Dir(projectDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, fmt.Errorf("create projects directory: %w", err)
	}

	staging, err := os.MkdirTemp(parent, "."+filepath.Base(projectDir)+".staging-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	return &versionTx{projectDir: projectDir, stagingDir: staging}, nil
}

// WriteFile stages content under a path relative to the project directory.
func (tx *versionTx) WriteFile(rel string, content []byte) error {
	if tx.closed {
		return errTxClosed
	}

	path := filepath.Join(tx.stagingDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create staging subdirectory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("stage %s: %w", rel, err)
	}

	if !slices.Contains(tx.staged, rel) {
		tx.staged = append(tx.staged, rel)
	}
	return nil
}

// ReadFile returns the staged content of rel, or the committed content when
// nothing was staged for it.
func (tx *versionTx) ReadFile(rel string) ([]byte, error) {
	dir := tx.projectDir
	if slices.Contains(tx.staged, rel) {
		dir = tx.stagingDir
	}

	data, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// Commit publishes the staged snapshots, then the changelog. On failure every
// snapshot already published is removed again and the transaction stays open
// for Rollback.
func (tx *versionTx) Commit() error {
	if tx.closed {
		return errTxClosed
	}

	_, statErr := os.Stat(tx.projectDir)
	created := errors.Is(statErr, os.ErrNotExist)

	var published []string
	undo := func() {
		for _, rel := range published {
			_ = os.Remove(filepath.Join(tx.projectDir, rel))
		}
		if created {
			_ = os.Remove(filepath.Join(tx.projectDir, assessmentsDir))
			_ = os.Remove(tx.projectDir)
		}
	}

	changelogStaged := false
	for _, rel := range tx.staged {
		if rel == changelogFile {
			changelogStaged = true
			continue
		}

		dst := filepath.Join(tx.projectDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			undo()
			return fmt.Errorf("create project subdirectory: %w", err)
		}
		// Link refuses to replace an existing file.
		if err := os.Link(filepath.Join(tx.stagingDir, rel), dst); err != nil {
			undo()
			return fmt.Errorf("publish %s: %w", rel, err)
		}
		published = append(published, rel)
	}

	if changelogStaged {
		if err := os.Rename(filepath.Join(tx.stagingDir, changelogFile), filepath.Join(tx.projectDir, changelogFile)); err != nil {
			undo()
			return fmt.Errorf("publish changelog: %w", err)
		}
	}

	tx.closed = true
	// Staged links are redundant once published.
	_ = os.RemoveAll(tx.stagingDir)
	return nil
}

// Rollback discards everything staged.
func (tx *versionTx) Rollback() error {
	if tx.closed {
		return errTxClosed
	}
	tx.closed = true
	if err := os.RemoveAll(tx.stagingDir); err != nil {
		return fmt.Errorf("discard staging directory: %w", err)
	}
	return nil
}
