package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const (
	firstSnapshot  = "assessments/v0001.yaml"
	secondSnapshot = "assessments/v0002.yaml"
)

// seedProject creates a committed project holding version 1.
func seedProject(t *testing.T) string {
	t.Helper()
	projectDir := filepath.Join(t.TempDir(), "projects", "acme")
	if err := os.MkdirAll(filepath.Join(projectDir, assessmentsDir), 0755); err != nil {
		t.Fatalf("failed to create project directory: %v", err)
	}
	writeFile(t, filepath.Join(projectDir, firstSnapshot), "v1")
	writeFile(t, filepath.Join(projectDir, changelogFile), "latest_version: 1")
	return projectDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// assertNoStaging fails when a staging directory survives next to projectDir.
func assertNoStaging(t *testing.T, projectDir string) {
	t.Helper()
	entries, err := os.ReadDir(filepath.Dir(projectDir))
	if err != nil {
		t.Fatalf("failed to list projects: %v", err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(projectDir) {
			t.Errorf("leftover entry %q in projects directory", e.Name())
		}
	}
}

func TestVersionTx_NewProject(t *testing.T) {
	// Parent directories do not exist yet.
	projectDir := filepath.Join(t.TempDir(), "projects", "acme")

	tx, err := beginVersionTx(projectDir)
	if err != nil {
		t.Fatalf("beginVersionTx() failed: %v", err)
	}
	if err := tx.WriteFile(firstSnapshot, []byte("v1")); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := tx.WriteFile(changelogFile, []byte("latest_version: 1")); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := os.Stat(projectDir); !os.IsNotExist(err) {
		t.Errorf("project directory visible before commit")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	if got := readFile(t, filepath.Join(projectDir, firstSnapshot)); got != "v1" {
		t.Errorf("snapshot = %q, want %q", got, "v1")
	}
	if got := readFile(t, filepath.Join(projectDir, changelogFile)); got != "latest_version: 1" {
		t.Errorf("changelog = %q", got)
	}
	assertNoStaging(t, projectDir)
}

func TestVersionTx_AppendsToExistingProject(t *testing.T) {
	projectDir := seedProject(t)

	tx, err := beginVersionTx(projectDir)
	if err != nil {
		t.Fatalf("beginVersionTx() failed: %v", err)
	}

	// Unstaged paths read through to the committed project.
	data, err := tx.ReadFile(changelogFile)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "latest_version: 1" {
		t.Errorf("committed changelog = %q", data)
	}

	if err := tx.WriteFile(secondSnapshot, []byte("v2")); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := tx.WriteFile(changelogFile, []byte("latest_version: 2")); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	data, err = tx.ReadFile(changelogFile)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "latest_version: 2" {
		t.Errorf("staged changelog = %q", data)
	}
	if _, err := os.Stat(filepath.Join(projectDir, secondSnapshot)); !os.IsNotExist(err) {
		t.Errorf("uncommitted version visible in project directory")
	}
	if got := readFile(t, filepath.Join(projectDir, changelogFile)); got != "latest_version: 1" {
		t.Errorf("changelog changed before commit: %q", got)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	if got := readFile(t, filepath.Join(projectDir, firstSnapshot)); got != "v1" {
		t.Errorf("existing snapshot = %q, want %q", got, "v1")
	}
	if got := readFile(t, filepath.Join(projectDir, secondSnapshot)); got != "v2" {
		t.Errorf("new snapshot = %q, want %q", got, "v2")
	}
	if got := readFile(t, filepath.Join(projectDir, changelogFile)); got != "latest_version: 2" {
		t.Errorf("changelog = %q", got)
	}
	assertNoStaging(t, projectDir)
}

func TestVersionTx_SnapshotsAreNeverOverwritten(t *testing.T) {
	projectDir := seedProject(t)

	tx, err := beginVersionTx(projectDir)
	if err != nil {
		t.Fatalf("beginVersionTx() failed: %v", err)
	}
	if err := tx.WriteFile(secondSnapshot, []byte("v2")); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := tx.WriteFile(firstSnapshot, []byte("rewritten")); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := tx.WriteFile(changelogFile, []byte("latest_version: 2")); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if err := tx.Commit(); err == nil {
		t.Fatal("Commit() replaced an existing snapshot, want error")
	}

	if got := readFile(t, filepath.Join(projectDir, firstSnapshot)); got != "v1" {
		t.Errorf("snapshot = %q after failed commit, want %q", got, "v1")
	}
	if _, err := os.Stat(filepath.Join(projectDir, secondSnapshot)); !os.IsNotExist(err) {
		t.Errorf("partially published version left behind")
	}
	if got := readFile(t, filepath.Join(projectDir, changelogFile)); got != "latest_version: 1" {
		t.Errorf("changelog = %q after failed commit", got)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() after failed commit: %v", err)
	}
	assertNoStaging(t, projectDir)
}

func TestVersionTx_Rollback(t *testing.T) {
	projectDir := seedProject(t)

	tx, err := beginVersionTx(projectDir)
	if err != nil {
		t.Fatalf("beginVersionTx() failed: %v", err)
	}
	if err := tx.WriteFile(secondSnapshot, []byte("v2")); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, secondSnapshot)); !os.IsNotExist(err) {
		t.Errorf("rolled back version visible")
	}
	if got := readFile(t, filepath.Join(projectDir, changelogFile)); got != "latest_version: 1" {
		t.Errorf("changelog = %q after rollback", got)
	}
	assertNoStaging(t, projectDir)
}

func TestVersionTx_ClosedAfterCommit(t *testing.T) {
	tx, err := beginVersionTx(filepath.Join(t.TempDir(), "acme"))
	if err != nil {
		t.Fatalf("beginVersionTx() failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	if err := tx.Commit(); !errors.Is(err, errTxClosed) {
		t.Errorf("second Commit() error = %v, want errTxClosed", err)
	}
	if err := tx.Rollback(); !errors.Is(err, errTxClosed) {
		t.Errorf("Rollback() after Commit() error = %v, want errTxClosed", err)
	}
	if err := tx.WriteFile("late.yaml", []byte("x")); !errors.Is(err, errTxClosed) {
		t.Errorf("WriteFile() after Commit() error = %v, want errTxClosed", err)
	}
}

func TestVersionTx_ReadMissingFile(t *testing.T) {
	tx, err := beginVersionTx(filepath.Join(t.TempDir(), "acme"))
	if err != nil {
		t.Fatalf("beginVersionTx() failed: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ReadFile(changelogFile); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want not-exist", err)
	}
}
