package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"timegate/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewFileRepository_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults not written: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
	if n := len(repo.Schedule().Windows); n != 2 {
		t.Errorf("default windows = %d, want 2", n)
	}
	if got := repo.Messages().Deny; got != config.DefaultFile().DenyMessage {
		t.Errorf("deny message = %q", got)
	}
	if repo.Path() != path {
		t.Errorf("Path() = %q", repo.Path())
	}
}

func TestNewFileRepository_EmptyPath(t *testing.T) {
	if _, err := NewFileRepository(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestFileRepository_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
timezone = "UTC"
[[schedule]]
days = ["MONDAY"]
start = "18:00"
end = "23:00"
`)
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(repo.Schedule().Windows); n != 1 {
		t.Fatalf("windows = %d, want 1", n)
	}
	if repo.Schedule().Location != time.UTC {
		t.Errorf("location = %s, want UTC", repo.Schedule().Location)
	}

	writeFile(t, path, `
timezone = "UTC"
deny_message = "nope"
[[schedule]]
days = ["MONDAY"]
start = "18:00"
end = "23:00"
[[schedule]]
days = ["FRIDAY"]
start = "20:00"
end = "1:00"
`)
	if err := repo.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n := len(repo.Current().Schedule.Windows); n != 2 {
		t.Errorf("windows after reload = %d, want 2", n)
	}
	if repo.Messages().Deny != "nope" {
		t.Errorf("deny after reload = %q", repo.Messages().Deny)
	}
}

func TestFileRepository_FailedReloadKeepsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[[schedule]]
days = ["SUNDAY"]
start = "10:00"
end = "12:00"
`)
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, path, "this is [not toml")
	if err := repo.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if n := len(repo.Schedule().Windows); n != 1 {
		t.Errorf("windows after failed reload = %d, want previous 1", n)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	f := config.DefaultFile()
	f.DenyMessage = "closed for maintenance"
	f.Warnings.Intervals = []int{10}

	if err := Save(path, f); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DenyMessage != f.DenyMessage {
		t.Errorf("deny = %q", got.DenyMessage)
	}
	if len(got.Warnings.Intervals) != 1 || got.Warnings.Intervals[0] != 10 {
		t.Errorf("intervals = %v", got.Warnings.Intervals)
	}
	if len(got.Schedule) != len(f.Schedule) {
		t.Errorf("schedule entries = %d, want %d", len(got.Schedule), len(f.Schedule))
	}
}
