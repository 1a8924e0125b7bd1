package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedStore() *Store {
	return &Store{Now: func() time.Time { return time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC) }}
}

func TestStore_WriteNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	changed, backup, err := fixedStore().Write(path, []byte("{}\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !changed || backup != "" {
		t.Errorf("changed=%v backup=%q, want true and no backup", changed, backup)
	}
	if b, _ := os.ReadFile(path); string(b) != "{}\n" {
		t.Errorf("content = %q", b)
	}
}

func TestStore_WriteBacksUpAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"a":1}`), 0o600); err != nil {
		t.Fatal(err)
	}

	changed, backup, err := fixedStore().Write(path, []byte("{\n  \"a\": 1\n}\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !changed {
		t.Error("expected change")
	}
	if want := path + ".20261019-083000.bak"; backup != want {
		t.Errorf("backup = %q, want %q", backup, want)
	}
	if b, _ := os.ReadFile(backup); string(b) != `{"a":1}` {
		t.Errorf("backup content = %q", b)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", fi.Mode().Perm())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("expected file and backup only, got %d entries", len(entries))
	}
}

func TestStore_WriteIdenticalIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed, backup, err := fixedStore().Write(path, []byte("{}\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if changed || backup != "" {
		t.Errorf("changed=%v backup=%q, want no-op", changed, backup)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 1 {
		t.Errorf("no-op write left %d entries", len(entries))
	}
}

func TestStore_BackupMissingFile(t *testing.T) {
	if _, err := fixedStore().Backup(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
