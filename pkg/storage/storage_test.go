package storage

import (
	"path/filepath"
	"testing"
)

func TestSaveAndReadFile(t *testing.T) {
	st := &Storage{}
	path := filepath.Join(t.TempDir(), "out.json")

	if st.HasFile(path) {
		t.Fatal("HasFile() = true before save")
	}

	content := []byte(`{"cat": 2}`)
	if err := st.SaveFile(path, content); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	if !st.HasFile(path) {
		t.Error("HasFile() = false after save")
	}

	got, err := st.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("ReadFile() = %q, want %q", got, content)
	}

	stats, err := st.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != int64(len(content)) {
		t.Errorf("stats.SizeBytes = %d, want %d", stats.SizeBytes, len(content))
	}
}

func TestReadFile_Missing(t *testing.T) {
	st := &Storage{}

	if _, err := st.ReadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("ReadFile() on missing file returned nil error")
	}
}
