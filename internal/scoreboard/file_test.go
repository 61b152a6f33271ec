package scoreboard

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "scores.txt"))
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Expected no error for a missing file, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %v", entries)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.txt")
	s := NewFileStore(path)

	b := Load(s, quietLogger())
	b.Insert("AAA", 100)
	b.Insert("BBB", 90)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "AAA,100\nBBB,90\n" {
		t.Errorf("Unexpected file content %q", data)
	}

	reloaded := Load(s, quietLogger())
	if got := reloaded.Entries(); len(got) != 2 || got[1] != (Entry{"BBB", 90}) {
		t.Errorf("Expected reloaded board, got %v", got)
	}
}

func TestFileStoreCorruptIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.txt")
	if err := os.WriteFile(path, []byte("AAA,100\ngarbage\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := Load(NewFileStore(path), quietLogger())
	if len(b.Entries()) != 0 {
		t.Errorf("Expected corrupt file to load as an empty board, got %v", b.Entries())
	}
}

func TestParse(t *testing.T) {
	entries, err := Parse([]byte("AAA,100\n\nBBB, 90\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(entries) != 2 || entries[1].Score != 90 {
		t.Errorf("Unexpected entries %v", entries)
	}
	if _, err := Parse([]byte("AAA,lots\n")); err == nil {
		t.Error("Expected error for non-numeric score")
	}
}
