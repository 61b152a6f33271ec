package scoreboard

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

type memStore struct {
	entries []Entry
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load() ([]Entry, error) {
	return m.entries, m.loadErr
}

func (m *memStore) Save(entries []Entry) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = entries
	return nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func sampleBoard() (*Board, *memStore) {
	store := &memStore{entries: []Entry{{"AAA", 100}, {"BBB", 90}, {"CCC", 80}}}
	return Load(store, quietLogger()), store
}

func TestQualifies(t *testing.T) {
	b, _ := sampleBoard()

	if !b.Qualifies(81) {
		t.Error("Expected 81 to qualify")
	}
	if b.Qualifies(80) {
		t.Error("Expected a tie with last place not to qualify")
	}
	if b.Qualifies(79) {
		t.Error("Expected 79 not to qualify")
	}
}

func TestInsertDropsLast(t *testing.T) {
	b, store := sampleBoard()

	if !b.Qualifies(85) {
		t.Fatal("Expected 85 to qualify")
	}
	if err := b.Insert("DDD", 85); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	want := []Entry{{"AAA", 100}, {"BBB", 90}, {"DDD", 85}}
	got := b.Entries()
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if store.saves != 1 {
		t.Errorf("Expected 1 save, got %d", store.saves)
	}
	if len(store.entries) != 3 || store.entries[2].Name != "DDD" {
		t.Errorf("Expected persisted board to include DDD, got %v", store.entries)
	}
}

func TestInsertTieKeepsExistingAhead(t *testing.T) {
	b := Load(nil, quietLogger())
	b.Insert("AAA", 50)
	b.Insert("BBB", 70)
	b.Insert("CCC", 50)

	got := b.Entries()
	if got[0].Name != "BBB" || got[1].Name != "AAA" || got[2].Name != "CCC" {
		t.Errorf("Expected BBB, AAA, CCC, got %v", got)
	}
}

func TestEmptyBoardQualifiesAnything(t *testing.T) {
	b := Load(nil, quietLogger())
	if !b.Qualifies(0) {
		t.Error("Expected any score to qualify on an empty board")
	}
	b.Insert("AAA", 10)
	b.Insert("BBB", 10)
	if !b.Qualifies(0) {
		t.Error("Expected a free slot to accept any score")
	}
}

func TestInsertRejectsBadNames(t *testing.T) {
	b := Load(nil, quietLogger())
	for _, name := range []string{"", "AB", "ABCD", "A1C", "A C"} {
		if err := b.Insert(name, 10); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Name %q: expected ErrInvalidName, got %v", name, err)
		}
	}
	if err := b.Insert("abc", 10); err != nil {
		t.Errorf("Expected lowercase name to be accepted, got %v", err)
	}
	if got := b.Entries()[0].Name; got != "ABC" {
		t.Errorf("Expected name ABC, got %q", got)
	}
}

func TestLoadFailureIsEmpty(t *testing.T) {
	b := Load(&memStore{loadErr: errors.New("disk gone")}, quietLogger())
	if len(b.Entries()) != 0 {
		t.Errorf("Expected empty board, got %v", b.Entries())
	}

	b = Load(&memStore{entries: []Entry{{"TOOLONG", 5}}}, quietLogger())
	if len(b.Entries()) != 0 {
		t.Errorf("Expected malformed board to load empty, got %v", b.Entries())
	}
}

func TestLoadSortsEntries(t *testing.T) {
	b := Load(&memStore{entries: []Entry{{"CCC", 10}, {"AAA", 30}, {"BBB", 20}}}, quietLogger())
	got := b.Entries()
	if got[0].Name != "AAA" || got[2].Name != "CCC" {
		t.Errorf("Expected ranked entries, got %v", got)
	}
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	store := &memStore{saveErr: errors.New("read-only")}
	b := Load(store, quietLogger())
	if err := b.Insert("AAA", 10); err != nil {
		t.Errorf("Expected save failure to be swallowed, got %v", err)
	}
	if len(b.Entries()) != 1 {
		t.Error("Expected in-memory board to be updated")
	}
}

func TestRank(t *testing.T) {
	b, _ := sampleBoard()
	tests := []struct {
		score int
		want  int
	}{
		{150, 1},
		{100, 2},
		{95, 2},
		{85, 3},
		{80, 0},
	}
	for _, tt := range tests {
		if got := b.Rank(tt.score); got != tt.want {
			t.Errorf("Rank(%d): expected %d, got %d", tt.score, tt.want, got)
		}
	}
}
