// Package scoreboard keeps the ranked top-3 high score list.
package scoreboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Size is the number of entries kept on the board.
const Size = 3

// NameLength is the length of a player name.
const NameLength = 3

// ErrInvalidName is returned for names that are not three letters A-Z.
var ErrInvalidName = errors.New("scoreboard: name must be three letters A-Z")

// Entry is one ranked score.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Store persists the board. Implementations may fail; the board logs and
// carries on.
type Store interface {
	Load() ([]Entry, error)
	Save([]Entry) error
}

// Board is the ranked list, best first, at most Size entries. Equal scores
// keep insertion order: an existing entry stays ahead of a newer one.
// A Board is safe for concurrent use.
type Board struct {
	mu      sync.Mutex
	entries []Entry
	store   Store
	logger  *log.Logger
}

// Load reads the board from store. A failed or malformed load yields an
// empty board. store may be nil for an in-memory board.
func Load(store Store, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Default()
	}
	b := &Board{store: store, logger: logger}
	if store == nil {
		return b
	}

	entries, err := store.Load()
	if err != nil {
		logger.Warn("high scores unavailable, starting empty", "err", err)
		return b
	}
	if err := validate(entries); err != nil {
		logger.Warn("high scores malformed, starting empty", "err", err)
		return b
	}
	b.entries = rank(entries)
	return b
}

// Entries returns a copy of the ranked entries.
func (b *Board) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.entries...)
}

// Qualifies reports whether score would make the board: there is a free
// slot, or it beats the current last place. Ties do not qualify.
func (b *Board) Qualifies(score int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.qualifies(score)
}

func (b *Board) qualifies(score int) bool {
	if len(b.entries) < Size {
		return true
	}
	return score > b.entries[len(b.entries)-1].Score
}

// Insert adds an entry, keeps the best Size and persists the board.
// Persistence failures are logged, not returned; the in-memory board is
// still updated.
func (b *Board) Insert(name string, score int) error {
	name = strings.ToUpper(name)
	if !ValidName(name) {
		return ErrInvalidName
	}
	if score < 0 {
		return fmt.Errorf("scoreboard: negative score %d", score)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = rank(append(b.entries, Entry{Name: name, Score: score}))

	if b.store != nil {
		if err := b.store.Save(append([]Entry(nil), b.entries...)); err != nil {
			b.logger.Warn("high scores not saved", "err", err)
		}
	}
	return nil
}

// Rank returns the 1-based position score would take, or 0 if it does not
// qualify.
func (b *Board) Rank(score int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.qualifies(score) {
		return 0
	}
	for i, e := range b.entries {
		if score > e.Score {
			return i + 1
		}
	}
	return len(b.entries) + 1
}

// ValidName reports whether name is exactly three letters A-Z.
func ValidName(name string) bool {
	if len(name) != NameLength {
		return false
	}
	for _, c := range name {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// rank sorts entries best first, stable for ties, and truncates to Size.
func rank(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > Size {
		out = out[:Size]
	}
	return out
}

func validate(entries []Entry) error {
	if len(entries) > Size {
		return fmt.Errorf("%d entries", len(entries))
	}
	for _, e := range entries {
		if !ValidName(e.Name) {
			return fmt.Errorf("bad name %q", e.Name)
		}
		if e.Score < 0 {
			return fmt.Errorf("negative score %d", e.Score)
		}
	}
	return nil
}
