package scoreboard

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileStore keeps the board in a small text file, one "NAME,score" line per
// entry, best first.
type FileStore struct {
	Path string
}

// NewFileStore creates a store for the given path. A leading ~/ is expanded
// to the home directory.
func NewFileStore(path string) *FileStore {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return &FileStore{Path: path}
}

// Load reads the entries. A missing file is an empty board.
func (s *FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scoreboard: read %s: %w", s.Path, err)
	}
	return Parse(data)
}

// Save writes the entries, replacing the file.
func (s *FileStore) Save(entries []Entry) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("scoreboard: create directory: %w", err)
		}
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, Format(entries), 0o644); err != nil {
		return fmt.Errorf("scoreboard: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("scoreboard: replace %s: %w", s.Path, err)
	}
	return nil
}

// Parse decodes "NAME,score" lines. Blank lines are skipped; anything else
// malformed fails the whole parse.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name, score, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("scoreboard: line %d: missing comma", n)
		}
		v, err := strconv.Atoi(strings.TrimSpace(score))
		if err != nil {
			return nil, fmt.Errorf("scoreboard: line %d: %w", n, err)
		}
		entries = append(entries, Entry{Name: strings.TrimSpace(name), Score: v})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scoreboard: %w", err)
	}
	return entries, nil
}

// Format encodes entries as "NAME,score" lines.
func Format(entries []Entry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s,%d\n", e.Name, e.Score)
	}
	return buf.Bytes()
}
