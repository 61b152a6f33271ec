// Package registry provides a global registry for presentation sink factories.
// Sinks register themselves in init() functions, allowing the drivers to
// enable them by name (--sink mqtt,ws) without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/game"
)

// Sink is a presentation sink owned by a driver.
// Publish must never block the game loop; Close releases connections.
type Sink interface {
	game.Sink

	// Close stops background work and releases resources.
	Close() error
}

// SinkInfo contains metadata about a registered sink.
type SinkInfo struct {
	ID    string
	Title string
}

// Factory creates a sink from the configuration.
type Factory func(cfg config.Config, logger *log.Logger) (Sink, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a sink factory to the registry.
// Typically called from a sink package's init() function.
// Panics if a sink with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: sink %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered sinks, sorted by ID.
func List() []SinkInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SinkInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SinkInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a sink by its ID.
// Returns an error if the sink ID is not registered.
func Create(id string, cfg config.Config, logger *log.Logger) (Sink, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown sink %q", id)
	}

	return f(cfg, logger)
}

// Exists checks if a sink with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Fanout forwards snapshots and results to several sinks.
type Fanout struct {
	sinks []Sink
}

// NewFanout combines sinks. Nil entries are skipped.
func NewFanout(sinks ...Sink) *Fanout {
	f := &Fanout{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Add appends a sink.
func (f *Fanout) Add(s Sink) {
	if s != nil {
		f.sinks = append(f.sinks, s)
	}
}

// Len returns the number of sinks.
func (f *Fanout) Len() int {
	return len(f.sinks)
}

// Publish forwards a snapshot to every sink.
func (f *Fanout) Publish(snap game.Snapshot) {
	for _, s := range f.sinks {
		s.Publish(snap)
	}
}

// LevelFinished forwards a level result to sinks that accept results.
func (f *Fanout) LevelFinished(res game.LevelResult) {
	for _, s := range f.sinks {
		if rs, ok := s.(game.ResultSink); ok {
			rs.LevelFinished(res)
		}
	}
}

// SessionFinished forwards a session result to sinks that accept results.
func (f *Fanout) SessionFinished(res game.SessionResult) {
	for _, s := range f.sinks {
		if rs, ok := s.(game.ResultSink); ok {
			rs.SessionFinished(res)
		}
	}
}

// Close closes every sink and returns the first error.
func (f *Fanout) Close() error {
	var first error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open creates the named sinks and combines them. Sinks that fail to start
// are logged and skipped; an unknown ID is an error.
func Open(ids []string, cfg config.Config, logger *log.Logger) (*Fanout, error) {
	f := NewFanout()
	for _, id := range ids {
		if !Exists(id) {
			f.Close()
			return nil, fmt.Errorf("registry: unknown sink %q", id)
		}
		s, err := Create(id, cfg, logger)
		if err != nil {
			logger.Warn("sink disabled", "sink", id, "err", err)
			continue
		}
		f.Add(s)
	}
	return f, nil
}
