// Package presets keeps named timer configurations for later reuse.
//
// A Store is built in one of two modes. NewLocal keeps saved presets in an
// ordered in-memory list. NewForwarding hands every new preset to a Sink owned
// by the host and never stores it locally.
package presets

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ringtimer/internal/core/model"
)

// ErrNotFound indicates no preset has the requested id.
var ErrNotFound = errors.New("preset not found")

// Sink receives presets saved in forwarding mode.
type Sink interface {
	Add(saved model.SavedTimer) error
}

// SinkFunc adapts a callback to Sink.
type SinkFunc func(saved model.SavedTimer) error

// Add calls fn.
func (fn SinkFunc) Add(saved model.SavedTimer) error {
	return fn(saved)
}

// Remover is implemented by sinks that also own deletion.
type Remover interface {
	Remove(id int64) error
}

// Lister is implemented by sinks that can enumerate what they hold.
type Lister interface {
	List() ([]model.SavedTimer, error)
}

type strategy interface {
	add(saved model.SavedTimer) error
	remove(id int64) error
	list() ([]model.SavedTimer, error)
}

// Store is an ordered collection of presets with unique ids.
type Store struct {
	mu       sync.Mutex
	strategy strategy
	lastID   int64
	now      func() time.Time
}

// NewLocal creates a Store that keeps presets in memory, seeded with initial.
func NewLocal(initial []model.SavedTimer) *Store {
	return &Store{
		strategy: &localStrategy{entries: dedupe(initial)},
		now:      time.Now,
	}
}

// NewForwarding creates a Store that forwards new presets to sink.
// initial is what the host already holds; it backs List and Delete when sink cannot.
func NewForwarding(sink Sink, initial []model.SavedTimer) *Store {
	return &Store{
		strategy: &sinkStrategy{sink: sink, seed: localStrategy{entries: dedupe(initial)}},
		now:      time.Now,
	}
}

// SetClock overrides the id clock.
func (store *Store) SetClock(now func() time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.now = now
}

// Save captures the current timer as a new preset.
func (store *Store) Save(state model.TimerState, audio model.AudioRef) (model.SavedTimer, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	id, err := store.nextIDLocked()
	if err != nil {
		return model.SavedTimer{}, err
	}
	name := audio.Name
	if name == "" {
		name = model.DefaultAudioName
	}
	saved := model.SavedTimer{
		ID:            id,
		Title:         state.Title,
		Minutes:       state.Config().Minutes(),
		Seconds:       state.Config().Seconds(),
		AudioFile:     audio.File,
		AudioFileName: name,
		ElapsedTime:   state.Elapsed,
	}
	if err := saved.Validate(); err != nil {
		return model.SavedTimer{}, fmt.Errorf("save preset: %w", err)
	}
	if err := store.strategy.add(saved); err != nil {
		return model.SavedTimer{}, fmt.Errorf("save preset: %w", err)
	}
	store.lastID = id
	slog.Debug("preset saved", "id", id, "title", saved.Title)
	return saved, nil
}

// Delete removes the preset with id. Unknown ids are ignored.
func (store *Store) Delete(id int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if err := store.strategy.remove(id); err != nil {
		return fmt.Errorf("delete preset %d: %w", id, err)
	}
	return nil
}

// Load returns the preset with id without changing the store.
func (store *Store) Load(id int64) (model.SavedTimer, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	entries, err := store.strategy.list()
	if err != nil {
		return model.SavedTimer{}, fmt.Errorf("load preset %d: %w", id, err)
	}
	for _, saved := range entries {
		if saved.ID == id {
			return saved, nil
		}
	}
	return model.SavedTimer{}, fmt.Errorf("load preset %d: %w", id, ErrNotFound)
}

// List returns presets in insertion order.
func (store *Store) List() ([]model.SavedTimer, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.strategy.list()
}

func (store *Store) nextIDLocked() (int64, error) {
	entries, err := store.strategy.list()
	if err != nil {
		return 0, fmt.Errorf("next preset id: %w", err)
	}
	highest := store.lastID
	for _, saved := range entries {
		if saved.ID > highest {
			highest = saved.ID
		}
	}
	id := store.now().UnixMilli()
	if id <= highest {
		id = highest + 1
	}
	return id, nil
}

type localStrategy struct {
	entries []model.SavedTimer
}

func (local *localStrategy) add(saved model.SavedTimer) error {
	local.entries = append(local.entries, saved)
	return nil
}

func (local *localStrategy) remove(id int64) error {
	for index, saved := range local.entries {
		if saved.ID == id {
			local.entries = append(local.entries[:index:index], local.entries[index+1:]...)
			return nil
		}
	}
	return nil
}

func (local *localStrategy) list() ([]model.SavedTimer, error) {
	return append([]model.SavedTimer(nil), local.entries...), nil
}

type sinkStrategy struct {
	sink Sink
	seed localStrategy
}

func (forward *sinkStrategy) add(saved model.SavedTimer) error {
	return forward.sink.Add(saved)
}

func (forward *sinkStrategy) remove(id int64) error {
	if remover, ok := forward.sink.(Remover); ok {
		return remover.Remove(id)
	}
	return forward.seed.remove(id)
}

func (forward *sinkStrategy) list() ([]model.SavedTimer, error) {
	if lister, ok := forward.sink.(Lister); ok {
		return lister.List()
	}
	return forward.seed.list()
}

func dedupe(initial []model.SavedTimer) []model.SavedTimer {
	seen := make(map[int64]bool, len(initial))
	entries := make([]model.SavedTimer, 0, len(initial))
	for _, saved := range initial {
		if seen[saved.ID] {
			slog.Warn("dropping preset with duplicate id", "id", saved.ID, "title", saved.Title)
			continue
		}
		seen[saved.ID] = true
		entries = append(entries, saved)
	}
	return entries
}
