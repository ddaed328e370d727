package blackboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the default Store: a mutex-guarded in-process map plus an
// append-only history slice. It lives exactly as long as the run that created
// it and is never shared across runs.
type MemoryStore struct {
	mu      sync.RWMutex
	slots   map[Slot]string
	history []Entry
}

// NewMemoryStore creates an empty in-memory blackboard.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[Slot]string),
	}
}

// Write atomically replaces the slot's value and appends a history entry.
func (m *MemoryStore) Write(ctx context.Context, slot Slot, value, writer string) error {
	if err := slot.Validate(); err != nil {
		return fmt.Errorf("invalid write: %w", err)
	}
	if writer == "" {
		return fmt.Errorf("invalid write: writer cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[slot] = value
	m.history = append(m.history, Entry{
		ID:        uuid.New().String(),
		Slot:      slot,
		Value:     value,
		Writer:    writer,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// Read returns the slot's current value, or ErrNotFound if it was never written.
func (m *MemoryStore) Read(ctx context.Context, slot Slot) (string, error) {
	if err := slot.Validate(); err != nil {
		return "", fmt.Errorf("invalid read: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.slots[slot]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Snapshot returns an independent copy of the current slot values.
func (m *MemoryStore) Snapshot(ctx context.Context) (map[Slot]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := make(map[Slot]string, len(m.slots))
	for slot, value := range m.slots {
		snap[slot] = value
	}
	return snap, nil
}

// History returns a copy of the write history in write order.
func (m *MemoryStore) History(ctx context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.history))
	copy(out, m.history)
	return out, nil
}

// Close releases nothing for the in-memory store. Implements io.Closer so the
// two Store implementations are interchangeable.
func (m *MemoryStore) Close() error {
	return nil
}
