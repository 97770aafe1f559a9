package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/serialization"
)

type memoryStore struct {
	codec codec.Codec
	docs  map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryStore creates a Store that keeps encoded documents in memory.
// Documents are lost when the process exits.
func NewMemoryStore(c codec.Codec) Store {
	if c == nil {
		c = codec.JSON()
	}
	return &memoryStore{
		codec: c,
		docs:  make(map[string][]byte),
	}
}

func (m *memoryStore) Save(_ context.Context, runID string, doc serialization.Document) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}
	data, err := encode(m.codec, runID, doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[runID] = data
	return nil
}

func (m *memoryStore) Load(_ context.Context, runID string) (serialization.Document, error) {
	if err := ValidateRunID(runID); err != nil {
		return nil, err
	}

	m.mu.RLock()
	data, exists := m.docs[runID]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return decode(m.codec, runID, data)
}

func (m *memoryStore) Delete(_ context.Context, runID string) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, runID)
	return nil
}

func (m *memoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
