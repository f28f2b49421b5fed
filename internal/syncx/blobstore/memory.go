package blobstore

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store for tests and offline runs.
type Memory struct {
	mu    sync.Mutex
	blobs map[string]Blob
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]Blob)}
}

func (m *Memory) Get(_ context.Context, userID string) (*Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[userID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *Memory) Upsert(_ context.Context, userID, ciphertext string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[userID] = Blob{Ciphertext: ciphertext, UpdatedAt: time.Now()}
	return nil
}
