package memory

import (
	"context"
	"sync"

	"medication-tracker/internal/ports/snapshot"
)

// SnapshotStore es un snapshot.Store en memoria (dev/tests).
type SnapshotStore struct {
	mu    sync.RWMutex
	byKey map[string][]byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{byKey: make(map[string][]byte)}
}

func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byKey[key]
	if !ok {
		return nil, snapshot.ErrNotFound
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *SnapshotStore) Save(ctx context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := make([]byte, len(payload))
	copy(b, payload)
	s.byKey[key] = b
	return nil
}
