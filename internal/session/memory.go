package session

import (
	"context"
	"sync"

	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/pkg/distlock"
)

// MemoryStore keeps the snapshot in process.
type MemoryStore struct {
	mu    sync.RWMutex
	ds    *domain.Dataset
	locks sync.Map // name -> *distlock.LocalLock
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Snapshot(context.Context) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ds == nil {
		return &domain.Dataset{}, nil
	}
	return s.ds, nil
}

func (s *MemoryStore) Replace(_ context.Context, ds *domain.Dataset, tables ...domain.TableName) error {
	if err := validTables(tables); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = next(s.ds, ds, tables)
	return nil
}

func (s *MemoryStore) Lock(name string) distlock.DistLock {
	l, _ := s.locks.LoadOrStore(name, distlock.NewLocalLock())
	return l.(*distlock.LocalLock)
}

func (s *MemoryStore) Close() error { return nil }
