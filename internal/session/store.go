// Package session owns the working dataset snapshot that every report is
// computed from.
//
// A snapshot is immutable once published: Replace builds a new dataset with
// the named tables swapped in and publishes it in one step, so a reader
// either sees the old tables or the new ones, never a mix.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/pkg/distlock"
)

// Store holds the current snapshot.
type Store interface {
	// Snapshot returns the current dataset. An empty store yields an empty
	// dataset. Callers must not mutate the result.
	Snapshot(ctx context.Context) (*domain.Dataset, error)
	// Replace swaps in the named tables of ds in full, or all four when no
	// table is named, and assigns a new version.
	Replace(ctx context.Context, ds *domain.Dataset, tables ...domain.TableName) error
	// Lock returns the named lock shared by every user of this store.
	Lock(name string) distlock.DistLock
	Close() error
}

// lockTTL bounds how long a crashed holder can block a Redis lock.
const lockTTL = 2 * time.Minute

// NewStore builds the store selected by cfg.Type.
func NewStore(ctx context.Context, cfg config.SessionConfig) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return OpenRedisStore(ctx, cfg.RedisURL, cfg.KeyPrefix)
	}
	return nil, fmt.Errorf("session: unknown store type %q", cfg.Type)
}

// Seed loads the example set into an empty store so the dashboard has data
// on first start. A store that already holds a snapshot, or that another
// instance is seeding, is left alone.
func Seed(ctx context.Context, s Store, example *domain.Dataset) (bool, error) {
	seeded := false
	err := distlock.Run(ctx, s.Lock("seed"), func(ctx context.Context) error {
		current, err := s.Snapshot(ctx)
		if err != nil {
			return err
		}
		if current.Version != "" {
			return nil
		}
		seeded = true
		return s.Replace(ctx, example)
	})
	if errors.Is(err, distlock.ErrNotAcquired) {
		return false, nil
	}
	return seeded, err
}

// next derives the snapshot that follows current once tables of incoming
// are swapped in. Untouched tables are shared with current; replaced ones
// are copied so the caller's slices are never aliased.
func next(current, incoming *domain.Dataset, tables []domain.TableName) *domain.Dataset {
	if len(tables) == 0 {
		tables = domain.AllTables()
	}
	out := &domain.Dataset{}
	if current != nil {
		*out = *current
	}
	for _, t := range tables {
		out.CopyTable(incoming, t)
	}
	out.Version = uuid.NewString()
	out.LoadedAt = time.Now().UTC()
	return out
}

func validTables(tables []domain.TableName) error {
	for _, t := range tables {
		if _, err := domain.ParseTableName(string(t)); err != nil {
			return err
		}
	}
	return nil
}
