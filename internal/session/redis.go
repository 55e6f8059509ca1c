package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/pkg/distlock"
	"github.com/ignite/influencer-roi/internal/pkg/logger"
)

// RedisStore keeps the snapshot in Redis so several server instances share
// it. Each table is one JSON value; a meta key carries the version.
type RedisStore struct {
	client *redis.Client
	prefix string
}

type snapshotMeta struct {
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "roi"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// OpenRedisStore connects to redisURL and verifies the connection.
func OpenRedisStore(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("session store connected", "store", "redis", "redis_url", redisURL, "prefix", prefix)
	return NewRedisStore(client, prefix), nil
}

func (s *RedisStore) metaKey() string { return s.prefix + ":meta" }

func (s *RedisStore) tableKey(t domain.TableName) string {
	return s.prefix + ":table:" + string(t)
}

// Snapshot reads the meta key and all four tables with one MGET.
func (s *RedisStore) Snapshot(ctx context.Context) (*domain.Dataset, error) {
	tables := domain.AllTables()
	keys := make([]string, 0, len(tables)+1)
	keys = append(keys, s.metaKey())
	for _, t := range tables {
		keys = append(keys, s.tableKey(t))
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	ds := &domain.Dataset{}
	if raw, ok := vals[0].(string); ok {
		var meta snapshotMeta
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, fmt.Errorf("decode snapshot meta: %w", err)
		}
		ds.Version, ds.LoadedAt = meta.Version, meta.LoadedAt
	}

	for i, t := range tables {
		raw, ok := vals[i+1].(string)
		if !ok {
			continue
		}
		if err := decodeTable(t, []byte(raw), ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Replace writes the named tables and the new meta in one MULTI/EXEC.
func (s *RedisStore) Replace(ctx context.Context, ds *domain.Dataset, tables ...domain.TableName) error {
	if err := validTables(tables); err != nil {
		return err
	}
	if len(tables) == 0 {
		tables = domain.AllTables()
	}

	staged := next(nil, ds, tables)
	payloads := make(map[string][]byte, len(tables)+1)
	for _, t := range tables {
		data, err := encodeTable(t, staged)
		if err != nil {
			return err
		}
		payloads[s.tableKey(t)] = data
	}
	meta, err := json.Marshal(snapshotMeta{Version: staged.Version, LoadedAt: staged.LoadedAt})
	if err != nil {
		return fmt.Errorf("encode snapshot meta: %w", err)
	}
	payloads[s.metaKey()] = meta

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, data := range payloads {
			pipe.Set(ctx, key, data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	logger.Debug("snapshot replaced", "store", "redis", "version", staged.Version, "tables", len(tables))
	return nil
}

// Lock returns a Redis lock so instances sharing the store exclude each
// other.
func (s *RedisStore) Lock(name string) distlock.DistLock {
	return distlock.NewRedisLock(s.client, s.prefix+":lock:"+name, lockTTL)
}

func (s *RedisStore) Close() error { return s.client.Close() }

func encodeTable(t domain.TableName, ds *domain.Dataset) ([]byte, error) {
	var v any
	switch t {
	case domain.TableInfluencers:
		v = nonNil(ds.Influencers)
	case domain.TablePosts:
		v = nonNil(ds.Posts)
	case domain.TableTracking:
		v = nonNil(ds.Tracking)
	case domain.TablePayouts:
		v = nonNil(ds.Payouts)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	return data, nil
}

func decodeTable(t domain.TableName, data []byte, ds *domain.Dataset) error {
	var err error
	switch t {
	case domain.TableInfluencers:
		err = json.Unmarshal(data, &ds.Influencers)
	case domain.TablePosts:
		err = json.Unmarshal(data, &ds.Posts)
	case domain.TableTracking:
		err = json.Unmarshal(data, &ds.Tracking)
	case domain.TablePayouts:
		err = json.Unmarshal(data, &ds.Payouts)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", t, err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
