package session

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/domain"
)

func exampleDataset() *domain.Dataset {
	return &domain.Dataset{
		Influencers: []domain.Influencer{
			{ID: "1", Name: "John Doe", Category: "Fitness", Gender: "Male", FollowerCount: 100000, Platform: "Instagram"},
			{ID: "2", Name: "Jane Smith", Category: "Wellness", Gender: "Female", FollowerCount: 80000, Platform: "YouTube"},
		},
		Posts: []domain.Post{
			{InfluencerID: "1", Platform: "Instagram", Date: "2023-07-01", URL: "https://insta.com/1", Reach: 5000},
		},
		Tracking: []domain.TrackingEntry{
			{Source: "influencer", Campaign: "MuscleBlaze_Protein_1", InfluencerID: "1", Product: "Protein Powder", Orders: 1, Revenue: 2000},
		},
		Payouts: []domain.Payout{
			{InfluencerID: "1", Campaign: "MuscleBlaze_Protein_1", Basis: domain.BasisOrder, Rate: 100, Orders: 3, TotalPayout: 300},
		},
	}
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "roi-test")
	t.Cleanup(func() {
		store.Close()
		mr.Close()
	})
	return store, mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := setupRedisStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}
}

func TestStoreEmptySnapshot(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ds, err := store.Snapshot(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "", ds.Version)
			for _, table := range domain.AllTables() {
				assert.Equal(t, 0, ds.Count(table))
			}
		})
	}
}

func TestStoreReplaceAll(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Replace(ctx, exampleDataset()))

			ds, err := store.Snapshot(ctx)
			require.NoError(t, err)
			assert.NotEmpty(t, ds.Version)
			assert.False(t, ds.LoadedAt.IsZero())
			assert.Equal(t, exampleDataset().Influencers, ds.Influencers)
			assert.Equal(t, exampleDataset().Posts, ds.Posts)
			assert.Equal(t, exampleDataset().Tracking, ds.Tracking)
			assert.Equal(t, exampleDataset().Payouts, ds.Payouts)
		})
	}
}

func TestStoreReplaceOneTable(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Replace(ctx, exampleDataset()))
			before, err := store.Snapshot(ctx)
			require.NoError(t, err)

			upload := &domain.Dataset{Payouts: []domain.Payout{
				{InfluencerID: "2", Campaign: "Herbalife_Tea_2", Basis: domain.BasisOrder, Rate: 150, Orders: 1, TotalPayout: 150},
				{InfluencerID: "1", Campaign: "MuscleBlaze_Protein_1", Basis: domain.BasisOrder, Rate: 100, Orders: 3, TotalPayout: 300},
			}}
			require.NoError(t, store.Replace(ctx, upload, domain.TablePayouts))

			after, err := store.Snapshot(ctx)
			require.NoError(t, err)
			assert.NotEqual(t, before.Version, after.Version)
			assert.Equal(t, upload.Payouts, after.Payouts)
			assert.Equal(t, before.Influencers, after.Influencers)
			assert.Equal(t, before.Tracking, after.Tracking)

			// the earlier snapshot is unaffected
			assert.Len(t, before.Payouts, 1)
		})
	}
}

func TestStoreReplaceDoesNotAliasInput(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			in := exampleDataset()
			require.NoError(t, store.Replace(ctx, in))
			in.Influencers[0].Name = "mutated"

			ds, err := store.Snapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, "John Doe", ds.Influencers[0].Name)
		})
	}
}

func TestStoreRejectsUnknownTable(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, store.Replace(context.Background(), exampleDataset(), "orders"))
		})
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	seeded, err := Seed(ctx, store, exampleDataset())
	require.NoError(t, err)
	assert.True(t, seeded)

	first, _ := store.Snapshot(ctx)
	seeded, err = Seed(ctx, store, &domain.Dataset{})
	require.NoError(t, err)
	assert.False(t, seeded)

	second, _ := store.Snapshot(ctx)
	assert.Equal(t, first.Version, second.Version)
}

func TestRedisStoreLayout(t *testing.T) {
	store, mr := setupRedisStore(t)
	require.NoError(t, store.Replace(context.Background(), &domain.Dataset{
		Influencers: []domain.Influencer{{ID: "1", Name: "John Doe"}},
	}, domain.TableInfluencers))

	assert.True(t, mr.Exists("roi-test:meta"))
	raw, err := mr.Get("roi-test:table:influencers")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","name":"John Doe","category":"","gender":"","follower_count":0,"platform":""}]`, raw)
	assert.False(t, mr.Exists("roi-test:table:payouts"))
}

func TestRedisStoresShareSnapshot(t *testing.T) {
	ctx := context.Background()
	writer, mr := setupRedisStore(t)
	reader := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "roi-test")
	defer reader.Close()

	require.NoError(t, writer.Replace(ctx, exampleDataset()))

	w, err := writer.Snapshot(ctx)
	require.NoError(t, err)
	r, err := reader.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, w.Version, r.Version)
	assert.Equal(t, w.Tracking, r.Tracking)
}

func TestMemoryStoreConcurrentReplace(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Replace(ctx, exampleDataset()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Replace(ctx, exampleDataset(), domain.TableTracking)
		}()
		go func() {
			defer wg.Done()
			ds, err := store.Snapshot(ctx)
			if err == nil {
				assert.Len(t, ds.Tracking, 1)
			}
		}()
	}
	wg.Wait()
}

func TestNewStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewStore(context.Background(), config.SessionConfig{Type: "redis", RedisURL: "redis://" + mr.Addr(), KeyPrefix: "x"})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)
	store.Close()

	store, err = NewStore(context.Background(), config.SessionConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = NewStore(context.Background(), config.SessionConfig{Type: "disk"})
	assert.Error(t, err)

	_, err = NewStore(context.Background(), config.SessionConfig{Type: "redis", RedisURL: "::bad"})
	assert.Error(t, err)
}

func TestStoreLockIsShared(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a := store.Lock("reload")
			ok, err := a.Acquire(ctx)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = store.Lock("reload").Acquire(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = store.Lock("seed").Acquire(ctx)
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, a.Release(ctx))
		})
	}
}

func TestSeedSkipsWhileLocked(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	held := store.Lock("seed")
	ok, _ := held.Acquire(ctx)
	require.True(t, ok)

	seeded, err := Seed(ctx, store, exampleDataset())
	require.NoError(t, err)
	assert.False(t, seeded)

	ds, _ := store.Snapshot(ctx)
	assert.Equal(t, "", ds.Version)
}
