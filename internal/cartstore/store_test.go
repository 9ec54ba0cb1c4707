package cartstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	pkgredis "github.com/angelmondragon/storefront-cart/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "slots.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CartSlot{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// exerciseSlotContract runs the behaviour every backend shares.
func exerciseSlotContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Read(ctx, "cart:nobody")
	require.ErrorIs(t, err, cart.ErrSlotEmpty)

	require.NoError(t, store.Write(ctx, "cart:v1", `[{"id":"a1"}]`))
	require.NoError(t, store.Write(ctx, "cart:v1", `[]`))
	require.NoError(t, store.Write(ctx, "cart:v2", `[{"id":"b2"}]`))

	got, err := store.Read(ctx, "cart:v1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	got, err = store.Read(ctx, "cart:v2")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"b2"}]`, got)

	assert.NoError(t, store.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseSlotContract(t, store)
	assert.Equal(t, "memory", store.Name())
}

func TestMemoryStoreConcurrentWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("cart:%d", i%4)
			_ = store.Write(ctx, key, fmt.Sprintf("%d", i))
			_, _ = store.Read(ctx, key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		_, err := store.Read(ctx, fmt.Sprintf("cart:%d", i))
		assert.NoError(t, err)
	}
}

func TestSQLStore(t *testing.T) {
	store := NewSQLStore(setupSQLiteDB(t), time.Hour)
	exerciseSlotContract(t, store)
	assert.Equal(t, "sql", store.Name())
}

func TestSQLStoreExpiry(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	store := NewSQLStore(db, time.Hour)
	store.now = func() time.Time { return base }
	require.NoError(t, store.Write(ctx, "cart:old", `[]`))
	require.NoError(t, store.Write(ctx, "cart:fresh", `[]`))

	store.now = func() time.Time { return base.Add(30 * time.Minute) }
	require.NoError(t, store.Write(ctx, "cart:fresh", `[{"id":"x"}]`))

	store.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, err := store.Read(ctx, "cart:old")
	require.ErrorIs(t, err, cart.ErrSlotEmpty)

	got, err := store.Read(ctx, "cart:fresh")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"x"}]`, got)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var count int64
	require.NoError(t, db.Model(&models.CartSlot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSQLStoreWithoutTTLNeverExpires(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	store := NewSQLStore(db, 0)
	require.NoError(t, store.Write(ctx, "cart:v", `[]`))

	store.now = func() time.Time { return time.Now().Add(10 * 365 * 24 * time.Hour) }
	_, err := store.Read(ctx, "cart:v")
	require.NoError(t, err)
}

type fakeKV struct {
	data    map[string]string
	ttls    map[string]time.Duration
	touched map[string]time.Duration
	err     error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}, touched: map[string]time.Duration{}}
}

func (f *fakeKV) GetEx(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[key]
	if !ok {
		return "", pkgredis.Nil
	}
	f.touched[key] = ttl
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = fmt.Sprint(value)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) CartKey(slotKey string) string { return "sf:cart:" + slotKey }

func (f *fakeKV) Ping(context.Context) error { return f.err }

func TestRedisStore(t *testing.T) {
	kv := newFakeKV()
	store := NewRedisStore(kv, 720*time.Hour)
	exerciseSlotContract(t, store)

	assert.Equal(t, `[]`, kv.data["sf:cart:cart:v1"])
	assert.Equal(t, 720*time.Hour, kv.ttls["sf:cart:cart:v1"])
	assert.Equal(t, 720*time.Hour, kv.touched["sf:cart:cart:v1"], "reads should slide the expiry")
	assert.Equal(t, "redis", store.Name())
}

func TestRedisStorePropagatesErrors(t *testing.T) {
	kv := newFakeKV()
	kv.err = fmt.Errorf("connection refused")
	store := NewRedisStore(kv, time.Hour)

	_, err := store.Read(context.Background(), "cart:v1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cart.ErrSlotEmpty)
	assert.Error(t, store.Write(context.Background(), "cart:v1", "[]"))
	assert.Error(t, store.Ping(context.Background()))
}

func TestOpenMemoryAndSQLite(t *testing.T) {
	ctx := context.Background()

	res, err := Open(ctx, &config.Config{Storage: config.StorageConfig{Backend: config.StorageBackendMemory}}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "memory", res.Store.Name())
	assert.Nil(t, res.Redis)
	require.NoError(t, res.Close())

	cfg := &config.Config{
		App:     config.AppConfig{Env: config.AppEnvDev},
		Storage: config.StorageConfig{Backend: config.StorageBackendSQL, SlotTTL: time.Hour},
		DB: config.DBConfig{
			Driver:       config.DBDriverSQLite,
			DSN:          filepath.Join(t.TempDir(), "open.db"),
			MaxOpenConns: 1,
			AutoMigrate:  true,
		},
	}
	res, err = Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer res.Close()
	assert.Equal(t, "sql", res.Store.Name())
	exerciseSlotContract(t, res.Store)
}

func TestOpenRedisRequiresConfiguration(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Storage: config.StorageConfig{Backend: config.StorageBackendRedis}}, logger.Nop())
	require.Error(t, err)
}

func TestManagerOverSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(setupSQLiteDB(t), time.Hour)
	key := cart.SlotKey("cart", "visitor-1")

	items := []cart.Item{
		{ID: "a1", Name: "Shirt", Price: 29.9, Image: "x.jpg", Quantity: 2},
		{ID: "b2", Name: "Cap", Price: 15, Image: "c.jpg", Quantity: 1},
	}
	state := cart.NewStateStore(store, key, nil, nil)
	require.NoError(t, state.Save(ctx, items))
	assert.Equal(t, items, state.Load(ctx))
}
