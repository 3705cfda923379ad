package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/mrops-br/shophub-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share
func exerciseStore(t *testing.T, s domain.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "shopHub-cart")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "shopHub-cart", `[]`))
	v, err := s.Get(ctx, "shopHub-cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Set(ctx, "shopHub-cart", `[{"quantity":1}]`))
	v, err = s.Get(ctx, "shopHub-cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"quantity":1}]`, v)

	require.NoError(t, s.Delete(ctx, "shopHub-cart"))
	_, err = s.Get(ctx, "shopHub-cart")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, s.Delete(ctx, "never-written"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shophub.db")
	ctx := context.Background()

	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "isAuthenticated", "true"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get(ctx, "isAuthenticated")
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestNew(t *testing.T) {
	s, err := New(&config.StorageConfig{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(&config.StorageConfig{Driver: "etcd"})
	assert.EqualError(t, err, `unknown storage driver "etcd"`)
}

func TestNew_UnreachableRedisFailsStartup(t *testing.T) {
	_, err := New(&config.StorageConfig{
		Driver: DriverRedis,
		Redis: config.RedisConfig{
			Addr:        "127.0.0.1:1",
			MaxRetries:  -1,
			DialTimeout: 200 * time.Millisecond,
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis storage at 127.0.0.1:1")
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	assert.Equal(t, "shophub:shopHub-cart", (&RedisStore{prefix: "shophub"}).key("shopHub-cart"))
	assert.Equal(t, "shopHub-cart", (&RedisStore{}).key("shopHub-cart"))
}
