package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openBackends returns every Store backend that can run in-process.
func openBackends(t *testing.T) map[string]Store {
	t.Helper()

	mr := miniredis.RunT(t)
	redisStore := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	sqliteStore, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
		"sqlite": sqliteStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Load(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Save(ctx, UserKey, []byte(`{"name":"alice"}`)))

			raw, ok, err := s.Load(ctx, UserKey)
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"name":"alice"}`, string(raw))

			// Overwrite replaces the whole record.
			require.NoError(t, s.Save(ctx, UserKey, []byte(`{"name":"bob"}`)))
			raw, ok, err = s.Load(ctx, UserKey)
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"name":"bob"}`, string(raw))

			require.NoError(t, s.Delete(ctx, UserKey))
			_, ok, err = s.Load(ctx, UserKey)
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting a missing record is not an error.
			require.NoError(t, s.Delete(ctx, "missing"))
		})
	}
}

func TestLoadJSONClearsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Save(ctx, UserKey, []byte(`{not json`)))

	var dest map[string]any
	ok, err := LoadJSON(ctx, s, UserKey, &dest)
	require.NoError(t, err)
	assert.False(t, ok, "corrupt record should be reported absent")

	// The corrupt entry must be cleared, not left to fail again.
	_, exists, err := s.Load(ctx, UserKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSaveJSONLoadJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type doc struct {
		Name    string `json:"name"`
		Credits int    `json:"credits"`
	}

	require.NoError(t, SaveJSON(ctx, s, UserKey, doc{Name: "alice", Credits: 300}))

	var got doc
	ok, err := LoadJSON(ctx, s, UserKey, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, doc{Name: "alice", Credits: 300}, got)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(Options{Backend: "etcd"})
	assert.Error(t, err)
}
