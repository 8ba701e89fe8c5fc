//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pgrepo "github.com/Gunvolt24/tenderstore/internal/repo/postgres"
	"github.com/Gunvolt24/tenderstore/internal/testutil"
)

func startAdapter(t *testing.T) *pgrepo.KVAdapter {
	t.Helper()

	// длинный контекст - только на подъём контейнера
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })

	pool, err := pgrepo.NewPool(ctxStart, pg.DSN, 4, 1)
	require.NoError(t, err)

	a := pgrepo.NewKVAdapter(pool)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	require.True(t, a.IsAvailable(ctxStart))
	require.NoError(t, a.Initialize(ctxStart))
	return a
}

// 1) Сохранение, upsert и чтение значения
func TestKV_SetGetUpsert_TC(t *testing.T) {
	t.Parallel()
	a := startAdapter(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, ok, err := a.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, a.Set(ctx, "pricing:T-1", []byte(`{"version":1}`)))
	require.NoError(t, a.Set(ctx, "pricing:T-1", []byte(`{"version":2}`)))

	got, ok, err := a.Get(ctx, "pricing:T-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"version":2}`, string(got))
}

// 2) Keys отсортированы; Has/Remove/Clear
func TestKV_KeysRemoveClear_TC(t *testing.T) {
	t.Parallel()
	a := startAdapter(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, k := range []string{"b", "a", "c"} {
		require.NoError(t, a.Set(ctx, k, []byte(`1`)))
	}
	keys, err := a.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, keys)

	require.NoError(t, a.Remove(ctx, "a"))
	has, err := a.Has(ctx, "a")
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, a.Clear(ctx))
	keys, err = a.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

// 3) Повторные миграции - no-op
func TestKV_InitializeTwice_TC(t *testing.T) {
	t.Parallel()
	a := startAdapter(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, a.Set(ctx, "k", []byte(`"v"`)))
	require.NoError(t, a.Initialize(ctx))

	got, ok, err := a.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `"v"`, string(got))
}
