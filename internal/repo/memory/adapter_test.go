package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/tenderstore/internal/repo/memory"
)

func TestAdapter_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := memory.NewAdapter()

	require.True(t, a.IsAvailable(ctx))
	require.Equal(t, "memory", a.Name())

	require.NoError(t, a.Set(ctx, "b", []byte(`2`)))
	require.NoError(t, a.Set(ctx, "a", []byte(`1`)))

	v, ok, err := a.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`1`), v)

	keys, err := a.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, a.Remove(ctx, "a"))
	has, err := a.Has(ctx, "a")
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, a.Clear(ctx))
	keys, err = a.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

// Значение копируется при записи и при чтении.
func TestAdapter_CopiesValues(t *testing.T) {
	t.Parallel()
	a := memory.NewAdapter()

	in := []byte(`"x"`)
	require.NoError(t, a.SetSync("k", in))
	in[1] = 'y'

	got, ok, err := a.GetSync("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `"x"`, string(got))

	got[1] = 'z'
	again, _, _ := a.GetSync("k")
	require.Equal(t, `"x"`, string(again))
}

func TestAdapter_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := memory.NewAdapter()
	require.ErrorIs(t, a.Set(ctx, "k", []byte(`1`)), context.Canceled)
	_, _, err := a.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}
