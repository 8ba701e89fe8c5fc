package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	jmerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/ports/mocks"
	memrepo "github.com/Gunvolt24/tenderstore/internal/repo/memory"
	"github.com/Gunvolt24/tenderstore/internal/storage"
)

func TestSelectAdapter_FirstAvailableWins(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	down := mocks.NewMockStorageAdapter(ctrl)
	down.EXPECT().IsAvailable(gomock.Any()).Return(false)

	var lastTried bool
	factories := []storage.AdapterFactory{
		{Name: "redis", New: func(context.Context) (ports.StorageAdapter, error) { return nil, errors.New("no addr") }},
		{Name: "postgres", New: func(context.Context) (ports.StorageAdapter, error) { return down, nil }},
		{Name: "sqlite", New: func(context.Context) (ports.StorageAdapter, error) { return memrepo.NewAdapter(), nil }},
		{Name: "never", New: func(context.Context) (ports.StorageAdapter, error) {
			lastTried = true
			return memrepo.NewAdapter(), nil
		}},
	}

	a, err := storage.SelectAdapter(context.Background(), testLogger(t), factories...)
	require.NoError(t, err)
	require.Equal(t, "memory", a.Name())
	require.False(t, lastTried)
}

func TestSelectAdapter_NoneAvailable(t *testing.T) {
	t.Parallel()
	_, err := storage.SelectAdapter(context.Background(), testLogger(t),
		storage.AdapterFactory{Name: "redis", New: func(context.Context) (ports.StorageAdapter, error) {
			return nil, errors.New("dial refused")
		}},
	)
	require.ErrorIs(t, err, storage.ErrAdapterUnavailable)
	require.Contains(t, err.Error(), "dial refused")
	require.False(t, jmerrors.IsRetryable(err))

	_, err = storage.SelectAdapter(context.Background(), testLogger(t))
	require.ErrorIs(t, err, storage.ErrAdapterUnavailable)
}

// Вне режима test менеджер выбирает адаптер по цепочке фабрик.
func TestManager_ProductionModeSelectsFromFactories(t *testing.T) {
	t.Parallel()
	m := storage.NewManager(storage.Config{CacheEnabled: true}, testLogger(t),
		storage.WithFactories(storage.AdapterFactory{
			Name: "memory",
			New:  func(context.Context) (ports.StorageAdapter, error) { return memrepo.NewAdapter(), nil },
		}),
	)
	rep, err := m.Initialize(context.Background())
	require.NoError(t, err)
	require.Equal(t, "memory", rep.Adapter)
}
