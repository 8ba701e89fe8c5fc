package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/tenderstore/internal/kafka/mocks"
	memrepo "github.com/Gunvolt24/tenderstore/internal/repo/memory"
	"github.com/Gunvolt24/tenderstore/internal/storage"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

// stubSource - шина с одним слушателем, вызываемым вручную.
type stubSource struct {
	listener     storage.Listener
	unsubscribed bool
}

func (s *stubSource) Subscribe(t storage.EventType, l storage.Listener) func() {
	if t != storage.EventAll {
		panic("publisher must subscribe to the wildcard channel")
	}
	s.listener = l
	return func() { s.unsubscribed = true }
}

func TestEventPublisher_ForwardsManagerEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)

	ctx := context.Background()
	mgr := storage.NewManager(storage.Config{Mode: storage.ModeTest, CacheEnabled: true}, nopLogger{},
		storage.WithAdapter(memrepo.NewAdapter()))
	_, err := mgr.Initialize(ctx)
	require.NoError(t, err)

	got := make(chan kafka.Message, 10)
	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			for _, m := range msgs {
				got <- m
			}
			return nil
		}).AnyTimes()
	w.EXPECT().Close().Return(nil)

	p := newEventPublisher(w, "storage-events", 16, mgr, nopLogger{})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- p.Run(runCtx) }()

	require.NoError(t, mgr.Set(ctx, "app_projects_data", []string{}))
	var out []string
	require.True(t, mgr.Get(ctx, "app_projects_data", &out))
	require.NoError(t, mgr.Remove(ctx, "app_projects_data"))

	var events []StorageEvent
	for len(events) < 2 {
		select {
		case m := <-got:
			require.Equal(t, "app_projects_data", string(m.Key))
			var ev StorageEvent
			require.NoError(t, json.Unmarshal(m.Value, &ev))
			events = append(events, ev)
		case <-time.After(time.Second):
			t.Fatalf("events not published, got %d", len(events))
		}
	}
	require.Equal(t, storage.EventSet, events[0].Type)
	require.Equal(t, storage.EventRemove, events[1].Type)
	require.True(t, events[0].Success)
	require.NotEmpty(t, events[0].Timestamp)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.NoError(t, p.Close())
	require.Empty(t, got, "get events must not be published")
}

func TestEventPublisher_DropsWhenBufferFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)
	src := &stubSource{}

	p := newEventPublisher(w, "storage-events", 1, src, nopLogger{})
	dropped := metrics.KafkaEventsPublished.WithLabelValues(string(storage.EventSet), "dropped")
	before := testutil.ToFloat64(dropped)

	src.listener(storage.Event{Type: storage.EventSet, Key: "a", Success: true, Timestamp: time.Now()})
	src.listener(storage.Event{Type: storage.EventSet, Key: "b", Success: true, Timestamp: time.Now()})

	require.Equal(t, before+1, testutil.ToFloat64(dropped))
	require.Len(t, p.events, 1)
}

func TestEventPublisher_SkipsInitializedEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)
	src := &stubSource{}

	p := newEventPublisher(w, "storage-events", 4, src, nopLogger{})
	src.listener(storage.Event{Type: storage.EventInitialized, Success: true, Timestamp: time.Now()})
	src.listener(storage.Event{Type: storage.EventGet, Key: "a", Success: true, Timestamp: time.Now()})

	require.Empty(t, p.events)
}

func TestEventPublisher_WriteErrorCountedAndDrainOnStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)
	src := &stubSource{}

	p := newEventPublisher(w, "storage-events", 8, src, nopLogger{})
	failed := metrics.KafkaEventsPublished.WithLabelValues(string(storage.EventError), "error")
	before := testutil.ToFloat64(failed)

	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	src.listener(storage.Event{Type: storage.EventError, Key: "k", Err: errors.New("boom"), Timestamp: time.Now()})

	// контекст уже отменён: событие уходит при сливе буфера
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Run(ctx), context.Canceled)
	require.Equal(t, before+1, testutil.ToFloat64(failed))
}

func TestEventPublisher_CloseUnsubscribes(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)
	src := &stubSource{}

	w.EXPECT().Close().Return(nil).Times(1)
	p := newEventPublisher(w, "storage-events", 0, src, nopLogger{})

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	require.True(t, src.unsubscribed)
	require.Equal(t, defaultEventBuffer, cap(p.events))
}
