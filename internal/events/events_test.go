package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"sweet-shop/internal/worker"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	msgs     []kafka.Message
	writeErr error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { w.closed = true; return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []InventoryEvent
	err    error
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, ev InventoryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { p.closed = true; return nil }

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher([]string{"k1:9092", "k2:9092"}, "sweet-events")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	require.Equal(t, "sweet-events", w.Topic)
	require.NotNil(t, w.Addr)
	require.IsType(t, &kafka.Hash{}, w.Balancer)
	require.NoError(t, p.Close())
}

func TestKafkaPublisher(t *testing.T) {
	ev := InventoryEvent{Type: SweetPurchased, SweetID: 4, Name: "Choc", Quantity: 7, Delta: -3, ActorID: 2}

	t.Run("writes keyed json", func(t *testing.T) {
		w := &fakeWriter{}
		p := &KafkaPublisher{writer: w, topic: "t"}
		require.NoError(t, p.Publish(context.Background(), ev))
		require.Len(t, w.msgs, 1)
		require.Equal(t, "4", string(w.msgs[0].Key))
		require.Equal(t, "sweet.purchased", string(w.msgs[0].Headers[0].Value))

		var got InventoryEvent
		require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
		require.Equal(t, ev, got)
		require.NoError(t, p.Close())
		require.True(t, w.closed)
	})

	t.Run("write error", func(t *testing.T) {
		p := &KafkaPublisher{writer: &fakeWriter{writeErr: errors.New("no leader")}, topic: "t"}
		require.ErrorContains(t, p.Publish(context.Background(), ev), "no leader")
	})

	t.Run("marshal error", func(t *testing.T) {
		jsonMarshal = func(any) ([]byte, error) { return nil, errors.New("json") }
		t.Cleanup(func() { jsonMarshal = json.Marshal })
		p := &KafkaPublisher{writer: &fakeWriter{}, topic: "t"}
		require.Error(t, p.Publish(context.Background(), ev))
	})
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	require.NoError(t, p.Publish(context.Background(), InventoryEvent{}))
	require.NoError(t, p.Close())
}

func TestDispatcher(t *testing.T) {
	t.Run("publishes on the pool", func(t *testing.T) {
		pub := &recordingPublisher{}
		d := NewDispatcher(worker.NewPool(2, 8, nil), pub, nil)
		d.Emit(InventoryEvent{Type: SweetCreated, SweetID: 1})
		d.Emit(InventoryEvent{Type: SweetDeleted, SweetID: 2, OccurredAt: time.Unix(10, 0)})
		require.NoError(t, d.Close())

		require.True(t, pub.closed)
		require.Len(t, pub.events, 2)
		for _, ev := range pub.events {
			require.False(t, ev.OccurredAt.IsZero())
		}
	})

	t.Run("logs publish failures", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		pub := &recordingPublisher{err: errors.New("down")}
		d := NewDispatcher(worker.NewPool(1, 1, nil), pub, zap.New(core))
		d.Emit(InventoryEvent{Type: SweetUpdated, SweetID: 3})
		require.NoError(t, d.Close())
		require.Equal(t, 1, logs.FilterMessage("publish inventory event").Len())
	})

	t.Run("logs dropped events", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		pool := worker.NewPool(1, 1, nil)
		pool.Stop()
		d := NewDispatcher(pool, &recordingPublisher{}, zap.New(core))
		d.Emit(InventoryEvent{Type: SweetUpdated, SweetID: 3})
		require.Equal(t, 1, logs.FilterMessage("inventory event dropped").Len())
	})
}

type countingEmitter struct{ n int }

func (c *countingEmitter) Emit(InventoryEvent) { c.n++ }

func TestEmitters(t *testing.T) {
	a, b := &countingEmitter{}, &countingEmitter{}
	Emitters{a, nil, b}.Emit(InventoryEvent{Type: SweetCreated})
	require.Equal(t, 1, a.n)
	require.Equal(t, 1, b.n)
}
