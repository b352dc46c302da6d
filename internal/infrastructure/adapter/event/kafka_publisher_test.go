package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/papertrade/internal/domain/port/event"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherEncodesEvents(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "papertrade-events", logger.NewNoopLogger())
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(),
		event.Event{Type: event.TypeTradeExecuted, UserID: 7, OccurredAt: at, Data: map[string]any{"symbol": "IBM", "shares": 3}},
		event.Event{Type: event.TypeCashAdded, UserID: 7, OccurredAt: at},
	)

	require.NoError(t, err)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "7", string(w.msgs[0].Key))
	assert.Equal(t, at, w.msgs[0].Time)
	assert.Equal(t, []kafka.Header{{Key: "event_type", Value: []byte("trade.executed")}}, w.msgs[0].Headers)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "trade.executed", decoded["type"])
	assert.Equal(t, float64(7), decoded["user_id"])
	assert.Equal(t, "IBM", decoded["data"].(map[string]any)["symbol"])

	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &decoded))
	assert.NotContains(t, string(w.msgs[1].Value), `"data"`)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newKafkaPublisher(w, "t", logger.NewNoopLogger())

	assert.NoError(t, p.Publish(context.Background()))

	err := p.Publish(context.Background(), event.Event{Type: event.TypeCashAdded, UserID: 1})
	assert.ErrorContains(t, err, "leader not available")
}

func TestNewPublisherWithoutBrokers(t *testing.T) {
	p := NewPublisher(nil, "t", logger.NewNoopLogger())

	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), event.Event{Type: event.TypeCashAdded}))
	assert.NoError(t, p.Close())
}
