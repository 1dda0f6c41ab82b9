package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	failures int
	messages []kafka.Message
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.failures > 0 {
		w.failures--
		return errors.New("broker unavailable")
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	messages []kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		return kafka.Message{}, context.Canceled
	}
	m := r.messages[0]
	r.messages = r.messages[1:]
	return m, nil
}

func (r *fakeReader) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, log: logger.Discard()}

	event := BookingEvent{Type: EventBookingCommitted, BookingID: "b1", PNR: "ABC123", FinalPrice: 275000, IsSurged: true}
	require.NoError(t, p.Publish(context.Background(), "bookings", "b1", event))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "bookings", w.messages[0].Topic)
	assert.Equal(t, []byte("b1"), w.messages[0].Key)

	var got BookingEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &got))
	assert.Equal(t, event, got)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishWithRetry(t *testing.T) {
	w := &fakeWriter{failures: 1}
	p := &Producer{writer: w, log: logger.Discard()}

	require.NoError(t, p.PublishWithRetry(context.Background(), "bookings", "k", BookingEvent{}, 2))
	assert.Len(t, w.messages, 1)
}

func TestProducer_PublishWithRetryGivesUp(t *testing.T) {
	w := &fakeWriter{failures: 5}
	p := &Producer{writer: w, log: logger.Discard()}

	err := p.PublishWithRetry(context.Background(), "bookings", "k", BookingEvent{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 1 retries")
}

func TestProducer_PublishWithRetryStopsOnCancel(t *testing.T) {
	w := &fakeWriter{failures: 5}
	p := &Producer{writer: w, log: logger.Discard()}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.PublishWithRetry(ctx, "bookings", "k", BookingEvent{}, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConsumer_Consume(t *testing.T) {
	r := &fakeReader{messages: []kafka.Message{{Key: []byte("a")}, {Key: []byte("b")}}}
	c := &Consumer{reader: r}

	var seen []string
	err := c.Consume(context.Background(), func(_ context.Context, m kafka.Message) error {
		seen = append(seen, string(m.Key))
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestConsumer_HandlerErrorStops(t *testing.T) {
	r := &fakeReader{messages: []kafka.Message{{Key: []byte("a")}, {Key: []byte("b")}}}
	c := &Consumer{reader: r}

	boom := errors.New("boom")
	calls := 0
	err := c.Consume(context.Background(), func(context.Context, kafka.Message) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
