package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	got    []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func header(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "paddy.events", nil)

	evt, err := New(SaleRecorded, "ACME", "SAL-2026-00001", map[string]string{"total": "12500.00"})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), evt))
	require.Len(t, w.got, 1)

	msg := w.got[0]
	assert.Equal(t, "ACME", string(msg.Key))
	assert.Equal(t, SaleRecorded, header(msg, "event_type"))
	assert.Equal(t, evt.ID.String(), header(msg, "event_id"))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "SAL-2026-00001", decoded.Reference)
	assert.JSONEq(t, `{"total":"12500.00"}`, string(decoded.Payload))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := newKafkaPublisher(&fakeWriter{err: boom}, "paddy.events", nil)

	evt, err := New(CoinsAwarded, "ACME", "", map[string]int{"amount": 5})
	require.NoError(t, err)

	err = p.Publish(context.Background(), evt)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "paddy.events")
}

func TestKafkaPublisher_NoEventsIsNoop(t *testing.T) {
	w := &fakeWriter{err: errors.New("should not be called")}
	assert.NoError(t, newKafkaPublisher(w, "t", nil).Publish(context.Background()))
}

func TestNew_RejectsUnmarshalablePayload(t *testing.T) {
	_, err := New(LoanApplied, "ACME", "", make(chan int))
	assert.Error(t, err)
}
