package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w, topic: "part-events"}

	event := NewPartEvent(PartUpdated, "part-1")
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "part-events", msg.Topic)
	assert.Equal(t, []byte("part-1"), msg.Key)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, PartUpdated, decoded.Type)
	assert.Equal(t, "part-1", decoded.PartID)
	assert.Nil(t, decoded.WooProductID)
	assert.True(t, event.Timestamp.Equal(decoded.Timestamp))
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	w := &mockWriter{err: errors.New("broker unavailable")}
	p := &KafkaPublisher{writer: w, topic: "part-events"}

	err := p.Publish(context.Background(), NewPartEvent(PartDeleted, "part-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "part.deleted")
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w, topic: "part-events"}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewPartEvent(t *testing.T) {
	a := NewPartEvent(PartCreated, "part-1")
	b := NewPartEvent(PartCreated, "part-1")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewPartEvent(PartCreated, "part-1")))
	assert.NoError(t, p.Close())
}
