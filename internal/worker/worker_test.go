package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"desguace/internal/events"
	"desguace/internal/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader hands out queued messages and then blocks until ctx is done.
type fakeReader struct {
	mu       sync.Mutex
	messages []kafka.Message
	errs     []error
	closed   bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type recordingProcessor struct {
	mu     sync.Mutex
	events []events.Event
	fail   map[string]error
	done   chan struct{}
	want   int
}

func (p *recordingProcessor) Process(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	if len(p.events) == p.want {
		close(p.done)
	}
	return p.fail[event.PartID]
}

func encode(t *testing.T, event events.Event) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(event.PartID), Value: data}
}

func TestWorker_ProcessesMessagesUntilCanceled(t *testing.T) {
	reader := &fakeReader{
		errs: []error{errors.New("leader not available")},
		messages: []kafka.Message{
			encode(t, events.NewPartEvent(events.PartCreated, "part-1")),
			{Value: []byte("not json")},
			encode(t, events.NewPartEvent(events.PartUpdated, "part-2")),
			encode(t, events.NewPartEvent(events.PartDeleted, "part-3")),
		},
	}
	processor := &recordingProcessor{
		fail: map[string]error{"part-2": errors.New("shop unreachable")},
		done: make(chan struct{}),
		want: 3,
	}
	w := &Worker{logger: logger.New("error"), reader: reader, processor: processor, backoff: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- w.Start(ctx) }()

	select {
	case <-processor.done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not process the queued events")
	}
	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	processor.mu.Lock()
	defer processor.mu.Unlock()
	require.Len(t, processor.events, 3)
	assert.Equal(t, "part-1", processor.events[0].PartID)
	assert.Equal(t, events.PartUpdated, processor.events[1].Type)
	assert.Equal(t, "part-3", processor.events[2].PartID)
}

func TestWorker_Stop(t *testing.T) {
	reader := &fakeReader{}
	w := &Worker{logger: logger.New("error"), reader: reader}

	require.NoError(t, w.Stop())
	assert.True(t, reader.closed)
}
