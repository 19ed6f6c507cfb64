package worker

import (
	"context"
	"encoding/json"
	"time"

	"desguace/internal/config"
	"desguace/internal/events"
	"desguace/internal/logger"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Processor handles one decoded part event.
type Processor interface {
	Process(ctx context.Context, event events.Event) error
}

type Worker struct {
	logger    *logger.Logger
	reader    messageReader
	processor Processor
	backoff   time.Duration
}

func New(cfg *config.Config, log *logger.Logger, processor Processor) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		logger:    log,
		reader:    reader,
		processor: processor,
		backoff:   time.Second,
	}
}

// Start consumes part events until ctx is canceled. Messages that cannot be
// decoded or processed are logged and skipped.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Worker started, listening for events...")

	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error("Failed to read message: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.backoff):
			}
			continue
		}

		w.handle(ctx, message)
	}
}

func (w *Worker) handle(ctx context.Context, message kafka.Message) {
	w.logger.Debug("Received message: %s", string(message.Value))

	var event events.Event
	if err := json.Unmarshal(message.Value, &event); err != nil {
		w.logger.Error("Failed to parse event: %v", err)
		return
	}

	if err := w.processor.Process(ctx, event); err != nil {
		w.logger.Error("Failed to process %s event for part %s: %v", event.Type, event.PartID, err)
		return
	}

	w.logger.Debug("Event %s processed successfully", event.ID)
}

func (w *Worker) Stop() error {
	w.logger.Info("Stopping worker...")
	return w.reader.Close()
}
