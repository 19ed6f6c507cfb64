package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	PartCreated Type = "part.created"
	PartUpdated Type = "part.updated"
	PartDeleted Type = "part.deleted"
)

// Event announces a change to a part. WooProductID is set on deletions so
// the shop product can be removed after the row is gone.
type Event struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	PartID       string    `json:"part_id"`
	WooProductID *int64    `json:"woo_product_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewPartEvent(typ Type, partID string) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      typ,
		PartID:    partID,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NopPublisher) Close() error { return nil }
