package events

import (
	"context"
	"time"
)

// PublishTimeout bounds how long a request handler waits for a broker.
const PublishTimeout = 2 * time.Second

type Type string

const (
	TypeUploaded Type = "image.uploaded"
	TypeDeleted  Type = "image.deleted"
)

// Event announces a change to the image directory so galleries can refresh
// without waiting for their next poll.
type Event struct {
	Type    Type      `json:"type"`
	ImageID string    `json:"id"`
	URL     string    `json:"url,omitempty"`
	At      time.Time `json:"at"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Publisher
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error {
	return nil
}
