// Package messagequeue defines the event publication port for run and round
// lifecycle events.
package messagequeue

import "context"

// Handler processes a message received on a subject.
type Handler func(subject string, data []byte) error

// Queue publishes and subscribes to council events.
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(ctx context.Context, subject string, handler Handler) (cancel func(), err error)
}
