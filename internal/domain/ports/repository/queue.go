package repository

import "context"

// QueueBroker hands job keys to waiting workers, first in first out.
// Each signal is delivered to exactly one caller of Wait.
type QueueBroker interface {
	Signal(ctx context.Context, jobKey string) error
	// Wait blocks until a signal is available. There is no timeout.
	Wait(ctx context.Context) (string, error)
}
