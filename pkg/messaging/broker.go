package messaging

import "context"

// Broker publishes domain events to a message channel. The API only
// publishes; consumers live outside this repository.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Close() error
}
