package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/medibook/clinic-api/pkg/messaging"
)

type Broker struct {
	client *redis.Client
}

type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

func NewBroker(cfg Config) (messaging.Broker, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Broker{client: client}, nil
}

func (b *Broker) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *Broker) Close() error {
	return b.client.Close()
}
