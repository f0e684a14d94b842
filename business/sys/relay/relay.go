// Package relay publishes node events to a Redis channel so processes other
// than the node can follow the chain.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the channel events are published on.
const DefaultChannel = "notechain:events"

// Config represents the settings for connecting to Redis.
type Config struct {
	Addr     string
	Username string
	Password string
	DB       int
	Channel  string
	Timeout  time.Duration
}

// Relay publishes events to Redis.
type Relay struct {
	client  *redis.Client
	channel string
	timeout time.Duration
	onError func(err error)
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config, onError func(err error)) (*Relay, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	channel := cfg.Channel
	if channel == "" {
		channel = DefaultChannel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}

	if onError == nil {
		onError = func(error) {}
	}

	r := Relay{
		client:  client,
		channel: channel,
		timeout: timeout,
		onError: onError,
	}

	return &r, nil
}

// Publish sends the event to the channel. Failures are reported to the
// error callback and never block the caller past the timeout.
func (r *Relay) Publish(s string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, s).Err(); err != nil {
		r.onError(fmt.Errorf("publish %s: %w", r.channel, err))
	}
}

// Subscribe returns a subscription to the relay channel.
func (r *Relay) Subscribe(ctx context.Context) *redis.PubSub {
	return r.client.Subscribe(ctx, r.channel)
}

// Close closes the connection to Redis.
func (r *Relay) Close() error {
	return r.client.Close()
}
