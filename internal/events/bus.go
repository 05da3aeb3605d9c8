// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/metrics"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// Topics carried by the bus. Dotted subjects keep the names grep-able in
// logs and leave room for finer-grained suffixes later.
const (
	TopicWatchlistChanged     = "watchlist.changed"
	TopicRecommendationsStale = "recommendations.stale"
)

// outputChannelBuffer sizes each subscriber's delivery channel. The buffer
// only decouples the channel send; delivery stays ack-gated one message at
// a time per subscriber.
const outputChannelBuffer = 64

// ErrBusClosed is returned by Publish and Subscribe after Close.
var ErrBusClosed = errors.New("events: bus closed")

// Bus is the in-process Pub/Sub connecting the watchlist store, the
// recommendation engine, and the WebSocket bridge. Delivery reaches only
// subscribers present at publish time, so all consumers subscribe during
// startup.
type Bus struct {
	pubsub *gochannel.GoChannel

	mu     sync.RWMutex
	closed bool
}

// NewBus creates the bus with transport logs routed through zerolog.
func NewBus() *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: outputChannelBuffer},
		newLoggerAdapter(logging.WithComponent("events")),
	)
	return &Bus{pubsub: pubsub}
}

// Publish sends one message to the given topic and records it in the
// publish counter. The call does not wait for consumers: delivery runs in
// transport goroutines that block until each subscriber acks, so mutation
// paths can publish inline.
func (b *Bus) Publish(ctx context.Context, topic string, msg *message.Message) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBusClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.RecordEventPublished(topic)
	return nil
}

// PublishWatchlistChange serializes a watchlist mutation notification onto
// TopicWatchlistChanged.
func (b *Bus) PublishWatchlistChange(ctx context.Context, ev *models.WatchlistEvent) error {
	if ev == nil {
		return errors.New("events: nil watchlist event")
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal watchlist event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), data)
	msg.Metadata.Set("op", string(ev.Op))
	return b.Publish(ctx, TopicWatchlistChanged, msg)
}

// PublishRecommendationsStale serializes a staleness notification onto
// TopicRecommendationsStale.
func (b *Bus) PublishRecommendationsStale(ctx context.Context, ev *models.RecommendationsStaleEvent) error {
	if ev == nil {
		return errors.New("events: nil staleness event")
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal staleness event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), data)
	msg.Metadata.Set("reason", ev.Reason)
	return b.Publish(ctx, TopicRecommendationsStale, msg)
}

// Subscribe returns a channel of messages for the topic. The channel closes
// when ctx is canceled or the bus closes. Every received message must be
// acked or nacked.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return nil, ErrBusClosed
	}

	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return ch, nil
}

// Close shuts the bus down and closes all subscriber channels. Close is
// idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	return b.pubsub.Close()
}

// DecodeWatchlistEvent unmarshals a message produced by
// PublishWatchlistChange.
func DecodeWatchlistEvent(msg *message.Message) (*models.WatchlistEvent, error) {
	var ev models.WatchlistEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return nil, fmt.Errorf("decode watchlist event: %w", err)
	}
	return &ev, nil
}

// DecodeRecommendationsStale unmarshals a message produced by
// PublishRecommendationsStale.
func DecodeRecommendationsStale(msg *message.Message) (*models.RecommendationsStaleEvent, error) {
	var ev models.RecommendationsStaleEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return nil, fmt.Errorf("decode staleness event: %w", err)
	}
	return &ev, nil
}
