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
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
)

// Broadcaster is the WebSocket hub surface the bridge needs. The interface
// keeps this package free of a dependency on the hub implementation.
type Broadcaster interface {
	// BroadcastRaw sends raw JSON bytes to all connected clients.
	BroadcastRaw(data []byte)
}

// Frame is the envelope pushed to WebSocket clients. Type names the event
// kind; Data carries the event payload untouched.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Frame type tags, the client-facing names for the bus topics.
const (
	FrameWatchlistChanged     = "watchlist_changed"
	FrameRecommendationsStale = "recommendations_stale"
)

// Bridge subscribes to the bus and forwards every event to the WebSocket
// hub as a typed frame. It implements suture.Service. Forwarding never
// fails a message: a client that cannot keep up is the hub's problem, not
// the bus's.
type Bridge struct {
	bus *Bus
	hub Broadcaster

	forwarded   atomic.Int64
	running     chan struct{}
	runningOnce sync.Once
}

// NewBridge wires the bus to the hub.
func NewBridge(bus *Bus, hub Broadcaster) (*Bridge, error) {
	if bus == nil {
		return nil, errors.New("events: bridge requires a bus")
	}
	if hub == nil {
		return nil, errors.New("events: bridge requires a broadcaster")
	}
	return &Bridge{bus: bus, hub: hub, running: make(chan struct{})}, nil
}

// Running returns a channel that closes once the bridge has subscribed to
// both topics. Events published before that point never reach the hub, so
// startup waits on it before accepting traffic.
func (b *Bridge) Running() <-chan struct{} {
	return b.running
}

// Serve implements suture.Service. It subscribes to both topics and
// forwards until shutdown.
func (b *Bridge) Serve(ctx context.Context) error {
	watchlist, err := b.bus.Subscribe(ctx, TopicWatchlistChanged)
	if err != nil {
		return fmt.Errorf("bridge subscribe: %w", err)
	}
	stale, err := b.bus.Subscribe(ctx, TopicRecommendationsStale)
	if err != nil {
		return fmt.Errorf("bridge subscribe: %w", err)
	}
	b.runningOnce.Do(func() { close(b.running) })

	logging.Info().Msg("Event bridge started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Int64("forwarded", b.forwarded.Load()).Msg("Event bridge stopped")
			return ctx.Err()
		case msg, ok := <-watchlist:
			if !ok {
				return fmt.Errorf("bridge: %w", ErrBusClosed)
			}
			b.forward(FrameWatchlistChanged, msg)
		case msg, ok := <-stale:
			if !ok {
				return fmt.Errorf("bridge: %w", ErrBusClosed)
			}
			b.forward(FrameRecommendationsStale, msg)
		}
	}
}

// forward wraps the payload in a frame and hands it to the hub. The message
// is always acked; a frame that cannot be built is dropped after logging,
// redelivery would not fix it.
func (b *Bridge) forward(frameType string, msg *message.Message) {
	defer msg.Ack()

	frame, err := json.Marshal(Frame{Type: frameType, Data: json.RawMessage(msg.Payload)})
	if err != nil {
		logging.Warn().Err(err).Str("type", frameType).Msg("Dropping unframeable event")
		return
	}

	b.hub.BroadcastRaw(frame)
	b.forwarded.Add(1)
}

// Forwarded reports how many events reached the hub since startup.
func (b *Bridge) Forwarded() int64 {
	return b.forwarded.Load()
}

// String implements fmt.Stringer for supervisor logging.
func (b *Bridge) String() string {
	return "event-bridge"
}
