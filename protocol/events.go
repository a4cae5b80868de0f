package protocol

import (
	"context"
	"sync"

	"github.com/intentlane-hq/intentlane/models"
)

// EventSink receives protocol events as they are emitted. Events are
// append-only; a sink must never mutate them.
type EventSink interface {
	RecordFulfillment(ctx context.Context, event *models.FulfillmentEvent)
	RecordStake(ctx context.Context, event *models.StakeEvent)
}

// MemorySink collects events in memory. Used by tests and the benchmark
// harness.
type MemorySink struct {
	mu           sync.Mutex
	fulfillments []*models.FulfillmentEvent
	stakes       []*models.StakeEvent
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) RecordFulfillment(_ context.Context, event *models.FulfillmentEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fulfillments = append(s.fulfillments, event)
}

func (s *MemorySink) RecordStake(_ context.Context, event *models.StakeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stakes = append(s.stakes, event)
}

// Fulfillments returns a snapshot of recorded fulfillment events.
func (s *MemorySink) Fulfillments() []*models.FulfillmentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.FulfillmentEvent, len(s.fulfillments))
	copy(out, s.fulfillments)
	return out
}

// Stakes returns a snapshot of recorded stake events.
func (s *MemorySink) Stakes() []*models.StakeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.StakeEvent, len(s.stakes))
	copy(out, s.stakes)
	return out
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordFulfillment(context.Context, *models.FulfillmentEvent) {}
func (NopSink) RecordStake(context.Context, *models.StakeEvent)             {}
