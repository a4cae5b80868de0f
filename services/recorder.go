package services

import (
	"context"

	"github.com/intentlane-hq/intentlane/db"
	"github.com/intentlane-hq/intentlane/logging"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/rs/zerolog"
)

// EventRecorderService persists protocol events to the database. A failed
// write never aborts the settlement that emitted the event; it is logged and
// counted.
type EventRecorderService struct {
	db      db.Database
	metrics *MetricsService
	logger  zerolog.Logger
}

// NewEventRecorderService creates a recorder. Metrics may be nil.
func NewEventRecorderService(database db.Database, metrics *MetricsService, logger zerolog.Logger) *EventRecorderService {
	return &EventRecorderService{
		db:      database,
		metrics: metrics,
		logger:  logger.With().Str(logging.FieldModule, "recorder").Logger(),
	}
}

// RecordFulfillment implements protocol.EventSink.
func (s *EventRecorderService) RecordFulfillment(ctx context.Context, event *models.FulfillmentEvent) {
	if err := s.db.CreateFulfillmentEvent(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to persist fulfillment event")
		if s.metrics != nil {
			s.metrics.RecordEventWriteError()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.RecordFulfillment(event)
	}
}

// RecordStake implements protocol.EventSink.
func (s *EventRecorderService) RecordStake(ctx context.Context, event *models.StakeEvent) {
	if err := s.db.CreateStakeEvent(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to persist stake event")
		if s.metrics != nil {
			s.metrics.RecordEventWriteError()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.RecordStake(event)
	}
}

// ListFulfillments returns recorded fulfillment events, optionally filtered
// by user.
func (s *EventRecorderService) ListFulfillments(ctx context.Context, user string) ([]*models.FulfillmentEvent, error) {
	if user != "" {
		return s.db.ListFulfillmentEventsByUser(ctx, user)
	}
	return s.db.ListFulfillmentEvents(ctx)
}

// ListStakes returns recorded stake events, optionally filtered by solver.
func (s *EventRecorderService) ListStakes(ctx context.Context, solver string) ([]*models.StakeEvent, error) {
	if solver != "" {
		return s.db.ListStakeEventsBySolver(ctx, solver)
	}
	return s.db.ListStakeEvents(ctx)
}
