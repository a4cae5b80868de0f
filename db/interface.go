package db

import (
	"context"
	"database/sql"

	"github.com/intentlane-hq/intentlane/models"
)

// Database interface defines the methods that an event store implementation
// must provide. Events are append-only: there are no update or delete
// operations.
type Database interface {
	// Database connection management
	Close() error
	Ping() error
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

	// Fulfillment event operations
	CreateFulfillmentEvent(ctx context.Context, event *models.FulfillmentEvent) error
	ListFulfillmentEvents(ctx context.Context) ([]*models.FulfillmentEvent, error)
	ListFulfillmentEventsByUser(ctx context.Context, user string) ([]*models.FulfillmentEvent, error)

	// Stake event operations
	CreateStakeEvent(ctx context.Context, event *models.StakeEvent) error
	ListStakeEvents(ctx context.Context) ([]*models.StakeEvent, error)
	ListStakeEventsBySolver(ctx context.Context, solver string) ([]*models.StakeEvent, error)
}
