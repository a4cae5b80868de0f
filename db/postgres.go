package db

import (
	"context"
	"database/sql"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intentlane-hq/intentlane/models"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgresDB implements the Database interface using PostgreSQL
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	postgresDB := &PostgresDB{db: db}

	// Initialize the database schema
	if err := postgresDB.InitDB(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	return postgresDB, nil
}

// InitDB creates the event tables if they do not exist.
func (p *PostgresDB) InitDB(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS fulfillment_events (
			id TEXT PRIMARY KEY,
			user_address TEXT NOT NULL,
			solver_address TEXT NOT NULL,
			asset_address TEXT NOT NULL,
			amount TEXT NOT NULL,
			fee TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_fulfillment_events_user ON fulfillment_events(user_address);
		CREATE INDEX IF NOT EXISTS idx_fulfillment_events_solver ON fulfillment_events(solver_address);

		CREATE TABLE IF NOT EXISTS stake_events (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			solver_address TEXT NOT NULL,
			amount TEXT NOT NULL,
			total TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_stake_events_solver ON stake_events(solver_address);
	`

	_, err := p.db.ExecContext(ctx, schema)
	return errors.Wrap(err, "failed to create schema")
}

// Close closes the database connection
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

// Ping checks if the database connection is alive
func (p *PostgresDB) Ping() error {
	return p.db.Ping()
}

// Exec executes a query without returning any rows
func (p *PostgresDB) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return p.db.ExecContext(ctx, query, args...)
}

// QueryRow executes a query that is expected to return at most one row
func (p *PostgresDB) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return p.db.QueryRowContext(ctx, query, args...)
}

// Query executes a query that returns rows
func (p *PostgresDB) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return p.db.QueryContext(ctx, query, args...)
}

// CreateFulfillmentEvent appends a fulfillment event
func (p *PostgresDB) CreateFulfillmentEvent(ctx context.Context, event *models.FulfillmentEvent) error {
	query := `
		INSERT INTO fulfillment_events (id, user_address, solver_address, asset_address, amount, fee, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.db.ExecContext(ctx, query,
		event.ID,
		event.User.Hex(),
		event.Solver.Hex(),
		event.Asset.Hex(),
		event.Amount.String(),
		event.Fee.String(),
		event.CreatedAt,
	)
	return errors.Wrap(err, "failed to insert fulfillment event")
}

// ListFulfillmentEvents retrieves all fulfillment events, newest first
func (p *PostgresDB) ListFulfillmentEvents(ctx context.Context) ([]*models.FulfillmentEvent, error) {
	query := `
		SELECT id, user_address, solver_address, asset_address, amount, fee, created_at
		FROM fulfillment_events
		ORDER BY created_at DESC
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list fulfillment events")
	}
	defer rows.Close()

	return scanFulfillmentEvents(rows)
}

// ListFulfillmentEventsByUser retrieves fulfillment events for a user, newest first
func (p *PostgresDB) ListFulfillmentEventsByUser(ctx context.Context, user string) ([]*models.FulfillmentEvent, error) {
	query := `
		SELECT id, user_address, solver_address, asset_address, amount, fee, created_at
		FROM fulfillment_events
		WHERE user_address = $1
		ORDER BY created_at DESC
	`

	rows, err := p.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list fulfillment events by user")
	}
	defer rows.Close()

	return scanFulfillmentEvents(rows)
}

// CreateStakeEvent appends a stake event
func (p *PostgresDB) CreateStakeEvent(ctx context.Context, event *models.StakeEvent) error {
	query := `
		INSERT INTO stake_events (id, kind, solver_address, amount, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.db.ExecContext(ctx, query,
		event.ID,
		string(event.Kind),
		event.Solver.Hex(),
		event.Amount.String(),
		event.Total.String(),
		event.CreatedAt,
	)
	return errors.Wrap(err, "failed to insert stake event")
}

// ListStakeEvents retrieves all stake events, newest first
func (p *PostgresDB) ListStakeEvents(ctx context.Context) ([]*models.StakeEvent, error) {
	query := `
		SELECT id, kind, solver_address, amount, total, created_at
		FROM stake_events
		ORDER BY created_at DESC
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stake events")
	}
	defer rows.Close()

	return scanStakeEvents(rows)
}

// ListStakeEventsBySolver retrieves stake events for a solver, newest first
func (p *PostgresDB) ListStakeEventsBySolver(ctx context.Context, solver string) ([]*models.StakeEvent, error) {
	query := `
		SELECT id, kind, solver_address, amount, total, created_at
		FROM stake_events
		WHERE solver_address = $1
		ORDER BY created_at DESC
	`

	rows, err := p.db.QueryContext(ctx, query, solver)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stake events by solver")
	}
	defer rows.Close()

	return scanStakeEvents(rows)
}

func scanFulfillmentEvents(rows *sql.Rows) ([]*models.FulfillmentEvent, error) {
	var events []*models.FulfillmentEvent
	for rows.Next() {
		var (
			event                            models.FulfillmentEvent
			user, solver, asset, amount, fee string
		)
		if err := rows.Scan(&event.ID, &user, &solver, &asset, &amount, &fee, &event.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan fulfillment event")
		}

		event.User = common.HexToAddress(user)
		event.Solver = common.HexToAddress(solver)
		event.Asset = common.HexToAddress(asset)
		event.Amount = mustBig(amount)
		event.Fee = mustBig(fee)
		events = append(events, &event)
	}

	return events, errors.Wrap(rows.Err(), "failed to iterate fulfillment events")
}

func scanStakeEvents(rows *sql.Rows) ([]*models.StakeEvent, error) {
	var events []*models.StakeEvent
	for rows.Next() {
		var (
			event                       models.StakeEvent
			kind, solver, amount, total string
		)
		if err := rows.Scan(&event.ID, &kind, &solver, &amount, &total, &event.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan stake event")
		}

		event.Kind = models.StakeEventKind(kind)
		event.Solver = common.HexToAddress(solver)
		event.Amount = mustBig(amount)
		event.Total = mustBig(total)
		events = append(events, &event)
	}

	return events, errors.Wrap(rows.Err(), "failed to iterate stake events")
}

// mustBig parses a stored decimal amount. Stored values always come from
// big.Int.String, so a parse failure means a corrupted row; treat it as zero.
func mustBig(s string) *big.Int {
	value, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return value
}
