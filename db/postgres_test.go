package db

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intentlane-hq/intentlane/models"
)

func newMockPostgres(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &PostgresDB{db: db}, mock
}

func TestCreateFulfillmentEvent(t *testing.T) {
	pg, mock := newMockPostgres(t)

	event := &models.FulfillmentEvent{
		ID:        "evt-1",
		User:      common.HexToAddress("0x0b"),
		Solver:    common.HexToAddress("0x0c"),
		Asset:     common.HexToAddress("0xa1"),
		Amount:    big.NewInt(100),
		Fee:       big.NewInt(1),
		CreatedAt: time.Now(),
	}

	mock.ExpectExec("INSERT INTO fulfillment_events").
		WithArgs(event.ID, event.User.Hex(), event.Solver.Hex(), event.Asset.Hex(), "100", "1", event.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, pg.CreateFulfillmentEvent(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFulfillmentEventsByUser(t *testing.T) {
	pg, mock := newMockPostgres(t)

	user := common.HexToAddress("0x0b")
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_address", "solver_address", "asset_address", "amount", "fee", "created_at"}).
		AddRow("evt-2", user.Hex(), common.HexToAddress("0x0c").Hex(), common.HexToAddress("0xa1").Hex(), "100", "1", now).
		AddRow("evt-1", user.Hex(), common.HexToAddress("0x0d").Hex(), common.HexToAddress("0xa1").Hex(), "50", "2", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM fulfillment_events").
		WithArgs(user.Hex()).
		WillReturnRows(rows)

	events, err := pg.ListFulfillmentEventsByUser(context.Background(), user.Hex())
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "evt-2", events[0].ID)
	assert.Equal(t, user, events[0].User)
	assert.Equal(t, big.NewInt(100), events[0].Amount)
	assert.Equal(t, big.NewInt(2), events[1].Fee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFulfillmentEventsEmpty(t *testing.T) {
	pg, mock := newMockPostgres(t)

	rows := sqlmock.NewRows([]string{"id", "user_address", "solver_address", "asset_address", "amount", "fee", "created_at"})
	mock.ExpectQuery("SELECT (.+) FROM fulfillment_events").WillReturnRows(rows)

	events, err := pg.ListFulfillmentEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCreateStakeEvent(t *testing.T) {
	pg, mock := newMockPostgres(t)

	event := &models.StakeEvent{
		ID:        "stk-1",
		Kind:      models.StakeAdded,
		Solver:    common.HexToAddress("0x0c"),
		Amount:    big.NewInt(10),
		Total:     big.NewInt(10),
		CreatedAt: time.Now(),
	}

	mock.ExpectExec("INSERT INTO stake_events").
		WithArgs(event.ID, string(event.Kind), event.Solver.Hex(), "10", "10", event.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, pg.CreateStakeEvent(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStakeEventsBySolver(t *testing.T) {
	pg, mock := newMockPostgres(t)

	solver := common.HexToAddress("0x0c")
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "kind", "solver_address", "amount", "total", "created_at"}).
		AddRow("stk-2", "withdrawn", solver.Hex(), "5", "5", now).
		AddRow("stk-1", "added", solver.Hex(), "10", "10", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM stake_events").
		WithArgs(solver.Hex()).
		WillReturnRows(rows)

	events, err := pg.ListStakeEventsBySolver(context.Background(), solver.Hex())
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, models.StakeWithdrawn, events[0].Kind)
	assert.Equal(t, big.NewInt(5), events[0].Total)
	assert.Equal(t, models.StakeAdded, events[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitDB(t *testing.T) {
	pg, mock := newMockPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS fulfillment_events").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, pg.InitDB(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
