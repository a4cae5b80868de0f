package db

import (
	"context"
	"database/sql"

	"github.com/intentlane-hq/intentlane/models"
	"github.com/stretchr/testify/mock"
)

// MockDB is a testify mock of the Database interface, shared by service and
// handler tests.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDB) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDB) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	mockArgs := m.Called(ctx, query, args)
	if mockArgs.Get(0) == nil {
		return nil, mockArgs.Error(1)
	}
	return mockArgs.Get(0).(sql.Result), mockArgs.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(*sql.Row)
}

func (m *MockDB) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	if mockArgs.Get(0) == nil {
		return nil, mockArgs.Error(1)
	}
	return mockArgs.Get(0).(*sql.Rows), mockArgs.Error(1)
}

func (m *MockDB) CreateFulfillmentEvent(ctx context.Context, event *models.FulfillmentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDB) ListFulfillmentEvents(ctx context.Context) ([]*models.FulfillmentEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FulfillmentEvent), args.Error(1)
}

func (m *MockDB) ListFulfillmentEventsByUser(ctx context.Context, user string) ([]*models.FulfillmentEvent, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FulfillmentEvent), args.Error(1)
}

func (m *MockDB) CreateStakeEvent(ctx context.Context, event *models.StakeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDB) ListStakeEvents(ctx context.Context) ([]*models.StakeEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StakeEvent), args.Error(1)
}

func (m *MockDB) ListStakeEventsBySolver(ctx context.Context, solver string) ([]*models.StakeEvent, error) {
	args := m.Called(ctx, solver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StakeEvent), args.Error(1)
}
