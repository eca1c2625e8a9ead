// Package db declares the interfaces of the database layer.
//
// Implementations are given in ./postgres. Tests use ./mocks.
package db

import (
	"context"
	"errors"

	"github.com/nycbus/imputecalls/pkg/calendar"
)

var (
	// requested record is not found.
	ErrMissing = errors.New("missing")
)

type ImputeDatabase interface {
	Schema() SchemaInterface
	Positions() PositionInterface
	Calls() CallInterface
	Ledger() LedgerInterface

	Close() error
}

type SchemaInterface interface {
	// Version returns the schema version applied to the database.
	// 0 means "no schema".
	Version(ctx context.Context) (int, error)

	// Upgrade applies schema versions newer than the current one,
	// in a single transaction.
	Upgrade(ctx context.Context) error

	// Context derives a context which is canceled when the schema
	// repository gets newer than the database.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}

type PositionInterface interface {
	// Vehicles lists ids of vehicles having positions on the service date.
	Vehicles(ctx context.Context, date calendar.Date) ([]string, error)

	// Positions fetches every position of a vehicle around the service
	// date (including the late-night spillover), ordered by trip,
	// stop sequence and timestamp.
	Positions(ctx context.Context, vehicleId string, date calendar.Date) ([]Position, error)

	// StopTimes fetches the scheduled stop times of a trip with
	// distance along its shape, ordered by stop sequence.
	StopTimes(ctx context.Context, tripId string) ([]StopTime, error)
}

type CallInterface interface {
	// PurgeDay removes calls already written for the service date,
	// so that re-dispatching a day is safe.
	PurgeDay(ctx context.Context, date calendar.Date) (int64, error)

	// Insert writes calls of one (vehicle, trip) into the calls table,
	// attributed to the service date.
	Insert(ctx context.Context, date calendar.Date, vehicleId string, tripId string, calls []Call) (int, error)
}

type LedgerInterface interface {
	// Started records that imputation of the service date has begun.
	Started(ctx context.Context, date calendar.Date) error

	// Done records successful imputation with the number of written calls.
	Done(ctx context.Context, date calendar.Date, calls int) error

	// Failed records a failed imputation with its cause.
	Failed(ctx context.Context, date calendar.Date, cause string) error

	// IsDone tells whether the service date is recorded as done.
	IsDone(ctx context.Context, date calendar.Date) (bool, error)

	// Find lists ledger records for the period, ascending by date.
	Find(ctx context.Context, period calendar.Period) ([]ImputeRecord, error)
}
