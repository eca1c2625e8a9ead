// DB operations writing imputed calls.
package calls

import (
	"context"
	"fmt"
	"strings"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
	kpool "github.com/nycbus/imputecalls/pkg/db/postgres/pool"
	xe "github.com/nycbus/imputecalls/pkg/errors"
)

type callPG struct { // implements kdb.CallInterface
	pool  kpool.Pool
	table string
}

type Option func(*callPG) *callPG

// WithTable sets the table receiving imputed calls. default: "calls"
func WithTable(table string) Option {
	return func(c *callPG) *callPG {
		c.table = table
		return c
	}
}

func New(pool kpool.Pool, options ...Option) *callPG {
	c := &callPG{
		pool:  pool,
		table: "calls",
	}
	for _, o := range options {
		c = o(c)
	}
	return c
}

var _ kdb.CallInterface = &callPG{}

// quoteIdent quotes the table name as an identifier. Table names come
// from configuration, not user input, but quoting keeps them from being
// read as SQL.
func quoteIdent(name string) (string, error) {
	if strings.ContainsAny(name, `"'`) || name == "" {
		return "", xe.New(fmt.Sprintf("bad table name: %q", name))
	}
	return `"` + name + `"`, nil
}

func (m *callPG) PurgeDay(ctx context.Context, date calendar.Date) (int64, error) {
	table, err := quoteIdent(m.table)
	if err != nil {
		return 0, err
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE "service_date" = $1::date`, table),
		date.String(),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (m *callPG) Insert(
	ctx context.Context,
	date calendar.Date,
	vehicleId string,
	tripId string,
	calls []kdb.Call,
) (int, error) {
	if len(calls) == 0 {
		return 0, nil
	}

	table, err := quoteIdent(m.table)
	if err != nil {
		return 0, err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(
		`
		INSERT INTO %s
			("service_date", "vehicle_id", "trip_id", "route_id", "direction_id", "stop_id", "call_time", "source")
		VALUES ($1::date, $2, $3, $4, $5, $6, $7, $8)
		`,
		table,
	)

	written := 0
	for _, call := range calls {
		if _, err := tx.Exec(
			ctx, query,
			date.String(), vehicleId, tripId,
			call.RouteId, call.DirectionId, call.StopId, call.Time, call.Source,
		); err != nil {
			return 0, err
		}
		written += 1
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return written, nil
}
