// DB operations on the impute_log ledger: one row per service date,
// recording the outcome of its imputation.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
	kpool "github.com/nycbus/imputecalls/pkg/db/postgres/pool"
)

type ledgerPG struct { // implements kdb.LedgerInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *ledgerPG {
	return &ledgerPG{pool: pool}
}

var _ kdb.LedgerInterface = &ledgerPG{}

const upsert = `
INSERT INTO "impute_log" ("service_date", "status", "calls", "cause", "updated_at")
VALUES ($1::date, $2, $3, $4, now())
ON CONFLICT ("service_date") DO UPDATE
	SET "status" = EXCLUDED."status",
		"calls" = EXCLUDED."calls",
		"cause" = EXCLUDED."cause",
		"updated_at" = now()
`

func (m *ledgerPG) record(ctx context.Context, date calendar.Date, status string, calls int, cause string) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, upsert, date.String(), status, calls, cause)
	return err
}

func (m *ledgerPG) Started(ctx context.Context, date calendar.Date) error {
	return m.record(ctx, date, kdb.ImputeRunning, 0, "")
}

func (m *ledgerPG) Done(ctx context.Context, date calendar.Date, calls int) error {
	return m.record(ctx, date, kdb.ImputeDone, calls, "")
}

func (m *ledgerPG) Failed(ctx context.Context, date calendar.Date, cause string) error {
	return m.record(ctx, date, kdb.ImputeFailed, 0, cause)
}

func (m *ledgerPG) IsDone(ctx context.Context, date calendar.Date) (bool, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	var status string
	if err := conn.QueryRow(
		ctx,
		`SELECT "status" FROM "impute_log" WHERE "service_date" = $1::date`,
		date.String(),
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return status == kdb.ImputeDone, nil
}

func (m *ledgerPG) Find(ctx context.Context, period calendar.Period) ([]kdb.ImputeRecord, error) {
	dates := period.Dates()
	first, last := dates[0], dates[len(dates)-1]

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		SELECT "service_date", "status", "calls", "cause", "updated_at"
		FROM "impute_log"
		WHERE "service_date" BETWEEN $1::date AND $2::date
		ORDER BY "service_date" ASC
		`,
		first.String(), last.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []kdb.ImputeRecord{}
	for rows.Next() {
		var (
			serviceDate time.Time
			status      string
			calls       int
			cause       pgtype.Text
			updatedAt   time.Time
		)
		if err := rows.Scan(&serviceDate, &status, &calls, &cause, &updatedAt); err != nil {
			return nil, err
		}

		r := kdb.ImputeRecord{
			Date:      calendar.FromTime(serviceDate),
			Status:    status,
			Calls:     calls,
			UpdatedAt: updatedAt,
		}
		if cause.Status == pgtype.Present {
			r.Cause = cause.String
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
