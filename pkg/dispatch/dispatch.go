// Package dispatch fans imputation out over days, months and years.
//
// Work is dispatched day by day, in ascending order, and halts at the
// first day that fails. Every day's outcome is recorded in the ledger,
// so an interrupted month can be resumed where it stopped.
package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
	xe "github.com/nycbus/imputecalls/pkg/errors"
	"github.com/nycbus/imputecalls/pkg/loop"
)

// Imputer imputes the calls of one service day.
type Imputer interface {
	ImputeDay(ctx context.Context, date calendar.Date) (int, error)
}

type Dispatcher struct {
	imputer Imputer
	ledger  kdb.LedgerInterface
	logger  *log.Logger
}

type Option func(*Dispatcher) *Dispatcher

func WithLogger(logger *log.Logger) Option {
	return func(d *Dispatcher) *Dispatcher {
		d.logger = logger
		return d
	}
}

func New(imputer Imputer, ledger kdb.LedgerInterface, options ...Option) *Dispatcher {
	d := &Dispatcher{
		imputer: imputer,
		ledger:  ledger,
		logger:  log.Default(),
	}
	for _, o := range options {
		d = o(d)
	}
	return d
}

// Day imputes one service day and records its outcome in the ledger.
//
// Returns the number of calls written. There are no retries: any error
// is final, after being written to the ledger as a failure.
func (d *Dispatcher) Day(ctx context.Context, date calendar.Date) (int, error) {
	if err := d.ledger.Started(ctx, date); err != nil {
		return 0, xe.Wrap(err)
	}

	written, err := d.imputer.ImputeDay(ctx, date)
	if err != nil {
		err = fmt.Errorf("imputing %s: %w", date, err)
		if lerr := d.ledger.Failed(ctx, date, err.Error()); lerr != nil {
			d.logger.Printf("cannot record failure of %s: %s", date, lerr)
		}
		return written, err
	}

	if err := d.ledger.Done(ctx, date, written); err != nil {
		return written, xe.Wrap(err)
	}
	d.logger.Printf("done %s: %d calls", date, written)
	return written, nil
}

// Month imputes every day of the period in ascending order, halting at
// the first failure.
//
// With resume, days the ledger already knows as done are skipped.
func (d *Dispatcher) Month(ctx context.Context, period calendar.Period, resume bool) (int, error) {
	dates := period.Dates()

	type progress struct {
		nth   int
		total int
	}
	p, err := loop.Start(ctx, progress{}, func(ctx context.Context, p progress) (progress, loop.Next) {
		if len(dates) <= p.nth {
			return p, loop.Break(nil)
		}
		date := dates[p.nth]

		if resume {
			done, err := d.ledger.IsDone(ctx, date)
			if err != nil {
				return p, loop.Break(xe.Wrap(err))
			}
			if done {
				d.logger.Printf("skipping %s: already done", date)
				return progress{nth: p.nth + 1, total: p.total}, loop.Continue(0)
			}
		}

		written, err := d.Day(ctx, date)
		if err != nil {
			return p, loop.Break(err)
		}
		return progress{nth: p.nth + 1, total: p.total + written}, loop.Continue(0)
	})
	if err != nil {
		return p.total, err
	}

	d.logger.Printf("done %s: %d calls over %d days", period, p.total, len(dates))
	return p.total, nil
}

// Year imputes every month of the year in ascending order, halting at
// the first failure.
func (d *Dispatcher) Year(ctx context.Context, year int, resume bool) (int, error) {
	total := 0
	for month := 1; month <= 12; month++ {
		period, err := calendar.NewPeriod(year, month)
		if err != nil {
			return total, xe.Wrap(err)
		}

		written, err := d.Month(ctx, period, resume)
		total += written
		if err != nil {
			return total, err
		}
	}

	d.logger.Printf("done year %04d: %d calls", year, total)
	return total, nil
}
