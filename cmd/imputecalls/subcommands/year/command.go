// Package year gives the `year` subcommand: impute calls for every
// day of a year.
package year

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/youta-t/flarc"

	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/common"
	"github.com/nycbus/imputecalls/pkg/calendar"
)

type Flag struct {
	Resume bool `flag:"resume" help:"skip days the ledger already records as done."`
}

const ARG_YEAR = "YEAR"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"impute calls for every day of a year",
		Flag{},
		flarc.Args{
			{
				Name: ARG_YEAR, Required: true,
				Help: "year to impute, formatted as YYYY.",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Impute every day of the year, month by month, in ascending order.

The first day that fails stops the whole year. With --resume, days
the ledger already records as done are skipped.
`),
	)
}

func Task() common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		setup common.Setup,
		cl flarc.Commandline[Flag],
		_ []any,
	) error {
		raw := cl.Args()[ARG_YEAR][0]
		year, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %q is not formatted as YYYY", flarc.ErrUsage, raw)
		}
		if _, err := calendar.NewPeriod(year, 1); err != nil {
			if errors.Is(err, calendar.ErrInvalidPeriod) {
				return errors.Join(flarc.ErrUsage, err)
			}
			return err
		}

		db, err := setup.Connect(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		written, err := common.NewDispatcher(db, setup, logger).
			Year(ctx, year, cl.Flags().Resume)
		if err != nil {
			return err
		}

		fmt.Fprintf(cl.Stdout(), "%04d: %d calls\n", year, written)
		return nil
	}
}
