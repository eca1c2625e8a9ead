// Package month gives the `month` subcommand: impute calls for every
// day of a month.
package month

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/youta-t/flarc"

	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/common"
	"github.com/nycbus/imputecalls/pkg/calendar"
)

type Flag struct {
	Resume bool `flag:"resume" help:"skip days the ledger already records as done."`
}

const ARG_MONTH = "MONTH"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"impute calls for every day of a month",
		Flag{},
		flarc.Args{
			{
				Name: ARG_MONTH, Required: true,
				Help: "month to impute, formatted as YYYY-MM.",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Impute every day of the month, in ascending order, one day at a time.

The first day that fails stops the whole month. With --resume, days
the ledger already records as done are skipped, so an interrupted
month continues where it stopped.
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
		period, err := calendar.ParsePeriod(cl.Args()[ARG_MONTH][0])
		if err != nil {
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
			Month(ctx, period, cl.Flags().Resume)
		if err != nil {
			return err
		}

		fmt.Fprintf(cl.Stdout(), "%s: %d calls\n", period, written)
		return nil
	}
}
