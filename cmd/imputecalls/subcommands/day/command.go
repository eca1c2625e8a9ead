// Package day gives the `day` subcommand: impute calls for one
// service day.
package day

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/youta-t/flarc"

	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/common"
	"github.com/nycbus/imputecalls/pkg/calendar"
)

const ARG_DATE = "DATE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"impute calls for one service day",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_DATE, Required: true,
				Help: "service day to impute, formatted as YYYY-MM-DD.",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Impute the calls of every vehicle active on the service day.

Calls already written for the day are replaced, so imputing the same
day again is safe. The outcome goes to the imputation ledger either
way.
`),
	)
}

func Task() common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		setup common.Setup,
		cl flarc.Commandline[struct{}],
		_ []any,
	) error {
		date, err := calendar.ParseDate(cl.Args()[ARG_DATE][0])
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

		written, err := common.NewDispatcher(db, setup, logger).Day(ctx, date)
		if err != nil {
			return err
		}

		fmt.Fprintf(cl.Stdout(), "%s: %d calls\n", date, written)
		return nil
	}
}
