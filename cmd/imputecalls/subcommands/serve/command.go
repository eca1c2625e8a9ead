// Package serve gives the `serve` subcommand: a long-running mode
// imputing yesterday's calls on a nightly schedule, with an HTTP
// endpoint exposing health and the imputation ledger.
package serve

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/youta-t/flarc"

	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/common"
	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
	"github.com/nycbus/imputecalls/pkg/db/postgres"
	"github.com/nycbus/imputecalls/pkg/utils"
	"github.com/nycbus/imputecalls/pkg/utils/retry"
)

type Flag struct {
	Listen   string `flag:"listen" help:"address of the HTTP endpoint. overrides the config file."`
	Schedule string `flag:"schedule" help:"cron expression of the nightly imputation. overrides the config file."`
	Schema   string `flag:"schema" help:"path to the schema repository directory. stops the process when the repository gets newer than the database."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"impute yesterday's calls on a nightly schedule",
		Flag{Schema: os.Getenv("IMPUTECALLS_SCHEMA")},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(`
Keep running, imputing the previous service day whenever the cron
schedule fires (default: 04:00 every day, local time).

While running, an HTTP endpoint serves:

	GET /api/health         liveness and database reachability
	GET /api/ledger/:month  ledger records of a month (YYYY-MM)

With --schema, the process watches the schema repository and stops
when it holds a version newer than the database, so that a restart
(after "init") picks the new schema up.
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
		if listen := cl.Flags().Listen; listen != "" {
			setup.Listen = listen
		}
		if schedule := cl.Flags().Schedule; schedule != "" {
			setup.Schedule = schedule
		}

		options := []postgres.Option{}
		if schema := cl.Flags().Schema; schema != "" {
			options = append(options, postgres.WithSchemaRepository(schema))
		}

		// the database may still be starting when we are
		db, err := retry.Blocking(
			ctx, retry.StaticBackoff(3*time.Second),
			func() (kdb.ImputeDatabase, error) {
				d, err := setup.Connect(ctx, options...)
				if err != nil {
					logger.Printf("database is not ready yet: %s", err)
					return nil, errors.Join(retry.ErrRetry, err)
				}
				return d, nil
			},
		)
		if err != nil {
			return err
		}
		defer db.Close()

		// stop when the schema repository outruns the database
		ctx, stop := db.Schema().Context(ctx)
		defer stop()

		dispatcher := common.NewDispatcher(db, setup, logger)

		scheduler := cron.New(cron.WithLocation(setup.Timezone))
		if _, err := scheduler.AddFunc(setup.Schedule, func() {
			yesterday := calendar.Today(setup.Timezone).Prev()
			if _, err := dispatcher.Day(ctx, yesterday); err != nil {
				logger.Printf("imputation of %s failed: %s", yesterday, err)
			}
		}); err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Printf("scheduled imputation: %q (%s)", setup.Schedule, setup.Timezone)

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.GET("/api/health", healthHandler(db, setup.Timezone))
		e.GET("/api/ledger/:month", ledgerHandler(db))

		serverErr := make(chan error, 1)
		go func() {
			serverErr <- e.Start(setup.Listen)
		}()
		logger.Printf("listening on %s", setup.Listen)

		select {
		case <-ctx.Done():
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.Shutdown(sctx); err != nil {
				return err
			}
			if cause := context.Cause(ctx); !errors.Is(cause, context.Canceled) {
				return cause
			}
			return nil
		case err := <-serverErr:
			return err
		}
	}
}

func healthHandler(db kdb.ImputeDatabase, loc *time.Location) echo.HandlerFunc {
	return func(c echo.Context) error {
		// reading the ledger proves the database is reachable
		period := calendar.Today(loc).Period()
		if _, err := db.Ledger().Find(c.Request().Context(), period); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unreachable", "cause": err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

type ledgerEntry struct {
	Date      string `json:"date"`
	Status    string `json:"status"`
	Calls     int    `json:"calls"`
	Cause     string `json:"cause,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

func ledgerHandler(db kdb.ImputeDatabase) echo.HandlerFunc {
	return func(c echo.Context) error {
		period, err := calendar.ParsePeriod(c.Param("month"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		records, err := db.Ledger().Find(c.Request().Context(), period)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusOK, utils.Map(records, func(r kdb.ImputeRecord) ledgerEntry {
			return ledgerEntry{
				Date:      r.Date.String(),
				Status:    r.Status,
				Calls:     r.Calls,
				Cause:     r.Cause,
				UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
			}
		}))
	}
}
