// Package common carries the flags and setup shared by every subcommand.
package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/youta-t/flarc"

	"github.com/nycbus/imputecalls/pkg/configs"
	kdb "github.com/nycbus/imputecalls/pkg/db"
	"github.com/nycbus/imputecalls/pkg/db/postgres"
	"github.com/nycbus/imputecalls/pkg/dispatch"
	"github.com/nycbus/imputecalls/pkg/domain/impute"
)

type Flags struct {
	Config   string `flag:"config" help:"path to an imputecalls config file (yaml)."`
	Database string `flag:"database" help:"connection string of the database. overrides the config file."`
	Table    string `flag:"table" help:"table receiving imputed calls. overrides the config file."`
	Timezone string `flag:"timezone" help:"local timezone bounding service days. overrides the config file."`
	Workers  int    `flag:"workers" help:"vehicles imputed in parallel. 0 means number of CPUs."`
}

// DefaultFlags reads flag defaults from the environment.
func DefaultFlags() Flags {
	return Flags{
		Config:   os.Getenv("IMPUTECALLS_CONFIG"),
		Database: os.Getenv("DATABASE_URL"),
	}
}

// DefaultDatabase is the connection string used when neither the
// config file nor the command line names one.
const DefaultDatabase = "dbname=nycbus"

// Setup is the resolved configuration a subcommand runs with: the
// config file values with command line overrides applied.
type Setup struct {
	Database string
	Table    string
	Timezone *time.Location
	Workers  int
	Listen   string
	Schedule string
}

// Resolve merges the config file (if any) and the command line flags.
func (f Flags) Resolve() (Setup, error) {
	setup := Setup{
		Table:    "calls",
		Listen:   ":8080",
		Schedule: "0 4 * * *",
	}

	if f.Config != "" {
		conf, err := configs.LoadImputeConfig(f.Config)
		if err != nil {
			return Setup{}, fmt.Errorf("cannot load config file (%s): %w", f.Config, err)
		}
		setup.Database = conf.Database()
		setup.Table = conf.Table()
		setup.Timezone = conf.Timezone()
		setup.Workers = conf.Workers()
		if serve := conf.Serve(); serve != nil {
			setup.Listen = serve.Listen()
			setup.Schedule = serve.Schedule()
		}
	}

	if f.Database != "" {
		setup.Database = f.Database
	}
	if f.Table != "" {
		setup.Table = f.Table
	}
	if f.Timezone != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return Setup{}, fmt.Errorf("%w: unknown timezone %q", flarc.ErrUsage, f.Timezone)
		}
		setup.Timezone = loc
	}
	if setup.Timezone == nil {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			return Setup{}, err
		}
		setup.Timezone = loc
	}
	if 0 < f.Workers {
		setup.Workers = f.Workers
	}

	if setup.Database == "" {
		setup.Database = DefaultDatabase
	}

	return setup, nil
}

// Connect opens the database this setup points at.
func (s Setup) Connect(ctx context.Context, options ...postgres.Option) (kdb.ImputeDatabase, error) {
	return postgres.New(
		ctx, s.Database,
		append(
			[]postgres.Option{
				postgres.WithTable(s.Table),
				postgres.WithTimezone(s.Timezone),
			},
			options...,
		)...,
	)
}

// NewDispatcher builds the imputation engine and its dispatcher over db.
func NewDispatcher(db kdb.ImputeDatabase, s Setup, logger *log.Logger) *dispatch.Dispatcher {
	engine := impute.New(
		db.Positions(), db.Calls(),
		impute.WithTimezone(s.Timezone),
		impute.WithWorkers(s.Workers),
		impute.WithLogger(logger),
	)
	return dispatch.New(engine, db.Ledger(), dispatch.WithLogger(logger))
}

// Task is a subcommand body receiving the resolved setup.
type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	setup Setup,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTask adapts a Task into a flarc task, extracting the common flags
// handed down by the command group and resolving them into a Setup.
func NewTask[T any](task Task[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var flags Flags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case Flags:
				found = true
				flags = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		setup, err := flags.Resolve()
		if err != nil {
			return err
		}

		return task(ctx, logger, setup, cl, newpos)
	}
}
