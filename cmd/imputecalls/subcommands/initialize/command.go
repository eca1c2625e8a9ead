// Package initialize gives the `init` subcommand: load the database
// schema, or bring an older database up to date.
package initialize

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/youta-t/flarc"

	"github.com/nycbus/imputecalls/cmd/imputecalls/subcommands/common"
	"github.com/nycbus/imputecalls/pkg/db/postgres"
)

type Flag struct {
	Schema string `flag:"schema" help:"path to the schema repository directory."`
}

func New() (flarc.Command, error) {
	schema := os.Getenv("IMPUTECALLS_SCHEMA")
	if schema == "" {
		schema = "./sql/schema"
	}

	return flarc.NewCommand(
		"create or upgrade the database schema",
		Flag{Schema: schema},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(`
Apply the schema repository to the database.

A fresh database gets every table (positions, gtfs reference tables,
calls and the imputation ledger). A database already initialized gets
only the schema versions newer than the one it is at.
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
		schema := cl.Flags().Schema
		if schema == "" {
			return fmt.Errorf("%w: flag `--schema` is required", flarc.ErrUsage)
		}

		db, err := setup.Connect(ctx, postgres.WithSchemaRepository(schema))
		if err != nil {
			return err
		}
		defer db.Close()

		before, err := db.Schema().Version(ctx)
		if err != nil {
			return err
		}
		if err := db.Schema().Upgrade(ctx); err != nil {
			return err
		}
		after, err := db.Schema().Version(ctx)
		if err != nil {
			return err
		}

		if before == after {
			logger.Printf("schema is up to date (version %d)", after)
		} else {
			logger.Printf("schema upgraded: version %d -> %d", before, after)
		}
		return nil
	}
}
