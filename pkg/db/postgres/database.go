package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	kdb "github.com/nycbus/imputecalls/pkg/db"
	kpgcall "github.com/nycbus/imputecalls/pkg/db/postgres/calls"
	kpgledger "github.com/nycbus/imputecalls/pkg/db/postgres/ledger"
	kpool "github.com/nycbus/imputecalls/pkg/db/postgres/pool"
	kpgpos "github.com/nycbus/imputecalls/pkg/db/postgres/positions"
	kpgschema "github.com/nycbus/imputecalls/pkg/db/postgres/schema"
	xe "github.com/nycbus/imputecalls/pkg/errors"
)

type imputeDBPostgres struct {
	pool      *pgxpool.Pool
	schema    kdb.SchemaInterface
	positions kdb.PositionInterface
	calls     kdb.CallInterface
	ledger    kdb.LedgerInterface
}

type Config struct {
	Table            string
	Timezone         *time.Location
	SchemaRepository string
}

func DefaultConfig() Config {
	return Config{
		Table:    "calls",
		Timezone: time.UTC,
	}
}

type Option func(*Config) *Config

func WithTable(table string) Option {
	return func(c *Config) *Config {
		c.Table = table
		return c
	}
}

func WithTimezone(loc *time.Location) Option {
	return func(c *Config) *Config {
		c.Timezone = loc
		return c
	}
}

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (kdb.ImputeDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := DefaultConfig()
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)
	var schema kdb.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &imputeDBPostgres{
		pool:      pool,
		schema:    schema,
		positions: kpgpos.New(p, kpgpos.WithTimezone(c.Timezone)),
		calls:     kpgcall.New(p, kpgcall.WithTable(c.Table)),
		ledger:    kpgledger.New(p),
	}, nil
}

func (k *imputeDBPostgres) Schema() kdb.SchemaInterface {
	return k.schema
}

func (k *imputeDBPostgres) Positions() kdb.PositionInterface {
	return k.positions
}

func (k *imputeDBPostgres) Calls() kdb.CallInterface {
	return k.calls
}

func (k *imputeDBPostgres) Ledger() kdb.LedgerInterface {
	return k.ledger
}

func (k *imputeDBPostgres) Close() error {
	k.pool.Close()
	return nil
}
