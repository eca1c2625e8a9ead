// Package fake gives scriptable stand-ins for the pool interfaces, for
// tests running without a live database.
package fake

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	kpool "github.com/nycbus/imputecalls/pkg/db/postgres/pool"
)

// Query is one recorded statement.
type Query struct {
	SQL  string
	Args []interface{}
}

// Queryer records statements and delegates to On* handlers.
// Handlers left nil make the call fail.
type Queryer struct {
	Log []Query

	OnExec     func(sql string, args []interface{}) (pgconn.CommandTag, error)
	OnQuery    func(sql string, args []interface{}) (pgx.Rows, error)
	OnQueryRow func(sql string, args []interface{}) pgx.Row
}

func (q *Queryer) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	q.Log = append(q.Log, Query{SQL: sql, Args: arguments})
	if q.OnExec == nil {
		return nil, errors.New("fake: Exec is not scripted")
	}
	return q.OnExec(sql, arguments)
}

func (q *Queryer) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	q.Log = append(q.Log, Query{SQL: sql, Args: args})
	if q.OnQuery == nil {
		return nil, errors.New("fake: Query is not scripted")
	}
	return q.OnQuery(sql, args)
}

func (q *Queryer) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	q.Log = append(q.Log, Query{SQL: sql, Args: args})
	if q.OnQueryRow == nil {
		return Row{Error: errors.New("fake: QueryRow is not scripted")}
	}
	return q.OnQueryRow(sql, args)
}

// Row scans scripted values, or fails with Error.
type Row struct {
	Values []interface{}
	Error  error
}

var _ pgx.Row = Row{}

func (r Row) Scan(dest ...interface{}) error {
	if r.Error != nil {
		return r.Error
	}
	if len(dest) != len(r.Values) {
		return errors.New("fake: Scan destination count mismatch")
	}
	for i, d := range dest {
		switch out := d.(type) {
		case *int:
			v, ok := r.Values[i].(int)
			if !ok {
				return errors.New("fake: Scan type mismatch")
			}
			*out = v
		case *int64:
			v, ok := r.Values[i].(int64)
			if !ok {
				return errors.New("fake: Scan type mismatch")
			}
			*out = v
		case *bool:
			v, ok := r.Values[i].(bool)
			if !ok {
				return errors.New("fake: Scan type mismatch")
			}
			*out = v
		case *string:
			v, ok := r.Values[i].(string)
			if !ok {
				return errors.New("fake: Scan type mismatch")
			}
			*out = v
		default:
			return errors.New("fake: Scan does not support this destination type")
		}
	}
	return nil
}

type Tx struct {
	Queryer

	Commits   int
	Rollbacks int

	NextCommit   error
	NextRollback error
}

var _ kpool.Tx = &Tx{}

func (t *Tx) Commit(ctx context.Context) error {
	t.Commits += 1
	return t.NextCommit
}

func (t *Tx) Rollback(ctx context.Context) error {
	t.Rollbacks += 1
	return t.NextRollback
}

type Conn struct {
	Queryer

	Released  int
	NextBegin struct {
		Tx  kpool.Tx
		Err error
	}
}

var _ kpool.Conn = &Conn{}

func (c *Conn) Begin(ctx context.Context) (kpool.Tx, error) {
	return c.NextBegin.Tx, c.NextBegin.Err
}

func (c *Conn) Release() {
	c.Released += 1
}

type Pool struct {
	NextBegin struct {
		Tx  kpool.Tx
		Err error
	}
	NextAcquire struct {
		Conn kpool.Conn
		Err  error
	}
}

var _ kpool.Pool = &Pool{}

func (p *Pool) Begin(ctx context.Context) (kpool.Tx, error) {
	return p.NextBegin.Tx, p.NextBegin.Err
}

func (p *Pool) Acquire(ctx context.Context) (kpool.Conn, error) {
	return p.NextAcquire.Conn, p.NextAcquire.Err
}
