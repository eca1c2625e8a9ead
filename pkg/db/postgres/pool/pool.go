// Package pool wraps pgxpool with narrow interfaces, so that query code
// depends on what it uses and tests can fake connections.
package pool

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Queryer runs queries. Satisfied by connections and transactions.
type Queryer interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type Tx interface {
	Queryer
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Conn interface {
	Queryer
	Begin(ctx context.Context) (Tx, error)
	Release()
}

type Pool interface {
	Begin(ctx context.Context) (Tx, error)
	Acquire(ctx context.Context) (Conn, error)
}

// Wrap makes a pgxpool.Pool into a Pool.
func Wrap(p *pgxpool.Pool) Pool {
	return &wrappedPool{p: p}
}

type wrappedPool struct {
	p *pgxpool.Pool
}

func (w *wrappedPool) Begin(ctx context.Context) (Tx, error) {
	tx, err := w.p.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return wrappedTx{tx: tx}, nil
}

func (w *wrappedPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := w.p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return wrappedConn{conn: conn}, nil
}

type wrappedConn struct {
	conn *pgxpool.Conn
}

func (w wrappedConn) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return w.conn.Exec(ctx, sql, arguments...)
}

func (w wrappedConn) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return w.conn.Query(ctx, sql, args...)
}

func (w wrappedConn) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return w.conn.QueryRow(ctx, sql, args...)
}

func (w wrappedConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := w.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return wrappedTx{tx: tx}, nil
}

func (w wrappedConn) Release() {
	w.conn.Release()
}

type wrappedTx struct {
	tx pgx.Tx
}

func (w wrappedTx) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return w.tx.Exec(ctx, sql, arguments...)
}

func (w wrappedTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return w.tx.Query(ctx, sql, args...)
}

func (w wrappedTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return w.tx.QueryRow(ctx, sql, args...)
}

func (w wrappedTx) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w wrappedTx) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
