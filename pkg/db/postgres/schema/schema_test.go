package schema_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	"github.com/nycbus/imputecalls/pkg/db/postgres/pool/fake"
	"github.com/nycbus/imputecalls/pkg/db/postgres/schema"
)

func writeRepository(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestVersion(t *testing.T) {
	t.Run("it reads the recorded version", func(t *testing.T) {
		conn := &fake.Conn{}
		conn.OnQueryRow = func(sql string, args []interface{}) pgx.Row {
			return fake.Row{Values: []interface{}{3}}
		}
		pool := &fake.Pool{}
		pool.NextAcquire.Conn = conn

		testee := schema.New(pool, t.TempDir())
		actual, err := testee.Version(context.Background())
		if err != nil {
			t.Fatalf("Version caused error unexpectedly: %v", err)
		}
		if actual != 3 {
			t.Errorf("unexpected version: %d", actual)
		}
		if conn.Released != 1 {
			t.Errorf("connection is released %d times (expected: 1)", conn.Released)
		}
	})

	t.Run("it takes a missing schema_version table as version 0", func(t *testing.T) {
		conn := &fake.Conn{}
		conn.OnQueryRow = func(sql string, args []interface{}) pgx.Row {
			return fake.Row{Error: &pgconn.PgError{Code: pgerrcode.UndefinedTable}}
		}
		pool := &fake.Pool{}
		pool.NextAcquire.Conn = conn

		testee := schema.New(pool, t.TempDir())
		actual, err := testee.Version(context.Background())
		if err != nil {
			t.Fatalf("Version caused error unexpectedly: %v", err)
		}
		if actual != 0 {
			t.Errorf("unexpected version: %d", actual)
		}
	})
}

func TestUpgrade(t *testing.T) {
	t.Run("it applies only versions newer than the database's", func(t *testing.T) {
		repo := writeRepository(t, map[string]string{
			"1/001_calls.sql":  "CREATE TABLE calls ();",
			"2/001_ledger.sql": "CREATE TABLE impute_log ();",
			"2/002_index.sql":  "CREATE INDEX idx ON impute_log ();",
			"notes.txt":        "not a schema version",
		})

		tx := &fake.Tx{}
		tx.OnExec = func(sql string, args []interface{}) (pgconn.CommandTag, error) {
			return pgconn.CommandTag("OK"), nil
		}
		conn := &fake.Conn{}
		conn.OnQueryRow = func(sql string, args []interface{}) pgx.Row {
			return fake.Row{Values: []interface{}{1}}
		}
		pool := &fake.Pool{}
		pool.NextBegin.Tx = tx
		pool.NextAcquire.Conn = conn

		testee := schema.New(pool, repo)
		if err := testee.Upgrade(context.Background()); err != nil {
			t.Fatalf("Upgrade caused error unexpectedly: %v", err)
		}

		applied := []string{}
		for _, q := range tx.Log {
			applied = append(applied, q.SQL)
		}

		// version 2 files in order, then the bookkeeping statements
		expected := []string{
			"CREATE TABLE impute_log ();",
			"CREATE INDEX idx ON impute_log ();",
			`DELETE FROM "schema_version"`,
			`INSERT INTO "schema_version" ("version") VALUES ($1)`,
		}
		if len(applied) != len(expected) {
			t.Fatalf("unexpected statements: %v", applied)
		}
		for nth := range expected {
			if applied[nth] != expected[nth] {
				t.Errorf("statement #%d: %q (expected: %q)", nth, applied[nth], expected[nth])
			}
		}
		if v, ok := tx.Log[3].Args[0].(int); !ok || v != 2 {
			t.Errorf("unexpected recorded version: %v", tx.Log[3].Args)
		}

		if tx.Commits != 1 {
			t.Errorf("transaction is committed %d times (expected: 1)", tx.Commits)
		}
		for _, q := range tx.Log {
			if strings.Contains(q.SQL, "CREATE TABLE calls") {
				t.Error("version 1 is applied again, unexpectedly")
			}
		}
	})

	t.Run("it applies everything to an empty database", func(t *testing.T) {
		repo := writeRepository(t, map[string]string{
			"1/001_calls.sql": "CREATE TABLE calls ();",
		})

		tx := &fake.Tx{}
		tx.OnExec = func(sql string, args []interface{}) (pgconn.CommandTag, error) {
			return pgconn.CommandTag("OK"), nil
		}
		conn := &fake.Conn{}
		conn.OnQueryRow = func(sql string, args []interface{}) pgx.Row {
			return fake.Row{Error: &pgconn.PgError{Code: pgerrcode.UndefinedTable}}
		}
		pool := &fake.Pool{}
		pool.NextBegin.Tx = tx
		pool.NextAcquire.Conn = conn

		testee := schema.New(pool, repo)
		if err := testee.Upgrade(context.Background()); err != nil {
			t.Fatalf("Upgrade caused error unexpectedly: %v", err)
		}

		if len(tx.Log) != 3 {
			t.Fatalf("unexpected statements: %v", tx.Log)
		}
		if tx.Log[0].SQL != "CREATE TABLE calls ();" {
			t.Errorf("unexpected first statement: %q", tx.Log[0].SQL)
		}
	})
}

func TestContext(t *testing.T) {
	newPool := func(dbVersion int) *fake.Pool {
		conn := &fake.Conn{}
		conn.OnQueryRow = func(sql string, args []interface{}) pgx.Row {
			return fake.Row{Values: []interface{}{dbVersion}}
		}
		pool := &fake.Pool{}
		pool.NextAcquire.Conn = conn
		return pool
	}

	t.Run("it keeps the context alive while the database is up to date", func(t *testing.T) {
		repo := writeRepository(t, map[string]string{
			"1/001_calls.sql": "CREATE TABLE calls ();",
		})

		testee := schema.New(newPool(1), repo)
		cctx, stop := testee.Context(context.Background())
		defer stop()

		if cctx.Err() != nil {
			t.Errorf("context is canceled unexpectedly: %v", context.Cause(cctx))
		}
	})

	t.Run("it cancels when a newer version directory appears", func(t *testing.T) {
		repo := writeRepository(t, map[string]string{
			"1/001_calls.sql": "CREATE TABLE calls ();",
		})

		testee := schema.New(newPool(1), repo)
		cctx, stop := testee.Context(context.Background())
		defer stop()

		if cctx.Err() != nil {
			t.Fatalf("context is canceled before the repository changes: %v", context.Cause(cctx))
		}

		if err := os.Mkdir(filepath.Join(repo, "2"), 0o755); err != nil {
			t.Fatal(err)
		}

		select {
		case <-cctx.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("context is not canceled")
		}
		if cause := context.Cause(cctx); cause == nil || !strings.Contains(cause.Error(), "outdated") {
			t.Errorf("unexpected cause: %v", cause)
		}
	})

	t.Run("it cancels immediately when the repository is already newer", func(t *testing.T) {
		repo := writeRepository(t, map[string]string{
			"1/001_calls.sql":  "CREATE TABLE calls ();",
			"2/001_ledger.sql": "CREATE TABLE impute_log ();",
		})

		testee := schema.New(newPool(1), repo)
		cctx, stop := testee.Context(context.Background())
		defer stop()

		select {
		case <-cctx.Done():
		default:
			t.Fatal("context is not canceled")
		}
	})
}
