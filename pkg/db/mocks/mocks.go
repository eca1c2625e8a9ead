// Hand-rolled mocks of the db interfaces.
//
// Each mock records calls in its Calls field and delegates to functions
// in its Impl field; calling a method with no Impl set panics, so tests
// fail loudly on unexpected interaction.
package mocks

import (
	"context"

	kdb "github.com/nycbus/imputecalls/pkg/db"
)

type CallLog[T any] []T

func (c CallLog[T]) Times() int {
	return len(c)
}

type Database struct {
	Impl struct {
		Schema    kdb.SchemaInterface
		Positions kdb.PositionInterface
		Calls     kdb.CallInterface
		Ledger    kdb.LedgerInterface
		Close     func() error
	}
}

func NewDatabase() *Database {
	return &Database{}
}

var _ kdb.ImputeDatabase = &Database{}

func (m *Database) Schema() kdb.SchemaInterface {
	return m.Impl.Schema
}

func (m *Database) Positions() kdb.PositionInterface {
	return m.Impl.Positions
}

func (m *Database) Calls() kdb.CallInterface {
	return m.Impl.Calls
}

func (m *Database) Ledger() kdb.LedgerInterface {
	return m.Impl.Ledger
}

func (m *Database) Close() error {
	if m.Impl.Close != nil {
		return m.Impl.Close()
	}
	return nil
}

type SchemaInterface struct {
	Impl struct {
		Version func(ctx context.Context) (int, error)
		Upgrade func(ctx context.Context) error
		Context func(ctx context.Context) (context.Context, context.CancelFunc)
	}

	Calls struct {
		Version CallLog[struct{}]
		Upgrade CallLog[struct{}]
	}
}

func NewSchemaInterface() *SchemaInterface {
	return &SchemaInterface{}
}

var _ kdb.SchemaInterface = &SchemaInterface{}

func (m *SchemaInterface) Version(ctx context.Context) (int, error) {
	m.Calls.Version = append(m.Calls.Version, struct{}{})
	if m.Impl.Version != nil {
		return m.Impl.Version(ctx)
	}
	panic("SchemaInterface.Version should not be called")
}

func (m *SchemaInterface) Upgrade(ctx context.Context) error {
	m.Calls.Upgrade = append(m.Calls.Upgrade, struct{}{})
	if m.Impl.Upgrade != nil {
		return m.Impl.Upgrade(ctx)
	}
	panic("SchemaInterface.Upgrade should not be called")
}

func (m *SchemaInterface) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.Impl.Context != nil {
		return m.Impl.Context(ctx)
	}
	return ctx, func() {}
}
