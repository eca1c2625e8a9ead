package mocks

import (
	"context"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
)

type LedgerInterface struct {
	Impl struct {
		Started func(ctx context.Context, date calendar.Date) error
		Done    func(ctx context.Context, date calendar.Date, calls int) error
		Failed  func(ctx context.Context, date calendar.Date, cause string) error
		IsDone  func(ctx context.Context, date calendar.Date) (bool, error)
		Find    func(ctx context.Context, period calendar.Period) ([]kdb.ImputeRecord, error)
	}

	Calls struct {
		Started CallLog[calendar.Date]
		Done    CallLog[struct {
			Date  calendar.Date
			Calls int
		}]
		Failed CallLog[struct {
			Date  calendar.Date
			Cause string
		}]
		IsDone CallLog[calendar.Date]
		Find   CallLog[calendar.Period]
	}
}

func NewLedgerInterface() *LedgerInterface {
	return &LedgerInterface{}
}

var _ kdb.LedgerInterface = &LedgerInterface{}

func (m *LedgerInterface) Started(ctx context.Context, date calendar.Date) error {
	m.Calls.Started = append(m.Calls.Started, date)
	if m.Impl.Started != nil {
		return m.Impl.Started(ctx, date)
	}
	panic("LedgerInterface.Started should not be called")
}

func (m *LedgerInterface) Done(ctx context.Context, date calendar.Date, calls int) error {
	m.Calls.Done = append(m.Calls.Done, struct {
		Date  calendar.Date
		Calls int
	}{Date: date, Calls: calls})
	if m.Impl.Done != nil {
		return m.Impl.Done(ctx, date, calls)
	}
	panic("LedgerInterface.Done should not be called")
}

func (m *LedgerInterface) Failed(ctx context.Context, date calendar.Date, cause string) error {
	m.Calls.Failed = append(m.Calls.Failed, struct {
		Date  calendar.Date
		Cause string
	}{Date: date, Cause: cause})
	if m.Impl.Failed != nil {
		return m.Impl.Failed(ctx, date, cause)
	}
	panic("LedgerInterface.Failed should not be called")
}

func (m *LedgerInterface) IsDone(ctx context.Context, date calendar.Date) (bool, error) {
	m.Calls.IsDone = append(m.Calls.IsDone, date)
	if m.Impl.IsDone != nil {
		return m.Impl.IsDone(ctx, date)
	}
	panic("LedgerInterface.IsDone should not be called")
}

func (m *LedgerInterface) Find(ctx context.Context, period calendar.Period) ([]kdb.ImputeRecord, error) {
	m.Calls.Find = append(m.Calls.Find, period)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, period)
	}
	panic("LedgerInterface.Find should not be called")
}
