package mocks

import (
	"context"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
)

type CallInterface struct {
	Impl struct {
		PurgeDay func(ctx context.Context, date calendar.Date) (int64, error)
		Insert   func(ctx context.Context, date calendar.Date, vehicleId string, tripId string, calls []kdb.Call) (int, error)
	}

	Calls struct {
		PurgeDay CallLog[calendar.Date]
		Insert   CallLog[struct {
			Date      calendar.Date
			VehicleId string
			TripId    string
			Calls     []kdb.Call
		}]
	}
}

func NewCallInterface() *CallInterface {
	return &CallInterface{}
}

var _ kdb.CallInterface = &CallInterface{}

func (m *CallInterface) PurgeDay(ctx context.Context, date calendar.Date) (int64, error) {
	m.Calls.PurgeDay = append(m.Calls.PurgeDay, date)
	if m.Impl.PurgeDay != nil {
		return m.Impl.PurgeDay(ctx, date)
	}
	panic("CallInterface.PurgeDay should not be called")
}

func (m *CallInterface) Insert(
	ctx context.Context, date calendar.Date, vehicleId string, tripId string, calls []kdb.Call,
) (int, error) {
	m.Calls.Insert = append(m.Calls.Insert, struct {
		Date      calendar.Date
		VehicleId string
		TripId    string
		Calls     []kdb.Call
	}{Date: date, VehicleId: vehicleId, TripId: tripId, Calls: calls})
	if m.Impl.Insert != nil {
		return m.Impl.Insert(ctx, date, vehicleId, tripId, calls)
	}
	panic("CallInterface.Insert should not be called")
}
