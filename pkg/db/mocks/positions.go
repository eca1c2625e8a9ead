package mocks

import (
	"context"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
)

type PositionInterface struct {
	Impl struct {
		Vehicles  func(ctx context.Context, date calendar.Date) ([]string, error)
		Positions func(ctx context.Context, vehicleId string, date calendar.Date) ([]kdb.Position, error)
		StopTimes func(ctx context.Context, tripId string) ([]kdb.StopTime, error)
	}

	Calls struct {
		Vehicles  CallLog[calendar.Date]
		Positions CallLog[struct {
			VehicleId string
			Date      calendar.Date
		}]
		StopTimes CallLog[string]
	}
}

func NewPositionInterface() *PositionInterface {
	return &PositionInterface{}
}

var _ kdb.PositionInterface = &PositionInterface{}

func (m *PositionInterface) Vehicles(ctx context.Context, date calendar.Date) ([]string, error) {
	m.Calls.Vehicles = append(m.Calls.Vehicles, date)
	if m.Impl.Vehicles != nil {
		return m.Impl.Vehicles(ctx, date)
	}
	panic("PositionInterface.Vehicles should not be called")
}

func (m *PositionInterface) Positions(ctx context.Context, vehicleId string, date calendar.Date) ([]kdb.Position, error) {
	m.Calls.Positions = append(m.Calls.Positions, struct {
		VehicleId string
		Date      calendar.Date
	}{VehicleId: vehicleId, Date: date})
	if m.Impl.Positions != nil {
		return m.Impl.Positions(ctx, vehicleId, date)
	}
	panic("PositionInterface.Positions should not be called")
}

func (m *PositionInterface) StopTimes(ctx context.Context, tripId string) ([]kdb.StopTime, error) {
	m.Calls.StopTimes = append(m.Calls.StopTimes, tripId)
	if m.Impl.StopTimes != nil {
		return m.Impl.StopTimes(ctx, tripId)
	}
	panic("PositionInterface.StopTimes should not be called")
}
