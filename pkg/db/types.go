package db

import (
	"time"

	"github.com/nycbus/imputecalls/pkg/calendar"
)

// Position is one observed bus position, joined with GTFS schedule data.
type Position struct {
	Timestamp   time.Time
	VehicleId   string
	TripId      string
	ServiceDate calendar.Date
	NextStop    string

	// Seq is the scheduled sequence of the stop the bus approaches.
	// -2 when the schedule gives none.
	Seq int

	// Distance is how far the bus has come along the trip shape
	// (distance of the next stop along the shape, less the remaining
	// distance to it).
	Distance float64
}

// StopTime is one scheduled stop of a trip.
type StopTime struct {
	RouteId     string
	DirectionId int
	StopId      string
	Seq         int

	// DistAlongShape locates the stop along the trip shape.
	DistAlongShape float64
}

// How a call timestamp was derived.
const (
	// interpolated between observed positions
	SourceInterpolated = "I"

	// extrapolated forward, past the last observed position
	SourceExtrapolatedEnd = "E"

	// extrapolated back, before the first observed position
	SourceExtrapolatedStart = "S"
)

// Call is one imputed stop call, ready to be written.
type Call struct {
	RouteId     string
	DirectionId int
	StopId      string
	Time        time.Time
	Source      string
}

// Ledger statuses.
const (
	ImputeRunning = "running"
	ImputeDone    = "done"
	ImputeFailed  = "failed"
)

// ImputeRecord is one ledger row: the outcome of a day's imputation.
type ImputeRecord struct {
	Date      calendar.Date
	Status    string
	Calls     int
	Cause     string
	UpdatedAt time.Time
}
