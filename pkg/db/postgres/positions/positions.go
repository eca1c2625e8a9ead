// DB operations reading bus positions and GTFS schedule data.
package positions

import (
	"context"
	"time"

	"github.com/jackc/pgtype"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
	kpool "github.com/nycbus/imputecalls/pkg/db/postgres/pool"
)

// Positions are ordered by trip, scheduled stop sequence and time, so
// that run segmentation can walk them in a single pass.
//
// The service-date window includes positions stamped after 23:00 of the
// previous local day and before 04:00 of the next, matching how late-night
// trips are assigned to a service date.
const vehicleQuery = `
SELECT
	timestamp_utc,
	vehicle_id,
	p.trip_id,
	service_date,
	next_stop_id,
	sdas.stop_sequence,
	dist_along_shape - dist_from_stop AS distance
FROM positions p
	LEFT JOIN gtfs_trips t USING (trip_id)
	LEFT JOIN gtfs_stop_times st ON (p.trip_id = st.trip_id AND p.next_stop_id::text = st.stop_id)
	INNER JOIN gtfs_stop_distances_along_shape sdas
		ON (t.shape_id = sdas.shape_id AND p.next_stop_id::integer = sdas.stop_id::integer)
WHERE
	vehicle_id = $1
	AND (
		service_date = $2::date
		OR (
			DATE(timestamp_utc::TIMESTAMP WITH TIME ZONE AT TIME ZONE $3) = $2::date - INTERVAL '1 DAY'
			AND EXTRACT(HOUR FROM timestamp_utc::TIMESTAMP WITH TIME ZONE AT TIME ZONE $3) > 23
		)
		OR (
			DATE(timestamp_utc::TIMESTAMP WITH TIME ZONE AT TIME ZONE $3) = $2::date + INTERVAL '1 DAY'
			AND EXTRACT(HOUR FROM timestamp_utc::TIMESTAMP WITH TIME ZONE AT TIME ZONE $3) < 4
		)
	)
ORDER BY p.trip_id, st.stop_sequence, timestamp_utc
`

const vehiclesQuery = `
SELECT DISTINCT vehicle_id FROM positions WHERE service_date = $1::date
`

const stopTimesQuery = `
SELECT
	t.route_id,
	t.direction_id,
	st.stop_id,
	st.stop_sequence,
	sdas.dist_along_shape
FROM gtfs_trips t
	LEFT JOIN gtfs_stop_times st USING (trip_id)
	LEFT JOIN gtfs_stop_distances_along_shape sdas USING (shape_id, stop_id)
WHERE trip_id = $1
ORDER BY st.stop_sequence ASC
`

type positionPG struct { // implements kdb.PositionInterface
	pool     kpool.Pool
	timezone *time.Location
}

type Option func(*positionPG) *positionPG

// WithTimezone sets the local timezone bounding a service day.
func WithTimezone(loc *time.Location) Option {
	return func(p *positionPG) *positionPG {
		p.timezone = loc
		return p
	}
}

func New(pool kpool.Pool, options ...Option) *positionPG {
	p := &positionPG{
		pool:     pool,
		timezone: time.UTC,
	}
	for _, o := range options {
		p = o(p)
	}
	return p
}

var _ kdb.PositionInterface = &positionPG{}

func (m *positionPG) Vehicles(ctx context.Context, date calendar.Date) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, vehiclesQuery, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (m *positionPG) Positions(ctx context.Context, vehicleId string, date calendar.Date) ([]kdb.Position, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx, vehicleQuery, vehicleId, date.String(), m.timezone.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := []kdb.Position{}
	for rows.Next() {
		var (
			timestamp   time.Time
			vehicle     string
			tripId      pgtype.Text
			serviceDate time.Time
			nextStop    pgtype.Text
			seq         pgtype.Int4
			distance    pgtype.Float8
		)
		if err := rows.Scan(
			&timestamp, &vehicle, &tripId, &serviceDate, &nextStop, &seq, &distance,
		); err != nil {
			return nil, err
		}

		if distance.Status != pgtype.Present {
			// unusable for interpolation
			continue
		}

		p := kdb.Position{
			Timestamp:   timestamp,
			VehicleId:   vehicle,
			ServiceDate: calendar.FromTime(serviceDate),
			Seq:         -2,
			Distance:    distance.Float,
		}
		if tripId.Status == pgtype.Present {
			p.TripId = tripId.String
		}
		if nextStop.Status == pgtype.Present {
			p.NextStop = nextStop.String
		}
		if seq.Status == pgtype.Present {
			p.Seq = int(seq.Int)
		}

		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (m *positionPG) StopTimes(ctx context.Context, tripId string) ([]kdb.StopTime, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, stopTimesQuery, tripId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stoptimes := []kdb.StopTime{}
	for rows.Next() {
		var (
			routeId     pgtype.Text
			directionId pgtype.Int4
			stopId      pgtype.Text
			seq         pgtype.Int4
			dist        pgtype.Float8
		)
		if err := rows.Scan(&routeId, &directionId, &stopId, &seq, &dist); err != nil {
			return nil, err
		}

		if stopId.Status != pgtype.Present || dist.Status != pgtype.Present {
			// a stop we cannot locate along the shape
			continue
		}

		st := kdb.StopTime{
			StopId:         stopId.String,
			DistAlongShape: dist.Float,
		}
		if routeId.Status == pgtype.Present {
			st.RouteId = routeId.String
		}
		if directionId.Status == pgtype.Present {
			st.DirectionId = int(directionId.Int)
		}
		if seq.Status == pgtype.Present {
			st.Seq = int(seq.Int)
		}

		stoptimes = append(stoptimes, st)
	}
	return stoptimes, rows.Err()
}
