package impute_test

import (
	"testing"
	"time"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
	"github.com/nycbus/imputecalls/pkg/domain/impute"
	"github.com/nycbus/imputecalls/pkg/utils/cmp"
)

func pos(trip string, seq int, date calendar.Date, minute int) kdb.Position {
	return kdb.Position{
		Timestamp:   time.Date(date.Year, time.Month(date.Month), date.Day, 12, minute, 0, 0, time.UTC),
		VehicleId:   "MTA NYCT_1234",
		TripId:      trip,
		ServiceDate: date,
		Seq:         seq,
		Distance:    float64(seq) * 100,
	}
}

func TestSegmentRuns(t *testing.T) {
	theDay := try(t)(calendar.NewDate(2017, 5, 1))
	otherDay := try(t)(calendar.NewDate(2017, 4, 30))

	t.Run("it keeps a single well-ordered run intact", func(t *testing.T) {
		positions := []kdb.Position{
			pos("trip-a", 1, theDay, 0),
			pos("trip-a", 2, theDay, 1),
			pos("trip-a", 3, theDay, 2),
		}

		runs := impute.SegmentRuns(positions, theDay)
		if len(runs) != 1 {
			t.Fatalf("unexpected number of runs: %d (expected 1)", len(runs))
		}
		if !cmp.SliceEq(runs[0], positions) {
			t.Errorf("unexpected run: %+v", runs[0])
		}
	})

	t.Run("it starts a new run when the trip changes", func(t *testing.T) {
		positions := []kdb.Position{
			pos("trip-a", 1, theDay, 0),
			pos("trip-a", 2, theDay, 1),
			pos("trip-b", 1, theDay, 2),
			pos("trip-b", 2, theDay, 3),
		}

		runs := impute.SegmentRuns(positions, theDay)
		if len(runs) != 2 {
			t.Fatalf("unexpected number of runs: %d (expected 2)", len(runs))
		}
		if !cmp.SliceEq(runs[0], positions[:2]) {
			t.Errorf("unexpected first run: %+v", runs[0])
		}
		if !cmp.SliceEq(runs[1], positions[2:]) {
			t.Errorf("unexpected second run: %+v", runs[1])
		}
	})

	t.Run("it starts a new run when the sequence goes down", func(t *testing.T) {
		positions := []kdb.Position{
			pos("trip-a", 4, theDay, 0),
			pos("trip-a", 5, theDay, 1),
			pos("trip-a", 1, theDay, 2), // same trip id, looped back
			pos("trip-a", 2, theDay, 3),
		}

		runs := impute.SegmentRuns(positions, theDay)
		if len(runs) != 2 {
			t.Fatalf("unexpected number of runs: %d (expected 2)", len(runs))
		}
		if !cmp.SliceEq(runs[0], positions[:2]) {
			t.Errorf("unexpected first run: %+v", runs[0])
		}
		if !cmp.SliceEq(runs[1], positions[2:]) {
			t.Errorf("unexpected second run: %+v", runs[1])
		}
	})

	t.Run("it drops runs starting on another service date", func(t *testing.T) {
		positions := []kdb.Position{
			pos("trip-a", 1, otherDay, 0),
			pos("trip-a", 2, otherDay, 1),
			pos("trip-b", 1, theDay, 2),
			pos("trip-b", 2, theDay, 3),
		}

		runs := impute.SegmentRuns(positions, theDay)
		if len(runs) != 1 {
			t.Fatalf("unexpected number of runs: %d (expected 1)", len(runs))
		}
		if runs[0][0].TripId != "trip-b" {
			t.Errorf("unexpected run kept: %+v", runs[0])
		}
	})

	t.Run("it keeps untracked positions within a non-descending run", func(t *testing.T) {
		// untracked positions carry sequence -2 and may lead a run
		positions := []kdb.Position{
			pos("trip-a", -2, theDay, 0),
			pos("trip-a", 1, theDay, 1),
			pos("trip-a", 2, theDay, 2),
			pos("trip-a", -2, theDay, 3), // below predecessor: starts a new run
		}

		runs := impute.SegmentRuns(positions, theDay)
		if len(runs) != 2 {
			t.Fatalf("unexpected number of runs: %d (expected 2)", len(runs))
		}
		if !cmp.SliceEq(runs[0], positions[:3]) {
			t.Errorf("unexpected first run: %+v", runs[0])
		}
	})

	t.Run("it returns nothing for no positions", func(t *testing.T) {
		if runs := impute.SegmentRuns(nil, theDay); len(runs) != 0 {
			t.Errorf("unexpected runs: %+v", runs)
		}
	})
}

func try(t *testing.T) func(calendar.Date, error) calendar.Date {
	t.Helper()
	return func(d calendar.Date, err error) calendar.Date {
		if err != nil {
			t.Fatal(err)
		}
		return d
	}
}
