package impute

import (
	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
)

// SegmentRuns splits a vehicle's positions into runs, each run becoming
// one trip's worth of observations.
//
// Positions come ordered by trip, scheduled stop sequence and timestamp.
// A new run starts whenever the trip id changes or the stop sequence goes
// down. Runs whose first position belongs to another service date are
// dropped, and within a run, positions whose sequence falls below their
// predecessor's are masked out.
func SegmentRuns(positions []kdb.Position, date calendar.Date) [][]kdb.Position {
	runs := [][]kdb.Position{}

	prevTrip := ""
	prevSeq := -1
	for nth, p := range positions {
		if nth == 0 || p.TripId != prevTrip || p.Seq < prevSeq {
			runs = append(runs, []kdb.Position{})
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], p)
		prevTrip = p.TripId
		prevSeq = p.Seq
	}

	kept := [][]kdb.Position{}
	for _, run := range runs {
		if run[0].ServiceDate != date {
			continue
		}
		kept = append(kept, maskDescending(run))
	}
	return kept
}

// maskDescending drops each position whose sequence is below that of the
// position observed just before it.
func maskDescending(run []kdb.Position) []kdb.Position {
	masked := make([]kdb.Position, 0, len(run))
	for nth, p := range run {
		if nth == 0 || run[nth-1].Seq <= p.Seq {
			masked = append(masked, p)
		}
	}
	return masked
}
