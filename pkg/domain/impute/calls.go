package impute

import (
	"time"

	kdb "github.com/nycbus/imputecalls/pkg/db"
	"github.com/nycbus/imputecalls/pkg/utils"
)

func toUnix(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnix(sec float64, loc *time.Location) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second))).In(loc)
}

// findSeq returns the index of the first stop time carrying the sequence.
func findSeq(stoptimes []kdb.StopTime, seq int) (int, bool) {
	for nth, st := range stoptimes {
		if st.Seq == seq {
			return nth, true
		}
	}
	return 0, false
}

// GenerateCalls derives the calls of one run against the trip's schedule.
//
// Observed (distance along shape, unix time) pairs are interpolated onto
// the scheduled stop positions between the stop the run starts toward and
// the one it ends toward (source "I"). Runs of more than 3 positions also
// get one stop extrapolated past each end, from a straight-line fit over
// the 3 nearest observations (sources "E" and "S").
func GenerateCalls(run []kdb.Position, stoptimes []kdb.StopTime, loc *time.Location) []kdb.Call {
	if len(run) == 0 || len(stoptimes) == 0 {
		return nil
	}

	obsDistances := utils.Map(run, func(p kdb.Position) float64 { return p.Distance })
	obsTimes := utils.Map(run, func(p kdb.Position) float64 { return toUnix(p.Timestamp) })
	stopPositions := utils.Map(stoptimes, func(st kdb.StopTime) float64 { return st.DistAlongShape })

	// start at the stop the first position approaches, end at the stop
	// approached by the last (excluded from interpolation).
	si, ok := findSeq(stoptimes, run[0].Seq)
	if !ok {
		si = 0
	}
	ei, ok := findSeq(stoptimes, run[len(run)-1].Seq)
	if !ok {
		ei = len(stoptimes)
	}
	if ei < si {
		return nil
	}

	interpolated := Interp(stopPositions[si:ei], obsDistances, obsTimes)
	calls := make([]kdb.Call, 0, len(interpolated)+2)
	for nth, sec := range interpolated {
		calls = append(calls, newCall(stoptimes[si+nth], sec, kdb.SourceInterpolated, loc))
	}

	if len(calls) == 0 {
		return calls
	}

	if 3 < len(run) {
		// extrapolate forward to the stop just past the observations
		if ei < len(stoptimes) {
			slope, intercept, err := FitLine(obsDistances[len(obsDistances)-3:], obsTimes[len(obsTimes)-3:])
			if err == nil {
				sec := slope*stopPositions[ei] + intercept
				calls = append(calls, newCall(stoptimes[ei], sec, kdb.SourceExtrapolatedEnd, loc))
			}
		}

		// and back to the single stop before them
		if 0 < si {
			slope, intercept, err := FitLine(obsDistances[:3], obsTimes[:3])
			if err == nil {
				sec := slope*stopPositions[si] + intercept
				calls = append(
					[]kdb.Call{newCall(stoptimes[si], sec, kdb.SourceExtrapolatedStart, loc)},
					calls...,
				)
			}
		}
	}

	return calls
}

func newCall(st kdb.StopTime, sec float64, source string, loc *time.Location) kdb.Call {
	return kdb.Call{
		RouteId:     st.RouteId,
		DirectionId: st.DirectionId,
		StopId:      st.StopId,
		Time:        fromUnix(sec, loc),
		Source:      source,
	}
}
