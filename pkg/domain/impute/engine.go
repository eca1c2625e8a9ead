// Package impute derives stop calls from raw bus positions.
//
// For each vehicle active on a service date, its positions are segmented
// into runs, and each run is matched against the schedule of its trip to
// interpolate when the bus called at each stop.
package impute

import (
	"context"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
	xe "github.com/nycbus/imputecalls/pkg/errors"
	"github.com/nycbus/imputecalls/pkg/utils"
)

type Engine struct {
	positions kdb.PositionInterface
	calls     kdb.CallInterface
	timezone  *time.Location
	workers   int
	logger    *log.Logger
}

type Option func(*Engine) *Engine

// WithTimezone sets the local timezone of call timestamps.
func WithTimezone(loc *time.Location) Option {
	return func(e *Engine) *Engine {
		e.timezone = loc
		return e
	}
}

// WithWorkers bounds how many vehicles are processed at once.
// Zero or less means "number of CPUs".
func WithWorkers(n int) Option {
	return func(e *Engine) *Engine {
		e.workers = n
		return e
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) *Engine {
		e.logger = logger
		return e
	}
}

func New(positions kdb.PositionInterface, calls kdb.CallInterface, options ...Option) *Engine {
	e := &Engine{
		positions: positions,
		calls:     calls,
		timezone:  time.UTC,
		logger:    log.Default(),
	}
	for _, o := range options {
		e = o(e)
	}
	return e
}

// ImputeDay imputes calls for every vehicle active on the service date
// and returns how many calls were written.
//
// Calls already written for the date are purged first, so re-running a
// day replaces its content instead of duplicating it. Vehicles are
// processed by a bounded worker pool; the first failure cancels the
// rest.
func (e *Engine) ImputeDay(ctx context.Context, date calendar.Date) (int, error) {
	vehicles, err := e.positions.Vehicles(ctx, date)
	if err != nil {
		return 0, xe.Wrap(err)
	}

	purged, err := e.calls.PurgeDay(ctx, date)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	if 0 < purged {
		e.logger.Printf("purged %d calls previously written for %s", purged, date)
	}

	workers := e.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(vehicles) < workers {
		workers = len(vehicles)
	}

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan string)
	go func() {
		defer close(queue)
		for _, v := range vehicles {
			select {
			case queue <- v:
			case <-wctx.Done():
				return
			}
		}
	}()

	var (
		mu       sync.Mutex
		total    int
		firstErr error
	)

	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for vehicleId := range queue {
				written, err := e.processVehicle(wctx, vehicleId, date)

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					return
				}
				total += written
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return total, firstErr
	}
	if err := ctx.Err(); err != nil {
		return total, err
	}

	e.logger.Printf("committed %s: %d calls over %d vehicles", date, total, len(vehicles))
	return total, nil
}

// processVehicle imputes and writes the calls of one vehicle.
func (e *Engine) processVehicle(ctx context.Context, vehicleId string, date calendar.Date) (int, error) {
	e.logger.Printf("starting vehicle %s", vehicleId)

	positions, err := e.positions.Positions(ctx, vehicleId, date)
	if err != nil {
		return 0, xe.Wrap(err)
	}

	written := 0
	for _, run := range SegmentRuns(positions, date) {
		if len(run) == 0 {
			continue
		}
		if len(run) <= 2 {
			e.logger.Printf(
				"short run (%d positions), vehicle %s at %s",
				len(run), vehicleId, run[0].Timestamp,
			)
			continue
		}

		tripId := utils.Mode(utils.Map(run, func(p kdb.Position) string { return p.TripId }))

		stoptimes, err := e.positions.StopTimes(ctx, tripId)
		if err != nil {
			return written, xe.Wrap(err)
		}

		calls := GenerateCalls(run, stoptimes, e.timezone)
		n, err := e.calls.Insert(ctx, date, vehicleId, tripId, calls)
		if err != nil {
			return written, xe.Wrap(err)
		}
		written += n
	}

	e.logger.Printf("commit vehicle %s: %d calls", vehicleId, written)
	return written, nil
}
