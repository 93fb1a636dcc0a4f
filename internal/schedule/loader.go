// Package schedule loads train timetables, seat configuration and fare
// tables from a source (JSON seed file or the schedule database) and builds
// the in-memory booking inventories.  Loading happens once at startup; the
// engine never writes schedule data back.
package schedule

import (
	"context"
	"fmt"

	"github.com/iliyamo/railway-seat-reservation/internal/inventory"
)

// ClassConfig describes one seat class on one train/date.
//
// Fields:
//  Seats – total physical seats of the class (K).
//  Fares – fare in cents for each adjacent-station segment, ordered by
//          segment index; must have exactly stops-1 entries.
type ClassConfig struct {
	Seats int
	Fares []int64
}

// TrainSchedule is the loader's view of one train on one date: the ordered
// stop list plus per-class seat counts and fare vectors, keyed by the
// canonical seat class tag (二等座 etc.).
type TrainSchedule struct {
	TrainNo string
	Date    string
	Stops   []inventory.Stop
	Classes map[string]ClassConfig
}

// Source yields train schedules.  Implementations exist for the JSON seed
// file and for the MySQL schedule database.
type Source interface {
	Schedules(ctx context.Context) ([]TrainSchedule, error)
}

// Load reads every schedule from the source, validates it and registers a
// booking coordinator for it.  It returns the number of train/date
// inventories built.  A single malformed schedule fails the whole load:
// partially populated registries hide sold-out-vs-missing bugs.
func Load(ctx context.Context, src Source, reg *inventory.Registry) (int, error) {
	schedules, err := src.Schedules(ctx)
	if err != nil {
		return 0, fmt.Errorf("schedule: read source: %w", err)
	}
	for _, ts := range schedules {
		co, err := build(ts)
		if err != nil {
			return 0, err
		}
		reg.Put(co)
	}
	return len(schedules), nil
}

// build validates one schedule and wires its coordinator.
func build(ts TrainSchedule) (*inventory.Coordinator, error) {
	if ts.TrainNo == "" || ts.Date == "" {
		return nil, fmt.Errorf("schedule: train %q date %q: missing identity", ts.TrainNo, ts.Date)
	}
	if len(ts.Stops) < 2 {
		return nil, fmt.Errorf("schedule: train %s %s: needs at least 2 stops, got %d", ts.TrainNo, ts.Date, len(ts.Stops))
	}
	if len(ts.Classes) == 0 {
		return nil, fmt.Errorf("schedule: train %s %s: offers no seat classes", ts.TrainNo, ts.Date)
	}
	segments := len(ts.Stops) - 1

	fares := make(map[inventory.SeatClass][]int64, len(ts.Classes))
	seatCounts := make(map[inventory.SeatClass]int, len(ts.Classes))
	for tag, cfg := range ts.Classes {
		class, err := inventory.ParseSeatClass(tag)
		if err != nil {
			return nil, fmt.Errorf("schedule: train %s %s: seat class %q: %w", ts.TrainNo, ts.Date, tag, err)
		}
		if cfg.Seats < 0 {
			return nil, fmt.Errorf("schedule: train %s %s: %s: negative seat count %d", ts.TrainNo, ts.Date, tag, cfg.Seats)
		}
		if len(cfg.Fares) != segments {
			return nil, fmt.Errorf("schedule: train %s %s: %s: %d fare segments for a %d-segment route",
				ts.TrainNo, ts.Date, tag, len(cfg.Fares), segments)
		}
		for i, f := range cfg.Fares {
			if f < 0 {
				return nil, fmt.Errorf("schedule: train %s %s: %s: negative fare %d on segment %d", ts.TrainNo, ts.Date, tag, f, i)
			}
		}
		fares[class] = cfg.Fares
		seatCounts[class] = cfg.Seats
	}

	route := inventory.NewRoute(ts.Stops)
	return inventory.NewCoordinator(ts.TrainNo, ts.Date, route, inventory.NewFareTable(fares), seatCounts), nil
}
