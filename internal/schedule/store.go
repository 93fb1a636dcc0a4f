package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/iliyamo/railway-seat-reservation/internal/inventory"
)

// DBSource reads schedules from the railway schedule database.  The schema
// follows the original system's tables:
//
//   train_stops(train_no, departure_date, seq, station, arrival_time, departure_time)
//   train_fares(train_no, departure_date, from_station, to_station,
//               second_class_price, first_class_price, business_price,
//               soft_sleeper_price, hard_sleeper_price)  -- yuan, adjacent stations only
//   train_seats(train_no, departure_date, seat_type, seat_count)
//
// Fares are stored per adjacent-station interval; the loader turns them
// into per-segment vectors using the stop order.  A NULL price column means
// the train does not sell that class.
type DBSource struct {
	db *sql.DB
}

// NewDBSource wraps an open schedule database handle.
func NewDBSource(db *sql.DB) *DBSource { return &DBSource{db: db} }

// fareColumns maps result columns of train_fares to seat class tags, in
// query order.
var fareColumns = []struct {
	column string
	tag    string
}{
	{"second_class_price", "二等座"},
	{"first_class_price", "一等座"},
	{"business_price", "商务座"},
	{"soft_sleeper_price", "软卧"},
	{"hard_sleeper_price", "硬卧"},
}

// Schedules loads every scheduled train/date with its stops, fares and seat
// counts.
func (s *DBSource) Schedules(ctx context.Context) ([]TrainSchedule, error) {
	keys, err := s.trainDates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TrainSchedule, 0, len(keys))
	for _, k := range keys {
		ts, err := s.schedule(ctx, k.trainNo, k.date)
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, nil
}

type trainDate struct {
	trainNo string
	date    string
}

func (s *DBSource) trainDates(ctx context.Context) ([]trainDate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT train_no, departure_date FROM train_stops ORDER BY departure_date, train_no`)
	if err != nil {
		return nil, fmt.Errorf("query train dates: %w", err)
	}
	defer rows.Close()

	var keys []trainDate
	for rows.Next() {
		var k trainDate
		if err := rows.Scan(&k.trainNo, &k.date); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *DBSource) schedule(ctx context.Context, trainNo, date string) (TrainSchedule, error) {
	ts := TrainSchedule{TrainNo: trainNo, Date: date, Classes: make(map[string]ClassConfig)}

	stops, err := s.stops(ctx, trainNo, date)
	if err != nil {
		return ts, err
	}
	ts.Stops = stops

	fares, err := s.fares(ctx, trainNo, date, stops)
	if err != nil {
		return ts, err
	}
	seats, err := s.seatCounts(ctx, trainNo, date)
	if err != nil {
		return ts, err
	}
	for tag, vec := range fares {
		count, ok := seats[tag]
		if !ok {
			return ts, fmt.Errorf("schedule db: train %s %s: fares for %s but no seat count", trainNo, date, tag)
		}
		ts.Classes[tag] = ClassConfig{Seats: count, Fares: vec}
	}
	return ts, nil
}

func (s *DBSource) stops(ctx context.Context, trainNo, date string) ([]inventory.Stop, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, station, COALESCE(arrival_time, ''), COALESCE(departure_time, '')
		 FROM train_stops WHERE train_no = ? AND departure_date = ? ORDER BY seq`,
		trainNo, date)
	if err != nil {
		return nil, fmt.Errorf("query stops for %s %s: %w", trainNo, date, err)
	}
	defer rows.Close()

	var stops []inventory.Stop
	for rows.Next() {
		var st inventory.Stop
		if err := rows.Scan(&st.Seq, &st.Station, &st.Arrival, &st.Departure); err != nil {
			return nil, err
		}
		stops = append(stops, st)
	}
	return stops, rows.Err()
}

// fares returns per-class fare vectors in cents, indexed by segment.  Rows
// are keyed by (from_station, to_station); the stop order maps them onto
// segment indices and any missing interval fails the load.
func (s *DBSource) fares(ctx context.Context, trainNo, date string, stops []inventory.Stop) (map[string][]int64, error) {
	segIndex := make(map[string]int, len(stops))
	for i := 0; i < len(stops)-1; i++ {
		segIndex[stops[i].Station+"\x00"+stops[i+1].Station] = i
	}
	segments := len(stops) - 1

	rows, err := s.db.QueryContext(ctx,
		`SELECT from_station, to_station,
		        second_class_price, first_class_price, business_price,
		        soft_sleeper_price, hard_sleeper_price
		 FROM train_fares WHERE train_no = ? AND departure_date = ?`,
		trainNo, date)
	if err != nil {
		return nil, fmt.Errorf("query fares for %s %s: %w", trainNo, date, err)
	}
	defer rows.Close()

	vectors := make(map[string][]int64)
	covered := 0
	for rows.Next() {
		var from, to string
		prices := make([]sql.NullFloat64, len(fareColumns))
		dest := []any{&from, &to}
		for i := range prices {
			dest = append(dest, &prices[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		seg, ok := segIndex[from+"\x00"+to]
		if !ok {
			return nil, fmt.Errorf("schedule db: train %s %s: fare row %s->%s is not an adjacent interval", trainNo, date, from, to)
		}
		covered++
		for i, p := range prices {
			if !p.Valid {
				continue
			}
			tag := fareColumns[i].tag
			vec, ok := vectors[tag]
			if !ok {
				vec = make([]int64, segments)
				vectors[tag] = vec
			}
			vec[seg] = int64(math.Round(p.Float64 * 100))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if covered != segments {
		return nil, fmt.Errorf("schedule db: train %s %s: %d fare intervals for %d segments", trainNo, date, covered, segments)
	}
	return vectors, nil
}

func (s *DBSource) seatCounts(ctx context.Context, trainNo, date string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seat_type, seat_count FROM train_seats WHERE train_no = ? AND departure_date = ?`,
		trainNo, date)
	if err != nil {
		return nil, fmt.Errorf("query seat counts for %s %s: %w", trainNo, date, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tag string
		var count int
		if err := rows.Scan(&tag, &count); err != nil {
			return nil, err
		}
		counts[tag] = count
	}
	return counts, rows.Err()
}
