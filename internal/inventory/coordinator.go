package inventory

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Ticket is one assigned seat inside a committed reservation.
//
// Fields:
//  SeatID – physical seat index within the class, stable for the lifetime
//           of the train/date.
//  Car    – car number label, e.g. "04".
//  Seat   – seat number label within the car, e.g. "012".
type Ticket struct {
	SeatID int
	Car    string
	Seat   string
}

// Reservation is the result of a committed multi-passenger booking: one
// ticket per passenger plus the summed price.  Lo/Hi carry the segment
// range so the caller can hand them back to Cancel without re-resolving
// stations.
type Reservation struct {
	TrainNo    string
	Date       string
	Class      SeatClass
	Origin     string
	Dest       string
	Lo, Hi     int
	Tickets    []Ticket
	TotalPrice int64
}

// classInventory bundles the mutable state of one seat class together with
// the mutex that makes capacity-check-then-decrement and seat-scan-then-mark
// a single atomic step.  Different classes never contend with each other.
type classInventory struct {
	mu       sync.Mutex
	capacity *CapacityIndex
	seats    *SeatPool
}

// Coordinator is the booking engine for one train on one date.  It owns the
// route, the fare table and, per offered class, the capacity counters and
// the seat pool.  All mutation goes through Reserve and Cancel, which take
// the class's critical section; two bookings on the same (train, date,
// class) never interleave their check and mark steps, so a seat is never
// double-booked for overlapping journeys.
type Coordinator struct {
	trainNo string
	date    string
	route   *Route
	fares   *FareTable
	classes map[SeatClass]*classInventory
}

// NewCoordinator wires a coordinator from loaded schedule data.  seatCounts
// lists every class the train offers with its total seat count; the fare
// table must price each of them (the schedule loader validates this).
func NewCoordinator(trainNo, date string, route *Route, fares *FareTable, seatCounts map[SeatClass]int) *Coordinator {
	classes := make(map[SeatClass]*classInventory, len(seatCounts))
	for class, seats := range seatCounts {
		classes[class] = &classInventory{
			capacity: NewCapacityIndex(route.Segments(), seats),
			seats:    NewSeatPool(class, seats),
		}
	}
	return &Coordinator{trainNo: trainNo, date: date, route: route, fares: fares, classes: classes}
}

// TrainNo returns the train number this coordinator serves.
func (co *Coordinator) TrainNo() string { return co.trainNo }

// Date returns the departure date this coordinator serves.
func (co *Coordinator) Date() string { return co.date }

// Route returns the train's route.
func (co *Coordinator) Route() *Route { return co.route }

// OfferedClasses returns the classes this train sells, in display order.
func (co *Coordinator) OfferedClasses() []SeatClass {
	out := make([]SeatClass, 0, len(co.classes))
	for _, class := range AllSeatClasses {
		if _, ok := co.classes[class]; ok {
			out = append(out, class)
		}
	}
	return out
}

// QueryAvailability returns how many seats of the class are free for the
// entire journey from origin to dest: the minimum free count across every
// covered segment, because a seat must be empty on each of them to serve
// the trip.
func (co *Coordinator) QueryAvailability(class SeatClass, origin, dest string) (int, error) {
	lo, hi, err := co.route.SegmentRange(origin, dest)
	if err != nil {
		return 0, err
	}
	ci, ok := co.classes[class]
	if !ok {
		return 0, ErrUnknownSeatClass
	}
	ci.mu.Lock()
	defer ci.mu.Unlock()
	return ci.capacity.Query(lo, hi), nil
}

// QueryFare returns the single-passenger fare in cents for the journey,
// summing the per-segment fares between the two stations.
func (co *Coordinator) QueryFare(class SeatClass, origin, dest string) (int64, error) {
	lo, hi, err := co.route.SegmentRange(origin, dest)
	if err != nil {
		return 0, err
	}
	return co.fares.Price(class, lo, hi)
}

// Reserve books `passengers` seats of the class for the journey, or fails
// with nothing mutated.  Inside the class's critical section it first
// claims aggregate capacity on every covered segment, then assigns one
// concrete seat per passenger.  Any assignment failure undoes all seats
// assigned so far and the capacity claim before returning: callers never
// observe a half-committed booking.
func (co *Coordinator) Reserve(class SeatClass, origin, dest string, passengers int) (*Reservation, error) {
	if passengers < 1 {
		return nil, fmt.Errorf("passenger count must be at least 1, got %d", passengers)
	}
	lo, hi, err := co.route.SegmentRange(origin, dest)
	if err != nil {
		return nil, err
	}
	ci, ok := co.classes[class]
	if !ok {
		return nil, ErrUnknownSeatClass
	}
	fare, err := co.fares.Price(class, lo, hi)
	if err != nil {
		return nil, err
	}

	ci.mu.Lock()
	defer ci.mu.Unlock()

	if err := ci.capacity.Reserve(lo, hi, passengers); err != nil {
		return nil, err
	}

	tickets := make([]Ticket, 0, passengers)
	for i := 0; i < passengers; i++ {
		seatID, ok := ci.seats.Assign(lo, hi)
		if !ok {
			// Capacity said yes but no seat matched: the counters and the
			// per-seat ranges have diverged.  Roll everything back and
			// surface the bug instead of a user-facing sold-out.
			for _, t := range tickets {
				ci.seats.Release(t.SeatID, lo, hi)
			}
			ci.capacity.Release(lo, hi, passengers)
			log.Error().
				Str("train", co.trainNo).
				Str("date", co.date).
				Str("seat_type", class.String()).
				Int("lo", lo).
				Int("hi", hi).
				Int("passengers", passengers).
				Msg("inventory: capacity index and seat pool disagree")
			return nil, ErrInternalInconsistency
		}
		car, seat := ci.seats.Label(seatID)
		tickets = append(tickets, Ticket{SeatID: seatID, Car: car, Seat: seat})
	}

	return &Reservation{
		TrainNo:    co.trainNo,
		Date:       co.date,
		Class:      class,
		Origin:     origin,
		Dest:       dest,
		Lo:         lo,
		Hi:         hi,
		Tickets:    tickets,
		TotalPrice: int64(passengers) * fare,
	}, nil
}

// Cancel releases a previously committed reservation: each seat's booked
// range is removed and the aggregate capacity restored, inside the same
// critical section Reserve uses.  The engine does not track whether the
// tickets were already cancelled; callers must cancel a reservation exactly
// once.
func (co *Coordinator) Cancel(class SeatClass, origin, dest string, seatIDs []int) error {
	lo, hi, err := co.route.SegmentRange(origin, dest)
	if err != nil {
		return err
	}
	ci, ok := co.classes[class]
	if !ok {
		return ErrUnknownSeatClass
	}
	ci.mu.Lock()
	defer ci.mu.Unlock()
	for _, id := range seatIDs {
		ci.seats.Release(id, lo, hi)
	}
	ci.capacity.Release(lo, hi, len(seatIDs))
	return nil
}

// seatPool exposes a class's pool to package tests.
func (co *Coordinator) seatPool(class SeatClass) *SeatPool { return co.classes[class].seats }

// capacityIndex exposes a class's capacity counters to package tests.
func (co *Coordinator) capacityIndex(class SeatClass) *CapacityIndex { return co.classes[class].capacity }
