package inventory

import "fmt"

// segmentRange is a half-open span [Lo, Hi) of segment indices booked on a
// physical seat.
type segmentRange struct {
	Lo, Hi int
}

// overlaps reports whether two half-open ranges share at least one segment.
func (r segmentRange) overlaps(lo, hi int) bool {
	return r.Lo < hi && lo < r.Hi
}

// SeatPool holds the physical seats of one (train, date, seat class).  Each
// seat carries the set of disjoint segment ranges currently booked on it.
// A seat can serve several passengers on the same day as long as their
// journeys do not overlap: a seat sold 上海→南京 is still sellable
// 南京→北京.
//
// Like CapacityIndex, the pool does no locking; the owning Coordinator
// serializes access.
type SeatPool struct {
	class  SeatClass
	booked [][]segmentRange // booked[seatID] = disjoint ranges on that seat
}

// NewSeatPool creates a pool of `seats` empty seats.
func NewSeatPool(class SeatClass, seats int) *SeatPool {
	return &SeatPool{class: class, booked: make([][]segmentRange, seats)}
}

// Size returns the number of physical seats in the pool.
func (p *SeatPool) Size() int { return len(p.booked) }

// Assign finds the first seat (ascending seat id, which is ascending car
// then seat number) whose booked ranges are all disjoint from [lo, hi),
// records the range on it and returns its id.  The scan order matches the
// original system's allocation: lowest free seat wins, no fairness policy.
//
// Assign only fails when every seat overlaps the range somewhere.  Under
// the coordinator's critical section that can happen even though the
// aggregate capacity counters said yes, since per-seat fragmentation is not
// visible to them, and the coordinator treats that as an internal
// inconsistency, not a sold-out condition.
func (p *SeatPool) Assign(lo, hi int) (int, bool) {
	for id, ranges := range p.booked {
		free := true
		for _, r := range ranges {
			if r.overlaps(lo, hi) {
				free = false
				break
			}
		}
		if free {
			p.booked[id] = append(p.booked[id], segmentRange{Lo: lo, Hi: hi})
			return id, true
		}
	}
	return 0, false
}

// Release removes the booked range [lo, hi) from the seat.  It is a no-op
// when the seat does not hold that exact range, which makes rollback of a
// partially assigned order safe to drive from a plain list of seat ids.
func (p *SeatPool) Release(seatID, lo, hi int) {
	if seatID < 0 || seatID >= len(p.booked) {
		return
	}
	ranges := p.booked[seatID]
	for i, r := range ranges {
		if r.Lo == lo && r.Hi == hi {
			p.booked[seatID] = append(ranges[:i], ranges[i+1:]...)
			return
		}
	}
}

// BookedRanges returns the seat's booked ranges as [lo, hi) pairs, in
// insertion order.  Exposed for tests and diagnostics.
func (p *SeatPool) BookedRanges(seatID int) [][2]int {
	out := make([][2]int, 0, len(p.booked[seatID]))
	for _, r := range p.booked[seatID] {
		out = append(out, [2]int{r.Lo, r.Hi})
	}
	return out
}

// Label renders a seat id as the human car/seat label the original system
// stores in order details, e.g. seat 0 of 二等座 -> ("04", "001").  Car
// numbering starts at the class's first car in the consist; seat numbers
// restart at 1 in each car.
func (p *SeatPool) Label(seatID int) (car string, seat string) {
	perCar := seatsPerCar[p.class]
	carNo := firstCar[p.class] + seatID/perCar
	seatNo := seatID%perCar + 1
	return fmt.Sprintf("%02d", carNo), fmt.Sprintf("%03d", seatNo)
}
