package inventory

import (
	"errors"
	"sync"
	"testing"
)

// newTestCoordinator builds the G1 test train: 上海–无锡–南京–天津西–北京
// with 100 second-class and 10 first-class seats.
func newTestCoordinator(t *testing.T, secondClassSeats int) *Coordinator {
	t.Helper()
	return NewCoordinator("G1", "2026-09-01", NewRoute(testStops()), NewFareTable(testFares()),
		map[SeatClass]int{
			SecondClass: secondClassSeats,
			FirstClass:  10,
		})
}

func TestQueryFareScenarios(t *testing.T) {
	co := newTestCoordinator(t, 100)

	full, err := co.QueryFare(SecondClass, "上海", "北京")
	if err != nil {
		t.Fatalf("QueryFare(上海, 北京): %v", err)
	}
	if full != 51700 {
		t.Errorf("QueryFare(上海, 北京) = %d cents, want 51700 (517 yuan)", full)
	}

	adjacent, err := co.QueryFare(SecondClass, "上海", "无锡")
	if err != nil {
		t.Fatalf("QueryFare(上海, 无锡): %v", err)
	}
	if adjacent != 3900 {
		t.Errorf("QueryFare(上海, 无锡) = %d cents, want 3900 (39 yuan)", adjacent)
	}
}

func TestReserveThenCancelRoundTrip(t *testing.T) {
	co := newTestCoordinator(t, 100)

	res, err := co.Reserve(SecondClass, "上海", "北京", 1)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if len(res.Tickets) != 1 {
		t.Fatalf("Reserve returned %d tickets, want 1", len(res.Tickets))
	}
	if res.TotalPrice != 51700 {
		t.Errorf("TotalPrice = %d, want 51700", res.TotalPrice)
	}

	ci := co.capacityIndex(SecondClass)
	for i := 0; i < 4; i++ {
		if got := ci.Free(i); got != 99 {
			t.Errorf("free[%d] = %d after reserve, want 99", i, got)
		}
	}

	if err := co.Cancel(SecondClass, "上海", "北京", []int{res.Tickets[0].SeatID}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	for i := 0; i < 4; i++ {
		if got := ci.Free(i); got != 100 {
			t.Errorf("free[%d] = %d after cancel, want 100", i, got)
		}
	}
	if got := len(co.seatPool(SecondClass).BookedRanges(res.Tickets[0].SeatID)); got != 0 {
		t.Errorf("cancelled seat still holds %d booked ranges", got)
	}
}

func TestMultiPassengerReserve(t *testing.T) {
	co := newTestCoordinator(t, 100)

	res, err := co.Reserve(SecondClass, "无锡", "天津西", 3)
	if err != nil {
		t.Fatalf("Reserve(3 passengers): %v", err)
	}
	if len(res.Tickets) != 3 {
		t.Fatalf("got %d tickets, want 3", len(res.Tickets))
	}
	seen := make(map[int]bool)
	for _, tk := range res.Tickets {
		if seen[tk.SeatID] {
			t.Errorf("seat %d assigned twice in one order", tk.SeatID)
		}
		seen[tk.SeatID] = true
	}
	if res.TotalPrice != 3*43900 {
		t.Errorf("TotalPrice = %d, want %d", res.TotalPrice, 3*43900)
	}

	avail, err := co.QueryAvailability(SecondClass, "无锡", "天津西")
	if err != nil {
		t.Fatal(err)
	}
	if avail != 97 {
		t.Errorf("availability after booking 3 = %d, want 97", avail)
	}
	// The untouched leading segment is unaffected.
	if avail, _ = co.QueryAvailability(SecondClass, "上海", "无锡"); avail != 100 {
		t.Errorf("availability 上海→无锡 = %d, want 100", avail)
	}
}

// Availability over a multi-segment journey is the minimum across its
// segments: one drained segment zeroes the whole route.
func TestAvailabilityMinimumRule(t *testing.T) {
	co := newTestCoordinator(t, 100)

	// Drain segment 2 (南京→天津西) completely.
	if _, err := co.Reserve(SecondClass, "南京", "天津西", 100); err != nil {
		t.Fatalf("draining reserve: %v", err)
	}

	avail, err := co.QueryAvailability(SecondClass, "上海", "北京")
	if err != nil {
		t.Fatal(err)
	}
	if avail != 0 {
		t.Errorf("QueryAvailability(上海, 北京) = %d with segment 2 drained, want 0", avail)
	}

	_, err = co.Reserve(SecondClass, "上海", "北京", 1)
	var soldOut *SoldOutError
	if !errors.As(err, &soldOut) {
		t.Fatalf("Reserve over drained segment err = %v, want SoldOutError", err)
	}
	if soldOut.Available != 0 {
		t.Errorf("SoldOutError.Available = %d, want 0", soldOut.Available)
	}
}

func TestReserveValidation(t *testing.T) {
	co := newTestCoordinator(t, 100)

	if _, err := co.Reserve(SecondClass, "北京", "上海", 1); !errors.Is(err, ErrInvalidStationPair) {
		t.Errorf("reversed journey err = %v, want ErrInvalidStationPair", err)
	}
	if _, err := co.Reserve(SoftSleeper, "上海", "北京", 1); !errors.Is(err, ErrUnknownSeatClass) {
		t.Errorf("unoffered class err = %v, want ErrUnknownSeatClass", err)
	}
	if _, err := co.Reserve(SecondClass, "上海", "北京", 0); err == nil {
		t.Error("Reserve with 0 passengers succeeded")
	}
	if _, err := co.QueryAvailability(SoftSleeper, "上海", "北京"); !errors.Is(err, ErrUnknownSeatClass) {
		t.Errorf("QueryAvailability unoffered class err = %v, want ErrUnknownSeatClass", err)
	}
}

// Two concurrent bookings race for a class with exactly one seat left
// end-to-end: exactly one wins, the other sees SoldOut, and no segment goes
// negative.
func TestConcurrentBookingSingleSeat(t *testing.T) {
	co := newTestCoordinator(t, 1)

	type outcome struct {
		res *Reservation
		err error
	}
	results := make(chan outcome, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := co.Reserve(SecondClass, "上海", "北京", 1)
			results <- outcome{res, err}
		}()
	}
	wg.Wait()
	close(results)

	var wins, soldOuts int
	for o := range results {
		switch {
		case o.err == nil:
			wins++
		default:
			var so *SoldOutError
			if !errors.As(o.err, &so) {
				t.Fatalf("unexpected error: %v", o.err)
			}
			soldOuts++
		}
	}
	if wins != 1 || soldOuts != 1 {
		t.Fatalf("got %d wins and %d sold-outs, want exactly 1 of each", wins, soldOuts)
	}

	ci := co.capacityIndex(SecondClass)
	for i := 0; i < 4; i++ {
		if got := ci.Free(i); got != 0 {
			t.Errorf("free[%d] = %d after the race, want 0", i, got)
		}
	}
}

// Heavier race: many goroutines booking overlapping sub-journeys never
// oversell any segment.
func TestConcurrentBookingNoOversell(t *testing.T) {
	const seats = 20
	co := newTestCoordinator(t, seats)

	journeys := []struct{ origin, dest string }{
		{"上海", "北京"},
		{"上海", "南京"},
		{"南京", "北京"},
		{"无锡", "天津西"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		j := journeys[i%len(journeys)]
		wg.Add(1)
		go func(origin, dest string) {
			defer wg.Done()
			_, err := co.Reserve(SecondClass, origin, dest, 1)
			var so *SoldOutError
			if err != nil && !errors.As(err, &so) {
				t.Errorf("Reserve(%s, %s): %v", origin, dest, err)
			}
		}(j.origin, j.dest)
	}
	wg.Wait()

	ci := co.capacityIndex(SecondClass)
	for i := 0; i < 4; i++ {
		if free := ci.Free(i); free < 0 || free > seats {
			t.Errorf("free[%d] = %d out of [0, %d]", i, free, seats)
		}
	}
}

// A cancel carrying seat ids that were never assigned over-credits capacity
// and strands the seat pool; the next reserve must detect the divergence,
// roll back cleanly and report it instead of handing out a phantom seat.
func TestInternalInconsistencyDetected(t *testing.T) {
	co := newTestCoordinator(t, 1)

	if _, err := co.Reserve(SecondClass, "上海", "北京", 1); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	// Misuse: cancel with a seat id outside the pool.  Capacity is restored
	// but the real seat's ranges stay booked.
	if err := co.Cancel(SecondClass, "上海", "北京", []int{99}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	_, err := co.Reserve(SecondClass, "上海", "北京", 1)
	if !errors.Is(err, ErrInternalInconsistency) {
		t.Fatalf("Reserve err = %v, want ErrInternalInconsistency", err)
	}

	// The failed attempt must have rolled its capacity claim back.
	ci := co.capacityIndex(SecondClass)
	for i := 0; i < 4; i++ {
		if got := ci.Free(i); got != 1 {
			t.Errorf("free[%d] = %d after rollback, want 1", i, got)
		}
	}
}

func TestOfferedClasses(t *testing.T) {
	co := newTestCoordinator(t, 100)
	got := co.OfferedClasses()
	want := []SeatClass{FirstClass, SecondClass}
	if len(got) != len(want) {
		t.Fatalf("OfferedClasses() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OfferedClasses()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	co := newTestCoordinator(t, 100)
	reg.Put(co)

	if got, err := reg.Get("G1", "2026-09-01"); err != nil || got != co {
		t.Fatalf("Get(G1, 2026-09-01) = %v, %v", got, err)
	}
	if _, err := reg.Get("G1", "2026-09-02"); !errors.Is(err, ErrTrainNotFound) {
		t.Errorf("Get on missing date err = %v, want ErrTrainNotFound", err)
	}
	if _, err := reg.Get("G99", "2026-09-01"); !errors.Is(err, ErrTrainNotFound) {
		t.Errorf("Get on missing train err = %v, want ErrTrainNotFound", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}
