package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/railway-seat-reservation/internal/inventory"
)

// recordingPublisher captures events for assertions.
type recordingPublisher struct {
	issued    []Order
	cancelled []Order
	reasons   []string
}

func (p *recordingPublisher) TicketsIssued(_ context.Context, o Order) {
	p.issued = append(p.issued, o)
}

func (p *recordingPublisher) ReservationCancelled(_ context.Context, o Order, reason string) {
	p.cancelled = append(p.cancelled, o)
	p.reasons = append(p.reasons, reason)
}

func newTestService(t *testing.T, seats int) (*Service, *recordingPublisher, *inventory.Registry) {
	t.Helper()
	stops := []inventory.Stop{
		{Station: "上海", Seq: 0},
		{Station: "无锡", Seq: 1},
		{Station: "南京", Seq: 2},
		{Station: "天津西", Seq: 3},
		{Station: "北京", Seq: 4},
	}
	fares := map[inventory.SeatClass][]int64{
		inventory.SecondClass: {3900, 3900, 40000, 3900},
	}
	co := inventory.NewCoordinator("G1", "2026-09-01", inventory.NewRoute(stops),
		inventory.NewFareTable(fares), map[inventory.SeatClass]int{inventory.SecondClass: seats})
	reg := inventory.NewRegistry()
	reg.Put(co)

	pub := &recordingPublisher{}
	return NewService(reg, NewStore(), pub, 20*time.Minute), pub, reg
}

func placeRequest() PlaceRequest {
	return PlaceRequest{
		TrainNo:    "G1",
		Date:       "2026-09-01",
		SeatType:   "二等座",
		Origin:     "上海",
		Dest:       "北京",
		Passengers: 2,
	}
}

func TestPlaceCreatesUnpaidOrder(t *testing.T) {
	svc, pub, _ := newTestService(t, 100)

	o, err := svc.Place(context.Background(), placeRequest())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if o.Status != StatusUnpaid {
		t.Errorf("Status = %s, want %s", o.Status, StatusUnpaid)
	}
	if len(o.Tickets) != 2 {
		t.Errorf("got %d tickets, want 2", len(o.Tickets))
	}
	if o.TotalPrice != 2*51700 {
		t.Errorf("TotalPrice = %d, want %d", o.TotalPrice, 2*51700)
	}
	if !o.PaymentExpiresAt.After(o.CreatedAt) {
		t.Error("payment deadline is not after creation time")
	}
	if len(pub.issued) != 1 {
		t.Errorf("published %d tickets.issued events, want 1", len(pub.issued))
	}

	got, err := svc.Get(o.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != o.ID || got.Status != StatusUnpaid {
		t.Errorf("Get returned %+v", got)
	}
}

func TestPlacePassesEngineErrorsThrough(t *testing.T) {
	svc, _, _ := newTestService(t, 1)

	req := placeRequest()
	req.Passengers = 2
	_, err := svc.Place(context.Background(), req)
	var soldOut *inventory.SoldOutError
	if !errors.As(err, &soldOut) {
		t.Fatalf("err = %v, want SoldOutError", err)
	}
	if soldOut.Available != 1 {
		t.Errorf("Available = %d, want 1", soldOut.Available)
	}

	req = placeRequest()
	req.SeatType = "头等舱"
	if _, err := svc.Place(context.Background(), req); !errors.Is(err, inventory.ErrUnknownSeatClass) {
		t.Errorf("unknown class err = %v", err)
	}

	req = placeRequest()
	req.TrainNo = "G99"
	if _, err := svc.Place(context.Background(), req); !errors.Is(err, inventory.ErrTrainNotFound) {
		t.Errorf("missing train err = %v", err)
	}
}

func TestPayAndDoubleCancel(t *testing.T) {
	svc, pub, reg := newTestService(t, 100)
	ctx := context.Background()

	o, err := svc.Place(ctx, placeRequest())
	if err != nil {
		t.Fatal(err)
	}
	paid, err := svc.Pay(o.ID)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if paid.Status != StatusPaid {
		t.Errorf("Status = %s, want %s", paid.Status, StatusPaid)
	}
	if _, err := svc.Pay(o.ID); !errors.Is(err, ErrOrderNotPayable) {
		t.Errorf("second Pay err = %v, want ErrOrderNotPayable", err)
	}

	cancelled, err := svc.Cancel(ctx, o.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("Status = %s, want %s", cancelled.Status, StatusCancelled)
	}
	// Seats are back: the full train is bookable again.
	co, _ := reg.Get("G1", "2026-09-01")
	if avail, _ := co.QueryAvailability(inventory.SecondClass, "上海", "北京"); avail != 100 {
		t.Errorf("availability after cancel = %d, want 100", avail)
	}

	// A second cancel must not over-credit capacity.
	if _, err := svc.Cancel(ctx, o.ID); !errors.Is(err, ErrOrderNotCancellable) {
		t.Errorf("second Cancel err = %v, want ErrOrderNotCancellable", err)
	}
	if avail, _ := co.QueryAvailability(inventory.SecondClass, "上海", "北京"); avail != 100 {
		t.Errorf("availability after double cancel = %d, want 100", avail)
	}
	if len(pub.cancelled) != 1 || pub.reasons[0] != "user_cancelled" {
		t.Errorf("cancel events = %d (%v), want 1 user_cancelled", len(pub.cancelled), pub.reasons)
	}
}

func TestExpireDueReleasesSeats(t *testing.T) {
	svc, pub, reg := newTestService(t, 100)
	ctx := context.Background()

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	o, err := svc.Place(ctx, placeRequest())
	if err != nil {
		t.Fatal(err)
	}
	paidOrder, err := svc.Place(ctx, placeRequest())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Pay(paidOrder.ID); err != nil {
		t.Fatal(err)
	}

	// Nothing due inside the window.
	if n, err := svc.ExpireDue(ctx); err != nil || n != 0 {
		t.Fatalf("ExpireDue within window = %d, %v", n, err)
	}

	// Jump past the deadline: only the unpaid order expires.
	now = now.Add(21 * time.Minute)
	n, err := svc.ExpireDue(ctx)
	if err != nil {
		t.Fatalf("ExpireDue: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired %d orders, want 1", n)
	}

	got, _ := svc.Get(o.ID)
	if got.Status != StatusExpired {
		t.Errorf("unpaid order status = %s, want %s", got.Status, StatusExpired)
	}
	gotPaid, _ := svc.Get(paidOrder.ID)
	if gotPaid.Status != StatusPaid {
		t.Errorf("paid order status = %s, want %s", gotPaid.Status, StatusPaid)
	}

	// Only the expired order's two seats came back.
	co, _ := reg.Get("G1", "2026-09-01")
	if avail, _ := co.QueryAvailability(inventory.SecondClass, "上海", "北京"); avail != 98 {
		t.Errorf("availability after expiry = %d, want 98", avail)
	}
	if len(pub.reasons) != 1 || pub.reasons[0] != "payment_expired" {
		t.Errorf("expiry events = %v, want [payment_expired]", pub.reasons)
	}

	// Expired orders cannot be paid late.
	if _, err := svc.Pay(o.ID); !errors.Is(err, ErrOrderNotPayable) {
		t.Errorf("Pay after expiry err = %v, want ErrOrderNotPayable", err)
	}
}

func TestGetUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(t, 100)
	if _, err := svc.Get("deadbeef"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Get err = %v, want ErrOrderNotFound", err)
	}
	if _, err := svc.Pay("deadbeef"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Pay err = %v, want ErrOrderNotFound", err)
	}
	if _, err := svc.Cancel(context.Background(), "deadbeef"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Cancel err = %v, want ErrOrderNotFound", err)
	}
}
