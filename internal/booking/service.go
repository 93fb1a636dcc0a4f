package booking

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/railway-seat-reservation/internal/inventory"
)

// EventPublisher receives order lifecycle events.  Publishing is best
// effort: implementations log failures and the booking flow never fails on
// them.  A nil publisher disables events.
type EventPublisher interface {
	TicketsIssued(ctx context.Context, o Order)
	ReservationCancelled(ctx context.Context, o Order, reason string)
}

// Service drives the booking engine on behalf of the HTTP surface: it
// resolves the train's coordinator, places and releases reservations and
// owns the order lifecycle including the payment window.
type Service struct {
	registry   *inventory.Registry
	store      *Store
	publisher  EventPublisher
	paymentTTL time.Duration
	now        func() time.Time // stubbed in tests
}

// NewService wires a booking service.  paymentTTL is how long an unpaid
// order holds its seats before the expiry worker releases them; the
// original system used 20 minutes.
func NewService(reg *inventory.Registry, store *Store, pub EventPublisher, paymentTTL time.Duration) *Service {
	return &Service{
		registry:   reg,
		store:      store,
		publisher:  pub,
		paymentTTL: paymentTTL,
		now:        time.Now,
	}
}

// PlaceRequest is a validated booking request.
type PlaceRequest struct {
	TrainNo    string
	Date       string
	SeatType   string
	Origin     string
	Dest       string
	Passengers int
}

// Place reserves seats for the request and records the resulting order in
// the unpaid state with a payment deadline.  Engine errors (invalid station
// pair, unknown class, sold out, internal inconsistency) pass through
// untouched so the handler can map them to statuses.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (Order, error) {
	co, err := s.registry.Get(req.TrainNo, req.Date)
	if err != nil {
		return Order{}, err
	}
	class, err := inventory.ParseSeatClass(req.SeatType)
	if err != nil {
		return Order{}, err
	}
	res, err := co.Reserve(class, req.Origin, req.Dest, req.Passengers)
	if err != nil {
		return Order{}, err
	}

	id, err := newOrderID()
	if err != nil {
		// The seats are already claimed; give them back before failing.
		_ = co.Cancel(class, req.Origin, req.Dest, seatIDsOf(res.Tickets))
		return Order{}, err
	}
	now := s.now().UTC()
	order := &Order{
		ID:               id,
		TrainNo:          req.TrainNo,
		Date:             req.Date,
		SeatType:         req.SeatType,
		Origin:           req.Origin,
		Dest:             req.Dest,
		Passengers:       req.Passengers,
		Tickets:          res.Tickets,
		TotalPrice:       res.TotalPrice,
		Status:           StatusUnpaid,
		CreatedAt:        now,
		PaymentExpiresAt: now.Add(s.paymentTTL),
	}
	s.store.Put(order)

	if s.publisher != nil {
		s.publisher.TicketsIssued(ctx, *order)
	}
	return *order, nil
}

// Get returns an order by id.
func (s *Service) Get(id string) (Order, error) {
	return s.store.Get(id)
}

// Pay marks an unpaid order as paid.  Orders past their payment deadline
// are not payable even if the expiry worker has not swept them yet.
func (s *Service) Pay(id string) (Order, error) {
	o, err := s.store.Get(id)
	if err != nil {
		return Order{}, err
	}
	if s.now().UTC().After(o.PaymentExpiresAt) {
		return o, ErrOrderNotPayable
	}
	o, err = s.store.transition(id, []string{StatusUnpaid}, StatusPaid)
	if errors.Is(err, errStatus) {
		return o, ErrOrderNotPayable
	}
	return o, err
}

// Cancel releases an unpaid or paid order: seats and capacity go back to
// the inventory and the order becomes cancelled.  Cancelling twice is
// refused, which keeps the engine's release exactly paired with its
// reserve.
func (s *Service) Cancel(ctx context.Context, id string) (Order, error) {
	o, err := s.store.transition(id, []string{StatusUnpaid, StatusPaid}, StatusCancelled)
	if errors.Is(err, errStatus) {
		return o, ErrOrderNotCancellable
	}
	if err != nil {
		return Order{}, err
	}
	if err := s.release(o); err != nil {
		return o, err
	}
	if s.publisher != nil {
		s.publisher.ReservationCancelled(ctx, o, "user_cancelled")
	}
	return s.store.Get(id)
}

// ExpireDue sweeps unpaid orders whose payment window has closed, releasing
// their seats.  It returns how many orders were expired.  Called
// periodically by the expiry worker.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	due := s.store.dueUnpaid(s.now().UTC())
	expired := 0
	for _, o := range due {
		// Re-check under the store lock; a concurrent Pay may have won.
		if _, err := s.store.transition(o.ID, []string{StatusUnpaid}, StatusExpired); err != nil {
			continue
		}
		if err := s.release(o); err != nil {
			return expired, err
		}
		if s.publisher != nil {
			s.publisher.ReservationCancelled(ctx, o, "payment_expired")
		}
		expired++
	}
	return expired, nil
}

// release hands an order's seats back to the engine.
func (s *Service) release(o Order) error {
	co, err := s.registry.Get(o.TrainNo, o.Date)
	if err != nil {
		return err
	}
	class, err := inventory.ParseSeatClass(o.SeatType)
	if err != nil {
		return err
	}
	return co.Cancel(class, o.Origin, o.Dest, o.seatIDs())
}

func seatIDsOf(tickets []inventory.Ticket) []int {
	ids := make([]int, len(tickets))
	for i, t := range tickets {
		ids[i] = t.SeatID
	}
	return ids
}
