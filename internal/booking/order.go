// Package booking layers orders on top of the inventory engine.  An order
// wraps one committed reservation, carries its payment state and deadline,
// and is the unit the HTTP surface, the event publisher and the expiry
// worker all talk about.  The engine itself treats every reservation as a
// durable decrement; the unpaid-payment window lives entirely here, driven
// by explicit Cancel calls.
package booking

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/railway-seat-reservation/internal/inventory"
)

// Order statuses.  They follow the original system's lifecycle: a fresh
// order is confirmed with seats assigned but unpaid, and either gets paid,
// is cancelled by the user, or expires when the payment window closes.
const (
	StatusUnpaid    = "confirmed_unpaid"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// ErrOrderNotFound is returned when no order exists with the given id.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderNotPayable is returned when paying an order that is not in the
// unpaid state or whose payment window has already closed.
var ErrOrderNotPayable = errors.New("order not payable")

// ErrOrderNotCancellable is returned when cancelling an order that is
// already cancelled or expired.
var ErrOrderNotCancellable = errors.New("order not cancellable")

// Order is one committed multi-passenger reservation with payment state.
//
// Fields:
//  ID               – opaque hex identifier.
//  TrainNo, Date    – the inventory the seats were taken from.
//  SeatType         – canonical seat class tag, e.g. "二等座".
//  Origin, Dest     – journey endpoints as station names.
//  Passengers       – number of tickets.
//  Tickets          – assigned seats with car/seat labels.
//  TotalPrice       – summed fare in cents.
//  Status           – one of the Status* constants.
//  CreatedAt        – order creation time (UTC).
//  PaymentExpiresAt – deadline after which an unpaid order is released.
type Order struct {
	ID               string
	TrainNo          string
	Date             string
	SeatType         string
	Origin           string
	Dest             string
	Passengers       int
	Tickets          []inventory.Ticket
	TotalPrice       int64
	Status           string
	CreatedAt        time.Time
	PaymentExpiresAt time.Time
}

// seatIDs extracts the physical seat ids for a Cancel call.
func (o *Order) seatIDs() []int {
	ids := make([]int, len(o.Tickets))
	for i, t := range o.Tickets {
		ids[i] = t.SeatID
	}
	return ids
}

// Store keeps orders in memory behind a mutex.  Order persistence is out of
// the engine's scope; the store exists so that payment, cancellation and
// expiry all act on one owned copy of each order.
type Store struct {
	mu     sync.Mutex
	orders map[string]*Order
}

// NewStore returns an empty order store.
func NewStore() *Store {
	return &Store{orders: make(map[string]*Order)}
}

// Put saves an order.
func (s *Store) Put(o *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

// Get returns a copy of the order, or ErrOrderNotFound.  Returning a copy
// keeps callers from mutating order state outside the store's lock.
func (s *Store) Get(id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return *o, nil
}

// transition atomically moves an order from one status to another and
// returns a copy of the updated order.  The from check makes pay/cancel/
// expiry races resolve to exactly one winner.
func (s *Store) transition(id string, from []string, to string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	for _, f := range from {
		if o.Status == f {
			o.Status = to
			return *o, nil
		}
	}
	return *o, errStatus
}

// errStatus is an internal marker the service maps to the caller-facing
// pay/cancel errors.
var errStatus = errors.New("status transition refused")

// dueUnpaid returns copies of unpaid orders whose payment deadline has
// passed.
func (s *Store) dueUnpaid(now time.Time) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []Order
	for _, o := range s.orders {
		if o.Status == StatusUnpaid && now.After(o.PaymentExpiresAt) {
			due = append(due, *o)
		}
	}
	return due
}

// newOrderID returns a 16-byte random hex id.
func newOrderID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
