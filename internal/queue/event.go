// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketsIssuedEvent is published when a reservation commits and seats are
// assigned.  It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the booking service.
type TicketsIssuedEvent struct {
	OrderID          string        `json:"order_id"`
	TrainNo          string        `json:"train_no"`
	Date             string        `json:"date"`
	SeatType         string        `json:"seat_type"`
	Origin           string        `json:"origin"`
	Dest             string        `json:"dest"`
	Tickets          []TicketEvent `json:"tickets"`
	TotalPriceCents  int64         `json:"total_price_cents"`
	PaymentExpiresAt string        `json:"payment_expires_at"`
	IssuedAt         string        `json:"issued_at"`
}

// TicketEvent is one assigned seat inside a TicketsIssuedEvent, labelled the
// way tickets are printed: car number plus seat number.
type TicketEvent struct {
	Car  string `json:"car"`
	Seat string `json:"seat"`
}

// ReservationCancelledEvent is published when an order's seats go back to
// the inventory, either because the user cancelled or because the payment
// window expired.  Reason is "user_cancelled" or "payment_expired".
type ReservationCancelledEvent struct {
	OrderID     string `json:"order_id"`
	TrainNo     string `json:"train_no"`
	Date        string `json:"date"`
	SeatType    string `json:"seat_type"`
	Origin      string `json:"origin"`
	Dest        string `json:"dest"`
	Passengers  int    `json:"passengers"`
	Reason      string `json:"reason"`
	CancelledAt string `json:"cancelled_at"`
}
