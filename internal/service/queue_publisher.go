// Package queue_publisher publishes booking domain events to RabbitMQ.
// Publishing is best effort: errors are logged and swallowed so that a
// broker outage never fails a booking that the inventory has already
// committed.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/railway-seat-reservation/internal/booking"
	q "github.com/iliyamo/railway-seat-reservation/internal/queue"
)

// AMQP implements booking.EventPublisher over RabbitMQ.  A connection is
// dialed per publish; event volume is one message per order transition, so
// connection churn is negligible and the publisher never carries broker
// state that could go stale.
type AMQP struct{}

// New returns an AMQP publisher.
func New() *AMQP { return &AMQP{} }

// TicketsIssued publishes a TicketsIssuedEvent to the tickets.issued queue.
func (p *AMQP) TicketsIssued(ctx context.Context, o booking.Order) {
	tickets := make([]q.TicketEvent, len(o.Tickets))
	for i, t := range o.Tickets {
		tickets[i] = q.TicketEvent{Car: t.Car, Seat: t.Seat}
	}
	ev := q.TicketsIssuedEvent{
		OrderID:          o.ID,
		TrainNo:          o.TrainNo,
		Date:             o.Date,
		SeatType:         o.SeatType,
		Origin:           o.Origin,
		Dest:             o.Dest,
		Tickets:          tickets,
		TotalPriceCents:  o.TotalPrice,
		PaymentExpiresAt: o.PaymentExpiresAt.UTC().Format(time.RFC3339),
		IssuedAt:         time.Now().UTC().Format(time.RFC3339),
	}
	publish(ctx, q.TicketsIssuedQueue, ev)
}

// ReservationCancelled publishes a ReservationCancelledEvent to the
// reservation.cancelled queue.
func (p *AMQP) ReservationCancelled(ctx context.Context, o booking.Order, reason string) {
	ev := q.ReservationCancelledEvent{
		OrderID:     o.ID,
		TrainNo:     o.TrainNo,
		Date:        o.Date,
		SeatType:    o.SeatType,
		Origin:      o.Origin,
		Dest:        o.Dest,
		Passengers:  o.Passengers,
		Reason:      reason,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	}
	publish(ctx, q.ReservationCancelledQueue, ev)
}

// publish marshals the event and sends it to the named durable queue as a
// persistent message.
func publish(ctx context.Context, queueName string, event any) {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: dial failed")
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: channel open failed")
		return
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent).  Durable so messages survive
	// broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: queue declare failed")
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: marshal event failed")
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: publish failed")
	}
}
