package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-seat-reservation/internal/booking"
	"github.com/iliyamo/railway-seat-reservation/internal/inventory"
)

// OrderHandler serves the booking endpoints: placing an order, fetching it,
// paying it and cancelling it.  All state changes go through the booking
// service, which drives the inventory engine under its per-class critical
// section.
type OrderHandler struct {
	Service *booking.Service
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(svc *booking.Service) *OrderHandler {
	if svc == nil {
		panic("nil service passed to NewOrderHandler")
	}
	return &OrderHandler{Service: svc}
}

// orderResponse is the JSON view of an order.
type orderResponse struct {
	ID               string           `json:"id"`
	Train            string           `json:"train"`
	Date             string           `json:"date"`
	SeatType         string           `json:"seat_type"`
	From             string           `json:"from"`
	To               string           `json:"to"`
	Passengers       int              `json:"passengers"`
	Tickets          []ticketResponse `json:"tickets"`
	TotalPriceCents  int64            `json:"total_price_cents"`
	Status           string           `json:"status"`
	PaymentExpiresAt string           `json:"payment_expires_at"`
}

type ticketResponse struct {
	Car  string `json:"car"`
	Seat string `json:"seat"`
}

func toOrderResponse(o booking.Order) orderResponse {
	tickets := make([]ticketResponse, len(o.Tickets))
	for i, t := range o.Tickets {
		tickets[i] = ticketResponse{Car: t.Car, Seat: t.Seat}
	}
	return orderResponse{
		ID:               o.ID,
		Train:            o.TrainNo,
		Date:             o.Date,
		SeatType:         o.SeatType,
		From:             o.Origin,
		To:               o.Dest,
		Passengers:       o.Passengers,
		Tickets:          tickets,
		TotalPriceCents:  o.TotalPrice,
		Status:           o.Status,
		PaymentExpiresAt: o.PaymentExpiresAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/orders.  The body must name the train, date,
// seat type, journey endpoints and passenger count.  On success it returns
// 201 with the assigned tickets and the payment deadline.  A sold-out
// journey yields 409 with the number of seats actually available.
func (h *OrderHandler) Create(c echo.Context) error {
	var body struct {
		Train      string `json:"train"`
		Date       string `json:"date"`
		SeatType   string `json:"seat_type"`
		From       string `json:"from"`
		To         string `json:"to"`
		Passengers int    `json:"passengers"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Train == "" || body.Date == "" || body.SeatType == "" || body.From == "" || body.To == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train, date, seat_type, from and to are required"})
	}
	if body.Passengers < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passengers must be at least 1"})
	}

	order, err := h.Service.Place(c.Request().Context(), booking.PlaceRequest{
		TrainNo:    body.Train,
		Date:       body.Date,
		SeatType:   body.SeatType,
		Origin:     body.From,
		Dest:       body.To,
		Passengers: body.Passengers,
	})
	if err != nil {
		var soldOut *inventory.SoldOutError
		switch {
		case errors.Is(err, inventory.ErrTrainNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
		case errors.Is(err, inventory.ErrInvalidStationPair):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station pair"})
		case errors.Is(err, inventory.ErrUnknownSeatClass):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat type"})
		case errors.As(err, &soldOut):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":     "sold out",
				"available": soldOut.Available,
			})
		case errors.Is(err, inventory.ErrInternalInconsistency):
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "inventory inconsistency"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /v1/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.Service.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Pay handles POST /v1/orders/:id/pay.  Only unpaid orders inside their
// payment window can be paid.
func (h *OrderHandler) Pay(c echo.Context) error {
	order, err := h.Service.Pay(c.Param("id"))
	switch {
	case errors.Is(err, booking.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	case errors.Is(err, booking.ErrOrderNotPayable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "order not payable", "status": order.Status})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /v1/orders/:id/cancel.  Cancelling releases the
// order's seats back to the inventory; a second cancel is refused so
// capacity is never credited twice.
func (h *OrderHandler) Cancel(c echo.Context) error {
	order, err := h.Service.Cancel(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, booking.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	case errors.Is(err, booking.ErrOrderNotCancellable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "order not cancellable", "status": order.Status})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}
