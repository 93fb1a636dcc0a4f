package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-seat-reservation/internal/inventory"
)

// TrainHandler serves the read-only train queries: per-class availability
// for a sub-journey and the fare of a specific class.  Both wrap the
// inventory coordinator of the requested train/date; the engine computes
// availability as the minimum free count across every covered segment.
type TrainHandler struct {
	Registry *inventory.Registry
}

// NewTrainHandler constructs a TrainHandler.
func NewTrainHandler(reg *inventory.Registry) *TrainHandler {
	if reg == nil {
		panic("nil registry passed to NewTrainHandler")
	}
	return &TrainHandler{Registry: reg}
}

// availabilityEntry is one row of the availability response.
type availabilityEntry struct {
	SeatType  string `json:"seat_type"`
	Available int    `json:"available"`
	FareCents int64  `json:"fare_cents"`
}

// GetAvailability handles GET /v1/trains/:train/availability.  Query
// parameters: date, from, to.  It returns, for every class the train
// offers, how many seats are free for the whole journey and the
// single-passenger fare.
func (h *TrainHandler) GetAvailability(c echo.Context) error {
	trainNo := c.Param("train")
	date := c.QueryParam("date")
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if date == "" || from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date, from and to are required"})
	}

	co, err := h.Registry.Get(trainNo, date)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
	}

	entries := make([]availabilityEntry, 0, len(co.OfferedClasses()))
	for _, class := range co.OfferedClasses() {
		avail, err := co.QueryAvailability(class, from, to)
		if err != nil {
			return trainError(c, err)
		}
		fare, err := co.QueryFare(class, from, to)
		if err != nil {
			return trainError(c, err)
		}
		entries = append(entries, availabilityEntry{SeatType: class.String(), Available: avail, FareCents: fare})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"train":      trainNo,
		"date":       date,
		"from":       from,
		"to":         to,
		"seat_types": entries,
	})
}

// GetFare handles GET /v1/trains/:train/fare.  Query parameters: date,
// from, to, seat_type.  It prices a single passenger for the journey by
// summing the per-segment fares between the two stations.
func (h *TrainHandler) GetFare(c echo.Context) error {
	trainNo := c.Param("train")
	date := c.QueryParam("date")
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	seatType := c.QueryParam("seat_type")
	if date == "" || from == "" || to == "" || seatType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date, from, to and seat_type are required"})
	}

	co, err := h.Registry.Get(trainNo, date)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
	}
	class, err := inventory.ParseSeatClass(seatType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat type"})
	}
	fare, err := co.QueryFare(class, from, to)
	if err != nil {
		return trainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"train":      trainNo,
		"date":       date,
		"from":       from,
		"to":         to,
		"seat_type":  seatType,
		"fare_cents": fare,
	})
}

// trainError maps engine errors to HTTP responses.
func trainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, inventory.ErrInvalidStationPair):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station pair"})
	case errors.Is(err, inventory.ErrUnknownSeatClass):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat type"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
