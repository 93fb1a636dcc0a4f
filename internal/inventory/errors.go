// Package inventory implements the train seat inventory and reservation
// engine: per-segment capacity accounting, cross-interval fare summation,
// physical seat assignment and the per-(train, date, seat class) critical
// section that keeps concurrent bookings consistent.  Everything mutable in
// this package is reached through a Coordinator; callers never share raw
// capacity or seat state.
package inventory

import (
	"errors"
	"fmt"
)

// ErrInvalidStationPair is returned when either station is not a stop of the
// train, or when the origin does not come strictly before the destination
// along the route.  Handlers should translate this into an HTTP 400 response.
var ErrInvalidStationPair = errors.New("invalid station pair")

// ErrUnknownSeatClass is returned when a seat class tag is not one of the
// supported classes, or when the train does not offer the class.  Handlers
// should translate this into an HTTP 400 response.
var ErrUnknownSeatClass = errors.New("unknown seat class")

// ErrTrainNotFound is returned by the registry when no inventory exists for
// the requested train and date.  Handlers should translate this into an
// HTTP 404 response.
var ErrTrainNotFound = errors.New("train not found")

// ErrInternalInconsistency signals that the aggregate capacity counters and
// the per-seat booked ranges have diverged: capacity reported enough free
// units for a range but no physical seat could be matched.  This is a bug
// signal, never a normal sold-out condition.  The reservation that hit it is
// fully rolled back before the error is returned.
var ErrInternalInconsistency = errors.New("capacity and seat pool diverged")

// SoldOutError reports that fewer seats than requested are free across the
// whole journey.  Available carries the actual minimum so callers can show
// how many seats could still be booked.
type SoldOutError struct {
	Available int
}

func (e *SoldOutError) Error() string {
	return fmt.Sprintf("sold out: %d seat(s) available for the full journey", e.Available)
}
