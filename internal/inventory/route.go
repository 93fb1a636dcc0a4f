package inventory

// Stop is one scheduled halt of a train on a given date.  Stops are ordered
// by Seq and immutable once the train/date is scheduled.
//
// Fields:
//  Station   – station name, e.g. "上海".
//  Seq       – zero-based position along the route.
//  Arrival   – arrival time "HH:MM" (empty for the origin stop).
//  Departure – departure time "HH:MM" (empty for the terminus).
type Stop struct {
	Station   string
	Seq       int
	Arrival   string
	Departure string
}

// Route is the immutable ordered stop list of one train on one date.  It
// resolves (origin, destination) pairs into half-open segment ranges: the
// segment with index i is the stretch of track between stop i and stop i+1,
// so a journey from stop lo to stop hi occupies segments [lo, hi).
type Route struct {
	stops []Stop
	index map[string]int // station name -> stop position
}

// NewRoute builds a Route from stops already ordered by sequence.  The
// caller (the schedule loader) guarantees at least two stops and unique
// station names.
func NewRoute(stops []Stop) *Route {
	index := make(map[string]int, len(stops))
	for i, s := range stops {
		index[s.Station] = i
	}
	return &Route{stops: stops, index: index}
}

// Segments returns the number of track segments, one less than the number
// of stops.
func (r *Route) Segments() int { return len(r.stops) - 1 }

// Stops returns the ordered stop list.  Callers must not modify it.
func (r *Route) Stops() []Stop { return r.stops }

// SegmentRange resolves an (origin, destination) pair into the half-open
// segment range [lo, hi) the journey occupies.  It fails with
// ErrInvalidStationPair when either station is not a stop of this train or
// when the origin does not come strictly before the destination.
func (r *Route) SegmentRange(origin, dest string) (lo, hi int, err error) {
	lo, ok := r.index[origin]
	if !ok {
		return 0, 0, ErrInvalidStationPair
	}
	hi, ok = r.index[dest]
	if !ok {
		return 0, 0, ErrInvalidStationPair
	}
	if lo >= hi {
		return 0, 0, ErrInvalidStationPair
	}
	return lo, hi, nil
}
