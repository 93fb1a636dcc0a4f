package inventory

// FareTable prices journeys by summing per-segment fares.  Fares are stored
// in cents (分) to keep all arithmetic integral; the HTTP layer converts to
// yuan for display.  For each offered class the table keeps a prefix-sum
// vector so that the price of any [lo, hi) range is a single subtraction.
type FareTable struct {
	// prefix[class][i] = sum of the class's fares over segments [0, i).
	// Length is S+1 for a route with S segments.
	prefix map[SeatClass][]int64
}

// NewFareTable builds prefix sums from per-segment fare vectors, one vector
// per class the train offers.  Every vector must have exactly one entry per
// segment; the schedule loader validates this before calling.
func NewFareTable(fares map[SeatClass][]int64) *FareTable {
	prefix := make(map[SeatClass][]int64, len(fares))
	for class, vec := range fares {
		p := make([]int64, len(vec)+1)
		for i, f := range vec {
			p[i+1] = p[i] + f
		}
		prefix[class] = p
	}
	return &FareTable{prefix: prefix}
}

// Offers reports whether the train sells the given class.
func (t *FareTable) Offers(class SeatClass) bool {
	_, ok := t.prefix[class]
	return ok
}

// Price returns the fare in cents for one passenger travelling the segment
// range [lo, hi) in the given class.  It fails with ErrUnknownSeatClass when
// the train does not offer the class.  The range is trusted to come from
// Route.SegmentRange.
func (t *FareTable) Price(class SeatClass, lo, hi int) (int64, error) {
	p, ok := t.prefix[class]
	if !ok {
		return 0, ErrUnknownSeatClass
	}
	return p[hi] - p[lo], nil
}
