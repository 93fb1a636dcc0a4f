package inventory

// CapacityIndex tracks, for one (train, date, seat class), how many seats
// remain free on each track segment.  The free count for a multi-segment
// journey is the minimum across its segments, never a sum: a seat is usable
// for the journey only if it is empty on every segment of it.
//
// Routes are tens of stops at most, so the index is a plain int slice with
// O(S) range operations; a segment tree buys nothing at this size.
//
// CapacityIndex performs no locking of its own.  The owning Coordinator
// serializes every Reserve/Release/Query for a class inside one critical
// section.
type CapacityIndex struct {
	free  []int
	total int // K, the class's full seat count; free[i] never exceeds it
}

// NewCapacityIndex creates an index with all segments at full capacity.
func NewCapacityIndex(segments, seats int) *CapacityIndex {
	free := make([]int, segments)
	for i := range free {
		free[i] = seats
	}
	return &CapacityIndex{free: free, total: seats}
}

// Query returns the number of seats free across the whole range [lo, hi),
// i.e. the minimum free count over its segments.
func (c *CapacityIndex) Query(lo, hi int) int {
	min := c.free[lo]
	for i := lo + 1; i < hi; i++ {
		if c.free[i] < min {
			min = c.free[i]
		}
	}
	return min
}

// Reserve claims n units on every segment of [lo, hi).  When fewer than n
// units are free across the range it mutates nothing and returns a
// SoldOutError carrying the actual minimum.
func (c *CapacityIndex) Reserve(lo, hi, n int) error {
	if avail := c.Query(lo, hi); avail < n {
		return &SoldOutError{Available: avail}
	}
	for i := lo; i < hi; i++ {
		c.free[i] -= n
	}
	return nil
}

// Release returns n units to every segment of [lo, hi).  It is the undo of
// a prior Reserve; callers only ever release amounts they reserved, which
// keeps free[i] <= K.
func (c *CapacityIndex) Release(lo, hi, n int) {
	for i := lo; i < hi; i++ {
		c.free[i] += n
	}
}

// Free returns the free count of a single segment.  Used by tests and by
// the consistency check in the coordinator's alert path.
func (c *CapacityIndex) Free(segment int) int { return c.free[segment] }

// Total returns K, the class's full seat count.
func (c *CapacityIndex) Total() int { return c.total }
