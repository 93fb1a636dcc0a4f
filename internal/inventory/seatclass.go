package inventory

// SeatClass is the closed set of seat categories sold on a train.  The
// string tags are the canonical Chinese-rail names used on the wire and in
// the schedule data; unknown tags are rejected at the boundary by
// ParseSeatClass rather than carried through the engine as free-form
// strings.
type SeatClass uint8

const (
	SecondClass  SeatClass = iota // 二等座
	FirstClass                    // 一等座
	BusinessClass                 // 商务座
	SoftSleeper                   // 软卧
	HardSleeper                   // 硬卧
)

// AllSeatClasses lists every class in display order (the order the original
// system presents fare columns in).
var AllSeatClasses = []SeatClass{BusinessClass, FirstClass, SecondClass, SoftSleeper, HardSleeper}

var seatClassTags = map[SeatClass]string{
	SecondClass:   "二等座",
	FirstClass:    "一等座",
	BusinessClass: "商务座",
	SoftSleeper:   "软卧",
	HardSleeper:   "硬卧",
}

// String returns the canonical tag for the class, e.g. "二等座".
func (sc SeatClass) String() string {
	if tag, ok := seatClassTags[sc]; ok {
		return tag
	}
	return "unknown"
}

// ParseSeatClass maps a tag to its SeatClass.  Tags that are not one of the
// five supported classes yield ErrUnknownSeatClass.
func ParseSeatClass(tag string) (SeatClass, error) {
	for sc, t := range seatClassTags {
		if t == tag {
			return sc, nil
		}
	}
	return 0, ErrUnknownSeatClass
}

// seatsPerCar is the physical car layout per class, used only to render
// human seat labels (car number + seat number).  Values follow common CRH
// consist configurations.
var seatsPerCar = map[SeatClass]int{
	BusinessClass: 12,
	FirstClass:    28,
	SecondClass:   90,
	SoftSleeper:   36,
	HardSleeper:   66,
}

// firstCar is the car number the first seat of each class maps to.  Business
// and first class sit at the head of the consist, second class behind them,
// sleepers at the tail.
var firstCar = map[SeatClass]int{
	BusinessClass: 1,
	FirstClass:    2,
	SecondClass:   4,
	SoftSleeper:   12,
	HardSleeper:   14,
}
