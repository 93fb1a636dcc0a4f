package inventory

import (
	"errors"
	"testing"
)

// Per-segment second-class fares for the test route, in cents:
// 39, 39, 400, 39 yuan.  Full journey 上海→北京 must price at 517 yuan.
func testFares() map[SeatClass][]int64 {
	return map[SeatClass][]int64{
		SecondClass: {3900, 3900, 40000, 3900},
		FirstClass:  {6200, 6200, 64000, 6200},
	}
}

func TestPriceSumsSegments(t *testing.T) {
	ft := NewFareTable(testFares())

	cases := []struct {
		name   string
		lo, hi int
		want   int64
	}{
		{"full journey", 0, 4, 51700},
		{"first segment", 0, 1, 3900},
		{"middle two segments", 1, 3, 43900},
		{"last segment", 3, 4, 3900},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ft.Price(SecondClass, tc.lo, tc.hi)
			if err != nil {
				t.Fatalf("Price(二等座, %d, %d): %v", tc.lo, tc.hi, err)
			}
			if got != tc.want {
				t.Errorf("Price(二等座, %d, %d) = %d, want %d", tc.lo, tc.hi, got, tc.want)
			}
		})
	}
}

// The fare of A→C equals the fare of A→B plus the fare of B→C for any stop
// B between them.
func TestFareAdditivity(t *testing.T) {
	ft := NewFareTable(testFares())
	for lo := 0; lo < 4; lo++ {
		for hi := lo + 1; hi <= 4; hi++ {
			whole, err := ft.Price(SecondClass, lo, hi)
			if err != nil {
				t.Fatal(err)
			}
			for mid := lo + 1; mid < hi; mid++ {
				left, _ := ft.Price(SecondClass, lo, mid)
				right, _ := ft.Price(SecondClass, mid, hi)
				if left+right != whole {
					t.Errorf("fare [%d,%d)+[%d,%d) = %d, want %d", lo, mid, mid, hi, left+right, whole)
				}
			}
		}
	}
}

func TestPriceUnknownClass(t *testing.T) {
	ft := NewFareTable(testFares())
	if ft.Offers(SoftSleeper) {
		t.Fatal("Offers(软卧) = true for a train without sleepers")
	}
	if _, err := ft.Price(SoftSleeper, 0, 4); !errors.Is(err, ErrUnknownSeatClass) {
		t.Errorf("Price(软卧) err = %v, want ErrUnknownSeatClass", err)
	}
}
