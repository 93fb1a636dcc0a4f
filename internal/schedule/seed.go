package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/iliyamo/railway-seat-reservation/internal/inventory"
)

// JSONSource reads schedules from a seed file, the same shape as the train
// JSON the original data importer consumed: stops in route order, fares in
// yuan per adjacent-station interval, one fare vector and seat count per
// seat class.  Used for development and tests where no schedule database is
// available.
type JSONSource struct {
	Path string
}

// seedFile is the on-disk shape of the seed.
type seedFile struct {
	Trains []seedTrain `json:"trains"`
}

type seedTrain struct {
	TrainNo   string              `json:"train_no"`
	Date      string              `json:"date"`
	Stops     []seedStop          `json:"stops"`
	SeatTypes map[string]seedType `json:"seat_types"`
}

type seedStop struct {
	Station   string `json:"station"`
	Arrival   string `json:"arrival,omitempty"`
	Departure string `json:"departure,omitempty"`
}

type seedType struct {
	Seats int       `json:"seats"`
	Fares []float64 `json:"fares"` // yuan per segment; may carry .5 fares
}

// Schedules parses the seed file into TrainSchedules, converting yuan to
// cents.
func (s *JSONSource) Schedules(_ context.Context) ([]TrainSchedule, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", s.Path, err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", s.Path, err)
	}

	out := make([]TrainSchedule, 0, len(seed.Trains))
	for _, tr := range seed.Trains {
		stops := make([]inventory.Stop, len(tr.Stops))
		for i, st := range tr.Stops {
			stops[i] = inventory.Stop{Station: st.Station, Seq: i, Arrival: st.Arrival, Departure: st.Departure}
		}
		classes := make(map[string]ClassConfig, len(tr.SeatTypes))
		for tag, cfg := range tr.SeatTypes {
			fares := make([]int64, len(cfg.Fares))
			for i, yuan := range cfg.Fares {
				fares[i] = int64(math.Round(yuan * 100))
			}
			classes[tag] = ClassConfig{Seats: cfg.Seats, Fares: fares}
		}
		out = append(out, TrainSchedule{TrainNo: tr.TrainNo, Date: tr.Date, Stops: stops, Classes: classes})
	}
	return out, nil
}
