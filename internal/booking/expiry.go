package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunExpiryWorker periodically sweeps unpaid orders whose payment window
// has closed and releases their seats.  It blocks until the context is
// cancelled.  This is the external timer the engine design prescribes for
// reservation expiry: the engine itself never holds anything on a clock,
// the worker just calls Cancel on its behalf.
func (s *Service) RunExpiryWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("booking: expiry worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("booking: expiry worker stopped")
			return
		case <-ticker.C:
			n, err := s.ExpireDue(ctx)
			if err != nil {
				log.Error().Err(err).Msg("booking: expiry sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int("orders", n).Msg("booking: released expired unpaid orders")
			}
		}
	}
}
