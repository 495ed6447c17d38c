package impl

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// PollDaemon starts a new loop scanning for pending requests addressed to
// the local party
func (e *exchange) PollDaemon(ctx context.Context, interval time.Duration) error {
	if interval == 0 {
		// the poll daemon must not be activated
		return nil
	}
	pollTicker := time.NewTicker(interval)

	go func() {
	out:
		for {
			select {
			case <-ctx.Done():
				pollTicker.Stop()
				break out
			case <-pollTicker.C:
				processed, err := e.PollAndProcessPending()
				if err != nil {
					log.Error().Msgf("poll pending requests: %s", err)
					continue
				}
				if processed > 0 {
					log.Info().Msgf("processed %d pending requests", processed)
				}
			}
		}
	}()

	return nil
}
