package booking

import (
	"time"

	"go.uber.org/zap"
)

// staleHoldAge is how long a PENDING booking may sit before it counts as an
// abandoned checkout and its interval is released.
const staleHoldAge = 30 * time.Minute

// reap opportunistically reclaims finished bookings and stale holds. It runs
// on every list and create request rather than as a background job; failures
// only get logged since the caller's operation must not depend on cleanup.
func (s *DefaultBookingService) reap() {
	now := time.Now()

	if deleted, err := s.Repo.DeleteExpired(now); err != nil {
		s.Logger.Warn("failed to reap expired bookings", zap.Error(err))
	} else if deleted > 0 {
		s.Logger.Debug("reaped expired bookings", zap.Int64("count", deleted))
	}

	if deleted, err := s.Repo.DeleteStalePending(now.Add(-staleHoldAge)); err != nil {
		s.Logger.Warn("failed to reap stale holds", zap.Error(err))
	} else if deleted > 0 {
		s.Logger.Debug("reaped stale holds", zap.Int64("count", deleted))
	}
}
