package daily

import (
	"context"
	"log/slog"
	"time"
)

// StartScheduler prepares the verse of the day on start and then on every
// tick, so the first read after midnight is already a cache hit. It returns
// when ctx is cancelled.
func (s *DailyService) StartScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("daily verse scheduler started", slog.Duration("interval", interval))
	s.prepare(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("daily verse scheduler stopped")
			return
		case <-ticker.C:
			s.prepare(ctx)
		}
	}
}

func (s *DailyService) prepare(ctx context.Context) {
	if _, err := s.Today(ctx); err != nil && ctx.Err() == nil {
		s.logger.Warn("daily verse refresh failed", slog.Any("error", err))
	}
}
