package daily

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/quran"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

type VerseSource interface {
	GetRandomVerse(ctx context.Context) (*quran.RandomVerse, error)
}

type DailyService struct {
	store  Store
	source VerseSource
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger

	// flight keeps concurrent misses from drawing two different verses.
	flight singleflight.Group
}

func NewDailyService(store Store, source VerseSource, loc *time.Location, logger *slog.Logger) *DailyService {
	if loc == nil {
		loc = time.Local
	}
	return &DailyService{
		store:  store,
		source: source,
		loc:    loc,
		now:    time.Now,
		logger: logging.NewComponentLogger(logger, "daily"),
	}
}

// WithClock replaces the clock; used by tests.
func (s *DailyService) WithClock(now func() time.Time) *DailyService {
	s.now = now
	return s
}

// DayKey is the calendar day of t in the service zone.
func (s *DailyService) DayKey(t time.Time) string {
	return t.In(s.loc).Format(dayLayout)
}

// Today returns the cached verse when it was stored today. Otherwise it draws
// a new random verse and stores it. A failed save is logged and the fresh
// verse is still returned.
//
// Callers for the same day share one lookup. A caller whose ctx ends stops
// waiting; the shared lookup carries on for the others.
func (s *DailyService) Today(ctx context.Context) (*Entry, error) {
	today := s.DayKey(s.now())

	ch := s.flight.DoChan(today, func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), today)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		entry := *res.Val.(*Entry)
		return &entry, nil
	case <-ctx.Done():
		s.logger.Debug("daily verse wait abandoned", slog.String("day", today), slog.Any("error", ctx.Err()))
		return nil, ctx.Err()
	}
}

func (s *DailyService) refresh(ctx context.Context, today string) (*Entry, error) {
	cached, err := s.store.Load(ctx)
	switch {
	case err == nil && cached.Day == today:
		return cached, nil
	case err != nil && !errors.Is(err, ErrCacheMiss):
		s.logger.Warn("daily cache unreadable, fetching a new verse", slog.Any("error", err))
	}

	verse, err := s.source.GetRandomVerse(ctx)
	if err != nil {
		return nil, err
	}

	entry := Entry{
		Day:         today,
		Arabic:      verse.Arabic,
		Translation: verse.Translation,
		Reference:   verse.Reference,
		Number:      verse.Number,
	}
	if err := s.store.Save(ctx, entry); err != nil {
		s.logger.Warn("daily cache save failed", slog.String("day", today), slog.Any("error", err))
	} else {
		s.logger.Info("daily verse prepared", slog.String("day", today), slog.String("reference", entry.Reference))
	}
	return &entry, nil
}
