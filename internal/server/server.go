package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/audio"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/daily"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/database"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/guidance"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/playback"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/quran"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/speech"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/config"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

type Server struct {
	port    string
	cfg     *config.Config
	logger  *slog.Logger
	db      database.Service
	handler http.Handler

	quran    *quran.Client
	guidance guidance.GuidanceService
	speaker  *speech.Speaker
	playback *playback.Orchestrator
	daily    *daily.DailyService
	events   *EventHub

	cancel context.CancelFunc
	jobs   sync.WaitGroup
}

// NewServer constructs the app server with all dependencies injected. A
// database connection is only opened for the postgres daily cache driver.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	s := &Server{
		port:   cfg.Port,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "server"),
	}

	s.quran = quran.NewClient(quran.Config{
		BaseURL:          cfg.QuranBaseURL,
		Edition:          cfg.TranslationEdition,
		AudioURLTemplate: cfg.AudioURLTemplate,
		Timeout:          cfg.HTTPTimeout,
	}, logger)

	gemini := guidance.NewClient(guidance.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.HTTPTimeout,
	}, logger)
	if cfg.GeminiAPIKey == "" {
		s.logger.Warn("GEMINI_API_KEY is not set, guidance requests will fail")
	}
	s.guidance = guidance.NewGuidanceService(gemini, s.quran, logger)

	s.speaker = speech.NewSpeaker(speech.NewExecEngine(cfg.SpeechBinary, logger), cfg.SpeechRate, cfg.SpeechPitch, logger)
	player := audio.NewPlayer(nil, audio.NewCommandSink(cfg.AudioPlayer), cfg.HTTPTimeout, logger)

	s.playback = playback.NewOrchestrator(playback.Config{
		Audio:    player,
		Speech:   s.speaker,
		URLs:     s.quran,
		Language: cfg.SpeechLanguage,
	}, logger)
	s.events = NewEventHub(s.playback, logger)
	s.playback.AddListener(s.events)

	store, err := s.dailyStore(logger)
	if err != nil {
		return nil, err
	}
	s.daily = daily.NewDailyService(store, s.quran, loc, logger)

	s.handler = s.RegisterRoutes()
	return s, nil
}

func (s *Server) dailyStore(logger *slog.Logger) (daily.Store, error) {
	switch s.cfg.DailyCacheDriver {
	case "postgres":
		db, err := database.New(s.cfg, logger)
		if err != nil {
			return nil, err
		}
		stats := db.Health()
		if stats["status"] != "up" {
			_ = db.Close()
			return nil, fmt.Errorf("database connection failed: %s", stats["error"])
		}
		s.logger.Info("database connection successful", slog.String("database", s.cfg.DBName))

		store := daily.NewPostgresStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		s.db = db
		return store, nil
	case "file", "":
		return daily.NewFileStore(s.cfg.DailyCacheFile), nil
	default:
		return nil, fmt.Errorf("unknown DAILY_CACHE_DRIVER %q", s.cfg.DailyCacheDriver)
	}
}

// HTTPServer returns the actual *http.Server instance. WriteTimeout is left
// unset so websocket subscribers are not cut off.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// StartBackgroundJobs runs the playback loop and the daily verse scheduler.
func (s *Server) StartBackgroundJobs() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.jobs.Add(2)
	go func() {
		defer s.jobs.Done()
		if err := s.playback.Run(ctx); err != nil {
			s.logger.Error("playback loop exited", slog.Any("error", err))
		}
	}()
	go func() {
		defer s.jobs.Done()
		s.daily.StartScheduler(ctx, time.Hour)
	}()
	s.logger.Info("background jobs started")
}

func (s *Server) StopBackgroundJobs() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.jobs.Wait()
	s.events.Close()
	s.logger.Info("background jobs stopped gracefully")
}

func (s *Server) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
