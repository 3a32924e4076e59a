package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/daily"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/guidance"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/playback"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/prayer"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/quran"
	"github.com/taiwoajasa245/quran-sukoon-api/internal/speech"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/response"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.ServerIsWorking)
	r.Get("/health", s.HealthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		s.loadQuranRoutes(r)
		s.loadGuidanceRoutes(r)
		s.loadSpeechRoutes(r)
		s.loadPlaybackRoutes(r)
		s.loadDailyRoutes(r)
		s.loadPrayerRoutes(r)
	})
	r.Get("/api/v1", s.ServerIsWorking)

	return r
}

func (s *Server) ServerIsWorking(w http.ResponseWriter, r *http.Request) {
	resp := make(map[string]string)
	resp["message"] = "Welcome to Quran Sukoon api"
	response.Success(w, resp, "Success")
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":       "up",
		"cache_driver": s.cfg.DailyCacheDriver,
		"subscribers":  s.events.Subscribers(),
	}
	if s.db != nil {
		stats := s.db.Health()
		health["database"] = stats
		if stats["status"] != "up" {
			response.JSON(w, http.StatusServiceUnavailable, response.APIResponse{
				Status:  http.StatusServiceUnavailable,
				Success: false,
				Message: "Database unavailable",
				Data:    health,
			})
			return
		}
	}
	response.Success(w, health, "Success")
}

func (s *Server) loadQuranRoutes(router chi.Router) {
	quranHandler := quran.NewQuranHandler(s.quran)

	router.Get("/chapters", quranHandler.ListChaptersHandler)
	router.Get("/chapters/{number}", quranHandler.GetChapterHandler)
	router.Get("/chapters/{number}/verses/{verse}/share", quranHandler.ShareVerseHandler)
	router.Get("/verses/{reference}", quranHandler.GetVerseHandler)
	router.Get("/verses/{number}/audio", quranHandler.AudioURLHandler)
}

func (s *Server) loadGuidanceRoutes(router chi.Router) {
	guidanceHandler := guidance.NewGuidanceHandler(s.guidance)

	router.Get("/guidance/emotions", guidanceHandler.EmotionsHandler)
	router.Post("/guidance", guidanceHandler.GetGuidanceHandler)
	router.Post("/guidance/reflection", guidanceHandler.ReflectionHandler)
}

func (s *Server) loadSpeechRoutes(router chi.Router) {
	speechHandler := speech.NewSpeechHandler(s.speaker, s.cfg.SpeechLanguage)

	router.Get("/speech/voices", speechHandler.VoicesHandler)
}

func (s *Server) loadPlaybackRoutes(router chi.Router) {
	playbackHandler := playback.NewPlaybackHandler(s.playback)

	router.Post("/playback/sessions", playbackHandler.OpenSessionHandler)
	router.Delete("/playback/sessions/{id}", playbackHandler.CloseSessionHandler)
	router.Post("/playback/recitation", playbackHandler.RecitationHandler)
	router.Post("/playback/speech", playbackHandler.SpeechHandler)
	router.Post("/playback/stop", playbackHandler.StopHandler)
	router.Get("/playback/state", playbackHandler.StateHandler)
	router.Get("/playback/events", s.events.ServeHTTP)
}

func (s *Server) loadDailyRoutes(router chi.Router) {
	dailyHandler := daily.NewDailyHandler(s.daily, s.quran)

	router.Get("/daily-verse", dailyHandler.GetDailyVerseHandler)
}

func (s *Server) loadPrayerRoutes(router chi.Router) {
	prayerHandler := prayer.NewPrayerHandler(prayer.DefaultGuide)

	router.Get("/prayer-guide", prayerHandler.GetGuideHandler)
}
