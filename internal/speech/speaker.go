package speech

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

// Speaker speaks one utterance at a time. A new Speak pre-empts the current
// one; nothing is queued.
type Speaker struct {
	engine Engine
	rate   float64
	pitch  float64
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	voicesMu sync.Mutex
	voices   []Voice
}

func NewSpeaker(engine Engine, rate, pitch float64, logger *slog.Logger) *Speaker {
	if rate <= 0 {
		rate = 1
	}
	if pitch <= 0 {
		pitch = 1
	}
	return &Speaker{
		engine: engine,
		rate:   rate,
		pitch:  pitch,
		logger: logging.NewComponentLogger(logger, "speech"),
	}
}

// Speak cancels any in-flight utterance and starts text without blocking.
// onDone runs with nil on natural completion and with the error when the
// engine fails. It never runs for a cancelled or pre-empted utterance.
func (s *Speaker) Speak(text, tag string, onDone func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		u := Utterance{Text: text, Lang: tag, Rate: s.rate, Pitch: s.pitch}
		if voice, ok := s.voiceFor(ctx, tag); ok {
			u.Voice = voice.ID
		}

		err := s.engine.Speak(ctx, u)
		cancelled := ctx.Err() != nil
		cancel()
		close(done)

		if cancelled {
			return
		}
		if err != nil {
			s.logger.Warn("speech failed", slog.String("lang", tag), slog.Any("error", err))
		}
		if onDone != nil {
			onDone(err)
		}
	}()
}

// Cancel stops the current utterance, if any, and waits for it to exit.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Speaker) cancelLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// Voices returns the engine's voices, loading them once.
func (s *Speaker) Voices(ctx context.Context) ([]Voice, error) {
	s.voicesMu.Lock()
	defer s.voicesMu.Unlock()
	if s.voices != nil {
		return s.voices, nil
	}
	voices, err := s.engine.Voices(ctx)
	if err != nil {
		return nil, err
	}
	s.voices = voices
	return voices, nil
}

func (s *Speaker) voiceFor(ctx context.Context, tag string) (Voice, bool) {
	voices, err := s.Voices(ctx)
	if err != nil {
		s.logger.Warn("voice list unavailable, using engine default", slog.Any("error", err))
		return Voice{}, false
	}
	return SelectVoice(voices, tag)
}
