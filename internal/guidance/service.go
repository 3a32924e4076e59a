package guidance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/quran"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

// VerseResolver looks a verse up by "chapter:verse" so guidance can be recited.
type VerseResolver interface {
	GetVerseByReference(ctx context.Context, ref string) (*quran.Verse, error)
	AudioURL(verseNumber int) string
}

// Guidance is a Result plus the resolved verse locator, when one was found.
type Guidance struct {
	Result
	Emotion     Emotion `json:"emotion"`
	Locator     string  `json:"locator,omitempty"`
	VerseNumber int     `json:"verse_number,omitempty"`
	AudioURL    string  `json:"audio_url,omitempty"`
}

type ReflectionRequest struct {
	Arabic      string `json:"arabic"`
	Translation string `json:"translation"`
	ChapterName string `json:"chapter_name"`
	VerseNumber int    `json:"verse_number"`
}

type GuidanceService interface {
	Guidance(ctx context.Context, emotion string) (*Guidance, error)
	Reflection(ctx context.Context, req ReflectionRequest) string
}

type guidanceService struct {
	generator Generator
	verses    VerseResolver
	logger    *slog.Logger
}

func NewGuidanceService(generator Generator, verses VerseResolver, logger *slog.Logger) GuidanceService {
	return &guidanceService{
		generator: generator,
		verses:    verses,
		logger:    logging.NewComponentLogger(logger, "guidance-service"),
	}
}

func (s *guidanceService) Guidance(ctx context.Context, value string) (*Guidance, error) {
	emotion, ok := ParseEmotion(value)
	if !ok {
		return nil, errorsx.WrapMessage(fmt.Errorf("unknown emotion %q", value), errorsx.ReasonInvalidInput, "Unknown emotion")
	}

	result, err := s.generator.GetGuidanceForEmotion(ctx, emotion)
	if err != nil {
		return nil, err
	}

	g := &Guidance{Result: *result, Emotion: emotion}
	s.resolve(ctx, g)
	return g, nil
}

// resolve attaches the verse number and audio url. A failed lookup leaves
// them empty; the guidance itself is still returned.
func (s *guidanceService) resolve(ctx context.Context, g *Guidance) {
	locator, ok := quran.ParseReference(g.Reference)
	if !ok {
		s.logger.Info("guidance reference has no locator", slog.String("reference", g.Reference))
		return
	}
	g.Locator = locator

	if s.verses == nil {
		return
	}
	verse, err := s.verses.GetVerseByReference(ctx, locator)
	if err != nil {
		s.logger.Warn("guidance verse lookup failed", slog.String("locator", locator), slog.Any("error", err))
		return
	}
	g.VerseNumber = verse.Number
	g.AudioURL = s.verses.AudioURL(verse.Number)
}

func (s *guidanceService) Reflection(ctx context.Context, req ReflectionRequest) string {
	return s.generator.GetReflectionForVerse(ctx, req.Arabic, req.Translation, req.ChapterName, req.VerseNumber)
}
