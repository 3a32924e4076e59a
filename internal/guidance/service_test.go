package guidance

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/quran"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

type fakeGenerator struct {
	result     *Result
	err        error
	reflection string
	emotions   []Emotion
}

func (f *fakeGenerator) GetGuidanceForEmotion(ctx context.Context, emotion Emotion) (*Result, error) {
	f.emotions = append(f.emotions, emotion)
	return f.result, f.err
}

func (f *fakeGenerator) GetReflectionForVerse(ctx context.Context, arabic, translation, chapterName string, verseNumber int) string {
	return f.reflection
}

type fakeResolver struct {
	verses map[string]int
	refs   []string
}

func (f *fakeResolver) GetVerseByReference(ctx context.Context, ref string) (*quran.Verse, error) {
	f.refs = append(f.refs, ref)
	n, ok := f.verses[ref]
	if !ok {
		return nil, errorsx.Wrap(fmt.Errorf("%w: not found", quran.ErrNetwork), errorsx.ReasonNetwork)
	}
	return &quran.Verse{Number: n}, nil
}

func (f *fakeResolver) AudioURL(n int) string {
	return fmt.Sprintf("https://audio.test/%d.mp3", n)
}

func TestGuidanceResolvesVerse(t *testing.T) {
	gen := &fakeGenerator{result: &Result{AyahArabic: "A", AyahHindi: "B", Reflection: "C", Reference: "Al-Baqarah 2:153"}}
	resolver := &fakeResolver{verses: map[string]int{"2:153": 160}}
	svc := NewGuidanceService(gen, resolver, logging.Discard())

	g, err := svc.Guidance(context.Background(), "patience (sabr)")
	if err != nil {
		t.Fatalf("Guidance() error = %v", err)
	}
	if len(gen.emotions) != 1 || gen.emotions[0] != EmotionPatience {
		t.Fatalf("expected canonical emotion id, got %v", gen.emotions)
	}
	if g.Locator != "2:153" || g.VerseNumber != 160 || g.AudioURL != "https://audio.test/160.mp3" {
		t.Fatalf("unexpected resolution %+v", g)
	}
	if g.AyahArabic != "A" || g.AyahHindi != "B" || g.Reflection != "C" {
		t.Fatalf("result fields not carried through: %+v", g.Result)
	}
}

func TestGuidanceLookupFailureIsNotFatal(t *testing.T) {
	gen := &fakeGenerator{result: &Result{AyahArabic: "A", AyahHindi: "B", Reflection: "C", Reference: "Al-Baqarah 2:153"}}
	svc := NewGuidanceService(gen, &fakeResolver{}, logging.Discard())

	g, err := svc.Guidance(context.Background(), string(EmotionPatience))
	if err != nil {
		t.Fatalf("Guidance() error = %v", err)
	}
	if g.Locator != "2:153" || g.VerseNumber != 0 || g.AudioURL != "" {
		t.Fatalf("expected unresolved verse, got %+v", g)
	}
}

func TestGuidanceUnparseableReferenceSkipsLookup(t *testing.T) {
	gen := &fakeGenerator{result: &Result{AyahArabic: "A", AyahHindi: "B", Reflection: "C", Reference: "Surah Al-Inshirah"}}
	resolver := &fakeResolver{}
	svc := NewGuidanceService(gen, resolver, logging.Discard())

	if _, err := svc.Guidance(context.Background(), string(EmotionHope)); err != nil {
		t.Fatalf("Guidance() error = %v", err)
	}
	if len(resolver.refs) != 0 {
		t.Fatalf("expected no lookup, got %v", resolver.refs)
	}
}

func TestGuidanceRejectsUnknownEmotion(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewGuidanceService(gen, nil, logging.Discard())

	_, err := svc.Guidance(context.Background(), "Boredom")
	if !errorsx.HasReason(err, errorsx.ReasonInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
	if len(gen.emotions) != 0 {
		t.Fatalf("generator should not be called for unknown emotion")
	}
}

func TestGuidancePropagatesGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errorsx.Wrap(ErrConfig, errorsx.ReasonConfig)}
	svc := NewGuidanceService(gen, nil, logging.Discard())

	_, err := svc.Guidance(context.Background(), string(EmotionStress))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestParseEmotion(t *testing.T) {
	for _, opt := range Emotions {
		got, ok := ParseEmotion(" " + string(opt.ID) + " ")
		if !ok || got != opt.ID {
			t.Fatalf("ParseEmotion(%q) = %q, %v", opt.ID, got, ok)
		}
	}
	if _, ok := ParseEmotion(""); ok {
		t.Fatalf("empty emotion should not parse")
	}
}
