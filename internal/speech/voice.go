package speech

import (
	"context"
	"strings"
)

type Voice struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Lang    string `json:"lang"`
	Default bool   `json:"default"`
}

// Utterance is one speak call. Rate and Pitch are multipliers where 1.0 is
// the engine's normal value.
type Utterance struct {
	Text  string
	Voice string
	Lang  string
	Rate  float64
	Pitch float64
}

// Engine is a platform speech synthesizer. Speak blocks until the utterance
// ends naturally, fails, or ctx is cancelled.
type Engine interface {
	Voices(ctx context.Context) ([]Voice, error)
	Speak(ctx context.Context, u Utterance) error
}

// SelectVoice picks the voice for a BCP-47 style tag. Exact language matches
// win over a shared primary subtag (hi matches hi-IN and the reverse). With
// no match it falls back to the engine default and then the first voice.
func SelectVoice(voices []Voice, tag string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}

	want := normalizeTag(tag)
	if want != "" {
		for _, v := range voices {
			if normalizeTag(v.Lang) == want {
				return v, true
			}
		}

		primary := primarySubtag(want)
		for _, v := range voices {
			if lang := normalizeTag(v.Lang); lang != "" && primarySubtag(lang) == primary {
				return v, true
			}
		}
	}

	for _, v := range voices {
		if v.Default {
			return v, true
		}
	}
	return voices[0], true
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
}

func primarySubtag(tag string) string {
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		return tag[:i]
	}
	return tag
}
