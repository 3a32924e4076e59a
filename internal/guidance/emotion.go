package guidance

import "strings"

// Emotion is a user-reported emotional state guidance can be requested for.
type Emotion string

const (
	EmotionStress   Emotion = "Stress & Anxiety"
	EmotionPatience Emotion = "Patience (Sabr)"
	EmotionFear     Emotion = "Fear or Confusion"
	EmotionSadness  Emotion = "Loss or Sadness"
	EmotionHope     Emotion = "Hope & Motivation"
)

type EmotionOption struct {
	ID    Emotion `json:"id"`
	Label string  `json:"label"`
	Icon  string  `json:"icon"`
}

// Emotions is the fixed picker set, in display order.
var Emotions = []EmotionOption{
	{ID: EmotionStress, Label: "तनाव और चिंता", Icon: "🌊"},
	{ID: EmotionPatience, Label: "धैर्य (सब्र)", Icon: "⏳"},
	{ID: EmotionFear, Label: "डर या भ्रम", Icon: "🕯️"},
	{ID: EmotionSadness, Label: "दुःख या उदासी", Icon: "🌧️"},
	{ID: EmotionHope, Label: "आशा और प्रेरणा", Icon: "✨"},
}

// ParseEmotion matches an emotion id case-insensitively.
func ParseEmotion(value string) (Emotion, bool) {
	value = strings.TrimSpace(value)
	for _, opt := range Emotions {
		if strings.EqualFold(string(opt.ID), value) {
			return opt.ID, true
		}
	}
	return "", false
}
