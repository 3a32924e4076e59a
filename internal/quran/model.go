package quran

import (
	"bytes"
	"encoding/json"
)

// TotalVerses is the fixed verse count of the canonical text; global verse
// numbers run from 1 to TotalVerses.
const TotalVerses = 6236

// TotalChapters is the number of chapters (surahs).
const TotalChapters = 114

type Chapter struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

// Verse is one ayah in a single projection (source text or a translation).
// Number is the global index, NumberInSurah the position inside its chapter.
type Verse struct {
	Number        int      `json:"number"`
	Text          string   `json:"text"`
	NumberInSurah int      `json:"numberInSurah"`
	Juz           int      `json:"juz"`
	Manzil        int      `json:"manzil"`
	Page          int      `json:"page"`
	Ruku          int      `json:"ruku"`
	HizbQuarter   int      `json:"hizbQuarter"`
	Sajda         Sajda    `json:"sajda"`
	Chapter       *Chapter `json:"surah,omitempty"`
}

// Sajda is false, or true when the upstream sends a prostration descriptor object.
type Sajda bool

func (s *Sajda) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*s = false
	case bytes.Equal(data, []byte("true")):
		*s = true
	default:
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*s = true
	}
	return nil
}

// ChapterDetail holds the source verses and their translation, aligned by position.
type ChapterDetail struct {
	Chapter      Chapter `json:"chapter"`
	Verses       []Verse `json:"verses"`
	Translations []Verse `json:"translations"`
}

// RandomVerse is the combined source + translation record used for the daily verse.
type RandomVerse struct {
	Arabic      string `json:"arabic"`
	Translation string `json:"translation"`
	Reference   string `json:"reference"`
	Number      int    `json:"number"`
}

// envelope is the {code, status, data} wrapper of every content API response.
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type chapterPayload struct {
	Chapter
	Ayahs []Verse `json:"ayahs"`
}
