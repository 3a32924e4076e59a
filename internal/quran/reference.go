package quran

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var referencePattern = regexp.MustCompile(`(\d{1,3})\s*:\s*(\d{1,3})`)

// ParseReference extracts the "chapter:verse" locator from a human readable
// reference such as "Al-Baqarah 2:153" or "Al-Baqarah (2:153)".
func ParseReference(ref string) (string, bool) {
	m := referencePattern.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	chapter, _ := strconv.Atoi(m[1])
	verse, _ := strconv.Atoi(m[2])
	if chapter < 1 || chapter > TotalChapters || verse < 1 {
		return "", false
	}
	return fmt.Sprintf("%d:%d", chapter, verse), true
}

// FilterChapters keeps chapters whose English name contains query
// (case-insensitive) or whose number contains it. An empty query keeps all.
func FilterChapters(chapters []Chapter, query string) []Chapter {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return chapters
	}
	out := make([]Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if strings.Contains(strings.ToLower(ch.EnglishName), query) ||
			strings.Contains(strconv.Itoa(ch.Number), query) {
			out = append(out, ch)
		}
	}
	return out
}

// ShareText formats a verse and its translation for sharing.
func ShareText(ch Chapter, verse Verse, translation string) string {
	return fmt.Sprintf("%s\n\n\"%s\"\n\n— कुरान %s (%d:%d)",
		verse.Text, translation, ch.EnglishName, ch.Number, verse.NumberInSurah)
}
