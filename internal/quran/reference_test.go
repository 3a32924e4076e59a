package quran

import (
	"strings"
	"testing"
)

func TestParseReference(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
		ok   bool
	}{
		"guidance format":   {in: "Al-Baqarah 2:153", want: "2:153", ok: true},
		"daily format":      {in: "Al-Baqara (2:35)", want: "2:35", ok: true},
		"spaces":            {in: "Ash-Sharh 94 : 5", want: "94:5", ok: true},
		"bare locator":      {in: "114:6", want: "114:6", ok: true},
		"no locator":        {in: "Al-Fatiha", ok: false},
		"chapter too large": {in: "Unknown 115:1", ok: false},
		"verse zero":        {in: "Al-Ikhlas 112:0", ok: false},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			got, ok := ParseReference(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseReference(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFilterChapters(t *testing.T) {
	chapters := []Chapter{
		{Number: 1, EnglishName: "Al-Faatiha"},
		{Number: 2, EnglishName: "Al-Baqara"},
		{Number: 12, EnglishName: "Yusuf"},
		{Number: 112, EnglishName: "Al-Ikhlaas"},
	}

	if got := FilterChapters(chapters, ""); len(got) != 4 {
		t.Fatalf("expected empty query to keep all, got %d", len(got))
	}
	if got := FilterChapters(chapters, "yUs"); len(got) != 1 || got[0].Number != 12 {
		t.Fatalf("expected case-insensitive name match, got %+v", got)
	}
	got := FilterChapters(chapters, "12")
	if len(got) != 2 || got[0].Number != 12 || got[1].Number != 112 {
		t.Fatalf("expected number substring match, got %+v", got)
	}
}

func TestShareText(t *testing.T) {
	text := ShareText(Chapter{Number: 1, EnglishName: "Al-Faatiha"}, Verse{Text: "بِسْمِ اللَّهِ", NumberInSurah: 1}, "अल्लाह के नाम से")
	want := "بِسْمِ اللَّهِ\n\n\"अल्लाह के नाम से\"\n\n— कुरान Al-Faatiha (1:1)"
	if text != want {
		t.Fatalf("ShareText() = %q, want %q", text, want)
	}
	if !strings.Contains(text, "(1:1)") {
		t.Fatalf("expected locator in share text")
	}
}
