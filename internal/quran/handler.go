package quran

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/response"
)

type QuranHandler struct {
	gateway Gateway
}

func NewQuranHandler(gateway Gateway) QuranHandler {
	return QuranHandler{gateway: gateway}
}

func (h *QuranHandler) ListChaptersHandler(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.gateway.ListChapters(r.Context())
	if err != nil {
		response.Failure(w, err, "सूरह सूची लोड नहीं हो सकी")
		return
	}

	chapters = FilterChapters(chapters, r.URL.Query().Get("q"))
	if chapters == nil {
		chapters = []Chapter{}
	}
	response.Success(w, chapters, "successfully")
}

func (h *QuranHandler) GetChapterHandler(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid chapter number", err.Error())
		return
	}

	detail, err := h.gateway.GetChapterDetail(r.Context(), number)
	if err != nil {
		response.Failure(w, err, "तिलावत लोड नहीं हो सकी")
		return
	}

	response.Success(w, detail, "successfully")
}

func (h *QuranHandler) ShareVerseHandler(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid chapter number", err.Error())
		return
	}
	verseNumber, err := strconv.Atoi(chi.URLParam(r, "verse"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid verse number", err.Error())
		return
	}

	detail, err := h.gateway.GetChapterDetail(r.Context(), number)
	if err != nil {
		response.Failure(w, err, "तिलावत लोड नहीं हो सकी")
		return
	}

	for i, verse := range detail.Verses {
		if verse.NumberInSurah != verseNumber {
			continue
		}
		response.Success(w, map[string]string{
			"text":      ShareText(detail.Chapter, verse, detail.Translations[i].Text),
			"reference": fmt.Sprintf("%d:%d", detail.Chapter.Number, verse.NumberInSurah),
		}, "successfully")
		return
	}

	response.Error(w, http.StatusNotFound, "Verse not found", fmt.Sprintf("chapter %d has no verse %d", number, verseNumber))
}

func (h *QuranHandler) GetVerseHandler(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")
	if ref == "" {
		response.Failure(w, errorsx.Wrap(fmt.Errorf("reference is required"), errorsx.ReasonInvalidInput), "Missing reference")
		return
	}

	verse, err := h.gateway.GetVerseByReference(r.Context(), ref)
	if err != nil {
		response.Failure(w, err, "आयत लोड नहीं हो सकी")
		return
	}

	response.Success(w, map[string]interface{}{
		"verse":     verse,
		"audio_url": h.gateway.AudioURL(verse.Number),
	}, "successfully")
}

func (h *QuranHandler) AudioURLHandler(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 || number > TotalVerses {
		response.Error(w, http.StatusBadRequest, "Invalid verse number", map[string]string{
			"number": fmt.Sprintf("must be between 1 and %d", TotalVerses),
		})
		return
	}

	response.Success(w, map[string]string{"audio_url": h.gateway.AudioURL(number)}, "successfully")
}
