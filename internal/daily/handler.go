package daily

import (
	"net/http"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/response"
)

type AudioURLs interface {
	AudioURL(verseNumber int) string
}

type DailyHandler struct {
	service *DailyService
	urls    AudioURLs
}

func NewDailyHandler(service *DailyService, urls AudioURLs) DailyHandler {
	return DailyHandler{service: service, urls: urls}
}

func (h *DailyHandler) GetDailyVerseHandler(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Today(r.Context())
	if err != nil {
		response.Failure(w, err, "आज की आयत लोड नहीं हो सकी")
		return
	}

	response.Success(w, map[string]interface{}{
		"verse":     entry,
		"audio_url": h.urls.AudioURL(entry.Number),
	}, "successfully")
}
