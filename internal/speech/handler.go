package speech

import (
	"net/http"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/response"
)

type SpeechHandler struct {
	speaker *Speaker
	lang    string
}

func NewSpeechHandler(speaker *Speaker, lang string) SpeechHandler {
	return SpeechHandler{speaker: speaker, lang: lang}
}

func (h *SpeechHandler) VoicesHandler(w http.ResponseWriter, r *http.Request) {
	voices, err := h.speaker.Voices(r.Context())
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "Speech engine unavailable", err.Error())
		return
	}

	data := map[string]interface{}{
		"language": h.lang,
		"voices":   voices,
	}
	if selected, ok := SelectVoice(voices, h.lang); ok {
		data["selected"] = selected
	}
	response.Success(w, data, "successfully")
}
