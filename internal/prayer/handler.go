package prayer

import (
	"net/http"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/response"
)

type PrayerHandler struct {
	guide Guide
}

func NewPrayerHandler(guide Guide) PrayerHandler {
	return PrayerHandler{guide: guide}
}

func (h *PrayerHandler) GetGuideHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.guide, "successfully")
}
