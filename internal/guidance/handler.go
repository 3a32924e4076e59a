package guidance

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/response"
)

type GuidanceHandler struct {
	service GuidanceService
}

func NewGuidanceHandler(service GuidanceService) GuidanceHandler {
	return GuidanceHandler{service: service}
}

func (h *GuidanceHandler) EmotionsHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, Emotions, "successfully")
}

func (h *GuidanceHandler) GetGuidanceHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Emotion string `json:"emotion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	g, err := h.service.Guidance(r.Context(), req.Emotion)
	if err != nil {
		response.Failure(w, err, messageFor(err))
		return
	}

	response.Success(w, g, "successfully")
}

func (h *GuidanceHandler) ReflectionHandler(w http.ResponseWriter, r *http.Request) {
	var req ReflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Arabic == "" && req.Translation == "" {
		response.Error(w, http.StatusBadRequest, "Validation failed", map[string]string{
			"arabic": "arabic or translation is required",
		})
		return
	}

	response.Success(w, map[string]string{
		"reflection": h.service.Reflection(r.Context(), req),
	}, "successfully")
}

func messageFor(err error) string {
	if errors.Is(err, ErrConfig) {
		return errorsx.Message(err, MessageConfig)
	}
	return errorsx.Message(err, MessageService)
}
