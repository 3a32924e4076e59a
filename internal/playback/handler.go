package playback

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/response"
)

type PlaybackHandler struct {
	orch *Orchestrator
}

func NewPlaybackHandler(orch *Orchestrator) PlaybackHandler {
	return PlaybackHandler{orch: orch}
}

func (h *PlaybackHandler) OpenSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	mode, ok := ParseMode(req.Mode)
	if !ok {
		response.Error(w, http.StatusBadRequest, "Validation failed", map[string]string{
			"mode": "must be reader, guidance or standalone",
		})
		return
	}

	id, err := h.orch.OpenSession(r.Context(), mode)
	if err != nil {
		response.Failure(w, err, "Could not open session")
		return
	}

	response.JSON(w, http.StatusCreated, response.APIResponse{
		Status:  http.StatusCreated,
		Success: true,
		Message: "Session opened",
		Data:    map[string]string{"session_id": id, "mode": string(mode)},
	})
}

func (h *PlaybackHandler) CloseSessionHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.CloseSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Failure(w, err, "Could not close session")
		return
	}
	response.Success(w, state, "Session closed")
}

func (h *PlaybackHandler) RecitationHandler(w http.ResponseWriter, r *http.Request) {
	var req RecitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	state, err := h.orch.RequestRecitation(r.Context(), req)
	if err != nil {
		response.Failure(w, err, "Could not start recitation")
		return
	}
	response.Success(w, state, "successfully")
}

func (h *PlaybackHandler) SpeechHandler(w http.ResponseWriter, r *http.Request) {
	var req SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	state, err := h.orch.RequestSpeech(r.Context(), req)
	if err != nil {
		response.Failure(w, err, "Could not start speech")
		return
	}
	response.Success(w, state, "successfully")
}

func (h *PlaybackHandler) StopHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.Stop(r.Context())
	if err != nil {
		response.Failure(w, err, "Could not stop playback")
		return
	}
	response.Success(w, state, "successfully")
}

func (h *PlaybackHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.State(r.Context())
	if err != nil {
		response.Failure(w, err, "Playback unavailable")
		return
	}
	response.Success(w, state, "successfully")
}
