package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"interviewio/internal/model"
	"interviewio/internal/service"
)

// SpeechHandler proxies text-to-speech requests
type SpeechHandler struct {
	speechSvc *service.SpeechService
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(speechSvc *service.SpeechService) *SpeechHandler {
	return &SpeechHandler{speechSvc: speechSvc}
}

// Synthesize handles POST /api/ai
func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req model.SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.speechSvc.Synthesize(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, service.ErrMissingText) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
