package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"interviewio/internal/model"
	"interviewio/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// RunService is the execution API the handlers need
type RunService interface {
	Run(ctx context.Context, roomCode, participantID string, req *model.RunRequest) (*model.CodeOutput, error)
	LastOutput(ctx context.Context, roomCode string) (*model.CodeOutput, error)
	State(ctx context.Context, roomCode string) (model.RunState, error)
	History(ctx context.Context, roomCode string, limit int64) ([]*model.RunRecord, error)
}

// RunHandler handles the execution trigger
type RunHandler struct {
	runSvc RunService
}

// NewRunHandler creates a new run handler
func NewRunHandler(runSvc RunService) *RunHandler {
	return &RunHandler{runSvc: runSvc}
}

// OutputResponse is the room's run state plus its latest output
type OutputResponse struct {
	State  model.RunState    `json:"state"`
	Status string            `json:"status,omitempty"`
	Output *model.CodeOutput `json:"output"`
}

// Run handles POST /api/rooms/{code}/run
func (h *RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	participantID := middleware.GetParticipantID(r.Context())

	var req model.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output, err := h.runSvc.Run(r.Context(), code, participantID, &req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// Output handles GET /api/rooms/{code}/output
func (h *RunHandler) Output(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	state, err := h.runSvc.State(r.Context(), code)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	output, err := h.runSvc.LastOutput(r.Context(), code)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := &OutputResponse{State: state, Output: output}
	if output != nil {
		resp.Status = output.Status()
	}
	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/rooms/{code}/runs?limit=
func (h *RunHandler) History(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.runSvc.History(r.Context(), code, limit)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if runs == nil {
		runs = []*model.RunRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}
