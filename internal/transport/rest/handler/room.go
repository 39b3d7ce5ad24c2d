package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"interviewio/internal/model"

	"github.com/gorilla/mux"
)

// RoomService is the room API the handlers need
type RoomService interface {
	CreateRoom(ctx context.Context, req *model.CreateRoomRequest) (*model.Room, error)
	GetRoom(ctx context.Context, code string) (*model.Room, error)
	JoinRoom(ctx context.Context, code, name string) (*model.JoinRoomResponse, error)
	SetLanguage(ctx context.Context, code, tag string) (*model.LanguageInfo, error)
	CloseRoom(ctx context.Context, code string) error
}

// Presence lists who is connected to a room
type Presence interface {
	Participants(code string) []model.Participant
}

// RoomHandler handles room endpoints
type RoomHandler struct {
	roomSvc  RoomService
	presence Presence
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomSvc RoomService, presence Presence) *RoomHandler {
	return &RoomHandler{
		roomSvc:  roomSvc,
		presence: presence,
	}
}

// RoomResponse is the public view of a room
type RoomResponse struct {
	Room         *model.Room         `json:"room"`
	Language     model.LanguageInfo  `json:"language"`
	Participants []model.Participant `json:"participants"`
}

// Languages handles GET /api/languages
func (h *RoomHandler) Languages(w http.ResponseWriter, r *http.Request) {
	langs := model.Languages()
	infos := make([]model.LanguageInfo, 0, len(langs))
	for _, l := range langs {
		infos = append(infos, l.Info())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default":   model.DefaultLanguage,
		"languages": infos,
	})
}

// Create handles POST /api/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoomRequest
	// an empty body creates a room with the default language
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.roomSvc.CreateRoom(r.Context(), &req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"roomCode": room.Code,
		"language": string(room.Language),
	})
}

// Get handles GET /api/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	room, err := h.roomSvc.GetRoom(r.Context(), code)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	participants := h.presence.Participants(code)
	if participants == nil {
		participants = []model.Participant{}
	}

	writeJSON(w, http.StatusOK, &RoomResponse{
		Room:         room,
		Language:     room.Language.Info(),
		Participants: participants,
	})
}

// Join handles POST /api/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req model.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.roomSvc.JoinRoom(r.Context(), code, req.Name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetLanguage handles PUT /api/rooms/{code}/language
func (h *RoomHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req model.SetLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	info, err := h.roomSvc.SetLanguage(r.Context(), code, req.Language)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// Close handles DELETE /api/rooms/{code}
func (h *RoomHandler) Close(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.roomSvc.CloseRoom(r.Context(), code); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
