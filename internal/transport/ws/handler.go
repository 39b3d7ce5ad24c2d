package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"interviewio/internal/collab"
	"interviewio/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// document updates and snapshots carry whole edit batches
	maxMessageSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// RoomGate tells whether a room still accepts connections
type RoomGate interface {
	EnsureOpen(ctx context.Context, code string) error
}

// Handler handles collaboration WebSocket connections
type Handler struct {
	hub     *collab.Hub
	authSvc *service.AuthService
	rooms   RoomGate
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *collab.Hub, authSvc *service.AuthService, rooms RoomGate) *Handler {
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		rooms:   rooms,
	}
}

// RoomWS handles GET /api/ws/rooms/{code}
func (h *Handler) RoomWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateParticipantToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if claims.RoomCode != code {
		http.Error(w, "token not valid for this room", http.StatusForbidden)
		return
	}

	// Tokens outlive the room; a closed room takes no new bindings
	if err := h.rooms.EnsureOpen(r.Context(), code); err != nil {
		switch {
		case errors.Is(err, service.ErrRoomClosed):
			http.Error(w, "room is closed", http.StatusGone)
		case errors.Is(err, service.ErrRoomNotFound):
			http.Error(w, "room not found", http.StatusNotFound)
		default:
			log.Printf("Room check failed for %s: %v", code, err)
			http.Error(w, "room unavailable", http.StatusInternalServerError)
		}
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	binding, err := h.hub.Bind(context.Background(), code, service.ParticipantFromClaims(claims))
	if err != nil {
		log.Printf("Failed to bind %s to room %s: %v", claims.ParticipantID, code, err)
		wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "room unavailable"))
		wsConn.Close()
		return
	}

	log.Printf("Participant %s connected to room %s via WebSocket", claims.ParticipantID, code)

	go h.writePump(wsConn, binding)
	go h.readPump(wsConn, binding)
}

func (h *Handler) readPump(wsConn *websocket.Conn, b *collab.Binding) {
	defer func() {
		b.Close()
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		if !b.Active() {
			break
		}
		h.dispatch(b, data)
	}
}

// dispatch applies one client message to the binding
func (h *Handler) dispatch(b *collab.Binding, data []byte) {
	var msg collab.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		b.SendError("invalid message")
		return
	}

	ctx := context.Background()
	var err error
	switch msg.Type {
	case collab.MsgSyncUpdate, collab.MsgSyncSnapshot:
		var p collab.UpdatePayload
		if jerr := json.Unmarshal(msg.Payload, &p); jerr != nil || len(p.Update) == 0 {
			b.SendError("invalid update payload")
			return
		}
		if msg.Type == collab.MsgSyncUpdate {
			err = b.PublishUpdate(ctx, p.Update)
		} else {
			err = b.PublishSnapshot(ctx, p.Update)
		}
	case collab.MsgAwareness:
		var p collab.AwarenessPayload
		if jerr := json.Unmarshal(msg.Payload, &p); jerr != nil {
			b.SendError("invalid awareness payload")
			return
		}
		err = b.PublishAwareness(ctx, &p)
	default:
		b.SendError("unknown message type: " + string(msg.Type))
		return
	}

	if err != nil && !errors.Is(err, collab.ErrBindingClosed) {
		log.Printf("Failed to handle %s from %s in room %s: %v", msg.Type, b.Participant.ID, b.RoomCode, err)
		b.SendError("failed to apply " + string(msg.Type))
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, b *collab.Binding) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	send := b.Send()
	for {
		select {
		case message, ok := <-send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
