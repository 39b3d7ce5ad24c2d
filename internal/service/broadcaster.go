package service

// Broadcaster interface for room-wide pushes (avoids import cycle with collab)
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgType string, payload interface{})
	DisconnectRoom(roomCode string)
}

// Room event types pushed by services
const (
	EventLanguageChanged = "language_changed"
	EventRunStarted      = "run_started"
	EventRunFinished     = "run_finished"
	EventRoomClosed      = "room_closed"
)

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToRoom(string, string, interface{}) {}
func (noopBroadcaster) DisconnectRoom(string)                       {}
