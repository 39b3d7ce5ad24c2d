package collab

import (
	"encoding/json"

	"interviewio/internal/model"
)

// MessageType defines the type of a collaboration socket message
type MessageType string

// Client -> server
const (
	MsgSyncUpdate   MessageType = "sync_update"
	MsgSyncSnapshot MessageType = "sync_snapshot"
	MsgAwareness    MessageType = "awareness"
)

// Server -> client
const (
	MsgSyncInit         MessageType = "sync_init"
	MsgAwarenessUpdate  MessageType = "awareness_update"
	MsgAwarenessRemoved MessageType = "awareness_removed"
	MsgParticipants     MessageType = "participants"
	MsgError            MessageType = "error"
)

// Message is the socket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// UpdatePayload carries one opaque document update (base64 on the wire)
type UpdatePayload struct {
	From   string `json:"from,omitempty"`
	Update []byte `json:"update"`
}

// AwarenessPayload is the presence a client reports about itself
type AwarenessPayload struct {
	Cursor    *model.Position  `json:"cursor,omitempty"`
	Selection *model.Selection `json:"selection,omitempty"`
}

// AwarenessRemovedPayload announces a participant leaving
type AwarenessRemovedPayload struct {
	ParticipantID string `json:"participantId"`
}

// SyncInitPayload brings a freshly bound client up to date
type SyncInitPayload struct {
	Self         model.Participant      `json:"self"`
	Updates      [][]byte               `json:"updates"`
	Awareness    []model.AwarenessState `json:"awareness"`
	Participants []model.Participant    `json:"participants"`
	Language     *model.LanguageInfo    `json:"language,omitempty"`
}

// ErrorPayload reports a rejected client message
type ErrorPayload struct {
	Error string `json:"error"`
}

func encode(msgType MessageType, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Payload: data})
}
