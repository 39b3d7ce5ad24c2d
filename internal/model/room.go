package model

import "time"

// Room is a named collaboration channel
type Room struct {
	Code      string     `json:"code" bson:"code"`
	Title     string     `json:"title,omitempty" bson:"title,omitempty"`
	Language  Language   `json:"language" bson:"language"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}

// IsClosed reports whether the room has been closed
func (r *Room) IsClosed() bool {
	return r.ClosedAt != nil
}

// RoomMeta is the Redis-cached hot state of a room
type RoomMeta struct {
	Language  Language  `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// Participant is a member of a room session
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateRoomRequest is the request body for POST /api/rooms
type CreateRoomRequest struct {
	Title    string   `json:"title,omitempty"`
	Language Language `json:"language,omitempty"`
}

// JoinRoomRequest is the request body for POST /api/rooms/{code}/join
type JoinRoomRequest struct {
	Name string `json:"name"`
}

// JoinRoomResponse is returned after joining a room
type JoinRoomResponse struct {
	Token       string       `json:"token"`
	Participant Participant  `json:"participant"`
	Room        *Room        `json:"room"`
	Language    LanguageInfo `json:"language"`
}

// SetLanguageRequest is the request body for PUT /api/rooms/{code}/language
type SetLanguageRequest struct {
	Language string `json:"language"`
}
