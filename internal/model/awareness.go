package model

import "time"

// Position is a zero-based line/column location in the buffer
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Selection is an anchor/head range; equal ends mean a caret
type Selection struct {
	Anchor Position `json:"anchor"`
	Head   Position `json:"head"`
}

// AwarenessState is the ephemeral per-participant presence state
type AwarenessState struct {
	ParticipantID string     `json:"participantId"`
	Name          string     `json:"name"`
	Color         string     `json:"color"`
	Cursor        *Position  `json:"cursor,omitempty"`
	Selection     *Selection `json:"selection,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
