package editor

import "interviewio/internal/model"

// Edit replaces Delete runes at Offset with Insert
type Edit struct {
	Offset int
	Delete int
	Insert string
}

// Widget is a mounted text-editing surface
type Widget interface {
	Value() string
	// ApplyEdits changes the content programmatically. Widgets still report
	// these through OnDidChange.
	ApplyEdits(edits []Edit)
	OnDidChange(fn func(edits []Edit)) (unsubscribe func())
	OnDidChangeSelection(fn func(sel model.Selection)) (unsubscribe func())
	SetLanguageMode(mode string)
}

// SharedText is the replicated document handle of a room
type SharedText interface {
	String() string
	Apply(edits []Edit, origin any)
	Observe(fn func(edits []Edit, origin any)) (unobserve func())
}

// Awareness publishes the local participant's presence
type Awareness interface {
	SetLocalSelection(sel model.Selection)
}

// Provider opens the shared document of a room
type Provider interface {
	Open(roomCode string) (SharedText, Awareness)
}
