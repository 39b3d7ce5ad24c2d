// Package editor bridges a text-editing widget to a shared, replicated text
// buffer. Local edits are published to the buffer, remote edits are applied to
// the widget without being published again, and the bridge is torn down
// exactly once when the widget unmounts or the room changes.
//
// Callbacks are expected on a single event goroutine, the way a UI loop
// delivers them.
package editor
