package collab

import (
	"context"
	"errors"
	"sync"
	"time"

	"interviewio/internal/model"
)

var ErrBindingClosed = errors.New("binding is closed")

// Binding is one participant's subscription to a room. It is owned by the
// connection that created it and must be released with Close.
type Binding struct {
	hub         *Hub
	RoomCode    string
	Participant model.Participant

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newBinding(h *Hub, code string, p model.Participant, buffer int) *Binding {
	return &Binding{
		hub:         h,
		RoomCode:    code,
		Participant: p,
		send:        make(chan []byte, buffer),
		done:        make(chan struct{}),
	}
}

// Send delivers encoded messages for this participant. It is closed on teardown.
func (b *Binding) Send() <-chan []byte {
	return b.send
}

// Done is closed once the binding has been released
func (b *Binding) Done() <-chan struct{} {
	return b.done
}

// Active reports whether the binding still receives room traffic
func (b *Binding) Active() bool {
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

// PublishUpdate stores a local document update and relays it to every other participant
func (b *Binding) PublishUpdate(ctx context.Context, update []byte) error {
	if !b.Active() {
		return ErrBindingClosed
	}
	if err := b.hub.docs.AppendUpdate(ctx, b.RoomCode, update); err != nil {
		return err
	}
	return b.hub.publish(ctx, b.RoomCode, b.Participant.ID, MsgSyncUpdate, &UpdatePayload{
		From:   b.Participant.ID,
		Update: update,
	})
}

// PublishSnapshot compacts the room log into one full-state update. Peers
// already hold that state, so nothing is relayed.
func (b *Binding) PublishSnapshot(ctx context.Context, snapshot []byte) error {
	if !b.Active() {
		return ErrBindingClosed
	}
	return b.hub.docs.ReplaceWithSnapshot(ctx, b.RoomCode, snapshot)
}

// PublishAwareness records the participant's cursor/selection and relays it
func (b *Binding) PublishAwareness(ctx context.Context, p *AwarenessPayload) error {
	if !b.Active() {
		return ErrBindingClosed
	}
	state := &model.AwarenessState{
		ParticipantID: b.Participant.ID,
		Name:          b.Participant.Name,
		Color:         b.Participant.Color,
		Cursor:        p.Cursor,
		Selection:     p.Selection,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := b.hub.awareness.Set(ctx, b.RoomCode, state); err != nil {
		return err
	}
	return b.hub.publish(ctx, b.RoomCode, b.Participant.ID, MsgAwarenessUpdate, state)
}

// Close releases the binding. Only the first call has any effect.
func (b *Binding) Close() {
	b.hub.unbind(b)
}

// release closes the channels exactly once; callers hold hub.mu
func (b *Binding) release() bool {
	released := false
	b.closeOnce.Do(func() {
		close(b.send)
		close(b.done)
		released = true
	})
	return released
}

// trySend queues msg without blocking; callers hold hub.mu
func (b *Binding) trySend(msg []byte) bool {
	select {
	case b.send <- msg:
		return true
	default:
		return false
	}
}

// SendError reports a rejected client message to this participant only
func (b *Binding) SendError(message string) {
	msg, err := encode(MsgError, &ErrorPayload{Error: message})
	if err != nil {
		return
	}
	b.hub.mu.Lock()
	defer b.hub.mu.Unlock()
	if b.Active() {
		b.trySend(msg)
	}
}
