package collab

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"

	"interviewio/internal/cache"
	"interviewio/internal/model"
)

// LanguageSource resolves the selected language of a room
type LanguageSource interface {
	CurrentLanguage(ctx context.Context, code string) (model.Language, error)
}

// Relay fans room traffic out to other server instances
type Relay interface {
	Publish(ctx context.Context, env *Envelope) error
}

// Envelope is room traffic crossing instance boundaries
type Envelope struct {
	Origin     string          `json:"origin"`
	RoomCode   string          `json:"roomCode"`
	Exclude    string          `json:"exclude,omitempty"`
	Disconnect bool            `json:"disconnect,omitempty"`
	Message    json.RawMessage `json:"message,omitempty"`
}

type room struct {
	code     string
	bindings map[string]*Binding // participantID -> binding
}

// Hub owns the rooms served by this instance and the bindings inside them
type Hub struct {
	instanceID string
	docs       cache.DocumentCache
	awareness  cache.AwarenessCache
	languages  LanguageSource
	relay      Relay
	sendBuffer int

	mu    sync.Mutex
	rooms map[string]*room
}

// NewHub creates a new collaboration hub
func NewHub(instanceID string, docs cache.DocumentCache, awareness cache.AwarenessCache) *Hub {
	return &Hub{
		instanceID: instanceID,
		docs:       docs,
		awareness:  awareness,
		sendBuffer: 256,
		rooms:      make(map[string]*room),
	}
}

// SetLanguageSource lets sync_init carry the room's language
func (h *Hub) SetLanguageSource(src LanguageSource) {
	h.languages = src
}

// SetRelay enables cross-instance fan-out
func (h *Hub) SetRelay(r Relay) {
	h.relay = r
}

// InstanceID identifies this hub in relayed envelopes
func (h *Hub) InstanceID() string {
	return h.instanceID
}

// Bind subscribes a participant to a room. An older binding of the same
// participant in that room is released first, so a remount never leaves two
// live subscriptions.
func (h *Hub) Bind(ctx context.Context, code string, p model.Participant) (*Binding, error) {
	b := newBinding(h, code, p, h.sendBuffer)

	h.mu.Lock()
	r, ok := h.rooms[code]
	if !ok {
		r = &room{code: code, bindings: make(map[string]*Binding)}
		h.rooms[code] = r
	}
	if old, ok := r.bindings[p.ID]; ok {
		old.release()
		log.Printf("Participant %s rebound in room %s, previous binding released", p.ID, code)
	}
	r.bindings[p.ID] = b
	h.mu.Unlock()

	log.Printf("Participant %s (%s) bound to room %s", p.ID, p.Name, code)

	// Registered before reading the log: a duplicate update is harmless to the
	// client's CRDT, a missing one is not.
	initPayload, err := h.syncInit(ctx, code, p)
	if err != nil {
		b.Close()
		return nil, err
	}
	msg, err := encode(MsgSyncInit, initPayload)
	if err != nil {
		b.Close()
		return nil, err
	}

	h.mu.Lock()
	if b.Active() {
		b.trySend(msg)
	}
	h.mu.Unlock()

	h.broadcastParticipants(code)
	return b, nil
}

func (h *Hub) syncInit(ctx context.Context, code string, self model.Participant) (*SyncInitPayload, error) {
	updates, err := h.docs.Updates(ctx, code)
	if err != nil {
		return nil, err
	}
	states, err := h.awareness.All(ctx, code)
	if err != nil {
		return nil, err
	}

	initPayload := &SyncInitPayload{
		Self:         self,
		Updates:      updates,
		Awareness:    states,
		Participants: h.Participants(code),
	}
	if h.languages != nil {
		if lang, err := h.languages.CurrentLanguage(ctx, code); err == nil {
			info := lang.Info()
			initPayload.Language = &info
		}
	}
	return initPayload, nil
}

// unbind releases b; the participant's presence is dropped only when b was
// still the participant's current binding
func (h *Hub) unbind(b *Binding) {
	h.mu.Lock()
	current := false
	if r, ok := h.rooms[b.RoomCode]; ok {
		if existing, ok := r.bindings[b.Participant.ID]; ok && existing == b {
			delete(r.bindings, b.Participant.ID)
			current = true
			if len(r.bindings) == 0 {
				delete(h.rooms, b.RoomCode)
			}
		}
	}
	released := b.release()
	h.mu.Unlock()

	if !released || !current {
		return
	}

	log.Printf("Participant %s left room %s", b.Participant.ID, b.RoomCode)
	h.dropPresence(b)
}

func (h *Hub) dropPresence(b *Binding) {
	ctx := context.Background()
	if err := h.awareness.Remove(ctx, b.RoomCode, b.Participant.ID); err != nil {
		log.Printf("Failed to remove awareness of %s in room %s: %v", b.Participant.ID, b.RoomCode, err)
	}
	if err := h.publish(ctx, b.RoomCode, b.Participant.ID, MsgAwarenessRemoved, &AwarenessRemovedPayload{
		ParticipantID: b.Participant.ID,
	}); err != nil {
		log.Printf("Failed to announce departure of %s: %v", b.Participant.ID, err)
	}
	h.broadcastParticipants(b.RoomCode)
}

// publish delivers to local bindings except exclude and relays to other instances
func (h *Hub) publish(ctx context.Context, code, exclude string, msgType MessageType, payload interface{}) error {
	msg, err := encode(msgType, payload)
	if err != nil {
		return err
	}
	h.deliver(code, exclude, msg)

	if h.relay != nil {
		return h.relay.Publish(ctx, &Envelope{
			Origin:   h.instanceID,
			RoomCode: code,
			Exclude:  exclude,
			Message:  msg,
		})
	}
	return nil
}

// deliver queues msg for every local binding of the room except exclude.
// Bindings that cannot keep up are evicted; they resync on reconnect.
func (h *Hub) deliver(code, exclude string, msg []byte) {
	var evicted []*Binding

	h.mu.Lock()
	if r, ok := h.rooms[code]; ok {
		for id, b := range r.bindings {
			if id == exclude {
				continue
			}
			if !b.trySend(msg) {
				delete(r.bindings, id)
				b.release()
				evicted = append(evicted, b)
			}
		}
		if len(r.bindings) == 0 {
			delete(h.rooms, code)
		}
	}
	h.mu.Unlock()

	for _, b := range evicted {
		log.Printf("Participant %s evicted from room %s: send buffer full", b.Participant.ID, code)
		h.dropPresence(b)
	}
}

// HandleRelayed applies an envelope published by another instance
func (h *Hub) HandleRelayed(env *Envelope) {
	if env.Origin == h.instanceID {
		return
	}
	if env.Disconnect {
		h.disconnectLocal(env.RoomCode)
		return
	}
	h.deliver(env.RoomCode, env.Exclude, env.Message)
}

// BroadcastToRoom sends a message to every participant of a room (implements service.Broadcaster)
func (h *Hub) BroadcastToRoom(code string, msgType string, payload interface{}) {
	if err := h.publish(context.Background(), code, "", MessageType(msgType), payload); err != nil {
		log.Printf("Broadcast %s to room %s failed: %v", msgType, code, err)
	}
}

// DisconnectRoom releases every binding of a room on all instances (implements service.Broadcaster)
func (h *Hub) DisconnectRoom(code string) {
	h.disconnectLocal(code)
	if h.relay != nil {
		err := h.relay.Publish(context.Background(), &Envelope{
			Origin:     h.instanceID,
			RoomCode:   code,
			Disconnect: true,
		})
		if err != nil {
			log.Printf("Relaying disconnect of room %s failed: %v", code, err)
		}
	}
}

func (h *Hub) disconnectLocal(code string) {
	h.mu.Lock()
	if r, ok := h.rooms[code]; ok {
		for _, b := range r.bindings {
			b.release()
		}
		delete(h.rooms, code)
	}
	h.mu.Unlock()
}

// ActiveBindings returns the number of live subscriptions in a room
func (h *Hub) ActiveBindings(code string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[code]; ok {
		return len(r.bindings)
	}
	return 0
}

// Participants lists the participants bound to a room on this instance
func (h *Hub) Participants(code string) []model.Participant {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[code]
	if !ok {
		return []model.Participant{}
	}
	out := make([]model.Participant, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b.Participant)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (h *Hub) broadcastParticipants(code string) {
	msg, err := encode(MsgParticipants, h.Participants(code))
	if err != nil {
		return
	}
	h.deliver(code, "", msg)
}
