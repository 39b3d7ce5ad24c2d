package service

import (
	"context"
	"sync"

	"interviewio/internal/model"
)

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*model.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]*model.Room)}
}

func (r *fakeRoomRepo) Create(_ context.Context, room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *room
	r.rooms[room.Code] = &cp
	return nil
}

func (r *fakeRoomRepo) GetByCode(_ context.Context, code string) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (r *fakeRoomRepo) Update(ctx context.Context, room *model.Room) error {
	return r.Create(ctx, room)
}

type fakeRoomCache struct {
	mu   sync.Mutex
	meta map[string]*model.RoomMeta
	runs map[string]string
}

func newFakeRoomCache() *fakeRoomCache {
	return &fakeRoomCache{meta: make(map[string]*model.RoomMeta), runs: make(map[string]string)}
}

func (c *fakeRoomCache) SetMeta(_ context.Context, code string, meta *model.RoomMeta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *meta
	c.meta[code] = &cp
	return nil
}

func (c *fakeRoomCache) GetMeta(_ context.Context, code string) (*model.RoomMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.meta[code]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (c *fakeRoomCache) Delete(_ context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.meta, code)
	delete(c.runs, code)
	return nil
}

func (c *fakeRoomCache) Exists(_ context.Context, code string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.meta[code]
	return ok, nil
}

func (c *fakeRoomCache) TryStartRun(_ context.Context, code, runID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.runs[code]; ok {
		return false, nil
	}
	c.runs[code] = runID
	return true, nil
}

func (c *fakeRoomCache) FinishRun(_ context.Context, code, runID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runs[code] == runID {
		delete(c.runs, code)
	}
	return nil
}

func (c *fakeRoomCache) RunState(_ context.Context, code string) (model.RunState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.runs[code]; ok {
		return model.RunRunning, nil
	}
	return model.RunIdle, nil
}

type fakeDocCache struct {
	cleared []string
}

func (c *fakeDocCache) AppendUpdate(context.Context, string, []byte) error        { return nil }
func (c *fakeDocCache) ReplaceWithSnapshot(context.Context, string, []byte) error { return nil }
func (c *fakeDocCache) Updates(context.Context, string) ([][]byte, error)         { return nil, nil }
func (c *fakeDocCache) Clear(_ context.Context, code string) error {
	c.cleared = append(c.cleared, code)
	return nil
}

type fakeAwarenessCache struct{}

func (fakeAwarenessCache) Set(context.Context, string, *model.AwarenessState) error { return nil }
func (fakeAwarenessCache) All(context.Context, string) ([]model.AwarenessState, error) {
	return nil, nil
}
func (fakeAwarenessCache) Remove(context.Context, string, string) error { return nil }
func (fakeAwarenessCache) Clear(context.Context, string) error          { return nil }

type fakeOutputCache struct {
	mu  sync.Mutex
	out map[string]*model.CodeOutput
}

func newFakeOutputCache() *fakeOutputCache {
	return &fakeOutputCache{out: make(map[string]*model.CodeOutput)}
}

func (c *fakeOutputCache) Set(_ context.Context, code string, output *model.CodeOutput) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out[code] = output
	return nil
}

func (c *fakeOutputCache) Get(_ context.Context, code string) (*model.CodeOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out[code], nil
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs []*model.RunRecord
}

func (r *fakeRunRepo) Create(_ context.Context, run *model.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRunRepo) ListByRoom(_ context.Context, roomCode string, limit int64) ([]*model.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RunRecord
	for i := len(r.runs) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.runs[i].RoomCode == roomCode {
			out = append(out, r.runs[i])
		}
	}
	return out, nil
}

type broadcastCall struct {
	room    string
	msgType string
	payload interface{}
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	calls        []broadcastCall
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToRoom(room, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{room, msgType, payload})
}

func (b *recordingBroadcaster) DisconnectRoom(room string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, room)
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.calls {
		out = append(out, c.msgType)
	}
	return out
}
