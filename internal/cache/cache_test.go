package cache

import (
	"context"
	"testing"
	"time"

	"interviewio/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestRoomCache_Meta(t *testing.T) {
	client, _ := newTestClient(t)
	c := NewRoomCache(client)
	ctx := context.Background()

	meta, err := c.GetMeta(ctx, "ABC234")
	if err != nil || meta != nil {
		t.Fatalf("GetMeta on missing room = %v, %v; want nil, nil", meta, err)
	}
	if err := c.SetMeta(ctx, "ABC234", &model.RoomMeta{Language: model.LangC, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	if ok, _ := c.Exists(ctx, "ABC234"); !ok {
		t.Fatal("expected room to exist")
	}
	if err := c.SetMeta(ctx, "ABC234", &model.RoomMeta{Language: model.LangPython, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	meta, err = c.GetMeta(ctx, "ABC234")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if meta.Language != model.LangPython {
		t.Errorf("language = %q, want python", meta.Language)
	}

	if err := c.Delete(ctx, "ABC234"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := c.Exists(ctx, "ABC234"); ok {
		t.Error("expected room to be gone")
	}
}

func TestRoomCache_RunLock(t *testing.T) {
	client, _ := newTestClient(t)
	c := NewRoomCache(client)
	ctx := context.Background()

	ok, err := c.TryStartRun(ctx, "R1", "run-a")
	if err != nil || !ok {
		t.Fatalf("first TryStartRun = %v, %v", ok, err)
	}
	if state, _ := c.RunState(ctx, "R1"); state != model.RunRunning {
		t.Errorf("state = %q, want running", state)
	}

	ok, err = c.TryStartRun(ctx, "R1", "run-b")
	if err != nil || ok {
		t.Fatalf("second TryStartRun = %v, %v; want false", ok, err)
	}

	// A stale run must not release someone else's lock
	if err := c.FinishRun(ctx, "R1", "run-b"); err != nil {
		t.Fatalf("FinishRun(run-b): %v", err)
	}
	if state, _ := c.RunState(ctx, "R1"); state != model.RunRunning {
		t.Errorf("state after foreign finish = %q, want running", state)
	}

	if err := c.FinishRun(ctx, "R1", "run-a"); err != nil {
		t.Fatalf("FinishRun(run-a): %v", err)
	}
	if state, _ := c.RunState(ctx, "R1"); state != model.RunIdle {
		t.Errorf("state = %q, want idle", state)
	}
}

func TestDocumentCache_LogAndSnapshot(t *testing.T) {
	client, mr := newTestClient(t)
	c := NewDocumentCache(client)
	ctx := context.Background()

	for _, u := range []string{"u1", "u2", "u3"} {
		if err := c.AppendUpdate(ctx, "R1", []byte(u)); err != nil {
			t.Fatalf("AppendUpdate: %v", err)
		}
	}
	updates, err := c.Updates(ctx, "R1")
	if err != nil {
		t.Fatalf("Updates: %v", err)
	}
	if len(updates) != 3 || string(updates[0]) != "u1" || string(updates[2]) != "u3" {
		t.Fatalf("updates = %q, want [u1 u2 u3]", updates)
	}
	if ttl := mr.TTL("room:R1:doc"); ttl <= 0 {
		t.Errorf("expected TTL on update log, got %v", ttl)
	}

	if err := c.ReplaceWithSnapshot(ctx, "R1", []byte("snap")); err != nil {
		t.Fatalf("ReplaceWithSnapshot: %v", err)
	}
	updates, _ = c.Updates(ctx, "R1")
	if len(updates) != 1 || string(updates[0]) != "snap" {
		t.Fatalf("updates after snapshot = %q", updates)
	}

	if err := c.Clear(ctx, "R1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	updates, _ = c.Updates(ctx, "R1")
	if len(updates) != 0 {
		t.Errorf("expected empty log, got %d entries", len(updates))
	}
}

func TestAwarenessCache(t *testing.T) {
	client, _ := newTestClient(t)
	c := NewAwarenessCache(client)
	ctx := context.Background()

	states := []*model.AwarenessState{
		{ParticipantID: "p2", Name: "Bo", Cursor: &model.Position{Line: 1, Column: 4}},
		{ParticipantID: "p1", Name: "Al"},
	}
	for _, s := range states {
		if err := c.Set(ctx, "R1", s); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	all, err := c.All(ctx, "R1")
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 || all[0].ParticipantID != "p1" || all[1].ParticipantID != "p2" {
		t.Fatalf("All = %+v, want p1,p2", all)
	}
	if all[1].Cursor == nil || all[1].Cursor.Column != 4 {
		t.Errorf("cursor not round-tripped: %+v", all[1].Cursor)
	}

	if err := c.Remove(ctx, "R1", "p2"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	all, _ = c.All(ctx, "R1")
	if len(all) != 1 || all[0].ParticipantID != "p1" {
		t.Errorf("after Remove = %+v", all)
	}
}

func TestOutputCache_ReplacedByNextRun(t *testing.T) {
	client, _ := newTestClient(t)
	c := NewOutputCache(client)
	ctx := context.Background()

	if out, err := c.Get(ctx, "R1"); err != nil || out != nil {
		t.Fatalf("Get on empty = %v, %v", out, err)
	}

	_ = c.Set(ctx, "R1", &model.CodeOutput{Stdout: "first", ExitCode: model.ExitCodePtr(0)})
	_ = c.Set(ctx, "R1", &model.CodeOutput{Stderr: "second", ExitCode: model.ExitCodePtr(1)})

	out, err := c.Get(ctx, "R1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Stderr != "second" || out.Stdout != "" || *out.ExitCode != 1 {
		t.Errorf("output = %+v, want the second run", out)
	}
}
