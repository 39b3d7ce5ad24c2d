package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"time"

	"interviewio/internal/cache"
	"interviewio/internal/model"
	"interviewio/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomClosed   = errors.New("room is closed")
)

// cursorColors is the palette used for remote cursors and avatars
var cursorColors = []string{
	"#E57373", "#9575CD", "#4FC3F7", "#81C784",
	"#FFF176", "#FF8A65", "#F06292", "#7986CB",
}

// RoomService handles room lifecycle operations
type RoomService struct {
	roomRepo    repository.RoomRepo
	roomCache   cache.RoomCache
	docCache    cache.DocumentCache
	awareness   cache.AwarenessCache
	authSvc     *AuthService
	broadcaster Broadcaster
	newCode     func() (string, error)
}

// NewRoomService creates a new room service
func NewRoomService(
	roomRepo repository.RoomRepo,
	roomCache cache.RoomCache,
	docCache cache.DocumentCache,
	awareness cache.AwarenessCache,
	authSvc *AuthService,
) *RoomService {
	return &RoomService{
		roomRepo:    roomRepo,
		roomCache:   roomCache,
		docCache:    docCache,
		awareness:   awareness,
		authSvc:     authSvc,
		broadcaster: noopBroadcaster{},
		newCode:     randomRoomCode,
	}
}

// SetBroadcaster injects the room broadcaster
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateRoom opens a new collaboration room
func (s *RoomService) CreateRoom(ctx context.Context, req *model.CreateRoomRequest) (*model.Room, error) {
	lang := model.DefaultLanguage
	if req.Language != "" {
		parsed, err := model.ParseLanguage(string(req.Language))
		if err != nil {
			return nil, err
		}
		lang = parsed
	}

	code, err := s.generateRoomCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate room code: %w", err)
	}

	room := &model.Room{
		Code:      code,
		Title:     strings.TrimSpace(req.Title),
		Language:  lang,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	meta := &model.RoomMeta{Language: lang, CreatedAt: room.CreatedAt}
	if err := s.roomCache.SetMeta(ctx, code, meta); err != nil {
		return nil, fmt.Errorf("failed to cache room: %w", err)
	}

	log.Printf("Room %s created (language=%s)", code, lang)
	return room, nil
}

// GetRoom retrieves an open or closed room by code
func (s *RoomService) GetRoom(ctx context.Context, code string) (*model.Room, error) {
	room, err := s.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// getOpenRoom returns the room only while it accepts participants
func (s *RoomService) getOpenRoom(ctx context.Context, code string) (*model.Room, error) {
	room, err := s.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.IsClosed() {
		return nil, ErrRoomClosed
	}
	return room, nil
}

// JoinRoom admits a participant and issues their room-scoped token
func (s *RoomService) JoinRoom(ctx context.Context, code, name string) (*model.JoinRoomResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}

	room, err := s.getOpenRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	lang, err := s.CurrentLanguage(ctx, code)
	if err != nil {
		return nil, err
	}
	room.Language = lang

	id := uuid.New().String()
	participant := model.Participant{
		ID:    id,
		Name:  name,
		Color: colorFor(id),
	}

	token, err := s.authSvc.GenerateParticipantToken(code, participant)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.JoinRoomResponse{
		Token:       token,
		Participant: participant,
		Room:        room,
		Language:    lang.Info(),
	}, nil
}

// CurrentLanguage returns the selected language of an open room, preferring the
// cache. Closed rooms report ErrRoomClosed and are never re-cached.
func (s *RoomService) CurrentLanguage(ctx context.Context, code string) (model.Language, error) {
	meta, err := s.roomCache.GetMeta(ctx, code)
	if err != nil {
		log.Printf("Room cache read failed for %s: %v", code, err)
	}
	if meta != nil && meta.Language.Valid() {
		return meta.Language, nil
	}

	room, err := s.getOpenRoom(ctx, code)
	if err != nil {
		return "", err
	}

	// Re-warm the cache after expiry
	if err := s.roomCache.SetMeta(ctx, code, &model.RoomMeta{Language: room.Language, CreatedAt: room.CreatedAt}); err != nil {
		log.Printf("Room cache write failed for %s: %v", code, err)
	}
	return room.Language, nil
}

// SetLanguage switches the room's language and notifies every participant
func (s *RoomService) SetLanguage(ctx context.Context, code, tag string) (*model.LanguageInfo, error) {
	lang, err := model.ParseLanguage(tag)
	if err != nil {
		return nil, err
	}

	room, err := s.getOpenRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	room.Language = lang
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	if err := s.roomCache.SetMeta(ctx, code, &model.RoomMeta{Language: lang, CreatedAt: room.CreatedAt}); err != nil {
		return nil, fmt.Errorf("failed to cache room: %w", err)
	}

	info := lang.Info()
	s.broadcaster.BroadcastToRoom(code, EventLanguageChanged, info)
	return &info, nil
}

// CloseRoom ends the session, drops its hot state and disconnects everyone
func (s *RoomService) CloseRoom(ctx context.Context, code string) error {
	room, err := s.getOpenRoom(ctx, code)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	room.ClosedAt = &now
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	if err := s.roomCache.Delete(ctx, code); err != nil {
		log.Printf("Failed to drop room cache for %s: %v", code, err)
	}
	if err := s.awareness.Clear(ctx, code); err != nil {
		log.Printf("Failed to drop awareness for %s: %v", code, err)
	}
	if err := s.docCache.Clear(ctx, code); err != nil {
		log.Printf("Failed to drop document log for %s: %v", code, err)
	}

	s.broadcaster.BroadcastToRoom(code, EventRoomClosed, map[string]string{"roomCode": code})
	s.broadcaster.DisconnectRoom(code)

	log.Printf("Room %s closed", code)
	return nil
}

// EnsureOpen reports ErrRoomNotFound or ErrRoomClosed unless the room accepts participants
func (s *RoomService) EnsureOpen(ctx context.Context, code string) error {
	_, err := s.getOpenRoom(ctx, code)
	return err
}

// generateRoomCode picks a code no room has used, open or closed
func (s *RoomService) generateRoomCode(ctx context.Context) (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}

		exists, err := s.roomCache.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}

		// Closed or expired rooms are only in Mongo
		room, err := s.roomRepo.GetByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if room == nil {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique room code")
}

// randomRoomCode creates a 6-char alphanumeric code
func randomRoomCode() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	b := make([]byte, codeLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	code := make([]byte, codeLen)
	for i := range code {
		code[i] = chars[int(b[i])%len(chars)]
	}
	return string(code), nil
}

func colorFor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return cursorColors[h.Sum32()%uint32(len(cursorColors))]
}
