package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"interviewio/internal/cache"
	"interviewio/internal/model"
	"interviewio/internal/repository"

	"github.com/google/uuid"
)

var ErrRunInProgress = errors.New("code is already running in this room")

// LanguageSource resolves the selected language of a room
type LanguageSource interface {
	CurrentLanguage(ctx context.Context, code string) (model.Language, error)
}

// RunService drives the execution trigger of each room: idle -> running -> idle.
// A run cannot be cancelled once started and no timeout is applied here.
type RunService struct {
	executor    Executor
	languages   LanguageSource
	roomCache   cache.RoomCache
	outputCache cache.OutputCache
	runRepo     repository.RunRepo
	broadcaster Broadcaster
}

// NewRunService creates a new run service
func NewRunService(
	executor Executor,
	languages LanguageSource,
	roomCache cache.RoomCache,
	outputCache cache.OutputCache,
	runRepo repository.RunRepo,
) *RunService {
	return &RunService{
		executor:    executor,
		languages:   languages,
		roomCache:   roomCache,
		outputCache: outputCache,
		runRepo:     runRepo,
		broadcaster: noopBroadcaster{},
	}
}

// SetBroadcaster injects the room broadcaster
func (s *RunService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RunStartedEvent is pushed when a room enters the running state
type RunStartedEvent struct {
	RunID         string         `json:"runId"`
	ParticipantID string         `json:"participantId"`
	Language      model.Language `json:"language"`
	State         model.RunState `json:"state"`
}

// RunFinishedEvent is pushed when a room returns to idle
type RunFinishedEvent struct {
	RunID         string            `json:"runId,omitempty"`
	ParticipantID string            `json:"participantId"`
	Language      model.Language    `json:"language"`
	State         model.RunState    `json:"state"`
	Status        string            `json:"status"`
	Output        *model.CodeOutput `json:"output"`
}

// Run executes the room's current buffer contents
func (s *RunService) Run(ctx context.Context, roomCode, participantID string, req *model.RunRequest) (*model.CodeOutput, error) {
	lang, err := s.resolveLanguage(ctx, roomCode, req.Language)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Code) == "" {
		output := &model.CodeOutput{
			Stdout:   "",
			Stderr:   model.NoCodeMessage,
			ExitCode: model.ExitCodePtr(1),
		}
		s.publishOutput(ctx, roomCode, "", participantID, lang, output)
		return output, nil
	}

	runID := uuid.New().String()
	started, err := s.roomCache.TryStartRun(ctx, roomCode, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	if !started {
		return nil, ErrRunInProgress
	}

	// The caller going away must not abort a run that already started
	runCtx := context.WithoutCancel(ctx)
	defer func() {
		if err := s.roomCache.FinishRun(runCtx, roomCode, runID); err != nil {
			log.Printf("Failed to clear running state for room %s: %v", roomCode, err)
		}
	}()

	s.broadcaster.BroadcastToRoom(roomCode, EventRunStarted, &RunStartedEvent{
		RunID:         runID,
		ParticipantID: participantID,
		Language:      lang,
		State:         model.RunRunning,
	})

	startedAt := time.Now().UTC()
	output, err := s.executor.Execute(runCtx, req.Code, lang)
	if err != nil {
		output = &model.CodeOutput{
			Error:    err.Error(),
			ExitCode: model.ExitCodePtr(1),
		}
	}
	if output == nil {
		output = &model.CodeOutput{Error: "executor returned no output", ExitCode: model.ExitCodePtr(1)}
	}

	record := &model.RunRecord{
		ID:            runID,
		RoomCode:      roomCode,
		ParticipantID: participantID,
		Language:      lang,
		Code:          req.Code,
		Output:        *output,
		StartedAt:     startedAt,
		FinishedAt:    time.Now().UTC(),
	}
	if err := s.runRepo.Create(runCtx, record); err != nil {
		log.Printf("Failed to record run %s: %v", runID, err)
	}

	s.publishOutput(runCtx, roomCode, runID, participantID, lang, output)
	return output, nil
}

// LastOutput returns the most recent output of a room, or nil
func (s *RunService) LastOutput(ctx context.Context, roomCode string) (*model.CodeOutput, error) {
	return s.outputCache.Get(ctx, roomCode)
}

// State returns whether the room is currently running code
func (s *RunService) State(ctx context.Context, roomCode string) (model.RunState, error) {
	return s.roomCache.RunState(ctx, roomCode)
}

// History returns the newest runs of a room
func (s *RunService) History(ctx context.Context, roomCode string, limit int64) ([]*model.RunRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runRepo.ListByRoom(ctx, roomCode, limit)
}

func (s *RunService) resolveLanguage(ctx context.Context, roomCode string, requested model.Language) (model.Language, error) {
	current, err := s.languages.CurrentLanguage(ctx, roomCode)
	if err != nil {
		return "", err
	}
	if requested == "" {
		return current, nil
	}
	return model.ParseLanguage(string(requested))
}

func (s *RunService) publishOutput(ctx context.Context, roomCode, runID, participantID string, lang model.Language, output *model.CodeOutput) {
	if err := s.outputCache.Set(ctx, roomCode, output); err != nil {
		log.Printf("Failed to cache output for room %s: %v", roomCode, err)
	}
	s.broadcaster.BroadcastToRoom(roomCode, EventRunFinished, &RunFinishedEvent{
		RunID:         runID,
		ParticipantID: participantID,
		Language:      lang,
		State:         model.RunIdle,
		Status:        output.Status(),
		Output:        output,
	})
}
