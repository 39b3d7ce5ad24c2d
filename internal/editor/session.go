package editor

import (
	"context"
	"errors"
	"strings"
	"sync"

	"interviewio/internal/model"
)

var (
	ErrNotMounted    = errors.New("editor is not mounted")
	ErrNoRoom        = errors.New("no room joined")
	ErrRunInProgress = errors.New("code is already running")
)

// Executor runs source code on behalf of the session
type Executor interface {
	Execute(ctx context.Context, code string, lang model.Language) (*model.CodeOutput, error)
}

// Session is the state owned by one mounted editor page: the room it is
// bound to, the widget, the language selection and the run trigger.
type Session struct {
	provider Provider
	executor Executor

	mu        sync.Mutex
	roomCode  string
	text      SharedText
	awareness Awareness
	widget    Widget
	binding   *Binding
	language  model.Language
	state     model.RunState
	output    *model.CodeOutput
}

// NewSession creates an unmounted session
func NewSession(provider Provider, executor Executor) *Session {
	return &Session{
		provider: provider,
		executor: executor,
		language: model.DefaultLanguage,
		state:    model.RunIdle,
	}
}

// JoinRoom opens a room's document, replacing the binding of the previous room
func (s *Session) JoinRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code == s.roomCode && s.text != nil {
		return
	}
	s.roomCode = code
	s.text, s.awareness = s.provider.Open(code)
	s.rebindLocked()
}

// Mount attaches a widget; any earlier binding is destroyed first
func (s *Session) Mount(w Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.widget = w
	w.SetLanguageMode(s.language.HighlightMode())
	s.rebindLocked()
}

// Unmount detaches the widget and releases its binding
func (s *Session) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.destroyBindingLocked()
	s.widget = nil
}

func (s *Session) rebindLocked() {
	s.destroyBindingLocked()
	if s.widget == nil || s.text == nil {
		return
	}
	s.binding = NewBinding(s.text, s.widget, s.awareness)
}

func (s *Session) destroyBindingLocked() {
	if s.binding != nil {
		s.binding.Destroy()
		s.binding = nil
	}
}

// SetLanguage selects one of the supported languages
func (s *Session) SetLanguage(tag string) error {
	lang, err := model.ParseLanguage(tag)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
	if s.widget != nil {
		s.widget.SetLanguageMode(lang.HighlightMode())
	}
	return nil
}

// Language returns the selected language
func (s *Session) Language() model.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// RunLabel is the caption of the run trigger for the current state
func (s *Session) RunLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == model.RunRunning {
		return "Running..."
	}
	return s.language.RunLabel()
}

// State returns the run trigger state
func (s *Session) State() model.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Output returns the latest run output, or nil before the first run
func (s *Session) Output() *model.CodeOutput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

// Run executes the shared buffer's current text in the selected language
func (s *Session) Run(ctx context.Context) (*model.CodeOutput, error) {
	s.mu.Lock()
	if s.widget == nil {
		s.mu.Unlock()
		return nil, ErrNotMounted
	}
	if s.text == nil {
		s.mu.Unlock()
		return nil, ErrNoRoom
	}
	if s.state == model.RunRunning {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}

	code := s.text.String()
	lang := s.language
	if strings.TrimSpace(code) == "" {
		s.output = &model.CodeOutput{
			Stdout:   "",
			Stderr:   model.NoCodeMessage,
			ExitCode: model.ExitCodePtr(1),
		}
		out := s.output
		s.mu.Unlock()
		return out, nil
	}
	s.state = model.RunRunning
	s.mu.Unlock()

	// A started run always completes; the caller cannot cancel it
	output, err := s.executor.Execute(context.WithoutCancel(ctx), code, lang)
	if err != nil {
		output = &model.CodeOutput{
			Error:    err.Error(),
			ExitCode: model.ExitCodePtr(1),
		}
	}
	if output == nil {
		output = &model.CodeOutput{Error: "executor returned no output", ExitCode: model.ExitCodePtr(1)}
	}

	s.mu.Lock()
	s.state = model.RunIdle
	s.output = output
	s.mu.Unlock()
	return output, nil
}
