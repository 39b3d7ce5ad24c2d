package editor

import (
	"sync"

	"interviewio/internal/model"
)

// fakeWidget behaves like a code editor model: programmatic edits fire the
// same change events as typing
type fakeWidget struct {
	mu        sync.Mutex
	runes     []rune
	listeners map[int]func([]Edit)
	selection map[int]func(model.Selection)
	nextID    int
	mode      string
}

func newFakeWidget(initial string) *fakeWidget {
	return &fakeWidget{
		runes:     []rune(initial),
		listeners: make(map[int]func([]Edit)),
		selection: make(map[int]func(model.Selection)),
	}
}

func (w *fakeWidget) Value() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.runes)
}

func (w *fakeWidget) ApplyEdits(edits []Edit) {
	w.mu.Lock()
	for _, e := range edits {
		w.runes = applyEdit(w.runes, e)
	}
	fns := w.changeListeners()
	w.mu.Unlock()
	for _, fn := range fns {
		fn(edits)
	}
}

// Type simulates a local keystroke
func (w *fakeWidget) Type(offset int, text string) {
	w.ApplyEdits([]Edit{{Offset: offset, Insert: text}})
}

func (w *fakeWidget) MoveCursor(line, col int) {
	w.mu.Lock()
	var fns []func(model.Selection)
	for _, fn := range w.selection {
		fns = append(fns, fn)
	}
	w.mu.Unlock()
	pos := model.Position{Line: line, Column: col}
	for _, fn := range fns {
		fn(model.Selection{Anchor: pos, Head: pos})
	}
}

func (w *fakeWidget) changeListeners() []func([]Edit) {
	fns := make([]func([]Edit), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func (w *fakeWidget) OnDidChange(fn func([]Edit)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

func (w *fakeWidget) OnDidChangeSelection(fn func(model.Selection)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.selection[id] = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.selection, id)
		w.mu.Unlock()
	}
}

func (w *fakeWidget) SetLanguageMode(mode string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = mode
}

func (w *fakeWidget) Mode() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

func (w *fakeWidget) Subscriptions() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners)
}

type recordingAwareness struct {
	mu   sync.Mutex
	last *model.Selection
}

func (a *recordingAwareness) SetLocalSelection(sel model.Selection) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = &sel
}

// roomProvider hands out one shared Text per room code
type roomProvider struct {
	mu    sync.Mutex
	rooms map[string]*Text
	aw    *recordingAwareness
}

func newRoomProvider() *roomProvider {
	return &roomProvider{rooms: make(map[string]*Text), aw: &recordingAwareness{}}
}

func (p *roomProvider) Open(code string) (SharedText, Awareness) {
	return p.text(code), p.aw
}

func (p *roomProvider) text(code string) *Text {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.rooms[code]
	if !ok {
		t = NewText("")
		p.rooms[code] = t
	}
	return t
}
