package editor

import (
	"sort"
	"sync"
)

// Text is an in-process SharedText. Edits are applied in arrival order.
type Text struct {
	mu        sync.Mutex
	runes     []rune
	observers map[int]func([]Edit, any)
	nextID    int
}

// NewText creates a shared text with initial content
func NewText(initial string) *Text {
	return &Text{
		runes:     []rune(initial),
		observers: make(map[int]func([]Edit, any)),
	}
}

func (t *Text) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.runes)
}

// Apply mutates the text and notifies every observer with the origin tag
func (t *Text) Apply(edits []Edit, origin any) {
	t.mu.Lock()
	for _, e := range edits {
		t.runes = applyEdit(t.runes, e)
	}
	observers := make([]func([]Edit, any), 0, len(t.observers))
	for _, id := range t.sortedIDs() {
		observers = append(observers, t.observers[id])
	}
	t.mu.Unlock()

	for _, fn := range observers {
		fn(edits, origin)
	}
}

// Observe registers fn; the returned func removes it and is safe to call twice
func (t *Text) Observe(fn func([]Edit, any)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.observers[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.observers, id)
		t.mu.Unlock()
	}
}

// Observers returns the number of live subscriptions
func (t *Text) Observers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.observers)
}

func (t *Text) sortedIDs() []int {
	ids := make([]int, 0, len(t.observers))
	for id := range t.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// applyEdit clamps the edit to the buffer bounds
func applyEdit(runes []rune, e Edit) []rune {
	start := clamp(e.Offset, 0, len(runes))
	end := clamp(start+e.Delete, start, len(runes))

	out := make([]rune, 0, len(runes)-(end-start)+len(e.Insert))
	out = append(out, runes[:start]...)
	out = append(out, []rune(e.Insert)...)
	out = append(out, runes[end:]...)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ReplaceAll returns the edit that turns a buffer of current into next
func ReplaceAll(current, next string) Edit {
	return Edit{Offset: 0, Delete: len([]rune(current)), Insert: next}
}
