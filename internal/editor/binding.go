package editor

import (
	"sync"
	"sync/atomic"
)

// Binding keeps a Widget and a SharedText in step
type Binding struct {
	text   SharedText
	widget Widget

	// applyingRemote is set while remote edits are written into the widget so
	// the resulting change events are not published back
	applyingRemote atomic.Bool

	unsubscribe []func()
	once        sync.Once
	destroyed   atomic.Bool
}

// NewBinding loads the shared content into the widget and starts syncing.
// aw may be nil when presence is not wanted.
func NewBinding(text SharedText, w Widget, aw Awareness) *Binding {
	b := &Binding{text: text, widget: w}

	if current, shared := w.Value(), text.String(); current != shared {
		b.applyRemote([]Edit{ReplaceAll(current, shared)})
	}

	b.unsubscribe = append(b.unsubscribe,
		text.Observe(b.onRemote),
		w.OnDidChange(b.onLocal),
	)
	if aw != nil {
		b.unsubscribe = append(b.unsubscribe, w.OnDidChangeSelection(aw.SetLocalSelection))
	}
	return b
}

func (b *Binding) onLocal(edits []Edit) {
	if b.destroyed.Load() || b.applyingRemote.Load() {
		return
	}
	b.text.Apply(edits, b)
}

func (b *Binding) onRemote(edits []Edit, origin any) {
	if b.destroyed.Load() || origin == b {
		return
	}
	b.applyRemote(edits)
}

func (b *Binding) applyRemote(edits []Edit) {
	b.applyingRemote.Store(true)
	defer b.applyingRemote.Store(false)
	b.widget.ApplyEdits(edits)
}

// Destroy unsubscribes from both sides. Later calls are no-ops.
func (b *Binding) Destroy() {
	b.once.Do(func() {
		b.destroyed.Store(true)
		for _, fn := range b.unsubscribe {
			fn()
		}
		b.unsubscribe = nil
	})
}
