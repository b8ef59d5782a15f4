package events

import "sync"

// Event names exchanged with the presentation layer.
const (
	CLIInstallResult = "cli-install-result"
	ShowError        = "show-error"
	MenuAction       = "menu-action"
	SetFont          = "set-font"
	OpenFile         = "open-file"
	FileChanged      = "file-changed"
)

// Handler receives an event payload.
type Handler func(payload string)

// Bus is a minimal named-event bus connecting the shell subsystems to
// the presentation layer. Handlers run synchronously on the emitting
// goroutine; anything touching UI widgets is expected to marshal onto
// the UI thread itself.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for the named event. Multiple handlers
// per event are allowed and run in registration order.
func (b *Bus) Subscribe(name string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], h)
	b.mu.Unlock()
}

// Emit delivers payload to every handler subscribed to name. Events
// without subscribers are dropped.
func (b *Bus) Emit(name, payload string) {
	b.mu.RLock()
	subscribed := make([]Handler, len(b.handlers[name]))
	copy(subscribed, b.handlers[name])
	b.mu.RUnlock()

	for _, h := range subscribed {
		h(payload)
	}
}
