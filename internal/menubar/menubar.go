package menubar

import (
	"sync"

	"fyne.io/fyne/v2"
)

// Menu item identifiers. File-action ids are opaque tokens; font ids
// share the FontPrefix used for routing.
const (
	IDCopyFilePath    = "copy_file_path"
	IDCopyDirPath     = "copy_dir_path"
	IDCopyProjectPath = "copy_project_path"
	IDRevealFinder    = "reveal_finder"
	IDInstallCLI      = "install_cli"
	IDAssociate       = "associate_md"

	FontPrefix   = "font_"
	FontSystem   = "font_system"
	FontInter    = "font_inter"
	FontSerif    = "font_serif"
	FontSans     = "font_sans"
	FontMono     = "font_mono"
	FontReadable = "font_readable"
)

// Bar is the in-memory mirror of the native menu bar. It owns the
// checkable-item bookkeeping for the font group, the enablement of the
// file-action group and the association checkmark, and repaints the
// live menu through the refresh callback after every mutation.
//
// All operations are idempotent and safe to call from any goroutine.
// Item field writes and the following repaint run together through the
// marshal callback, so the live menu never repaints concurrently with
// a mutation; the mutex covers reads from other goroutines.
type Bar struct {
	mu          sync.Mutex
	marshal     func(fn func())
	refresh     func()
	fileActions map[string]*fyne.MenuItem
	fontOrder   []string
	fonts       map[string]*fyne.MenuItem
	associate   *fyne.MenuItem
}

// New creates an empty Bar. marshal moves each mutation onto the UI
// thread (fyne.Do in the app, nil runs inline for headless use);
// refresh repaints the native menu after a state change, inside
// marshal. Both may be nil.
func New(marshal func(fn func()), refresh func()) *Bar {
	return &Bar{
		marshal:     marshal,
		refresh:     refresh,
		fileActions: make(map[string]*fyne.MenuItem),
		fonts:       make(map[string]*fyne.MenuItem),
	}
}

// AddFileAction registers a file-gated item under id.
func (b *Bar) AddFileAction(id string, item *fyne.MenuItem) {
	b.mu.Lock()
	b.fileActions[id] = item
	b.mu.Unlock()
}

// AddFont registers a checkable font item under id, preserving
// registration order.
func (b *Bar) AddFont(id string, item *fyne.MenuItem) {
	b.mu.Lock()
	if _, exists := b.fonts[id]; !exists {
		b.fontOrder = append(b.fontOrder, id)
	}
	b.fonts[id] = item
	b.mu.Unlock()
}

// SetAssociateItem registers the checkable association item.
func (b *Bar) SetAssociateItem(item *fyne.MenuItem) {
	b.mu.Lock()
	b.associate = item
	b.mu.Unlock()
}

// SetFileActionsEnabled broadcasts enablement to every file-action
// item. Enablement is a pure function of "a document is loaded".
func (b *Bar) SetFileActionsEnabled(enabled bool) {
	b.do(func() {
		b.mu.Lock()
		for _, item := range b.fileActions {
			item.Disabled = !enabled
		}
		b.mu.Unlock()
		b.repaint()
	})
}

// FileActionsEnabled reports whether every registered file action is
// currently enabled.
func (b *Bar) FileActionsEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range b.fileActions {
		if item.Disabled {
			return false
		}
	}
	return len(b.fileActions) > 0
}

// SyncFont reconciles the font group so that exactly the item matching
// id is checked. Unknown ids leave every item unchecked. Safe to call
// redundantly.
func (b *Bar) SyncFont(id string) {
	b.do(func() {
		b.mu.Lock()
		for itemID, item := range b.fonts {
			item.Checked = itemID == id
		}
		b.mu.Unlock()
		b.repaint()
	})
}

// CheckedFont returns the currently checked font id.
func (b *Bar) CheckedFont() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range b.fontOrder {
		if b.fonts[id].Checked {
			return id, true
		}
	}
	return "", false
}

// HasFont reports whether id names a registered font item.
func (b *Bar) HasFont(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.fonts[id]
	return ok
}

// SetAssociationChecked sets the association checkmark. Callers use it
// both for the optimistic flip and for rollback, so the displayed state
// only ever ends on a confirmed OS state.
func (b *Bar) SetAssociationChecked(checked bool) {
	b.do(func() {
		b.mu.Lock()
		if b.associate != nil {
			b.associate.Checked = checked
		}
		b.mu.Unlock()
		b.repaint()
	})
}

// AssociationChecked reports the current association checkmark.
func (b *Bar) AssociationChecked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.associate != nil && b.associate.Checked
}

func (b *Bar) do(fn func()) {
	if b.marshal != nil {
		b.marshal(fn)
		return
	}
	fn()
}

func (b *Bar) repaint() {
	if b.refresh != nil {
		b.refresh()
	}
}
