// Package router dispatches menu activation ids to their handlers and
// keeps the menu bar, the in-memory app state and the OS association
// registry mutually consistent afterwards.
package router

import (
	"strings"
	"sync"

	"mdview/internal/appstate"
	"mdview/internal/events"
	"mdview/internal/install"
	"mdview/internal/logger"
	"mdview/internal/menubar"
)

// Association is the probe/toggle boundary for the OS default-handler
// registry (implemented by assoc.Manager, faked in tests).
type Association interface {
	IsDefault() bool
	SetDefault(enable bool) (bool, error)
}

// Installer runs the CLI launcher installation.
type Installer interface {
	Install() install.Outcome
}

// Router receives opaque menu command identifiers and routes each to
// exactly one handler. Unknown identifiers are silently ignored so
// menu additions stay forward-compatible.
type Router struct {
	log       logger.Logger
	bus       *events.Bus
	bar       *menubar.Bar
	state     *appstate.State
	assoc     Association
	installer Installer

	// assocMu serializes the association toggle sub-machine only, so
	// a rollback always restores the true pre-toggle value. It guards
	// no state any other command touches; dispatches of other ids
	// never wait on it.
	assocMu sync.Mutex
}

func New(log logger.Logger, bus *events.Bus, bar *menubar.Bar, state *appstate.State, assoc Association, installer Installer) *Router {
	if log == nil {
		log = logger.Nop{}
	}
	return &Router{
		log:       log,
		bus:       bus,
		bar:       bar,
		state:     state,
		assoc:     assoc,
		installer: installer,
	}
}

// Dispatch routes a menu activation. Long-running OS work (install,
// association toggle) runs on its own goroutine, off every lock, and
// reports back through notification events.
func (r *Router) Dispatch(id string) {
	switch id {
	case menubar.IDInstallCLI:
		go r.runInstall()
	case menubar.IDCopyFilePath, menubar.IDCopyDirPath, menubar.IDCopyProjectPath, menubar.IDRevealFinder:
		r.bus.Emit(events.MenuAction, id)
	case menubar.IDAssociate:
		go r.toggleAssociation()
	default:
		if strings.HasPrefix(id, menubar.FontPrefix) {
			r.selectFont(id)
			return
		}
		r.log.Debug("Router", "ignoring unknown menu id", map[string]interface{}{"id": id})
	}
}

// SyncFont reconciles the font group to an externally-known preference
// (e.g. one restored from persisted settings). Same reconciliation as a
// user click, but emits no set-font event back at the originator.
func (r *Router) SyncFont(id string) {
	r.bar.SyncFont(id)
	r.state.SetActiveFont(id)
}

// SetFileActionsEnabled forwards the presentation layer's
// document-loaded signal to the file-action group.
func (r *Router) SetFileActionsEnabled(enabled bool) {
	r.bar.SetFileActionsEnabled(enabled)
}

func (r *Router) selectFont(id string) {
	r.bar.SyncFont(id)
	r.state.SetActiveFont(id)
	r.bus.Emit(events.SetFont, id)
}

// runInstall reports its outcome asynchronously as a notification;
// privilege elevation is human-paced and never returns through the
// menu-click path.
func (r *Router) runInstall() {
	outcome := r.installer.Install()
	if outcome.Status == install.StatusFailed {
		r.log.Error("Router", outcome.Err, map[string]interface{}{"operation": "install_cli"})
	}
	r.bus.Emit(events.CLIInstallResult, outcome.Payload())
}

// toggleAssociation drives the two-phase checkmark machine: flip
// optimistically, confirm against the OS, roll back on failure. The
// checkmark therefore never shows a state the OS does not have.
func (r *Router) toggleAssociation() {
	r.assocMu.Lock()
	defer r.assocMu.Unlock()

	was := r.bar.AssociationChecked()
	target := !was

	r.bar.SetAssociationChecked(target)

	if _, err := r.assoc.SetDefault(target); err != nil {
		r.bar.SetAssociationChecked(was)
		r.log.Error("Router", err, map[string]interface{}{"operation": "associate_md", "enable": target})
		r.bus.Emit(events.ShowError, err.Error())
		return
	}
	r.log.Info("Router", "file association updated", map[string]interface{}{"enabled": target})
}
