package main

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mdview/internal/appstate"
	"mdview/internal/assoc"
	"mdview/internal/config"
	"mdview/internal/document"
	"mdview/internal/events"
	"mdview/internal/install"
	"mdview/internal/logger"
	"mdview/internal/menubar"
	"mdview/internal/router"
	"mdview/internal/watcher"
)

const (
	AppName      = "mdview"
	AppID        = "com.mdview.viewer"
	WindowWidth  = 960
	WindowHeight = 720
)

const prefActiveFont = "active_font"

// MDViewApp is the native shell: it owns the window, the menu bar
// bookkeeping and the subsystems behind the menu commands. The
// presentation side (viewer text, clipboard, dialogs) talks to it only
// through named events on the bus.
type MDViewApp struct {
	fyneApp  fyne.App
	window   fyne.Window
	cfg      *config.Config
	log      logger.Logger
	state    *appstate.State
	bus      *events.Bus
	menuBar  *menubar.Bar
	mainMenu *fyne.MainMenu
	router   *router.Router
	assocMgr *assoc.Manager
	watch    *watcher.Watcher
	viewer   *widget.Label

	mu      sync.Mutex
	current *document.File
}

func NewMDViewApp(cfg *config.Config, log logger.Logger, initialFile string) *MDViewApp {
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	bundleID := cfg.BundleID
	if bundleID == "" {
		bundleID = assoc.DetectBundleID(nil)
	}

	a := &MDViewApp{
		fyneApp:  fyneApp,
		window:   window,
		cfg:      cfg,
		log:      log,
		state:    appstate.New(initialFile),
		bus:      events.NewBus(),
		assocMgr: assoc.New(bundleID),
	}

	a.menuBar = menubar.New(fyne.Do, a.refreshMenu)
	a.router = router.New(log, a.bus, a.menuBar, a.state, a.assocMgr, install.New(cfg.CLITarget))

	w, err := watcher.New(func(path string) {
		a.bus.Emit(events.FileChanged, path)
	}, log)
	if err != nil {
		log.Warning("App", "live reload unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		a.watch = w
	}

	a.viewer = widget.NewLabel("")
	a.viewer.Wrapping = fyne.TextWrapWord

	a.subscribeEvents()

	log.Info("App", "shell initialized", map[string]interface{}{
		"bundle_id":  bundleID,
		"cli_target": cfg.CLITarget,
	})
	return a
}

func (a *MDViewApp) Run() {
	a.setupMenus()

	a.window.SetContent(container.NewScroll(a.viewer))

	a.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		if len(uris) == 0 {
			return
		}
		a.bus.Emit(events.OpenFile, uris[0].Path())
	})

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.window.Close()
	})

	if path, ok := a.state.TakeInitialFile(); ok {
		a.bus.Emit(events.OpenFile, path)
	}

	a.window.ShowAndRun()
}

// restoreFontPreference reconciles the font group to the persisted
// choice through the same path a user click takes.
func (a *MDViewApp) restoreFontPreference() {
	id := a.fyneApp.Preferences().StringWithFallback(prefActiveFont, menubar.FontSystem)
	a.router.SyncFont(id)
}

// refreshMenu repaints the native menu bar after a bookkeeping change.
// Runs on the UI thread: the Bar marshals it through fyne.Do together
// with the mutation it follows.
func (a *MDViewApp) refreshMenu() {
	if a.mainMenu == nil {
		return
	}
	a.mainMenu.Refresh()
}

func (a *MDViewApp) currentFile() *document.File {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *MDViewApp) cleanup() {
	if a.watch != nil {
		if err := a.watch.Close(); err != nil {
			a.log.Warning("App", "watcher shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
	a.log.Info("App", "shutdown complete", nil)
}
