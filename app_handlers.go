package main

import (
	"errors"
	"fmt"
	"os/exec"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"mdview/internal/document"
	"mdview/internal/events"
	"mdview/internal/menubar"
)

// subscribeEvents wires the presentation-side reactions to the shell's
// named notification events.
func (a *MDViewApp) subscribeEvents() {
	a.bus.Subscribe(events.OpenFile, a.handleOpenFile)
	a.bus.Subscribe(events.FileChanged, a.handleFileChanged)
	a.bus.Subscribe(events.MenuAction, a.handleMenuAction)
	a.bus.Subscribe(events.SetFont, a.handleSetFont)
	a.bus.Subscribe(events.ShowError, a.handleShowError)
	a.bus.Subscribe(events.CLIInstallResult, a.handleInstallResult)
}

func (a *MDViewApp) handleOpenFile(path string) {
	go a.loadDocument(path)
}

func (a *MDViewApp) handleFileChanged(path string) {
	a.log.Debug("App", "document changed on disk", map[string]interface{}{"path": path})
	go a.loadDocument(path)
}

func (a *MDViewApp) loadDocument(path string) {
	file, err := document.Resolve(path)
	if err != nil {
		a.log.Error("App", err, map[string]interface{}{"path": path})
		a.bus.Emit(events.ShowError, err.Error())
		return
	}

	a.mu.Lock()
	a.current = file
	a.mu.Unlock()

	if a.watch != nil {
		if err := a.watch.Follow(file.Path); err != nil {
			a.log.Warning("App", "cannot watch document", map[string]interface{}{"path": file.Path, "error": err.Error()})
		}
	}

	fyne.Do(func() {
		a.viewer.SetText(file.Content)
		a.window.SetTitle(AppName + " — " + file.Path)
	})
	a.router.SetFileActionsEnabled(true)

	a.log.Info("App", "document loaded", map[string]interface{}{"path": file.Path})
}

func (a *MDViewApp) handleMenuAction(id string) {
	file := a.currentFile()
	if file == nil {
		return
	}

	switch id {
	case menubar.IDCopyFilePath:
		a.copyToClipboard(file.Path)
	case menubar.IDCopyDirPath:
		a.copyToClipboard(file.Dir)
	case menubar.IDCopyProjectPath:
		root, ok := document.ProjectRoot(file.Path)
		if !ok {
			a.bus.Emit(events.ShowError, fmt.Sprintf("No project root (.git) found above '%s'", file.Path))
			return
		}
		a.copyToClipboard(root)
	case menubar.IDRevealFinder:
		go func() {
			if err := revealInFinder(file.Path); err != nil {
				a.bus.Emit(events.ShowError, err.Error())
			}
		}()
	}
}

func (a *MDViewApp) handleSetFont(id string) {
	a.fyneApp.Preferences().SetString(prefActiveFont, id)
	a.log.Debug("App", "font preference stored", map[string]interface{}{"font": id})
}

func (a *MDViewApp) handleShowError(message string) {
	fyne.Do(func() {
		dialog.ShowError(errors.New(message), a.window)
	})
}

func (a *MDViewApp) handleInstallResult(payload string) {
	fyne.Do(func() {
		switch payload {
		case "ok":
			dialog.ShowInformation("Command Line Tool", "Installed mdview to "+a.cfg.CLITarget, a.window)
		case "already-installed":
			dialog.ShowInformation("Command Line Tool", "The command line tool is already installed.", a.window)
		case "cancelled":
			dialog.ShowInformation("Command Line Tool", "Installation cancelled.", a.window)
		default:
			dialog.ShowError(errors.New(payload), a.window)
		}
	})
}

func (a *MDViewApp) handleOpenDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.bus.Emit(events.ShowError, err.Error())
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.bus.Emit(events.OpenFile, path)
	}, a.window)
}

func (a *MDViewApp) copyToClipboard(text string) {
	fyne.Do(func() {
		a.window.Clipboard().SetContent(text)
	})
}

func revealInFinder(path string) error {
	if err := exec.Command("open", "-R", path).Run(); err != nil {
		return fmt.Errorf("Failed to reveal in Finder: %v", err)
	}
	return nil
}
