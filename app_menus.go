package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"mdview/internal/menubar"
)

func (a *MDViewApp) setupMenus() {
	// --- File menu ---
	openItem := fyne.NewMenuItem("Open…", a.handleOpenDialog)
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}

	copyFilePath := a.newFileActionItem(menubar.IDCopyFilePath, "Copy File Path")
	copyFilePath.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	copyDirPath := a.newFileActionItem(menubar.IDCopyDirPath, "Copy Containing Folder Path")
	copyProjectPath := a.newFileActionItem(menubar.IDCopyProjectPath, "Copy Project Path")
	revealFinder := a.newFileActionItem(menubar.IDRevealFinder, "Reveal in Finder")
	revealFinder.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}

	fileMenu := fyne.NewMenu("File",
		openItem,
		fyne.NewMenuItemSeparator(),
		copyFilePath,
		copyDirPath,
		copyProjectPath,
		fyne.NewMenuItemSeparator(),
		revealFinder,
	)

	// --- View > Font menu ---
	fontLabels := []struct {
		id    string
		label string
	}{
		{menubar.FontSystem, "System Default"},
		{menubar.FontInter, "Inter"},
		{menubar.FontSerif, "Serif"},
		{menubar.FontSans, "Sans-serif"},
		{menubar.FontMono, "Monospace"},
		{menubar.FontReadable, "Readable"},
	}

	fontItems := make([]*fyne.MenuItem, 0, len(fontLabels)+1)
	for i, font := range fontLabels {
		font := font
		item := fyne.NewMenuItem(font.label, func() {
			a.router.Dispatch(font.id)
		})
		a.menuBar.AddFont(font.id, item)
		fontItems = append(fontItems, item)
		if i == 1 {
			fontItems = append(fontItems, fyne.NewMenuItemSeparator())
		}
	}

	fontSubmenu := fyne.NewMenuItem("Font", nil)
	fontSubmenu.ChildMenu = fyne.NewMenu("Font", fontItems...)
	viewMenu := fyne.NewMenu("View", fontSubmenu)

	// --- Tools menu ---
	installItem := fyne.NewMenuItem("Install Command Line Tool…", func() {
		a.router.Dispatch(menubar.IDInstallCLI)
	})

	associateItem := fyne.NewMenuItem("Associate .md Files with mdview", func() {
		a.router.Dispatch(menubar.IDAssociate)
	})
	// Seed the checkmark from the OS before the menu first shows, so
	// it starts on a confirmed state.
	associateItem.Checked = a.assocMgr.IsDefault()
	a.menuBar.SetAssociateItem(associateItem)

	toolsMenu := fyne.NewMenu("Tools", installItem, associateItem)

	// Reconcile the font group to the persisted choice while the live
	// menu is still unbuilt, so the first paint shows the final state.
	a.restoreFontPreference()

	a.mainMenu = fyne.NewMainMenu(fileMenu, viewMenu, toolsMenu)
	a.window.SetMainMenu(a.mainMenu)
}

// newFileActionItem builds a file-gated item, disabled until a
// document is loaded, and registers it with the menu bookkeeping.
func (a *MDViewApp) newFileActionItem(id, label string) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, func() {
		a.router.Dispatch(id)
	})
	item.Disabled = true
	a.menuBar.AddFileAction(id, item)
	return item
}
