package router

import (
	"errors"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"

	"mdview/internal/appstate"
	"mdview/internal/events"
	"mdview/internal/install"
	"mdview/internal/menubar"
)

type fakeAssoc struct {
	isDefault bool
	err       error
	// errs, when set, is consumed one entry per call before err.
	errs   []error
	mu     sync.Mutex
	called chan bool
}

func (f *fakeAssoc) IsDefault() bool { return f.isDefault }

func (f *fakeAssoc) SetDefault(enable bool) (bool, error) {
	if f.called != nil {
		defer func() { f.called <- enable }()
	}
	f.mu.Lock()
	err := f.err
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	f.mu.Unlock()
	if err != nil {
		return false, err
	}
	return enable, nil
}

type fakeInstaller struct {
	outcome install.Outcome
	calls   int
}

func (f *fakeInstaller) Install() install.Outcome {
	f.calls++
	return f.outcome
}

type fixture struct {
	router    *Router
	bus       *events.Bus
	bar       *menubar.Bar
	state     *appstate.State
	assoc     *fakeAssoc
	installer *fakeInstaller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bar := menubar.New(nil, nil)
	for _, id := range []string{menubar.IDCopyFilePath, menubar.IDCopyDirPath, menubar.IDCopyProjectPath, menubar.IDRevealFinder} {
		item := fyne.NewMenuItem(id, nil)
		item.Disabled = true
		bar.AddFileAction(id, item)
	}
	for _, id := range []string{menubar.FontSystem, menubar.FontInter, menubar.FontSerif, menubar.FontSans, menubar.FontMono, menubar.FontReadable} {
		bar.AddFont(id, fyne.NewMenuItem(id, nil))
	}
	bar.SetAssociateItem(fyne.NewMenuItem("associate", nil))
	bar.SyncFont(menubar.FontSystem)

	f := &fixture{
		bus:       events.NewBus(),
		bar:       bar,
		state:     appstate.New(""),
		assoc:     &fakeAssoc{called: make(chan bool, 4)},
		installer: &fakeInstaller{},
	}
	f.router = New(nil, f.bus, f.bar, f.state, f.assoc, f.installer)
	return f
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for event")
		return ""
	}
}

func TestDispatchUnknownIDIgnored(t *testing.T) {
	f := newFixture(t)

	var fired []string
	for _, name := range []string{events.MenuAction, events.SetFont, events.ShowError, events.CLIInstallResult} {
		name := name
		f.bus.Subscribe(name, func(string) { fired = append(fired, name) })
	}

	f.router.Dispatch("export_pdf")
	f.router.Dispatch("")

	if len(fired) != 0 {
		t.Fatalf("unknown ids must be silent, got %v", fired)
	}
}

func TestDispatchCopyAndRevealEmitMenuAction(t *testing.T) {
	f := newFixture(t)

	got := make(chan string, 4)
	f.bus.Subscribe(events.MenuAction, func(payload string) { got <- payload })

	for _, id := range []string{menubar.IDCopyFilePath, menubar.IDCopyDirPath, menubar.IDCopyProjectPath, menubar.IDRevealFinder} {
		f.router.Dispatch(id)
		if payload := waitFor(t, got); payload != id {
			t.Fatalf("expected payload %q, got %q", id, payload)
		}
	}
}

func TestDispatchFontChecksAndEmits(t *testing.T) {
	f := newFixture(t)

	got := make(chan string, 1)
	f.bus.Subscribe(events.SetFont, func(payload string) { got <- payload })

	f.router.Dispatch(menubar.FontMono)

	if payload := waitFor(t, got); payload != menubar.FontMono {
		t.Fatalf("expected set-font %q, got %q", menubar.FontMono, payload)
	}
	if checked, ok := f.bar.CheckedFont(); !ok || checked != menubar.FontMono {
		t.Fatalf("expected %s checked, got %q", menubar.FontMono, checked)
	}
	if f.state.ActiveFont() != menubar.FontMono {
		t.Fatalf("app state font not updated: %q", f.state.ActiveFont())
	}
}

func TestSyncFontDoesNotEcho(t *testing.T) {
	f := newFixture(t)

	f.bus.Subscribe(events.SetFont, func(string) {
		t.Errorf("sync must not emit set-font")
	})

	f.router.SyncFont(menubar.FontReadable)

	if checked, _ := f.bar.CheckedFont(); checked != menubar.FontReadable {
		t.Fatalf("expected %s checked, got %q", menubar.FontReadable, checked)
	}
	if f.state.ActiveFont() != menubar.FontReadable {
		t.Fatalf("app state font not updated")
	}
}

func TestInstallOutcomeReportedAsEvent(t *testing.T) {
	cases := []struct {
		outcome install.Outcome
		want    string
	}{
		{install.Outcome{Status: install.StatusInstalled}, "ok"},
		{install.Outcome{Status: install.StatusAlreadyInstalled}, "already-installed"},
		{install.Outcome{Status: install.StatusCancelled}, "cancelled"},
		{install.Outcome{Status: install.StatusFailed, Err: errors.New("no permission")}, "Failed: no permission"},
	}

	for _, tc := range cases {
		f := newFixture(t)
		f.installer.outcome = tc.outcome

		got := make(chan string, 1)
		f.bus.Subscribe(events.CLIInstallResult, func(payload string) { got <- payload })

		f.router.Dispatch(menubar.IDInstallCLI)

		if payload := waitFor(t, got); payload != tc.want {
			t.Fatalf("expected payload %q, got %q", tc.want, payload)
		}
		if f.installer.calls != 1 {
			t.Fatalf("expected one install call, got %d", f.installer.calls)
		}
	}
}

func TestAssociationToggleConfirmed(t *testing.T) {
	f := newFixture(t)

	f.router.Dispatch(menubar.IDAssociate)

	select {
	case enable := <-f.assoc.called:
		if !enable {
			t.Fatalf("expected enable toggle from unchecked state")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("association toggle never ran")
	}
	if !f.bar.AssociationChecked() {
		t.Fatalf("confirmed toggle must leave checkmark set")
	}
}

func TestAssociationToggleRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	f.assoc.err = errors.New("Failed to set file association. err")

	got := make(chan string, 1)
	f.bus.Subscribe(events.ShowError, func(payload string) { got <- payload })

	f.router.Dispatch(menubar.IDAssociate)

	payload := waitFor(t, got)
	if payload != f.assoc.err.Error() {
		t.Fatalf("expected error surfaced verbatim, got %q", payload)
	}
	if f.bar.AssociationChecked() {
		t.Fatalf("failed toggle must revert the checkmark")
	}
}

func TestAssociationDisableRollsBackToChecked(t *testing.T) {
	f := newFixture(t)
	f.bar.SetAssociationChecked(true)
	f.assoc.err = errors.New("toggle failed")

	got := make(chan string, 1)
	f.bus.Subscribe(events.ShowError, func(payload string) { got <- payload })

	f.router.Dispatch(menubar.IDAssociate)

	waitFor(t, got)
	if !f.bar.AssociationChecked() {
		t.Fatalf("failed disable must revert the checkmark to checked")
	}
}

func TestRapidTogglesEndOnConfirmedState(t *testing.T) {
	f := newFixture(t)
	// One toggle confirms, the other fails; whichever order the two
	// goroutines run in, the checkmark must end matching the OS.
	f.assoc.errs = []error{nil, errors.New("toggle failed")}

	errCh := make(chan string, 1)
	f.bus.Subscribe(events.ShowError, func(payload string) { errCh <- payload })

	f.router.Dispatch(menubar.IDAssociate)
	f.router.Dispatch(menubar.IDAssociate)

	waitFor(t, errCh)
	for i := 0; i < 2; i++ {
		select {
		case <-f.assoc.called:
		case <-time.After(5 * time.Second):
			t.Fatalf("toggle %d never ran", i+1)
		}
	}

	// The successful call enabled the association from an unchecked
	// start; the failed one rolled back to that confirmed state.
	if !f.bar.AssociationChecked() {
		t.Fatalf("checkmark contradicts the confirmed OS state")
	}
}

func TestSetFileActionsEnabledForwards(t *testing.T) {
	f := newFixture(t)

	f.router.SetFileActionsEnabled(true)
	if !f.bar.FileActionsEnabled() {
		t.Fatalf("expected file actions enabled")
	}
	f.router.SetFileActionsEnabled(false)
	f.router.SetFileActionsEnabled(true)
	if !f.bar.FileActionsEnabled() {
		t.Fatalf("expected all file actions enabled after disable/enable cycle")
	}
}
