// Package assoc owns the OS file-association boundary for markdown
// files. The OS exposes no stable command line for default-handler
// registration, only the LaunchServices framework API, so both the
// probe and the toggle shell out to the swift interpreter. That fragile
// boundary lives entirely inside this package; no caller ever sees a
// script string.
package assoc

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

const (
	// MarkdownUTI is the content-type identifier for markdown files.
	MarkdownUTI = "net.daringfireball.markdown"

	// FallbackBundleID is used when the running bundle's identifier
	// cannot be detected. Must match the built app's bundle id.
	FallbackBundleID = "com.mdview.viewer"

	// fallbackHandler takes over .md files when the association is
	// switched off.
	fallbackHandler = "com.apple.TextEdit"

	successMarker = "ok"
)

// RunFunc executes an external command and returns its stdout, stderr
// and any spawn or exit error. Injected so the state machine above this
// package is testable without the OS dependency.
type RunFunc func(name string, args ...string) (stdout, stderr string, err error)

// Error reports a failed association toggle. It carries the external
// process's stderr plus remediation text the UI shows verbatim.
type Error struct {
	Enable bool
	Stderr string
}

func (e *Error) Error() string {
	verb := "set"
	if !e.Enable {
		verb = "remove"
	}
	return fmt.Sprintf(
		"Failed to %s file association. %s\n\nTry: ensure you are running the built app bundle and that it is in /Applications.\nYou can always change this in Finder: right-click a .md file → Get Info → Open With.",
		verb, e.Stderr,
	)
}

// Manager queries and sets the OS default handler for markdown files,
// mediated by a fixed application bundle identifier.
type Manager struct {
	bundleID string
	run      RunFunc
}

// New creates a Manager for the given bundle identifier. An empty id
// falls back to FallbackBundleID.
func New(bundleID string) *Manager {
	if bundleID == "" {
		bundleID = FallbackBundleID
	}
	return &Manager{bundleID: bundleID, run: runCommand}
}

// NewWithRunner is New with an injected process runner, for tests.
func NewWithRunner(bundleID string, run RunFunc) *Manager {
	m := New(bundleID)
	m.run = run
	return m
}

// BundleID returns the identifier this Manager registers.
func (m *Manager) BundleID() string { return m.bundleID }

// IsDefault reports whether this app is the OS default handler for
// markdown files. Every failure mode — spawn error, non-zero exit,
// handler mismatch — reads as false; the probe never errors.
func (m *Manager) IsDefault() bool {
	stdout, _, err := m.run("swift", "-e", probeScript())
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(stdout), m.bundleID)
}

// SetDefault registers this app as the markdown handler when enable is
// true, or hands the type back to the fallback editor when false.
// Success is detected only by the interpreter's explicit marker on
// stdout; a clean exit alone is not trusted.
func (m *Manager) SetDefault(enable bool) (bool, error) {
	target := m.bundleID
	if !enable {
		target = fallbackHandler
	}

	stdout, stderr, err := m.run("swift", "-e", setScript(target))
	if err != nil {
		return false, &Error{Enable: enable, Stderr: fmt.Sprintf("Failed to run swift: %v", err)}
	}
	if strings.TrimSpace(stdout) != successMarker {
		return false, &Error{Enable: enable, Stderr: strings.TrimSpace(stderr)}
	}
	return enable, nil
}

func probeScript() string {
	return fmt.Sprintf(
		`import CoreServices; import Foundation; if let h = LSCopyDefaultRoleHandlerForContentType(%q as NSString as CFString, .all) { print(h.takeRetainedValue()) } else { print("none") }`,
		MarkdownUTI,
	)
}

func setScript(target string) string {
	return fmt.Sprintf(
		`import CoreServices; import Foundation; let r = LSSetDefaultRoleHandlerForContentType(%q as NSString as CFString, .all, %q as NSString as CFString); print(r == 0 ? "ok" : "err")`,
		MarkdownUTI, target,
	)
}

func runCommand(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
