// Package install places a command line launcher for the app by
// symlinking the running executable into a system directory, escalating
// through the OS elevation prompt only when the unprivileged attempt
// fails.
package install

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// DefaultTarget is the launcher location on the system PATH.
const DefaultTarget = "/usr/local/bin/mdview"

// ErrDeclined marks a user-declined elevation prompt. Declining is an
// expected outcome, not an error.
var ErrDeclined = errors.New("elevation declined by user")

// Status classifies an install attempt.
type Status int

const (
	StatusInstalled Status = iota
	StatusAlreadyInstalled
	StatusCancelled
	StatusFailed
)

// Outcome is the tri-state-plus-idempotent result of an install
// attempt. Err is set only for StatusFailed.
type Outcome struct {
	Status Status
	Err    error
}

// Payload maps the outcome onto the wire payload of the
// cli-install-result notification.
func (o Outcome) Payload() string {
	switch o.Status {
	case StatusAlreadyInstalled:
		return "already-installed"
	case StatusInstalled:
		return "ok"
	case StatusCancelled:
		return "cancelled"
	default:
		if o.Err == nil {
			return "Failed: unknown error"
		}
		return fmt.Sprintf("Failed: %v", o.Err)
	}
}

// ElevateFunc runs a single shell command with administrator privilege,
// returning ErrDeclined when the user dismisses the prompt. Injected so
// the install flow is testable without a privilege prompt.
type ElevateFunc func(shellCmd string) error

// ExecutableFunc resolves the running binary's path.
type ExecutableFunc func() (string, error)

// Installer symlinks the running executable to Target.
type Installer struct {
	Target     string
	Executable ExecutableFunc
	Elevate    ElevateFunc
}

// New creates an Installer for target, defaulting to DefaultTarget and
// the osascript elevation prompt.
func New(target string) *Installer {
	if target == "" {
		target = DefaultTarget
	}
	return &Installer{
		Target:     target,
		Executable: os.Executable,
		Elevate:    osascriptElevate,
	}
}

// Install runs the launcher installation. A matching existing symlink
// short-circuits with no filesystem mutation and no privilege prompt;
// otherwise a stale target is removed, an unprivileged symlink is
// attempted, and only on failure does the flow fall back to exactly one
// elevated ln -sf.
func (i *Installer) Install() Outcome {
	exe, err := i.Executable()
	if err != nil {
		return Outcome{Status: StatusFailed, Err: fmt.Errorf("failed to locate binary: %w", err)}
	}

	if existing, err := os.Readlink(i.Target); err == nil && existing == exe {
		return Outcome{Status: StatusAlreadyInstalled}
	}

	if _, err := os.Lstat(i.Target); err == nil {
		os.Remove(i.Target)
	}

	if err := os.Symlink(exe, i.Target); err == nil {
		return Outcome{Status: StatusInstalled}
	}

	// Target directory is not writable by this user; ask once for
	// administrator privilege, scoped to the single link command.
	shellCmd := fmt.Sprintf("ln -sf '%s' '%s'", exe, i.Target)
	switch err := i.Elevate(shellCmd); {
	case err == nil:
		return Outcome{Status: StatusInstalled}
	case errors.Is(err, ErrDeclined):
		return Outcome{Status: StatusCancelled}
	default:
		return Outcome{Status: StatusFailed, Err: err}
	}
}

// osascriptElevate shows the OS elevation prompt for one shell command.
// A non-zero exit means the user declined.
func osascriptElevate(shellCmd string) error {
	script := fmt.Sprintf("do shell script %q with administrator privileges", shellCmd)
	err := exec.Command("osascript", "-e", script).Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ErrDeclined
	}
	return err
}
