package assoc

import (
	"os"
	"path/filepath"
	"strings"
)

// DetectBundleID resolves the running app's bundle identifier: the
// MDVIEW_BUNDLE_IDENTIFIER env var wins, then the Info.plist of the
// enclosing .app bundle, then FallbackBundleID. Reading Info.plist
// keeps dev and release bundle ids both working; a hard-coded value
// makes LSSetDefaultRoleHandlerForContentType fail in dev builds.
func DetectBundleID(run RunFunc) string {
	if run == nil {
		run = runCommand
	}
	if id := os.Getenv("MDVIEW_BUNDLE_IDENTIFIER"); id != "" {
		return id
	}
	if id := bundleIDFromPlist(run); id != "" {
		return id
	}
	return FallbackBundleID
}

func bundleIDFromPlist(run RunFunc) string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	// <App>.app/Contents/MacOS/<binary>
	plist := filepath.Join(filepath.Dir(filepath.Dir(exe)), "Info.plist")
	if _, err := os.Stat(plist); err != nil {
		return ""
	}
	stdout, _, err := run("/usr/bin/defaults", "read", plist, "CFBundleIdentifier")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(stdout)
}
