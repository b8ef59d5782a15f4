package document

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// File is a fully resolved markdown document.
type File struct {
	// Path is the canonical absolute path with every symlink and
	// relative segment resolved.
	Path string
	// Dir is the canonical parent directory, empty when the path
	// has no parent.
	Dir string
	// Content is the file's full UTF-8 text.
	Content string
}

type errorKind int

const (
	// KindUnresolvable covers non-existent paths, permission denial
	// and any other canonicalization failure.
	KindUnresolvable errorKind = iota
	// KindUnreadable covers read and text-decoding failures on a
	// path that did resolve.
	KindUnreadable
)

// PathError reports a resolution or read failure verbatim, with enough
// detail to show the user. Nothing in this package retries.
type PathError struct {
	Kind errorKind
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Kind == KindUnreadable {
		return fmt.Sprintf("Cannot read file '%s': %v", e.Path, e.Err)
	}
	return fmt.Sprintf("Cannot resolve path '%s': %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Resolve turns a user-supplied path into a canonical File. Relative
// paths are joined to the process working directory before
// canonicalization.
func Resolve(path string) (*File, error) {
	resolved := path
	if !filepath.IsAbs(resolved) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &PathError{Kind: KindUnresolvable, Path: path, Err: err}
		}
		// Plain concatenation: Join's lexical cleanup would strip
		// ".." segments before the symlinks in front of them are
		// resolved.
		resolved = wd + string(filepath.Separator) + resolved
	}

	// EvalSymlinks resolves components in order, so a ".." applies to
	// the link target's parent rather than the link's. Its result is
	// already clean.
	canonical, err := filepath.EvalSymlinks(resolved)
	if err != nil {
		return nil, &PathError{Kind: KindUnresolvable, Path: path, Err: err}
	}

	data, err := os.ReadFile(canonical)
	if err != nil {
		return nil, &PathError{Kind: KindUnreadable, Path: canonical, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &PathError{Kind: KindUnreadable, Path: canonical, Err: fmt.Errorf("not valid UTF-8 text")}
	}

	dir := filepath.Dir(canonical)
	if dir == canonical {
		// canonical is a root and has no parent
		dir = ""
	}

	return &File{
		Path:    canonical,
		Dir:     dir,
		Content: string(data),
	}, nil
}

// ProjectRoot walks up from path looking for a directory containing a
// .git entry. Powers the copy-project-path menu action.
func ProjectRoot(path string) (string, bool) {
	dir := path
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		if _, err := os.Lstat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
