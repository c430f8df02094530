// Package rules holds the path-safety predicates. Every check resolves
// symlinks first and compares ancestry component-wise, so a symlink into a
// protected tree or a sibling like /Library2 can never slip past a prefix.
package rules

import (
	"path/filepath"
	"strings"

	"github.com/macsweep/macsweep/internal/config"
)

// Rules evaluates path safety against a fixed layout. Predicates are pure:
// the only I/O is symlink resolution.
type Rules struct {
	home     string
	blocked  []string
	personal []string
}

// New builds the rule set for a layout. Deny-list and personal roots are
// resolved once; the paths under test are resolved per call because the
// filesystem may change between scan and delete.
func New(layout config.Layout) *Rules {
	r := &Rules{
		home:     Resolve(layout.Home),
		blocked:  make([]string, 0, len(layout.BlockedPrefixes)),
		personal: make([]string, 0, len(layout.PersonalRoots)),
	}
	for _, p := range layout.BlockedPrefixes {
		r.blocked = append(r.blocked, Resolve(p))
	}
	for _, p := range layout.PersonalRoots {
		r.personal = append(r.personal, Resolve(p))
	}
	return r
}

// Blocked reports whether the path is, or descends from, a deny-listed
// prefix. Never overridable by settings.
func (r *Rules) Blocked(path string) bool {
	resolved := Resolve(path)
	for _, prefix := range r.blocked {
		if underOrEqual(resolved, prefix) {
			return true
		}
	}
	return false
}

// Personal reports whether the path descends from a personal-content root.
func (r *Rules) Personal(path string) bool {
	resolved := Resolve(path)
	for _, root := range r.personal {
		if underOrEqual(resolved, root) {
			return true
		}
	}
	return false
}

// SafeForScan reports whether a path may be scanned: not blocked, and not
// personal unless the caller opted in.
func (r *Rules) SafeForScan(path string, allowPersonal bool) bool {
	if r.Blocked(path) {
		return false
	}
	if !allowPersonal && r.Personal(path) {
		return false
	}
	return true
}

// SafeForDeletion reports whether a path may be deleted. Strictly tighter
// than SafeForScan: the home directory and the filesystem root are refused
// even though neither sits under a deny-listed prefix.
func (r *Rules) SafeForDeletion(path string, allowPersonal bool) bool {
	if !r.SafeForScan(path, allowPersonal) {
		return false
	}
	resolved := Resolve(path)
	if resolved == r.home {
		return false
	}
	if resolved == string(filepath.Separator) {
		return false
	}
	return true
}

// Resolve returns the symlink-resolved absolute form of a path. When the
// path itself no longer exists (deletion races with scanning), the parent
// is resolved instead so blocked-prefix checks still hold.
func Resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	abs = filepath.Clean(abs)
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	dir, base := filepath.Split(abs)
	if resolvedDir, err := filepath.EvalSymlinks(filepath.Clean(dir)); err == nil {
		return filepath.Join(resolvedDir, base)
	}
	return abs
}

// underOrEqual reports whether path equals prefix or descends from it.
// Both arguments must already be resolved absolute paths. Comparison is by
// path components, not string prefix.
func underOrEqual(path, prefix string) bool {
	rel, err := filepath.Rel(prefix, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
