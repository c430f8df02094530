// Package trash moves items into the recoverable trash directory and,
// separately, empties it. Every mutation re-checks the safety rules first;
// a stale scan result can never bypass them.
package trash

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/macsweep/macsweep/internal/config"
	"github.com/macsweep/macsweep/internal/rules"
	"github.com/macsweep/macsweep/internal/scan"
)

// FailureKind is the closed set of per-item failure causes.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureSafetyBlocked
	FailureNotFound
	FailurePermission
	FailureIO
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "None"
	case FailureSafetyBlocked:
		return "SafetyBlocked"
	case FailureNotFound:
		return "NotFound"
	case FailurePermission:
		return "Permission"
	case FailureIO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Outcome is the per-item deletion record. The item's Status and
// FailureReason fields are mutated in step; the Outcome mirrors them.
type Outcome struct {
	Item    *scan.Item
	OK      bool
	Message string
	Kind    FailureKind
}

// maxNameProbes bounds the collision suffix search so a pathological trash
// directory cannot spin the mover forever.
const maxNameProbes = 10000

// Mover is the deletion engine. It processes items strictly sequentially
// in input order; one failure never blocks the items after it. Callers
// must exclude items already inside the trash (the emptier owns those) and
// must have obtained the user's confirmation before calling Delete with
// dryRun off.
type Mover struct {
	layout config.Layout
	rules  *rules.Rules
	log    *slog.Logger
}

// NewMover builds a mover for the given layout and rule set.
func NewMover(layout config.Layout, r *rules.Rules, log *slog.Logger) *Mover {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Mover{layout: layout, rules: r, log: log}
}

// Delete processes every item and returns one outcome per input. The
// dry-run branch runs before any safety check, so a dry run is harmless
// for any selection, including unsafe paths.
func (m *Mover) Delete(items []*scan.Item, allowPersonal, dryRun bool) []Outcome {
	outcomes := make([]Outcome, 0, len(items))

	for _, item := range items {
		if dryRun {
			item.Status = scan.StatusSkipped
			outcomes = append(outcomes, Outcome{Item: item, OK: true, Message: "Dry run - no changes made"})
			continue
		}

		if !m.rules.SafeForDeletion(item.Path, allowPersonal) {
			m.log.Warn("blocked deletion of unsafe path", "path", item.Path)
			outcomes = append(outcomes, m.fail(item, FailureSafetyBlocked, "Blocked by safety rules"))
			continue
		}

		if _, err := os.Lstat(item.Path); err != nil {
			outcomes = append(outcomes, m.fail(item, FailureNotFound, "File not found"))
			continue
		}

		dest, err := m.freeName(filepath.Base(item.Path))
		if err != nil {
			outcomes = append(outcomes, m.fail(item, FailureIO, err.Error()))
			continue
		}

		if err := m.move(item.Path, dest); err != nil {
			kind := FailureIO
			if errors.Is(err, fs.ErrPermission) {
				kind = FailurePermission
			}
			m.log.Error("failed to trash item", "path", item.Path, "error", err)
			outcomes = append(outcomes, m.fail(item, kind, err.Error()))
			continue
		}

		m.log.Info("moved to trash", "path", item.Path, "dest", dest)
		item.Status = scan.StatusTrashed
		outcomes = append(outcomes, Outcome{Item: item, OK: true, Message: "Moved to Trash"})
	}

	return outcomes
}

func (m *Mover) fail(item *scan.Item, kind FailureKind, msg string) Outcome {
	item.Status = scan.StatusFailed
	item.FailureReason = msg
	return Outcome{Item: item, OK: false, Message: msg, Kind: kind}
}

// freeName creates the trash directory on demand and picks a destination
// that does not collide: name.ext, then name_1.ext, name_2.ext, and so on.
// Existing trash entries are never overwritten. The probe count is bounded
// and exhaustion is an explicit failure.
func (m *Mover) freeName(base string) (string, error) {
	if err := os.MkdirAll(m.layout.Trash, 0o700); err != nil {
		return "", fmt.Errorf("create trash dir: %w", err)
	}

	dest := filepath.Join(m.layout.Trash, base)
	if !pathExists(dest) {
		return dest, nil
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; i <= maxNameProbes; i++ {
		candidate := filepath.Join(m.layout.Trash, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !pathExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free trash name for %q after %d attempts", base, maxNameProbes)
}

// move renames src into the trash, falling back to copy-and-remove when
// the source lives on a different filesystem than the trash directory.
func (m *Mover) move(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	info, statErr := os.Lstat(src)
	if statErr != nil {
		return statErr
	}
	if info.IsDir() {
		if copyErr := os.CopyFS(dest, os.DirFS(src)); copyErr != nil {
			return copyErr
		}
	} else if copyErr := copyFile(src, dest, info); copyErr != nil {
		return copyErr
	}
	return os.RemoveAll(src)
}

func copyFile(src, dest string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
