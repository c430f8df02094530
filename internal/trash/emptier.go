package trash

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/macsweep/macsweep/internal/config"
)

// Emptier permanently removes everything in the trash root. This is the
// only irreversible operation in the tool, which is why it lives apart
// from the mover and sits behind a stronger confirmation in the CLI.
type Emptier struct {
	layout config.Layout
	log    *slog.Logger
}

// NewEmptier builds an emptier for the given layout.
func NewEmptier(layout config.Layout, log *slog.Logger) *Emptier {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Emptier{layout: layout, log: log}
}

// EmptyTrash removes every direct entry of the trash root recursively. An
// absent or empty root is a no-op success, so repeated calls are
// idempotent. On the first removal error it stops immediately: entries
// already removed stay removed, and the error reports how far it got.
// This is a best-effort bulk delete, not a transaction.
func (e *Emptier) EmptyTrash() (string, error) {
	entries, err := os.ReadDir(e.layout.Trash)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "Trash is already empty.", nil
		}
		return "", fmt.Errorf("read trash: %w", err)
	}
	if len(entries) == 0 {
		return "Trash is already empty.", nil
	}

	removed := 0
	for _, entry := range entries {
		path := filepath.Join(e.layout.Trash, entry.Name())

		var rmErr error
		if entry.IsDir() {
			rmErr = os.RemoveAll(path)
		} else {
			rmErr = os.Remove(path)
		}
		if rmErr != nil {
			e.log.Error("failed to remove trash entry", "path", path, "error", rmErr)
			return "", fmt.Errorf("removed %d of %d items, then failed on %s: %w",
				removed, len(entries), entry.Name(), rmErr)
		}
		removed++
	}

	e.log.Info("emptied trash", "items", removed)
	return fmt.Sprintf("Trash emptied: %d items removed.", removed), nil
}
