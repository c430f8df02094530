// Package export writes scan results to CSV for use outside the tool.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/macsweep/macsweep/internal/core"
	"github.com/macsweep/macsweep/internal/scan"
)

var csvHeader = []string{
	"timestamp",
	"category",
	"size_bytes",
	"size_human",
	"last_modified",
	"path",
	"recommended_action",
	"status",
}

// WriteCSV writes one row per item to the given path, overwriting any
// existing file.
func WriteCSV(items []*scan.Item, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	now := time.Now().Format(time.RFC3339)
	for _, item := range items {
		row := []string{
			now,
			item.Category.String(),
			strconv.FormatInt(item.SizeBytes, 10),
			core.FormatSize(item.SizeBytes),
			core.FormatTimestamp(item.LastModified),
			item.Path,
			item.RecommendedAction,
			item.Status.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
