// Package core holds small helpers shared by every command surface.
package core

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count for humans using binary units.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatTimestamp renders a modification time for table display.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
