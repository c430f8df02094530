package tui

import (
	"fmt"
	"strings"

	"github.com/macsweep/macsweep/internal/ui"
)

func (m ScanModel) View() string {
	if m.result != nil || m.err != nil {
		// Final rendering happens in the command after the program exits.
		return ""
	}

	var s strings.Builder
	s.WriteString("\n  ")
	s.WriteString(m.spin.View())

	if m.cancelling {
		s.WriteString(ui.WarnStyle.Render(" Cancelling, keeping items found so far..."))
	} else {
		s.WriteString(ui.TitleStyle.Render(" Scanning"))
		s.WriteString(ui.MutedStyle.Render(fmt.Sprintf("  %d found", m.found)))
	}
	s.WriteString("\n  ")
	s.WriteString(ui.MutedStyle.Render(truncatePath(m.path, m.width-4)))
	s.WriteString("\n\n  ")
	s.WriteString(ui.MutedStyle.Render("q to cancel"))
	s.WriteString("\n")
	return s.String()
}

// truncatePath shortens long paths from the left so the tail, the part
// that identifies the file, stays visible.
func truncatePath(path string, max int) string {
	if max < 10 {
		max = 10
	}
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-(max-3):]
}
