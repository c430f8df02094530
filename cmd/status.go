package cmd

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/spf13/cobra"

	"github.com/macsweep/macsweep/internal/core"
	"github.com/macsweep/macsweep/internal/scan"
	"github.com/macsweep/macsweep/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show disk usage at a glance",
	Long:  "Capacity of the volume holding your home directory, plus the current Trash size.",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	layout, _, _, err := loadEnvironment()
	if err != nil {
		return err
	}

	fmt.Println(ui.TitleStyle.Render("macsweep") + ui.MutedStyle.Render("  "+core.OSVersionString()))
	fmt.Println()

	usage, err := disk.Usage(layout.Home)
	if err != nil {
		return fmt.Errorf("read disk usage for %s: %w", layout.Home, err)
	}

	fmt.Printf("  Volume    %s\n", usage.Path)
	fmt.Printf("  Capacity  %s\n", core.FormatSize(int64(usage.Total)))
	fmt.Printf("  Used      %s (%.1f%%)\n", core.FormatSize(int64(usage.Used)), usage.UsedPercent)
	fmt.Printf("  Free      %s\n", core.FormatSize(int64(usage.Free)))
	fmt.Printf("  %s\n", usageBar(usage.UsedPercent, 40))
	fmt.Println()

	trashSize := scan.DirectorySize(layout.Trash, false)
	if trashSize > 0 {
		fmt.Printf("  Trash     %s  %s\n", core.FormatSize(trashSize),
			ui.MutedStyle.Render("('ms trash empty' reclaims this)"))
	} else {
		fmt.Printf("  Trash     %s\n", ui.MutedStyle.Render("empty"))
	}
	return nil
}

// usageBar renders a fixed-width used/free bar, colored by pressure.
func usageBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	style := ui.OKStyle
	switch {
	case percent >= 90:
		style = ui.ErrStyle
	case percent >= 75:
		style = ui.WarnStyle
	}

	return style.Render(strings.Repeat("█", filled)) +
		ui.MutedStyle.Render(strings.Repeat("░", width-filled))
}
