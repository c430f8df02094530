package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macsweep/macsweep/internal/core"
	"github.com/macsweep/macsweep/internal/rules"
	"github.com/macsweep/macsweep/internal/scan"
	"github.com/macsweep/macsweep/internal/trash"
	"github.com/macsweep/macsweep/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long: `Scan, then move the findings to the Trash. Runs as a dry run unless
--apply is given; every item is re-checked against the safety rules
immediately before it is touched.`,
	RunE: runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.Bool("apply", false, "Actually move items to Trash (default is dry run)")
	f.Bool("yes", false, "Skip the confirmation prompt")
	f.Bool("personal", false, "Include personal folders (Documents, Desktop, ...)")
	f.Bool("large", false, "Clean large files only")
	f.Bool("caches", false, "Clean app caches only")
	f.Bool("downloads", false, "Clean old downloads only")
	f.Bool("logs", false, "Clean log files only")
	f.Int("threshold", 0, "Large-file threshold in MB")
	f.Int("downloads-age", 0, "Age in days before a download counts as old")
	f.Int("cache-age", 0, "Age in days before caches (and logs) count as stale")
}

// selectedCategories returns the category filter. With no category flag
// set, every deletable category is in scope. The trash summary item is
// never deletable here; 'ms trash empty' owns the trash root.
func selectedCategories(cmd *cobra.Command) map[scan.Category]bool {
	f := cmd.Flags()
	large, _ := f.GetBool("large")
	caches, _ := f.GetBool("caches")
	downloads, _ := f.GetBool("downloads")
	logs, _ := f.GetBool("logs")

	if !large && !caches && !downloads && !logs {
		return map[scan.Category]bool{
			scan.CategoryLargeFile:   true,
			scan.CategoryCache:       true,
			scan.CategoryOldDownload: true,
			scan.CategoryLogFile:     true,
		}
	}
	return map[scan.Category]bool{
		scan.CategoryLargeFile:   large,
		scan.CategoryCache:       caches,
		scan.CategoryOldDownload: downloads,
		scan.CategoryLogFile:     logs,
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	layout, settings, log, err := loadEnvironment()
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("threshold") {
		settings.SizeThresholdMB, _ = f.GetInt("threshold")
	}
	if f.Changed("downloads-age") {
		settings.OldDownloadsDays, _ = f.GetInt("downloads-age")
	}
	if f.Changed("cache-age") {
		settings.CacheAgeDays, _ = f.GetInt("cache-age")
	}
	if f.Changed("personal") {
		settings.AllowPersonalDocs, _ = f.GetBool("personal")
	}
	if apply, _ := f.GetBool("apply"); apply {
		settings.DryRun = false
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	r := rules.New(layout)
	engine := scan.NewEngine(layout, r, settings, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fmt.Println("Scanning...")
	result, err := engine.Scan(ctx)
	if err != nil {
		return err
	}

	wanted := selectedCategories(cmd)
	var items []*scan.Item
	for _, item := range result.Items {
		if wanted[item.Category] {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		fmt.Println(ui.OKStyle.Render("Nothing to clean."))
		return nil
	}

	var total int64
	for _, item := range items {
		total += item.SizeBytes
		fmt.Printf("  %-13s %10s  %s\n",
			item.Category.String(), core.FormatSize(item.SizeBytes), item.Path)
	}
	fmt.Println()

	if settings.DryRun {
		fmt.Println(ui.MutedStyle.Render(
			fmt.Sprintf("Dry run: %d items (%s) would move to Trash. Re-run with --apply.",
				len(items), core.FormatSize(total))))
	} else {
		yes, _ := f.GetBool("yes")
		if !yes && !confirm(fmt.Sprintf("Move %d items (%s) to Trash? [y/N]: ",
			len(items), core.FormatSize(total))) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	mover := trash.NewMover(layout, r, log)
	outcomes := mover.Delete(items, settings.AllowPersonalDocs, settings.DryRun)
	printOutcomes(outcomes)
	return nil
}

// confirm reads a y/N answer from stdin.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printOutcomes(outcomes []trash.Outcome) {
	var trashed, skipped, failed int
	var freed int64
	for _, o := range outcomes {
		switch o.Item.Status {
		case scan.StatusTrashed:
			trashed++
			freed += o.Item.SizeBytes
		case scan.StatusSkipped:
			skipped++
		case scan.StatusFailed:
			failed++
			fmt.Printf("%s %s: %s\n", ui.ErrStyle.Render("failed"), o.Item.Path, o.Message)
		}
	}

	switch {
	case skipped > 0 && trashed == 0 && failed == 0:
		fmt.Println(ui.MutedStyle.Render(fmt.Sprintf("Dry run complete: %d items untouched.", skipped)))
	case failed == 0:
		fmt.Println(ui.OKStyle.Render(fmt.Sprintf("Moved %d items (%s) to Trash.", trashed, core.FormatSize(freed))))
	default:
		fmt.Println(ui.WarnStyle.Render(fmt.Sprintf("Moved %d items (%s) to Trash, %d failed.",
			trashed, core.FormatSize(freed), failed)))
	}
}
