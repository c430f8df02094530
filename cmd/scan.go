package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/macsweep/macsweep/internal/config"
	"github.com/macsweep/macsweep/internal/core"
	"github.com/macsweep/macsweep/internal/export"
	"github.com/macsweep/macsweep/internal/rules"
	"github.com/macsweep/macsweep/internal/scan"
	"github.com/macsweep/macsweep/internal/tui"
	"github.com/macsweep/macsweep/internal/ui"
)

// timeRound keeps durations in summaries readable.
const timeRound = 10 * time.Millisecond

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find reclaimable disk space",
	Long: `Run every enabled detection strategy (large files, caches, old
downloads, logs, trash report) and print what could be reclaimed.
Scanning never modifies anything.`,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.Int("threshold", 0, "Large-file threshold in MB")
	f.Int("max-results", 0, "Stop after this many items across all strategies")
	f.Bool("hidden", false, "Include hidden files")
	f.Int("downloads-age", 0, "Age in days before a download counts as old")
	f.Int("cache-age", 0, "Age in days before caches (and logs) count as stale")
	f.Bool("follow-symlinks", false, "Follow symbolic links while scanning")
	f.Bool("personal", false, "Include personal folders (Documents, Desktop, ...)")
	f.StringSlice("folder", nil, "Extra folder to scan for large files (repeatable)")
	f.Bool("large", true, "Scan for large files")
	f.Bool("caches", true, "Scan app caches")
	f.Bool("downloads", true, "Scan for old downloads")
	f.Bool("logs", true, "Scan log files")
	f.Bool("trash", true, "Report trash size")
	f.String("csv", "", "Export results to a CSV file")
	f.Bool("plain", false, "Disable the interactive progress view")
}

// applyScanFlags overrides the settings snapshot with any flag the user
// set explicitly. Unset flags leave the config-file values alone.
func applyScanFlags(cmd *cobra.Command, s *config.Settings) error {
	f := cmd.Flags()
	if f.Changed("threshold") {
		s.SizeThresholdMB, _ = f.GetInt("threshold")
	}
	if f.Changed("max-results") {
		s.MaxResults, _ = f.GetInt("max-results")
	}
	if f.Changed("hidden") {
		s.IncludeHiddenFiles, _ = f.GetBool("hidden")
	}
	if f.Changed("downloads-age") {
		s.OldDownloadsDays, _ = f.GetInt("downloads-age")
	}
	if f.Changed("cache-age") {
		s.CacheAgeDays, _ = f.GetInt("cache-age")
	}
	if f.Changed("follow-symlinks") {
		s.FollowSymlinks, _ = f.GetBool("follow-symlinks")
	}
	if f.Changed("personal") {
		s.AllowPersonalDocs, _ = f.GetBool("personal")
	}
	if f.Changed("folder") {
		folders, _ := f.GetStringSlice("folder")
		s.CustomScanFolders = append(s.CustomScanFolders, folders...)
	}
	if f.Changed("large") {
		s.ScanLargeFiles, _ = f.GetBool("large")
	}
	if f.Changed("caches") {
		s.ScanCaches, _ = f.GetBool("caches")
	}
	if f.Changed("downloads") {
		s.ScanDownloads, _ = f.GetBool("downloads")
	}
	if f.Changed("logs") {
		s.ScanLogs, _ = f.GetBool("logs")
	}
	if f.Changed("trash") {
		s.ScanTrash, _ = f.GetBool("trash")
	}
	return s.Validate()
}

func runScan(cmd *cobra.Command, args []string) error {
	layout, settings, log, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := applyScanFlags(cmd, &settings); err != nil {
		return err
	}

	r := rules.New(layout)
	engine := scan.NewEngine(layout, r, settings, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	plain, _ := cmd.Flags().GetBool("plain")
	var result *scan.Result
	if !plain && isatty.IsTerminal(os.Stdout.Fd()) {
		model := tui.NewScanModel(engine, ctx, cancel)
		final, runErr := tea.NewProgram(model).Run()
		if runErr != nil {
			return runErr
		}
		result, err = final.(tui.ScanModel).Result()
	} else {
		fmt.Println("Scanning...")
		result, err = engine.Scan(ctx)
	}
	if err != nil {
		return err
	}

	printResult(result)

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		if err := export.WriteCSV(result.Items, csvPath); err != nil {
			return err
		}
		fmt.Printf("Exported %d items to %s\n", len(result.Items), csvPath)
	}
	return nil
}

// printResult renders the item table and the scan summary.
func printResult(res *scan.Result) {
	if len(res.Items) == 0 {
		fmt.Println(ui.OKStyle.Render("Nothing to reclaim."))
	}

	for _, item := range res.Items {
		marker := " "
		if item.Category == scan.CategoryTrash {
			marker = "*"
		}
		fmt.Printf("%s %-13s %10s  %s  %s\n",
			marker,
			ui.TitleStyle.Render(item.Category.String()),
			core.FormatSize(item.SizeBytes),
			ui.MutedStyle.Render(core.FormatTimestamp(item.LastModified)),
			item.Path)
	}

	fmt.Println()
	summary := fmt.Sprintf("%d items, %s reclaimable, scanned in %s",
		len(res.Items), core.FormatSize(res.TotalSize), res.Duration.Round(timeRound))
	fmt.Println(ui.TitleStyle.Render(summary))

	if res.WasCancelled {
		fmt.Println(ui.WarnStyle.Render("Scan cancelled; results are partial."))
	}
	for _, e := range res.Errors {
		fmt.Println(ui.WarnStyle.Render("warning: " + e))
	}
}
