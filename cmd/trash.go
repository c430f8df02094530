package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macsweep/macsweep/internal/core"
	"github.com/macsweep/macsweep/internal/scan"
	"github.com/macsweep/macsweep/internal/trash"
	"github.com/macsweep/macsweep/internal/ui"
)

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Manage the Trash",
}

var trashEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Permanently empty the Trash",
	Long: `Permanently removes everything in ~/.Trash. Unlike 'clean', this
cannot be undone, so it asks for a typed confirmation. If removal fails
partway through, the entries already removed stay removed.`,
	RunE: runTrashEmpty,
}

func init() {
	trashEmptyCmd.Flags().Bool("force", false, "Skip the typed confirmation (for scripts)")
	trashCmd.AddCommand(trashEmptyCmd)
}

func runTrashEmpty(cmd *cobra.Command, args []string) error {
	layout, _, log, err := loadEnvironment()
	if err != nil {
		return err
	}

	size := scan.DirectorySize(layout.Trash, false)
	if size > 0 {
		fmt.Printf("Trash currently holds %s.\n", core.FormatSize(size))
	}

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		fmt.Println(ui.WarnStyle.Render("This permanently deletes everything in the Trash. It cannot be undone."))
		fmt.Print(`Type "empty" to confirm: `)
		reader := bufio.NewReader(os.Stdin)
		line, readErr := reader.ReadString('\n')
		if readErr != nil || strings.TrimSpace(line) != "empty" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	emptier := trash.NewEmptier(layout, log)
	msg, err := emptier.EmptyTrash()
	if err != nil {
		return err
	}
	fmt.Println(ui.OKStyle.Render(msg))
	return nil
}
