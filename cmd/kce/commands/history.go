package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/store"
)

var historyJSON bool

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved versions of the document",
	Long: `List the durable version history of the document, newest first. Every
save appends a version; identical content is stored once. Versions
survive process restarts and live outside the edited file, keyed by its
canonical path.`,
	Example: `  kce history
  kce history --json

  See Also:
    kce rollback - Restore a listed version`,
	RunE: runHistory,
}

// historyEntryOutput represents a single version in JSON output.
type historyEntryOutput struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Summary string    `json:"summary"`
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}

	versions, err := ed.ListVersions()
	if err != nil {
		if errors.Is(err, store.ErrNoVersions) {
			cmd.Println("No versions recorded yet. Versions appear after the first save.")
			return nil
		}
		return err
	}

	if historyJSON {
		output := make([]historyEntryOutput, len(versions))
		for i, v := range versions {
			output[i] = historyEntryOutput{ID: v.ID, SavedAt: v.SavedAt, Summary: v.Summary}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %sID%s\t%sSAVED%s\t%sSUMMARY%s\n",
		colorBold, colorReset, colorBold, colorReset, colorBold, colorReset)
	for _, v := range versions {
		fmt.Fprintf(tw, "  %s%s%s\t%s\t%s\n",
			colorGreen, shortVersionID(v.ID), colorReset,
			v.SavedAt.Local().Format("2006-01-02 15:04:05"),
			v.Summary)
	}
	tw.Flush()
	return nil
}
