package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/state"
)

func init() {
	rootCmd.AddCommand(recentCmd)
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened kubeconfig files",
	Long: `List the files kce has recently worked on, most recent first. Use one
with -f to edit it again.`,
	Example: `  kce recent
  kce show -f "$(kce recent | head -1 | awk '{print $2}')"`,
	RunE: runRecent,
}

func runRecent(cmd *cobra.Command, _ []string) error {
	st := state.Load("")
	if len(st.Recent) == 0 {
		cmd.Println("No recent files. kce remembers every file it opens.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, r := range st.Recent {
		fmt.Fprintf(tw, "  %s%s%s\t%s\n",
			colorGray, r.OpenedAt.Local().Format("2006-01-02 15:04"), colorReset, r.Path)
	}
	tw.Flush()
	return nil
}
