package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
	"github.com/thoreinstein/kce/internal/merge"
)

var (
	previewSourceContext string
	previewTargetContext string
)

func init() {
	previewCmd.Flags().StringVar(&previewSourceContext, "context", "",
		"source context to compare (default: the source's current context)")
	previewCmd.Flags().StringVar(&previewTargetContext, "into", "",
		"target context to compare against (default: same name as source)")
	rootCmd.AddCommand(previewCmd)

	applyCmd.Flags().StringVar(&previewSourceContext, "context", "",
		"source context to compare (default: the source's current context)")
	applyCmd.Flags().StringVar(&previewTargetContext, "into", "",
		"target context to apply into (default: same name as source)")
	rootCmd.AddCommand(applyCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <source-file>",
	Short: "Show what a selective merge would change, without changing anything",
	Long: `Compare one context of a foreign kubeconfig (plus its cluster and
user) against a context in the document, field by field. Each change is
listed with a stable id usable with 'kce apply --select'.

Unresolvable references on either side are reported as warnings and
their entity's fields are skipped rather than guessed at.`,
	Example: `  # Compare the source's current context against its namesake
  kce preview teammate.yaml

  # Pin both sides explicitly
  kce preview teammate.yaml --context prod --into prod-east`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

var applyCmd = &cobra.Command{
	Use:   "apply <source-file>",
	Short: "Apply selected changes from a preview",
	Long: `Apply field-level changes from a foreign kubeconfig. With --select,
only the named change ids are applied; without it, every previewed
change is. Selecting nothing to apply is a no-op, not an error.`,
	Example: `  # Apply everything the preview showed
  kce apply teammate.yaml

  # Apply just one field
  kce apply teammate.yaml --select "cluster|prod|server"`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

var applySelect []string

func init() {
	applyCmd.Flags().StringArrayVar(&applySelect, "select", nil,
		"change id to apply (repeatable; default: all)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}
	preview, err := previewAgainst(ed.Document(), args[0])
	if err != nil {
		return err
	}
	printPreview(cmd, preview)
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}
	preview, err := previewAgainst(ed.Document(), args[0])
	if err != nil {
		return err
	}

	selected := make(map[string]bool)
	if len(applySelect) > 0 {
		known := make(map[string]bool, len(preview.Changes))
		for _, c := range preview.Changes {
			known[c.ID] = true
		}
		for _, id := range applySelect {
			if !known[id] {
				return errors.NewUserError(
					errors.Newf("unknown change id %q", id),
					"Run 'kce preview' to list change ids")
			}
			selected[id] = true
		}
	} else {
		for _, c := range preview.Changes {
			selected[c.ID] = true
		}
	}

	applied := merge.ApplyPreview(ed.Document(), preview, selected)
	if applied == 0 {
		cmd.Println("Nothing to apply")
		return nil
	}

	summary := fmt.Sprintf("apply %d changes from %s", applied, args[0])
	if err := ed.RegisterEdit(summary); err != nil {
		return err
	}
	if err := saveEditor(cmd, ed, summary); err != nil {
		return err
	}
	cmd.Printf("Applied %s%d%s changes\n", colorGreen, applied, colorReset)
	return nil
}

func previewAgainst(doc *kubeconfig.Document, sourceFile string) (*merge.Preview, error) {
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", sourceFile)
	}

	targetName := previewTargetContext
	if targetName == "" {
		// Default target: the context sharing the source context's name.
		probe, err := merge.BuildPreview(doc, data, previewSourceContext, anyContextID(doc))
		if err != nil {
			return nil, err
		}
		targetName = probe.SelectedContextName
	}

	target := doc.FindByName(kubeconfig.KindContext, targetName)
	if target == nil {
		return nil, errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "context %q", targetName),
			"Pick a target with --into")
	}
	return merge.BuildPreview(doc, data, previewSourceContext, target.ID)
}

func anyContextID(doc *kubeconfig.Document) string {
	if len(doc.Contexts) == 0 {
		return ""
	}
	return doc.Contexts[0].ID
}

func printPreview(cmd *cobra.Command, preview *merge.Preview) {
	cmd.Printf("Source context: %s%s%s\n", colorCyan, preview.SelectedContextName, colorReset)

	for _, w := range preview.Warnings {
		cmd.Printf("%swarning: %s%s\n", colorYellow, w, colorReset)
	}

	if len(preview.Changes) == 0 {
		cmd.Println("No differences")
		return
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %sID%s\t%sCURRENT%s\t%sINCOMING%s\n",
		colorBold, colorReset, colorBold, colorReset, colorBold, colorReset)
	for _, c := range preview.Changes {
		oldValue := c.OldValue
		if oldValue == "" {
			oldValue = colorGray + "(unset)" + colorReset
		}
		fmt.Fprintf(tw, "  %s%s%s\t%s\t%s\n",
			colorGreen, c.ID, colorReset, truncate(oldValue, 40), truncate(c.NewValue, 40))
	}
	tw.Flush()
}
