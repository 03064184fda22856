package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/codec"
	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/export"
	"github.com/thoreinstein/kce/internal/kubeconfig"
	"github.com/thoreinstein/kce/pkg/fileutil"
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <context>...",
	Short: "Export chosen contexts with their clusters and users",
	Long: `Build a standalone kubeconfig containing exactly the named contexts
plus the clusters and users they reference. Hidden entities export like
any other: an explicit export overrides visibility, which is how hidden
entities come back out of the workspace.

The export fails, naming the gaps, if any selected context references a
cluster or user that does not exist.`,
	Example: `  # Hand one context to a teammate
  kce export prod -o prod.yaml

  # A hidden context can still be exported explicitly
  kce export archived-staging -o staging.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}
	doc := ed.Document()

	ids := make(map[string]bool, len(args))
	for _, name := range args {
		ctx := doc.FindByName(kubeconfig.KindContext, name)
		if ctx == nil {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "context %q", name),
				"Run 'kce show' to list contexts")
		}
		ids[ctx.ID] = true
	}

	selected, err := export.Selected(doc, ids)
	if err != nil {
		if errors.Is(err, errors.ErrMissingReferences) {
			return errors.NewUserError(err,
				"Fix or delete the dangling references before exporting")
		}
		return err
	}

	out, err := codec.Encode(selected, codec.EncodeOptions{})
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := fileutil.AtomicWriteFile(exportOutput, out, 0o600); err != nil {
		return errors.NewSystemError(err, "Check that the output location is writable")
	}
	cmd.Printf("Exported %d contexts to %s%s%s\n", len(args), colorGreen, exportOutput, colorReset)
	return nil
}
