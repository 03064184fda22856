package commands

import (
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
	"github.com/thoreinstein/kce/internal/merge"
)

var (
	mergeHost   string
	mergePrefix string
)

func init() {
	mergeCmd.Flags().StringVar(&mergeHost, "host", "",
		"replace loopback server hosts (127.0.0.1, localhost) with this host first")
	mergeCmd.Flags().StringVar(&mergePrefix, "prefix", "",
		"prefix all imported entity names first")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <source-file>",
	Short: "Import another kubeconfig wholesale",
	Long: `Import every context, cluster, and user from a foreign kubeconfig.
Name collisions are resolved by suffixing the incoming entity (-1, -2,
...) and every reference inside the imported set follows the new names,
so nothing ever breaks or gets overwritten.

If the document has no active context yet, the import's is adopted.

--host and --prefix run the same rewrites as 'kce share' on the source
before importing, which is handy for configs copied off a dev VM.`,
	Example: `  kce merge ~/Downloads/new-cluster.yaml

  # Import a config that points at localhost
  kce merge dev-vm.yaml --host 10.1.2.3 --prefix vm-

  See Also:
    kce preview - Selective field-level merge
    kce share   - Rewrite a config for sharing without importing`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "reading %s", args[0])
	}

	if mergeHost != "" || mergePrefix != "" {
		data, err = merge.Normalize(data, merge.NormalizeOptions{
			Host:   mergeHost,
			Prefix: mergePrefix,
		})
		if err != nil {
			return err
		}
	}

	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}

	result, err := merge.Import(ed.Document(), data)
	if err != nil {
		if errors.Is(err, errors.ErrMalformedDocument) {
			return errors.NewUserError(err, "The source file is not a parseable kubeconfig")
		}
		return err
	}

	summary := "merge " + args[0]
	if err := ed.RegisterEdit(summary); err != nil {
		return err
	}
	if err := saveEditor(cmd, ed, summary); err != nil {
		return err
	}

	for _, kind := range []kubeconfig.Kind{kubeconfig.KindContext, kubeconfig.KindCluster, kubeconfig.KindUser} {
		if n := result.Added[kind]; n > 0 {
			cmd.Printf("Added %d %ss\n", n, kind)
		}
		renamed := make([]string, 0, len(result.Renamed[kind]))
		for oldName := range result.Renamed[kind] {
			renamed = append(renamed, oldName)
		}
		slices.Sort(renamed)
		for _, oldName := range renamed {
			cmd.Printf("  %s%s renamed to %s to avoid a collision%s\n",
				colorYellow, oldName, result.Renamed[kind][oldName], colorReset)
		}
	}
	return nil
}
