package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/merge"
	"github.com/thoreinstein/kce/pkg/fileutil"
)

var (
	shareHost   string
	sharePrefix string
	shareOutput string
)

func init() {
	shareCmd.Flags().StringVar(&shareHost, "host", "",
		"replace loopback server hosts (127.0.0.1, localhost) with this host")
	shareCmd.Flags().StringVar(&sharePrefix, "prefix", "",
		"prefix every entity name (references follow)")
	shareCmd.Flags().StringVarP(&shareOutput, "output", "o", "",
		"write to file instead of stdout")
	rootCmd.AddCommand(shareCmd)
}

var shareCmd = &cobra.Command{
	Use:   "share <source-file>",
	Short: "Rewrite a kubeconfig so it works on another machine",
	Long: `Prepare a kubeconfig for handing to someone else. --host swaps
loopback server addresses for a reachable one; --prefix renames every
entity (and fixes all references) so the receiver's own names cannot
collide. The source file is never modified.`,
	Example: `  # Make a dev VM's config usable from outside
  kce share vm-config.yaml --host 10.1.2.3 -o shared.yaml

  # Namespace the entities for the receiver
  kce share prod.yaml --prefix alice- -o for-alice.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func runShare(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "reading %s", args[0])
	}

	out, err := merge.Normalize(data, merge.NormalizeOptions{
		Host:   shareHost,
		Prefix: sharePrefix,
	})
	if err != nil {
		if errors.Is(err, errors.ErrMalformedDocument) {
			return errors.NewUserError(err, "The source file is not a parseable kubeconfig")
		}
		return err
	}

	if shareOutput == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := fileutil.AtomicWriteFile(shareOutput, out, 0o600); err != nil {
		return errors.NewSystemError(err, "Check that the output location is writable")
	}
	cmd.Printf("Wrote %s%s%s\n", colorGreen, shareOutput, colorReset)
	return nil
}
