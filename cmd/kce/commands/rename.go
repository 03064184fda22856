package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

func init() {
	rootCmd.AddCommand(renameCmd)
}

var renameCmd = &cobra.Command{
	Use:   "rename <kind> <old-name> <new-name>",
	Short: "Rename a context, cluster, or user",
	Long: `Rename an entity. References follow automatically: renaming a cluster
or user updates every context that points at it, and renaming the
active context updates current-context.

The new name must not already be taken by another entity of the same
kind.`,
	Example: `  kce rename context dev development
  kce rename cluster minikube local
  kce rename user admin team-admin`,
	Args: cobra.ExactArgs(3),
	RunE: runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	oldName, newName := args[1], args[2]

	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}

	if err := ed.Document().Rename(kind, oldName, newName); err != nil {
		switch {
		case errors.Is(err, errors.ErrNotFound):
			return errors.NewUserError(err, "Run 'kce show' to list entities")
		case errors.Is(err, errors.ErrAlreadyExists):
			return errors.NewUserError(err, fmt.Sprintf("Pick a name not already used by a %s", kind))
		default:
			return err
		}
	}

	summary := fmt.Sprintf("rename %s %s to %s", kind, oldName, newName)
	if err := ed.RegisterEdit(summary); err != nil {
		return err
	}
	if err := saveEditor(cmd, ed, summary); err != nil {
		return err
	}
	cmd.Printf("Renamed %s %s%s%s to %s%s%s\n", kind,
		colorGray, oldName, colorReset, colorGreen, newName, colorReset)

	if kind != kubeconfig.KindContext {
		if n := len(ed.Document().Collection(kubeconfig.KindContext)); n > 0 {
			cmd.Printf("%sReferences in contexts were updated%s\n", colorGray, colorReset)
		}
	}
	return nil
}
