package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/editor"
	"github.com/thoreinstein/kce/internal/errors"
)

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the kubeconfig in your text editor",
	Long: `Open the file in $EDITOR (then $VISUAL, nano, vi). After the editor
exits, the result must still parse; if it does not, the command fails
and the version history still holds the pre-edit state.`,
	Example: `  kce edit
  EDITOR=vim kce edit -f ./team.yaml`,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, _ []string) error {
	// Load first so the pre-edit state is captured in the version store
	// and the recent list before the user touches anything.
	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}

	cmd.Printf("Location: %s\n", ed.Path())
	if err := editor.OpenExternal(ed.Path()); err != nil {
		return err
	}

	if err := ed.Load(ed.Path()); err != nil {
		if errors.Is(err, errors.ErrMalformedDocument) {
			return errors.NewUserError(err,
				"The edited file no longer parses; fix it or 'kce rollback'")
		}
		return err
	}
	cmd.Printf("%sEdited file parses cleanly%s\n", colorGreen, colorReset)
	return nil
}
