package commands

import (
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

func init() {
	rootCmd.AddCommand(useCmd)
}

var useCmd = &cobra.Command{
	Use:   "use [context]",
	Short: "Switch the active context",
	Long: `Set current-context. With no argument, opens an interactive picker
over every context in the document, hidden ones included.`,
	Example: `  # Switch directly
  kce use prod

  # Pick interactively
  kce use`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUse,
}

func runUse(cmd *cobra.Command, args []string) error {
	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}
	doc := ed.Document()

	var name string
	if len(args) == 1 {
		name = args[0]
		if doc.FindByName(kubeconfig.KindContext, name) == nil {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "context %q", name),
				"Run 'kce show' to list contexts")
		}
	} else {
		name, err = pickContext(doc)
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
	}

	if doc.CurrentContext == name {
		cmd.Printf("Already using context %s%s%s\n", colorGreen, name, colorReset)
		return nil
	}

	doc.CurrentContext = name
	if err := ed.RegisterEdit("switch context to " + name); err != nil {
		return err
	}
	if err := saveEditor(cmd, ed, "switch context to "+name); err != nil {
		return err
	}
	cmd.Printf("Switched to context %s%s%s\n", colorGreen, name, colorReset)
	return nil
}

// pickContext runs the interactive finder. An aborted pick returns an
// empty name and no error.
func pickContext(doc *kubeconfig.Document) (string, error) {
	contexts := doc.Contexts
	if len(contexts) == 0 {
		return "", errors.ErrNoContexts
	}

	idx, err := fuzzyfinder.Find(
		contexts,
		func(i int) string {
			return contexts[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			ctx := contexts[i]
			visibility := "saved to file"
			if !ctx.IncludeInExport {
				visibility = "hidden from file"
			}
			return fmt.Sprintf("Context: %s\nCluster: %s\nUser: %s\nNamespace: %s\n\n%s",
				ctx.Name,
				ctx.FieldValue(kubeconfig.FieldCluster),
				ctx.FieldValue(kubeconfig.FieldUser),
				ctx.FieldValue(kubeconfig.FieldNamespace),
				visibility,
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", errors.Wrap(err, "interactive context selection failed")
	}
	return contexts[idx].Name, nil
}
