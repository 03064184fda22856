package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/errors"
)

func init() {
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(unhideCmd)
}

var hideCmd = &cobra.Command{
	Use:   "hide <kind> <name>...",
	Short: "Exclude entities from the saved file",
	Long: `Mark entities as hidden. Hidden entities stay in your workspace with
all their data, but the saved kubeconfig omits them. Hiding the active
context hands current-context to the first visible one.

A context whose cluster or user is hidden is itself kept out of the
saved file, since it could not resolve there.`,
	Example: `  # Keep an old cluster around without shipping it
  kce hide cluster legacy

  # Hide several contexts at once
  kce hide context scratch-1 scratch-2`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetVisibility(cmd, args, false)
	},
}

var unhideCmd = &cobra.Command{
	Use:   "unhide <kind> <name>...",
	Short: "Include hidden entities in the saved file again",
	Example: `  kce unhide cluster legacy
  kce unhide context scratch-1`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetVisibility(cmd, args, true)
	},
}

func runSetVisibility(cmd *cobra.Command, args []string, visible bool) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	names := args[1:]

	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}
	doc := ed.Document()

	verb := "hide"
	if visible {
		verb = "unhide"
	}

	for _, name := range names {
		e := doc.FindByName(kind, name)
		if e == nil {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "%s %q", kind, name),
				"Run 'kce show' to list entities")
		}
		doc.SetVisibility(kind, e.ID, visible)
	}

	summary := fmt.Sprintf("%s %s %v", verb, kind, names)
	if err := ed.RegisterEdit(summary); err != nil {
		return err
	}
	if err := saveEditor(cmd, ed, summary); err != nil {
		return err
	}

	for _, name := range names {
		if visible {
			cmd.Printf("%s %s is saved to the file again\n", kind, name)
		} else {
			cmd.Printf("%s %s is now hidden from the saved file\n", kind, name)
		}
	}
	return nil
}
