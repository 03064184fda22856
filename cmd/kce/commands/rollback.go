package commands

import (
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/store"
)

func init() {
	rootCmd.AddCommand(rollbackCmd)
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback [version-id]",
	Short: "Restore the document to a saved version",
	Long: `Replace the document with a stored version's content and save it. A
version id prefix is enough as long as it is unambiguous. With no
argument, opens an interactive picker over the version history.

The state being rolled away from was itself recorded at its last save,
so a rollback can always be rolled back.`,
	Example: `  # Pick interactively
  kce rollback

  # Restore a version from 'kce history'
  kce rollback 3f1a9c2d4e5b`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRollback,
}

func runRollback(cmd *cobra.Command, args []string) error {
	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}

	versions, err := ed.ListVersions()
	if err != nil {
		if errors.Is(err, store.ErrNoVersions) {
			return errors.NewUserError(err, "Versions appear after the first save")
		}
		return err
	}

	var target *store.Version
	if len(args) == 1 {
		target, err = matchVersion(versions, args[0])
		if err != nil {
			return err
		}
	} else {
		target, err = pickVersion(versions)
		if err != nil {
			return err
		}
		if target == nil {
			return nil
		}
	}

	if err := ed.Rollback(target.ID); err != nil {
		return err
	}
	summary := "rollback to " + shortVersionID(target.ID)
	if err := saveEditor(cmd, ed, summary); err != nil {
		return err
	}
	cmd.Printf("Rolled back to %s%s%s (%s)\n",
		colorGreen, shortVersionID(target.ID), colorReset, target.Summary)
	return nil
}

// matchVersion resolves an id prefix against the listed versions.
func matchVersion(versions []store.Version, prefix string) (*store.Version, error) {
	var matches []*store.Version
	for i := range versions {
		if strings.HasPrefix(versions[i].ID, prefix) {
			matches = append(matches, &versions[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, errors.NewUserError(
			errors.Wrapf(store.ErrVersionNotFound, "no version matches %q", prefix),
			"Run 'kce history' to list versions")
	case 1:
		return matches[0], nil
	default:
		return nil, errors.NewUserError(
			errors.Newf("version id %q is ambiguous (%d matches)", prefix, len(matches)),
			"Use more characters of the id")
	}
}

// pickVersion runs the interactive finder. An aborted pick returns nil.
func pickVersion(versions []store.Version) (*store.Version, error) {
	idx, err := fuzzyfinder.Find(
		versions,
		func(i int) string {
			return fmt.Sprintf("%s  %s  %s",
				shortVersionID(versions[i].ID),
				versions[i].SavedAt.Local().Format("2006-01-02 15:04"),
				versions[i].Summary)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			v := versions[i]
			return fmt.Sprintf("Version: %s\nSaved: %s\nSummary: %s",
				v.ID,
				v.SavedAt.Local().Format("2006-01-02 15:04:05"),
				v.Summary)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "interactive version selection failed")
	}
	return &versions[idx], nil
}
