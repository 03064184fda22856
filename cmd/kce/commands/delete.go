package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

var deleteCascade bool

func init() {
	deleteCmd.Flags().BoolVar(&deleteCascade, "cascade", false,
		"also delete entities left unreferenced by this delete")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <kind> <name>...",
	Short: "Delete contexts, clusters, or users",
	Long: `Delete one or more entities of a kind.

With --cascade, deleting a context also removes its cluster and user
when no other context references them, and deleting a cluster or user
also removes the contexts that depended on it (and their now-orphaned
counterparts). Entities still referenced elsewhere always survive.

If the active context is deleted, current-context moves to the first
remaining context.`,
	Example: `  # Delete one context, keeping its cluster and user
  kce delete context old-dev

  # Delete a context and whatever only it referenced
  kce delete context old-dev --cascade

  # Delete a cluster and every context using it
  kce delete cluster decommissioned --cascade`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	ids := make(map[string]bool, len(names))
	for _, name := range names {
		e := doc.FindByName(kind, name)
		if e == nil {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "%s %q", kind, name),
				"Run 'kce show' to list entities")
		}
		ids[e.ID] = true
	}

	before := allEntityNames(doc)
	switch kind {
	case kubeconfig.KindContext:
		doc.DeleteContexts(ids, deleteCascade)
	case kubeconfig.KindCluster:
		doc.DeleteClusters(ids, deleteCascade)
	default:
		doc.DeleteUsers(ids, deleteCascade)
	}
	removed := removedEntities(before, doc)

	summary := fmt.Sprintf("delete %s %s", kind, strings.Join(names, ", "))
	if err := ed.RegisterEdit(summary); err != nil {
		return err
	}
	if err := saveEditor(cmd, ed, summary); err != nil {
		return err
	}

	cmd.Printf("Deleted %d entities\n", len(removed))
	for _, label := range removed {
		cmd.Printf("  %s-%s %s\n", colorGray, colorReset, label)
	}
	return nil
}

func allEntityNames(doc *kubeconfig.Document) map[string]string {
	out := make(map[string]string)
	for _, kind := range []kubeconfig.Kind{kubeconfig.KindContext, kubeconfig.KindCluster, kubeconfig.KindUser} {
		for _, e := range doc.Collection(kind) {
			out[e.ID] = fmt.Sprintf("%s %s", kind, e.Name)
		}
	}
	return out
}

func removedEntities(before map[string]string, doc *kubeconfig.Document) []string {
	for _, kind := range []kubeconfig.Kind{kubeconfig.KindContext, kubeconfig.KindCluster, kubeconfig.KindUser} {
		for _, e := range doc.Collection(kind) {
			delete(before, e.ID)
		}
	}
	out := make([]string, 0, len(before))
	for _, label := range before {
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}
