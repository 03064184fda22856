package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/diagnostics"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show contexts, clusters, and users with visibility and warnings",
	Long: `Show every entity in the document, including hidden ones, grouped by
kind. Hidden entities are marked; they stay in your workspace but are
excluded from the saved file. Diagnostic findings (dangling references,
missing credentials, unused entities) are listed inline.`,
	Example: `  # Show the default document
  kce show

  # Show a specific file as JSON
  kce show -f ./team.yaml --json

  See Also:
    kce hide     - Exclude an entity from the saved file
    kce validate - Run the full diagnostic set`,
	RunE: runShow,
}

// showEntityOutput represents a single entity in JSON output.
type showEntityOutput struct {
	Kind     string   `json:"kind"`
	Name     string   `json:"name"`
	Visible  bool     `json:"visible"`
	Current  bool     `json:"current,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func runShow(cmd *cobra.Command, _ []string) error {
	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}
	if showJSON {
		return outputShowJSON(cmd.OutOrStdout(), ed.Document())
	}
	return outputShowTabular(cmd.OutOrStdout(), ed.Document())
}

func outputShowJSON(w io.Writer, doc *kubeconfig.Document) error {
	var entities []showEntityOutput
	for _, kind := range []kubeconfig.Kind{kubeconfig.KindContext, kubeconfig.KindCluster, kubeconfig.KindUser} {
		for _, e := range doc.Collection(kind) {
			entities = append(entities, showEntityOutput{
				Kind:     string(kind),
				Name:     e.Name,
				Visible:  e.IncludeInExport,
				Current:  kind == kubeconfig.KindContext && e.Name == doc.CurrentContext,
				Warnings: diagnostics.ForEntity(doc, kind, e.Name),
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entities)
}

func outputShowTabular(w io.Writer, doc *kubeconfig.Document) error {
	for i, kind := range []kubeconfig.Kind{kubeconfig.KindContext, kubeconfig.KindCluster, kubeconfig.KindUser} {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s%ss%s\n", colorCyan+colorBold, kind, colorReset)

		entities := doc.Collection(kind)
		if len(entities) == 0 {
			fmt.Fprintf(w, "  %s(none)%s\n", colorGray, colorReset)
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, e := range entities {
			marker := " "
			if kind == kubeconfig.KindContext && e.Name == doc.CurrentContext {
				marker = colorGreen + "*" + colorReset
			}
			name := e.Name
			if !e.IncludeInExport {
				name = colorGray + name + " (hidden)" + colorReset
			}
			detail := entityDetail(doc, kind, e)
			fmt.Fprintf(tw, "  %s %s\t%s\n", marker, name, detail)

			for _, warning := range diagnostics.ForEntity(doc, kind, e.Name) {
				fmt.Fprintf(tw, "      %s! %s%s\t\n", colorYellow, warning, colorReset)
			}
		}
		tw.Flush()
	}
	return nil
}

func entityDetail(doc *kubeconfig.Document, kind kubeconfig.Kind, e *kubeconfig.Entity) string {
	switch kind {
	case kubeconfig.KindContext:
		return fmt.Sprintf("%s / %s",
			e.FieldValue(kubeconfig.FieldCluster), e.FieldValue(kubeconfig.FieldUser))
	case kubeconfig.KindCluster:
		return e.FieldValue(kubeconfig.FieldServer)
	default:
		n := len(doc.ContextsUsingUser(e.Name))
		if n == 1 {
			return "1 context"
		}
		return fmt.Sprintf("%d contexts", n)
	}
}
