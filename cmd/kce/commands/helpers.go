package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/editor"
	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
	"github.com/thoreinstein/kce/internal/logging"
	"github.com/thoreinstein/kce/internal/paths"
	"github.com/thoreinstein/kce/internal/state"
	"github.com/thoreinstein/kce/internal/validator"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// documentPath resolves the file to edit: --file flag, then $KUBECONFIG,
// then ~/.kube/config.
func documentPath() (string, error) {
	if fileFlag != "" {
		return fileFlag, nil
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		// KUBECONFIG can hold a list; kce edits one file at a time.
		return strings.Split(env, string(os.PathListSeparator))[0], nil
	}
	home, err := paths.ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".kube", "config"), nil
}

// openEditor loads the target document into a fully wired editor and
// remembers it in the recent list.
func openEditor(cmd *cobra.Command) (*editor.Editor, error) {
	path, err := documentPath()
	if err != nil {
		return nil, err
	}

	opts := []editor.Option{
		editor.WithLogger(logging.FromContext(cmd.Context())),
	}
	if loadedConfig != nil {
		opts = append(opts, editor.WithListLimit(loadedConfig.VersionListLimit))
		if loadedConfig.Validator.Command != "" {
			opts = append(opts, editor.WithValidator(
				validator.New(loadedConfig.Validator.Command, loadedConfig.Validator.Timeout)))
		}
	}

	ed := editor.New(opts...)
	if err := ed.Load(path); err != nil {
		return nil, err
	}

	st := state.Load("")
	st.Touch(ed.Path())
	if err := st.Save(""); err != nil {
		logging.FromContext(cmd.Context()).Warn("saving recent list failed", "error", err)
	}
	return ed, nil
}

// saveEditor runs a save and prints its non-fatal feedback.
func saveEditor(cmd *cobra.Command, ed *editor.Editor, summary string) error {
	report, err := ed.Save(cmd.Context(), summary)
	if err != nil {
		return err
	}
	if n := report.DroppedContexts + report.DroppedClusters + report.DroppedUsers; n > 0 {
		cmd.Printf("%s%d hidden or unreferenced entities kept out of the saved file%s\n",
			colorGray, n, colorReset)
	}
	if report.Validation != nil && report.Validation.Status == validator.StatusUnavailable {
		cmd.Printf("%sexternal validator unavailable, skipped%s\n", colorGray, colorReset)
	}
	for _, w := range report.Warnings {
		cmd.Printf("%swarning: %s%s\n", colorYellow, w, colorReset)
	}
	return nil
}

// parseKind maps a CLI argument to an entity kind.
func parseKind(arg string) (kubeconfig.Kind, error) {
	switch strings.ToLower(arg) {
	case "context", "ctx":
		return kubeconfig.KindContext, nil
	case "cluster":
		return kubeconfig.KindCluster, nil
	case "user":
		return kubeconfig.KindUser, nil
	default:
		return "", errors.NewUserError(
			errors.Newf("unknown kind %q", arg),
			"Valid kinds: context, cluster, user")
	}
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// shortVersionID trims a content hash for display.
func shortVersionID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
