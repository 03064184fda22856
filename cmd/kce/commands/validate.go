package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/kce/internal/codec"
	"github.com/thoreinstein/kce/internal/diagnostics"
	"github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/export"
	"github.com/thoreinstein/kce/internal/validator"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run diagnostics and the external validator",
	Long: `Report every diagnostic finding for the document, then run the
configured external validator against what a save would write. Exits
non-zero when the external validator rejects the document; diagnostic
warnings alone do not fail the command.`,
	Example: `  kce validate
  kce validate -f ./team.yaml`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ed, err := openEditor(cmd)
	if err != nil {
		return err
	}
	doc := ed.Document()

	findings := diagnostics.ForDocument(doc)
	if len(findings) == 0 {
		cmd.Printf("%sNo diagnostic findings%s\n", colorGreen, colorReset)
	}
	for _, f := range findings {
		color := colorGray
		if f.Severity == diagnostics.SeverityWarning {
			color = colorYellow
		}
		scope := "document"
		if f.Name != "" {
			scope = string(f.Kind) + " " + f.Name
		}
		cmd.Printf("  %s%-7s%s %s: %s\n", color, f.Severity, colorReset, scope, f.Message)
	}

	if loadedConfig == nil || loadedConfig.Validator.Command == "" {
		return nil
	}

	canonical, err := codec.Encode(export.Project(doc).Doc, codec.EncodeOptions{})
	if err != nil {
		return err
	}

	v := validator.New(loadedConfig.Validator.Command, loadedConfig.Validator.Timeout)
	res, err := v.Validate(cmd.Context(), canonical)
	if err != nil {
		return err
	}
	switch res.Status {
	case validator.StatusOK:
		cmd.Printf("%sExternal validator: ok%s\n", colorGreen, colorReset)
	case validator.StatusUnavailable:
		cmd.Printf("%sExternal validator: not installed, skipped%s\n", colorGray, colorReset)
	case validator.StatusFailed:
		cmd.Printf("External validator: %sfailed%s\n", colorYellow, colorReset)
		return errors.NewExitError(
			errors.Wrap(errors.ErrValidationFailed, res.Message), errors.ExitUser)
	}
	return nil
}
