package editor

import (
	"os"
	"os/exec"

	kceerrors "github.com/thoreinstein/kce/internal/errors"
)

// OpenExternal hands path to the user's preferred text editor and waits
// for it to exit. Resolution order: $EDITOR, $VISUAL, nano, vi.
func OpenExternal(path string) error {
	cmd := exec.Command(detectEditor(), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return kceerrors.Wrap(err, "running editor")
	}
	return nil
}

func detectEditor() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
