package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG roots.
const AppName = "kce"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns the kce application config directory.
// Returns: <ConfigHome>/kce/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// VersionsDir returns the canonical root for the durable version store.
// Returns: <DataHome>/kce/versions/
func VersionsDir() string {
	return filepath.Join(DataHome(), AppName, "versions")
}

// LegacyVersionsDir returns the version-store root used by older releases,
// which kept history under the config home. Read for backward-compatible
// lookup and migrated on load.
// Returns: <ConfigHome>/kce/versions/
func LegacyVersionsDir() string {
	return filepath.Join(ConfigHome(), AppName, "versions")
}

// WorkspaceDir returns the directory for per-document workspace sidecars.
// Returns: <DataHome>/kce/workspace/
func WorkspaceDir() string {
	return filepath.Join(DataHome(), AppName, "workspace")
}

// StatePath returns the path of the recent-documents state file.
// Returns: <DataHome>/kce/state.toml
func StatePath() string {
	return filepath.Join(DataHome(), AppName, "state.toml")
}

// Canonicalize cleans path, makes it absolute, and resolves symlinks where
// possible so the same logical file always yields the same string. The
// symlink resolution is best-effort: a path whose file does not exist yet is
// still canonicalized lexically.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "", errors.Wrap(ErrInvalidPath, "empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "resolving %s: %v", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return filepath.Clean(abs), nil
}
