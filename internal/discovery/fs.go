package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem is the read-only view of the disk the engine traverses.
// Tests supply an in-memory fake; production uses OSFilesystem.
type Filesystem interface {
	ReadDir(path string) ([]fs.DirEntry, error)
}

type osFilesystem struct{}

// OSFilesystem returns a Filesystem backed by the os package.
func OSFilesystem() Filesystem { return osFilesystem{} }

func (osFilesystem) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }

// ExpandHome expands a leading ~ to the current user's home directory.
// If the home directory cannot be resolved the path is returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
