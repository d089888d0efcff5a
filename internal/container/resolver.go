// Package container resolves the shared-container root used by cooperating
// processes (the application and the CLI) to exchange the encrypted secret
// blob and its key file.
package container

import (
	"os"
	"path/filepath"

	apperrors "github.com/varkeep/varkeep/internal/errors"
)

// ErrNoContainerAccess indicates the shared container cannot be resolved or
// created. Callers treat this as "shared tier unavailable" and degrade to
// enclave-only behavior.
var ErrNoContainerAccess = apperrors.Wrap(apperrors.ErrUnavailable, "no shared container access")

// Resolver supplies the shared-container root directory.
type Resolver interface {
	// ContainerDir returns the absolute path of the shared-container root,
	// creating it if necessary. Returns ErrNoContainerAccess when the
	// container cannot be resolved or created.
	ContainerDir() (string, error)
}

// DirResolver resolves the shared container to a fixed directory.
type DirResolver struct {
	dir string
}

// NewDirResolver creates a resolver rooted at dir. An empty dir selects the
// per-user default location, so that all processes of the same user resolve
// the same container.
func NewDirResolver(dir string) *DirResolver {
	return &DirResolver{dir: dir}
}

// ContainerDir returns the container root, creating the directory on first use.
func (r *DirResolver) ContainerDir() (string, error) {
	dir := r.dir
	if dir == "" {
		userDir, err := os.UserConfigDir()
		if err != nil {
			return "", apperrors.Wrap(ErrNoContainerAccess, err.Error())
		}
		dir = filepath.Join(userDir, "varkeep", "shared")
	}

	// The container holds key material, keep it private to the user.
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", apperrors.Wrap(ErrNoContainerAccess, err.Error())
	}
	return dir, nil
}
