package domain

import (
	"github.com/varkeep/varkeep/internal/errors"
)

// Record-specific error definitions.
var (
	// ErrProjectNotFound indicates no project exists with the given name.
	ErrProjectNotFound = errors.Wrap(errors.ErrNotFound, "project not found")

	// ErrEnvironmentNotFound indicates no environment exists with the given
	// name under the project.
	ErrEnvironmentNotFound = errors.Wrap(errors.ErrNotFound, "environment not found")

	// ErrVariableNotFound indicates no variable exists with the given key in
	// the environment.
	ErrVariableNotFound = errors.Wrap(errors.ErrNotFound, "variable not found")

	// ErrDuplicateName indicates a record with the same name already exists
	// in its scope.
	ErrDuplicateName = errors.Wrap(errors.ErrConflict, "name already in use")
)
