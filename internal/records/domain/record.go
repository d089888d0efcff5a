// Package domain defines the record models managed by varkeep: projects,
// their environments, and the variables scoped to each environment. Secret
// variables never carry their value here; the value lives in the vault under
// the variable id.
package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	appvalidation "github.com/varkeep/varkeep/internal/validation"
)

// Project groups environments under a human-chosen name.
type Project struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProject creates a project with a fresh id and UTC timestamps.
func NewProject(name, description string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks the project fields against the naming rules.
func (p *Project) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(p,
		validation.Field(&p.Name,
			validation.Required,
			validation.Length(1, 64),
			appvalidation.Slug,
		),
		validation.Field(&p.Description, validation.Length(0, 512)),
	))
}

// Environment is a named variable scope within a project.
type Environment struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEnvironment creates an environment under the given project.
func NewEnvironment(projectID uuid.UUID, name string) *Environment {
	now := time.Now().UTC()
	return &Environment{
		ID:        uuid.Must(uuid.NewV7()),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the environment fields against the naming rules.
func (e *Environment) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(e,
		validation.Field(&e.ProjectID, validation.Required),
		validation.Field(&e.Name,
			validation.Required,
			validation.Length(1, 64),
			appvalidation.Slug,
		),
	))
}

// Variable is a key/value pair in an environment. When Secret is set the
// Value field stays empty in the database and the real value is stored in the
// vault under ID.
type Variable struct {
	ID            uuid.UUID
	EnvironmentID uuid.UUID
	Key           string
	Secret        bool
	Value         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewVariable creates a variable under the given environment.
func NewVariable(environmentID uuid.UUID, key, value string, secret bool) *Variable {
	now := time.Now().UTC()
	return &Variable{
		ID:            uuid.Must(uuid.NewV7()),
		EnvironmentID: environmentID,
		Key:           key,
		Secret:        secret,
		Value:         value,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks the variable fields. The value itself is unconstrained.
func (v *Variable) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(v,
		validation.Field(&v.EnvironmentID, validation.Required),
		validation.Field(&v.Key,
			validation.Required,
			validation.Length(1, 128),
			appvalidation.VariableKey,
		),
	))
}
