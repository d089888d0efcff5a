package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	recordsDomain "github.com/varkeep/varkeep/internal/records/domain"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

// Supported output formats.
const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ParseOutputFormat converts an output format string.
// Returns an error if the format string is invalid.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON, OutputYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid options: text, json, yaml)", s)
	}
}

// projectView is the render shape of a project.
type projectView struct {
	Name        string    `json:"name"               yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"         yaml:"created_at"`
}

// environmentView is the render shape of an environment.
type environmentView struct {
	Name      string    `json:"name"       yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// variableView is the render shape of a variable. Value is omitted for
// unrevealed secrets.
type variableView struct {
	Key    string `json:"key"             yaml:"key"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Secret bool   `json:"secret"          yaml:"secret"`
}

func newProjectView(project *recordsDomain.Project) projectView {
	return projectView{
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
	}
}

func newEnvironmentView(environment *recordsDomain.Environment) environmentView {
	return environmentView{Name: environment.Name, CreatedAt: environment.CreatedAt}
}

func newVariableView(variable *recordsDomain.Variable) variableView {
	return variableView{Key: variable.Key, Value: variable.Value, Secret: variable.Secret}
}

// render writes v in the structured formats, or calls textFn for text output.
func render(w io.Writer, format OutputFormat, v any, textFn func(io.Writer) error) error {
	switch format {
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return textFn(w)
	}
}

func renderProjects(w io.Writer, format OutputFormat, projects []*recordsDomain.Project) error {
	views := make([]projectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, newProjectView(project))
	}

	return render(w, format, views, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDESCRIPTION\tCREATED")
		for _, view := range views {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", view.Name, view.Description, view.CreatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	})
}

func renderEnvironments(w io.Writer, format OutputFormat, environments []*recordsDomain.Environment) error {
	views := make([]environmentView, 0, len(environments))
	for _, environment := range environments {
		views = append(views, newEnvironmentView(environment))
	}

	return render(w, format, views, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCREATED")
		for _, view := range views {
			fmt.Fprintf(tw, "%s\t%s\n", view.Name, view.CreatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	})
}

func renderVariables(w io.Writer, format OutputFormat, variables []*recordsDomain.Variable) error {
	views := make([]variableView, 0, len(variables))
	for _, variable := range variables {
		views = append(views, newVariableView(variable))
	}

	return render(w, format, views, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tVALUE\tSECRET")
		for _, view := range views {
			value := view.Value
			if view.Secret && value == "" {
				value = "(hidden)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%t\n", view.Key, value, view.Secret)
		}
		return tw.Flush()
	})
}
