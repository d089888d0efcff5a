package commands

import (
	"context"
	"fmt"
	"log/slog"

	recordsUsecase "github.com/varkeep/varkeep/internal/records/usecase"
)

// RunCreateProject creates a new project.
func RunCreateProject(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	logger *slog.Logger,
	io IOTuple,
	name, description string,
) error {
	project, err := records.CreateProject(ctx, name, description)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	logger.Info("project created", slog.String("name", project.Name))
	fmt.Fprintf(io.Writer, "Project %q created\n", project.Name)
	return nil
}

// RunListProjects prints all projects.
func RunListProjects(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	outputStr string,
) error {
	output, err := ParseOutputFormat(outputStr)
	if err != nil {
		return err
	}

	projects, err := records.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	return renderProjects(io.Writer, output, projects)
}

// RunUpdateProject replaces a project's description.
func RunUpdateProject(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	name, description string,
) error {
	project, err := records.UpdateProject(ctx, name, description)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	fmt.Fprintf(io.Writer, "Project %q updated\n", project.Name)
	return nil
}

// RunDeleteProject removes a project with all its environments, variables and
// vault entries.
func RunDeleteProject(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	logger *slog.Logger,
	io IOTuple,
	name string,
) error {
	if err := records.DeleteProject(ctx, name); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	logger.Info("project deleted", slog.String("name", name))
	fmt.Fprintf(io.Writer, "Project %q deleted\n", name)
	return nil
}
