package commands

import (
	"context"
	"fmt"

	recordsUsecase "github.com/varkeep/varkeep/internal/records/usecase"
)

// RunCreateEnvironment creates an environment under a project.
func RunCreateEnvironment(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	projectName, name string,
) error {
	environment, err := records.CreateEnvironment(ctx, projectName, name)
	if err != nil {
		return fmt.Errorf("failed to create environment: %w", err)
	}

	fmt.Fprintf(io.Writer, "Environment %q created in project %q\n", environment.Name, projectName)
	return nil
}

// RunListEnvironments prints the environments of a project.
func RunListEnvironments(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	projectName, outputStr string,
) error {
	output, err := ParseOutputFormat(outputStr)
	if err != nil {
		return err
	}

	environments, err := records.ListEnvironments(ctx, projectName)
	if err != nil {
		return fmt.Errorf("failed to list environments: %w", err)
	}
	return renderEnvironments(io.Writer, output, environments)
}

// RunRenameEnvironment renames an environment within its project.
func RunRenameEnvironment(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	projectName, name, newName string,
) error {
	if err := records.RenameEnvironment(ctx, projectName, name, newName); err != nil {
		return fmt.Errorf("failed to rename environment: %w", err)
	}

	fmt.Fprintf(io.Writer, "Environment %q renamed to %q\n", name, newName)
	return nil
}

// RunDeleteEnvironment removes an environment with its variables and vault
// entries.
func RunDeleteEnvironment(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	projectName, name string,
) error {
	if err := records.DeleteEnvironment(ctx, projectName, name); err != nil {
		return fmt.Errorf("failed to delete environment: %w", err)
	}

	fmt.Fprintf(io.Writer, "Environment %q deleted from project %q\n", name, projectName)
	return nil
}
