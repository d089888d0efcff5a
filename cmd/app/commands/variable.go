package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	recordsUsecase "github.com/varkeep/varkeep/internal/records/usecase"
)

// RunSetVariable creates or updates a variable. With secret set the value is
// stored in the vault and never written to the record database. An empty
// value is read from the command's input stream, so secrets can be piped in
// without landing in shell history.
func RunSetVariable(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	projectName, environmentName, key, value string,
	secret bool,
) error {
	if value == "" {
		read, err := readValue(io)
		if err != nil {
			return fmt.Errorf("failed to read value: %w", err)
		}
		value = read
	}

	variable, err := records.SetVariable(ctx, projectName, environmentName, key, value, secret)
	if err != nil {
		return fmt.Errorf("failed to set variable: %w", err)
	}

	kind := "Variable"
	if variable.Secret {
		kind = "Secret variable"
	}
	fmt.Fprintf(io.Writer, "%s %q set in %s/%s\n", kind, variable.Key, projectName, environmentName)
	return nil
}

// RunGetVariable prints a single variable value. Secret values are resolved
// from the vault.
func RunGetVariable(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	projectName, environmentName, key string,
) error {
	variable, err := records.GetVariable(ctx, projectName, environmentName, key)
	if err != nil {
		return fmt.Errorf("failed to get variable: %w", err)
	}

	fmt.Fprintln(io.Writer, variable.Value)
	return nil
}

// RunListVariables prints the variables of an environment. Secret values stay
// hidden unless reveal is set.
func RunListVariables(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	projectName, environmentName, outputStr string,
	reveal bool,
) error {
	output, err := ParseOutputFormat(outputStr)
	if err != nil {
		return err
	}

	variables, err := records.ListVariables(ctx, projectName, environmentName, reveal)
	if err != nil {
		return fmt.Errorf("failed to list variables: %w", err)
	}
	return renderVariables(io.Writer, output, variables)
}

// RunDeleteVariable removes a variable and its vault entry.
func RunDeleteVariable(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	io IOTuple,
	projectName, environmentName, key string,
) error {
	if err := records.DeleteVariable(ctx, projectName, environmentName, key); err != nil {
		return fmt.Errorf("failed to delete variable: %w", err)
	}

	fmt.Fprintf(io.Writer, "Variable %q deleted from %s/%s\n", key, projectName, environmentName)
	return nil
}

// readValue reads a single line from the command input.
func readValue(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
