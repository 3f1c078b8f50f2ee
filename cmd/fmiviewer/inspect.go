package main

import (
	"fmt"

	"github.com/halentin/FMI-Viewer/internal/config"
	"github.com/halentin/FMI-Viewer/internal/models"
	"github.com/halentin/FMI-Viewer/internal/output"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.fmu>",
	Short: "Show the model description of an FMU",
	Long: `Extract an FMU's model description and archive facts.

Examples:
  # Human-readable summary
  fmiviewer inspect BouncingBall.fmu

  # Everything, including types, units and archive entries
  fmiviewer inspect BouncingBall.fmu --format explain

  # Machine-readable
  fmiviewer inspect BouncingBall.fmu --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var entriesCmd = &cobra.Command{
	Use:   "entries <file.fmu>",
	Short: "List archive entries (excluding modelDescription.xml)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, args[0], func(r *models.ParseResult) []string { return r.Entries })
	},
}

var platformsCmd = &cobra.Command{
	Use:   "platforms <file.fmu>",
	Short: "List the binary platforms shipped under binaries/",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, args[0], func(r *models.ParseResult) []string { return r.Platforms })
	},
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := validate(config.ValidationContextInspect); err != nil {
		return err
	}
	level, err := verbosity(cmd)
	if err != nil {
		return err
	}

	result, err := inspectOne(cmd, args[0])
	if err != nil {
		return err
	}
	return output.NewFormatter(level).Format(result, cmd.OutOrStdout())
}

func runList(cmd *cobra.Command, path string, pick func(*models.ParseResult) []string) error {
	if err := validate(config.ValidationContextInspect); err != nil {
		return err
	}
	level, err := verbosity(cmd)
	if err != nil {
		return err
	}

	result, err := inspectOne(cmd, path)
	if err != nil {
		return err
	}

	items := pick(result)
	if isStructured(level) {
		return writeStructured(cmd.OutOrStdout(), level, items)
	}
	for _, item := range items {
		fmt.Fprintln(cmd.OutOrStdout(), item)
	}
	return nil
}

func inspectOne(cmd *cobra.Command, path string) (*models.ParseResult, error) {
	inspector, _, release := newInspector()
	defer release()
	return inspector.Inspect(cmd.Context(), path)
}
