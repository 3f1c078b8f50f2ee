package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/halentin/FMI-Viewer/internal/config"
	"github.com/halentin/FMI-Viewer/internal/output"
	"github.com/spf13/cobra"
)

var (
	configInitPath  string
	configInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fmiviewer configuration",
	Long: `View and initialize fmiviewer configuration.

Settings are read from --config, .fmiviewer/config.yaml, ./config.yaml or
~/.fmiviewer/config.yaml, then overridden by FMIVIEWER_* environment variables
(e.g. FMIVIEWER_CACHE_PATH, FMIVIEWER_CATALOG_DRIVER). .env files are loaded first.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVar(&configInitPath, "path", filepath.Join(".fmiviewer", "config.yaml"), "where to write the config file")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := output.WriteYAML(cmd.OutOrStdout(), cfg); err != nil {
		return err
	}

	result := cfg.Validate(config.ValidationContextAll)
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s\n", w)
	}
	if result.HasErrors() {
		fmt.Fprint(cmd.ErrOrStderr(), result.Error())
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configInitPath); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configInitPath)
	}
	if err := cfg.Save(configInitPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", configInitPath)
	return nil
}
