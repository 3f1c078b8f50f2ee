package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/halentin/FMI-Viewer/internal/config"
	"github.com/halentin/FMI-Viewer/internal/mcp"
	"github.com/halentin/FMI-Viewer/internal/mcp/tools"
	"github.com/spf13/cobra"
)

var serveRoot string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP tool server on stdin/stdout",
	Long: `Serve FMU inspection tools to an MCP client over line-delimited JSON-RPC on stdio.

Tools: fmi.inspect, fmi.variables, fmi.platforms
Resources: fmi://cache/stats (when the cache is enabled)

Relative archive paths are resolved against --root (default: current directory),
and paths outside it are rejected. Logs go to stderr and never to stdout.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "directory archives are served from (default: current directory)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := validate(config.ValidationContextServe); err != nil {
		return err
	}

	root := serveRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	inspector, resultCache, release := newInspector()
	defer release()

	var stats tools.StatsSource
	if resultCache != nil {
		stats = resultCache
	}
	handler := mcp.NewFMIHandler(inspector, stats, root, Version, logger)

	logger.WithField("root", root).Info("MCP server listening on stdio")
	transport := mcp.NewStdioTransport(handler, cmd.InOrStdin(), cmd.OutOrStdout())

	// Reads from stdin block, so shutdown on signal does not wait for the loop.
	ctx := cmd.Context()
	done := make(chan error, 1)
	go func() { done <- transport.Start(ctx) }()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, ctx.Err()) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutting down gracefully")
		return nil
	}
}
