package main

import (
	"io"
	"os"

	"github.com/halentin/FMI-Viewer/internal/cache"
	"github.com/halentin/FMI-Viewer/internal/config"
	"github.com/halentin/FMI-Viewer/internal/inspect"
	"github.com/halentin/FMI-Viewer/internal/output"
	"github.com/spf13/cobra"
)

// validate checks cfg for the command context and logs warnings.
func validate(ctx config.ValidationContext) error {
	return cfg.ValidateOrError(ctx, func(w string) { logger.Warn(w) })
}

// openCache opens the result cache, or returns nil when it is disabled or
// unavailable; the cache never blocks inspection.
func openCache() *cache.Manager {
	if !cfg.Cache.Enabled {
		return nil
	}
	m, err := cache.Open(cfg.Cache.Path, logger)
	if err != nil {
		logger.WithError(err).Warn("Result cache unavailable, continuing without it")
		return nil
	}
	return m
}

// newInspector builds an inspector with the configured cache. The returned
// func releases the cache.
func newInspector() (*inspect.Inspector, *cache.Manager, func()) {
	m := openCache()
	if m == nil {
		return inspect.NewInspector(nil, cfg.Batch.Workers, logger), nil, func() {}
	}
	return inspect.NewInspector(m, cfg.Batch.Workers, logger), m, func() { m.Close() }
}

// verbosity resolves the configured format against the command's stdout.
func verbosity(cmd *cobra.Command) (output.VerbosityLevel, error) {
	return output.ParseVerbosity(cfg.Output.Format, stdoutFile(cmd.OutOrStdout()))
}

func stdoutFile(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}

// isStructured reports whether the level produces machine-readable output.
func isStructured(level output.VerbosityLevel) bool {
	return level == output.VerbosityJSON || level == output.VerbosityYAML
}

// writeStructured writes v as JSON or YAML according to level.
func writeStructured(w io.Writer, level output.VerbosityLevel, v interface{}) error {
	if level == output.VerbosityYAML {
		return output.WriteYAML(w, v)
	}
	return output.WriteJSON(w, v, true)
}
