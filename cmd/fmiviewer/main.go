package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/halentin/FMI-Viewer/internal/config"
	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/halentin/FMI-Viewer/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile      string
	verbose      bool
	outputFormat string
	noCache      bool

	logger  *logrus.Logger
	logFile *logging.Logger
	cfg     *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err; with --verbose, structured errors include their
// kind, context and stack trace.
func reportError(w io.Writer, err error) {
	var fe *fmierrors.Error
	if verbose && errors.As(err, &fe) {
		fmt.Fprintf(w, "Error: %v\n%s", err, fe.DetailedString())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

var rootCmd = &cobra.Command{
	Use:   "fmiviewer",
	Short: "fmiviewer - inspect FMI model archives (.fmu)",
	Long: `fmiviewer reads Functional Mock-up Units and reports their model description:
metadata, interfaces, variables, type and unit definitions, shipped binary platforms
and archive contents. FMI 2.x and 3.x descriptors are supported.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		loadErr := err
		if err != nil {
			cfg = config.Default()
		}

		// Initialize logger
		logCfg := logging.Config{
			Level:      cfg.Log.Level,
			OutputFile: cfg.Log.File,
			MaxSize:    int64(cfg.Log.MaxSizeMB) * 1024 * 1024,
			MaxBackups: cfg.Log.MaxBackups,
			JSONFormat: cfg.Log.JSON,
			Console:    cmd.ErrOrStderr(),
		}
		if verbose {
			logCfg = logging.DebugConfig(logCfg)
		}
		logFile, err = logging.NewLogger(logCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logger = logFile.Logger
		if path := logFile.FilePath(); path != "" {
			logger.WithField("file", path).Debug("Logging to file")
		}

		if loadErr != nil {
			logger.WithError(loadErr).Warn("Failed to load config, using defaults")
		}
		if noCache {
			cfg.Cache.Enabled = false
		}
		if outputFormat != "" {
			cfg.Output.Format = outputFormat
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .fmiviewer/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format: auto, quiet, standard, explain, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")

	// Set custom version template
	rootCmd.SetVersionTemplate(`fmiviewer {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	// Add subcommands
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
