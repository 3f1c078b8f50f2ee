package main

import (
	"fmt"
	"time"

	"github.com/halentin/FMI-Viewer/internal/config"
	"github.com/halentin/FMI-Viewer/internal/models"
	"github.com/halentin/FMI-Viewer/internal/output"
	"github.com/spf13/cobra"
)

var batchWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch <file.fmu>...",
	Short: "Inspect many FMUs concurrently",
	Long: `Inspect several FMUs in parallel. A failing archive is reported and does not
stop the others; the command exits non-zero if any archive failed.

Examples:
  fmiviewer batch models/*.fmu
  fmiviewer batch models/*.fmu --workers 8 --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

// batchReport is the structured form of one batch item
type batchReport struct {
	Path   string              `json:"path" yaml:"path"`
	Result *models.ParseResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string              `json:"error,omitempty" yaml:"error,omitempty"`
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (default: batch.workers from config, 0 = one per CPU)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchWorkers > 0 {
		cfg.Batch.Workers = batchWorkers
	}
	if err := validate(config.ValidationContextBatch); err != nil {
		return err
	}
	level, err := verbosity(cmd)
	if err != nil {
		return err
	}

	inspector, _, release := newInspector()
	defer release()

	items, summary, err := inspector.InspectAll(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isStructured(level) {
		reports := make([]batchReport, 0, len(items))
		for _, item := range items {
			r := batchReport{Path: item.Path, Result: item.Result}
			if item.Err != nil {
				r.Error = item.Err.Error()
			}
			reports = append(reports, r)
		}
		if err := writeStructured(out, level, reports); err != nil {
			return err
		}
	} else {
		quiet := &output.QuietFormatter{}
		for _, item := range items {
			if item.Err != nil {
				fmt.Fprintf(out, "%s: ❌ %v\n", item.Path, item.Err)
				continue
			}
			fmt.Fprintf(out, "%s: ", item.Path)
			if err := quiet.Format(item.Result, out); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d inspected, %d failed (%s)\n",
			summary.Succeeded, summary.Failed, summary.Duration.Round(time.Millisecond))
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d archives failed", summary.Failed, summary.Total)
	}
	return nil
}
