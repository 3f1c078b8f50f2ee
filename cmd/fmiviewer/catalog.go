package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/halentin/FMI-Viewer/internal/cache"
	"github.com/halentin/FMI-Viewer/internal/config"
	"github.com/halentin/FMI-Viewer/internal/storage"
	"github.com/spf13/cobra"
)

var catalogLimit int

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Record inspected FMUs in a searchable catalog",
	Long: `Maintain a catalog of inspected FMUs and their variables in SQLite (default)
or PostgreSQL (catalog.driver: postgres, DSN from catalog.postgres_dsn or DATABASE_URL).`,
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <file.fmu>...",
	Short: "Inspect FMUs and add them to the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogAdd,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued models, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <name-substring>",
	Short: "Find variables by name across all catalogued models",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogSearch,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalogued model with its variables",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func init() {
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogShowCmd)

	catalogListCmd.Flags().IntVarP(&catalogLimit, "limit", "n", storage.DefaultListLimit, "maximum rows")
	catalogSearchCmd.Flags().IntVarP(&catalogLimit, "limit", "n", storage.DefaultListLimit, "maximum rows")
}

func openCatalog() (storage.Store, error) {
	if err := validate(config.ValidationContextCatalog); err != nil {
		return nil, err
	}
	return storage.Open(cfg.Catalog.Driver, cfg.Catalog.SQLitePath, cfg.Catalog.PostgresDSN, logger)
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	inspector, _, release := newInspector()
	defer release()

	items, summary, err := inspector.InspectAll(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := summary.Failed
	for _, item := range items {
		if item.Err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", item.Path, item.Err)
			continue
		}
		sha, err := cache.Key(item.Path)
		if err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", item.Path, err)
			failed++
			continue
		}
		model, err := store.SaveModel(cmd.Context(), item.Path, sha, item.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ %s  %s (%d variables)\n", model.ID, model.ModelName, model.VariableCount)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d archives not catalogued", failed, len(args))
	}
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.ListModels(cmd.Context(), catalogLimit)
	if err != nil {
		return err
	}

	level, err := verbosity(cmd)
	if err != nil {
		return err
	}
	if isStructured(level) {
		return writeStructured(cmd.OutOrStdout(), level, list)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tMODEL\tFMI\tVARIABLES\tPLATFORMS\tINSPECTED\n")
	for _, m := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			m.ID, m.ModelName, m.FMIVersion, m.VariableCount, m.Platforms,
			m.InspectedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	matches, err := store.SearchVariables(cmd.Context(), args[0], catalogLimit)
	if err != nil {
		return err
	}

	level, err := verbosity(cmd)
	if err != nil {
		return err
	}
	if isStructured(level) {
		return writeStructured(cmd.OutOrStdout(), level, matches)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "MODEL\tVARIABLE\tTYPE\tCAUSALITY\tUNIT\tPATH\n")
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ModelName, m.Name, m.Type, m.Causality, m.Unit, m.Path)
	}
	return tw.Flush()
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	model, vars, err := store.GetModel(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("model %s: %w", args[0], err)
	}

	level, err := verbosity(cmd)
	if err != nil {
		return err
	}
	if isStructured(level) {
		return writeStructured(cmd.OutOrStdout(), level, map[string]interface{}{
			"model":     model,
			"variables": vars,
		})
	}

	platforms := "none"
	if list := model.PlatformList(); len(list) > 0 {
		platforms = strings.Join(list, ", ")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🔍 %s (FMI %s)\n", model.ModelName, model.FMIVersion)
	fmt.Fprintf(out, "Path: %s\nSHA-256: %s\nPlatforms: %s\n\n", model.Path, model.SHA256, platforms)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tNAME\tVR\tTYPE\tCAUSALITY\tVARIABILITY\tUNIT\tDIMENSIONS\n")
	for _, v := range vars {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Position, v.Name, v.ValueReference, v.Type, v.Causality, v.Variability, v.Unit, v.Dimensions)
	}
	return tw.Flush()
}
