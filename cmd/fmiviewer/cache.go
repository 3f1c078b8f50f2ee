package main

import (
	"fmt"

	"github.com/halentin/FMI-Viewer/internal/cache"
	"github.com/halentin/FMI-Viewer/internal/config"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show result cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached results",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openCacheForAdmin() (*cache.Manager, error) {
	if err := validate(config.ValidationContextServe); err != nil {
		return nil, err
	}
	if cfg.Cache.Path == "" {
		return nil, fmt.Errorf("cache.path is not configured")
	}
	return cache.Open(cfg.Cache.Path, logger)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	m, err := openCacheForAdmin()
	if err != nil {
		return err
	}
	defer m.Close()

	stats, err := m.Stats()
	if err != nil {
		return err
	}

	level, err := verbosity(cmd)
	if err != nil {
		return err
	}
	if isStructured(level) {
		return writeStructured(cmd.OutOrStdout(), level, stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "💾 Result cache\n")
	fmt.Fprintf(out, "  Path: %s\n", stats.Path)
	fmt.Fprintf(out, "  Enabled: %v\n", cfg.Cache.Enabled)
	fmt.Fprintf(out, "  Entries: %d\n", stats.Entries)
	fmt.Fprintf(out, "  Size: %s\n", formatBytes(stats.Size))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	m, err := openCacheForAdmin()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Result cache cleared")
	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
