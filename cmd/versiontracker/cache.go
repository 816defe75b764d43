package main

import (
	"fmt"
	"os"

	"github.com/docdyhr/versiontracker-sub000/internal/common/config"
	"github.com/docdyhr/versiontracker-sub000/internal/common/logger"
	"github.com/docdyhr/versiontracker-sub000/internal/common/output"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the catalog cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts and hit rates",
	Run:   runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached catalog data",
	Run:   runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	store, err := buildStore(cfg)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	defer store.Close()

	stats := store.Stats()
	fmt.Printf("memory entries: %d\n", stats.MemoryEntries)
	fmt.Printf("disk entries:   %d\n", stats.DiskEntries)
	fmt.Printf("memory hits:    %d\n", stats.MemoryHits)
	fmt.Printf("disk hits:      %d\n", stats.DiskHits)
	fmt.Printf("misses:         %d\n", stats.Misses)
	fmt.Printf("writes:         %d\n", stats.Writes)
}

func runCacheClear(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	store, err := buildStore(cfg)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		logger.Error("clearing cache: %v", err)
		os.Exit(1)
	}
	output.PrintSuccess("cache cleared")
}
