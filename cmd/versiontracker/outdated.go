package main

import (
	"os"

	"github.com/docdyhr/versiontracker-sub000/internal/common/config"
	"github.com/docdyhr/versiontracker-sub000/internal/common/logger"
	"github.com/docdyhr/versiontracker-sub000/internal/recommend"
	"github.com/spf13/cobra"
)

var outdatedJSON bool

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List only applications with updates available",
	Long:  `Like recommend, but shows only applications whose installed version is older than the catalog version. Exits with status 1 when any application is outdated.`,
	Run:   runOutdated,
}

func init() {
	outdatedCmd.Flags().BoolVar(&outdatedJSON, "json", false, "Output results as JSON")
	rootCmd.AddCommand(outdatedCmd)
}

func runOutdated(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	engine, store, err := buildEngine(cfg)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	defer store.Close()

	recs, err := engine.Run(cmd.Context())
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	var outdated []recommend.Recommendation
	for _, rec := range recs {
		if rec.Status == recommend.StatusOutdated {
			outdated = append(outdated, rec)
		}
	}

	if outdatedJSON {
		printJSON(outdated)
	} else {
		printTable(outdated)
	}

	// Scriptable exit status, same convention as brew outdated
	if len(outdated) > 0 {
		store.Close()
		os.Exit(1)
	}
}
