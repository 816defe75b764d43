package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/docdyhr/versiontracker-sub000/internal/common/config"
	"github.com/docdyhr/versiontracker-sub000/internal/common/logger"
	"github.com/docdyhr/versiontracker-sub000/internal/common/output"
	"github.com/docdyhr/versiontracker-sub000/internal/recommend"
	"github.com/spf13/cobra"
)

var (
	recommendJSON    bool
	recommendRefresh bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend updates for installed applications",
	Long:  `Scan installed applications, match each against the Homebrew cask catalog, and report its update status.`,
	Run:   runRecommend,
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output results as JSON")
	recommendCmd.Flags().BoolVar(&recommendRefresh, "refresh", false, "Clear cached catalog data before querying")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) {
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

	if recommendRefresh {
		if err := store.Clear(); err != nil {
			logger.Warn("clearing cache: %v", err)
		}
	}

	recs, err := engine.Run(cmd.Context())
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	if recommendJSON {
		printJSON(recs)
		return
	}
	printTable(recs)
}

func printJSON(recs []recommend.Recommendation) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		logger.Error("encoding output: %v", err)
		os.Exit(1)
	}
}

func printTable(recs []recommend.Recommendation) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "APPLICATION\tINSTALLED\tCASK\tCATALOG\tSTATUS")

	var outdated, unknown int
	for _, rec := range recs {
		switch rec.Status {
		case recommend.StatusOutdated:
			outdated++
		case recommend.StatusUnknown:
			unknown++
		}

		cask := rec.CaskToken
		if cask == "" {
			cask = "-"
		}
		catVer := rec.CatalogVersion
		if catVer == "" {
			catVer = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			output.FormatApp(rec.Name),
			rec.InstalledVersion,
			cask,
			catVer,
			output.FormatStatus(string(rec.Status)),
		)
	}
	w.Flush()

	fmt.Println()
	output.Summary(len(recs), outdated, unknown)
}
