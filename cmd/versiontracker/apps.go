package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/docdyhr/versiontracker-sub000/internal/common/logger"
	"github.com/docdyhr/versiontracker-sub000/internal/inventory"
	"github.com/spf13/cobra"
)

var appsJSON bool

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed applications",
	Long:  `List installed applications as reported by the system, without querying the catalog.`,
	Run:   runApps,
}

func init() {
	appsCmd.Flags().BoolVar(&appsJSON, "json", false, "Output results as JSON")
	rootCmd.AddCommand(appsCmd)
}

func runApps(cmd *cobra.Command, args []string) {
	provider := inventory.NewProfilerProvider("")

	apps, err := provider.Applications(cmd.Context())
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	if appsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(apps); err != nil {
			logger.Error("encoding output: %v", err)
			os.Exit(1)
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "APPLICATION\tVERSION\tSOURCE")
	for _, app := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\n", app.Name, app.Version, app.Source)
	}
	w.Flush()
}
