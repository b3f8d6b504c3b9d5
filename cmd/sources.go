package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/truthly/internal/sources"
	"github.com/abhisek/truthly/internal/ui/report"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources and why any are unavailable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := envFrom(cmd)
		if err != nil {
			return err
		}

		set := sources.Build(cmd.Context(), sources.Options{
			Classifiers: rt.cfg.Classifier,
			LLM:         rt.cfg.LLM,
			Search:      rt.cfg.Search,
		}, rt.logger)
		defer set.Close()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"status":           "healthy",
				"sources":          set.Status(),
				"available":        set.Available(),
				"total":            len(set.Sources),
				"source_timeout_s": rt.cfg.Ensemble.Orchestrator.SourceTimeout.Seconds(),
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Sources(set.Status()))
		return nil
	},
}

func init() {
	sourcesCmd.Flags().Bool("json", false, "Print the listing as JSON")
}
