package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/news"
	"github.com/abhisek/truthly/internal/ui/report"
)

// batchOutput mirrors the batch response shape.
type batchOutput struct {
	Results            []ensemble.BatchItem `json:"results"`
	TotalProcessed     int                  `json:"total_processed"`
	SuccessfulAnalyses int                  `json:"successful_analyses"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <articles.json>",
	Short: fmt.Sprintf("Analyze up to %d articles from a JSON array", ensemble.MaxBatchSize),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := envFrom(cmd)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read batch file: %w", err)
		}
		var articles []news.Article
		if err := json.Unmarshal(raw, &articles); err != nil {
			return fmt.Errorf("decode batch file: %w", err)
		}
		if len(articles) == 0 {
			return fmt.Errorf("batch file %s has no articles", args[0])
		}

		quick, _ := cmd.Flags().GetBool("quick")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		var analyzer *ensemble.Analyzer
		if quick {
			analyzer = newAnalyzer(rt, nil)
		} else {
			a, set := buildAnalyzer(cmd, rt)
			defer set.Close()
			analyzer = a
		}

		items := analyzer.AnalyzeBatch(cmd.Context(), articles, quick, concurrency)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out := batchOutput{Results: items, TotalProcessed: len(items)}
			for _, it := range items {
				if it.Verdict != nil {
					out.SuccessfulAnalyses++
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Batch(items))
		return nil
	},
}

func init() {
	batchCmd.Flags().Bool("quick", false, "Use the offline heuristic only")
	batchCmd.Flags().Int("concurrency", 3, "Articles analyzed at once")
	batchCmd.Flags().Bool("json", false, "Print results as JSON")
}
