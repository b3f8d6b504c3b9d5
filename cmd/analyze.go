package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/sources"
	"github.com/abhisek/truthly/internal/ui/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze an article with the full ensemble",
	Example: `  truthly analyze --title "Council approves budget" --content "The council voted..."
  truthly analyze --url https://example.com/news/story
  truthly analyze --file article.json --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := envFrom(cmd)
		if err != nil {
			return err
		}
		article, err := readArticle(cmd)
		if err != nil {
			return err
		}

		analyzer, set := buildAnalyzer(cmd, rt)
		defer set.Close()

		verdict := analyzer.Analyze(cmd.Context(), article)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), verdict)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Verdict(article.Title, verdict))
		return nil
	},
}

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Score an article with the offline heuristic only",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := envFrom(cmd)
		if err != nil {
			return err
		}
		article, err := readArticle(cmd)
		if err != nil {
			return err
		}

		verdict := newAnalyzer(rt, nil).Quick(article)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), verdict)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Verdict(article.Title, verdict))
		return nil
	},
}

func init() {
	addArticleFlags(analyzeCmd)
	addArticleFlags(quickCmd)
}

// buildAnalyzer creates every configured source. The returned set must be
// closed by the caller.
func buildAnalyzer(cmd *cobra.Command, rt *cliEnv) (*ensemble.Analyzer, *sources.Set) {
	set := sources.Build(cmd.Context(), sources.Options{
		Classifiers: rt.cfg.Classifier,
		LLM:         rt.cfg.LLM,
		Search:      rt.cfg.Search,
	}, rt.logger)
	return newAnalyzer(rt, set.Sources), set
}

func newAnalyzer(rt *cliEnv, srcs []ensemble.Source) *ensemble.Analyzer {
	e := rt.cfg.Ensemble
	return ensemble.NewAnalyzer(
		ensemble.NewOrchestrator(e.Orchestrator, rt.logger),
		ensemble.NewAggregator(e.Weights, e.Bounds),
		srcs,
		rt.logger,
	)
}
