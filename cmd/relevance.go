package main

import (
	"github.com/spf13/cobra"

	"github.com/tracewell/skiptrace/internal/model"
	"github.com/tracewell/skiptrace/internal/relevance"
)

var (
	relevanceSubject subjectFlags
	relevanceTitle   string
	relevanceURL     string
	relevanceSource  string
)

var relevanceCmd = &cobra.Command{
	Use:   "relevance <snippet>",
	Short: "Score a result snippet against the search subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("relevance"); err != nil {
			return err
		}

		table, err := loadGeoTable()
		if err != nil {
			return err
		}

		scorer := relevance.NewScorer(cfg.Relevance, table)
		result := model.NewSearchResult(relevanceTitle, args[0], relevanceURL, relevanceSource, relevanceSubject.name)

		return printJSON(map[string]int{
			"relevance":    scorer.Score(args[0], relevanceSubject.context()),
			"result_score": scorer.ScoreResult(result, relevanceSubject.context()),
			"source_bonus": scorer.SourceBonus(relevanceURL + " " + relevanceSource),
		})
	},
}

func init() {
	relevanceSubject.register(relevanceCmd)
	relevanceCmd.Flags().StringVar(&relevanceTitle, "title", "", "result title")
	relevanceCmd.Flags().StringVar(&relevanceURL, "url", "", "result URL")
	relevanceCmd.Flags().StringVar(&relevanceSource, "source", "", "result source label")
	rootCmd.AddCommand(relevanceCmd)
}
