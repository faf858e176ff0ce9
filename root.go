package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "review-sentiment",
		Short: "App store review sentiment and statistics engine",
		Long: `review-sentiment fetches App Store and Play Store reviews, scores every review
with a lexicon-based sentiment analyzer and summarizes the batch.

Example usage:
  review-sentiment serve
  review-sentiment analyze --provider apple --country nl --app-id 1234567 --pages 3
  review-sentiment analyze --provider google --country be --app-id com.example.app --csv reviews.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newAnalyzeCmd())
	return root
}
