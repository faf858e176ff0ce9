package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"review-sentiment/services"
	"review-sentiment/storage"
)

type analyzeOptions struct {
	provider     string
	country      string
	appID        string
	pages        int
	noStatistics bool
	csvPath      string
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch, score and summarize the reviews of one app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := services.ValidateQuery(opts.queryParams())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.service.Reviews(ctx, q)
			if err != nil {
				return err
			}
			services.PrintReviewReport(cmd.OutOrStdout(), q, report)

			if opts.csvPath != "" {
				var exporter storage.ReviewExporter = storage.NewCSVWriter(opts.csvPath, a.log)
				if err := exporter.Export(report.Reviews); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), " Done! Scored reviews →", opts.csvPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.provider, "provider", "apple", "storefront: apple or google")
	f.StringVar(&opts.country, "country", "", "storefront country code, e.g. nl")
	f.StringVar(&opts.appID, "app-id", "", "App Store id or Play Store package name")
	f.IntVar(&opts.pages, "pages", 1, "number of review pages to fetch (1-10)")
	f.BoolVar(&opts.noStatistics, "no-statistics", false, "skip the statistics summary")
	f.StringVar(&opts.csvPath, "csv", "", "also export the scored reviews to this CSV file")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("app-id")

	return cmd
}

func (o analyzeOptions) queryParams() services.QueryParams {
	return services.QueryParams{
		Provider:   o.provider,
		Country:    o.country,
		AppID:      o.appID,
		Pages:      strconv.Itoa(o.pages),
		Statistics: strconv.FormatBool(!o.noStatistics),
	}
}
