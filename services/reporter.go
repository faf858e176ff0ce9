package services

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"review-sentiment/models"
)

const reportWidth = 72

// sentimentThreshold separates neutral compound scores from polar ones
const sentimentThreshold = 0.05

// PrintReviewReport formats and prints the review report to w
func PrintReviewReport(w io.Writer, q models.ReviewQuery, report *models.ReviewReport) {
	border := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)
	heading := color.New(color.FgWhite, color.Bold)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("APP REVIEW SENTIMENT REPORT", reportWidth))
	fmt.Fprintf(w, "╚%s╝\n", border)

	heading.Fprintf(w, "\n OVERVIEW\n")
	fmt.Fprintf(w, "%s\n", thin)
	fmt.Fprintf(w, "  Provider          : %s\n", q.Provider)
	fmt.Fprintf(w, "  App               : %s (%s)\n", q.AppID, q.Country)
	fmt.Fprintf(w, "  Pages             : %d\n", q.Pages)
	fmt.Fprintf(w, "  Reviews           : %d\n", len(report.Reviews))

	if st := report.Statistics; st != nil {
		fmt.Fprintf(w, "  Average Rating    : %.2f\n", st.AverageRating)
		fmt.Fprintf(w, "  Average Sentiment : %s\n", colorScore(st.AverageSentiment))

		heading.Fprintf(w, "\n RATING DISTRIBUTION\n")
		fmt.Fprintf(w, "%s\n", thin)
		stars := make([]int, 0, len(st.RatingDistribution))
		for s := range st.RatingDistribution {
			stars = append(stars, s)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(stars)))
		for _, s := range stars {
			count := st.RatingDistribution[s]
			fmt.Fprintf(w, "  %d★ %4d  %s\n", s, count, strings.Repeat("▓", barLength(count, len(report.Reviews))))
		}

		if len(st.RatingPerVersion) > 0 {
			heading.Fprintf(w, "\n PER VERSION\n")
			fmt.Fprintf(w, "%s\n", thin)
			versions := make([]string, 0, len(st.RatingPerVersion))
			for v := range st.RatingPerVersion {
				versions = append(versions, v)
			}
			sort.Strings(versions)
			rows := make([][]string, 0, len(versions))
			for _, v := range versions {
				label := v
				if label == "" {
					label = "(unknown)"
				}
				rows = append(rows, []string{
					label,
					strconv.FormatFloat(st.RatingPerVersion[v], 'f', 2, 64),
					colorScore(st.SentimentPerVersion[v]),
				})
			}
			renderTable(w, []string{"Version", "Rating", "Sentiment"}, rows)
		}

		if len(st.MostCommonWords) > 0 {
			heading.Fprintf(w, "\n MOST COMMON WORDS\n")
			fmt.Fprintf(w, "%s\n", thin)
			for i, wc := range st.MostCommonWords {
				fmt.Fprintf(w, "  %2d. %-20s %d\n", i+1, wc.Word, wc.Count)
			}
		}
	} else {
		color.New(color.FgYellow).Fprintf(w, "  Statistics        : not available\n")
	}

	if len(report.Reviews) > 0 {
		heading.Fprintf(w, "\n REVIEWS\n")
		fmt.Fprintf(w, "%s\n", thin)
		rows := make([][]string, 0, len(report.Reviews))
		for _, r := range report.Reviews {
			rows = append(rows, []string{
				strconv.Itoa(r.StarRating),
				colorScore(r.SentimentScore()),
				r.Version,
				truncate(r.DisplayAuthor(), 18),
				truncate(r.Document(), 40),
			})
		}
		renderTable(w, []string{"Stars", "Sentiment", "Version", "Author", "Review"}, rows)
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)
	table.Bulk(rows)
	table.Render()
}

func colorScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', 3, 64)
	switch {
	case score >= sentimentThreshold:
		return color.GreenString(s)
	case score <= -sentimentThreshold:
		return color.RedString(s)
	default:
		return color.YellowString(s)
	}
}

func barLength(count, total int) int {
	if total == 0 {
		return 0
	}
	return count * 40 / total
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
