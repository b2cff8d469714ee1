package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"newssense/internal/explain"
	"newssense/internal/models"
)

func newNewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news [subject...]",
		Short: "Show recent news for a subject or the broad market",
		Long: `Fetch and rank recent news. With a subject, news about that instrument or
topic; without one, market-wide headlines.

Examples:
  newssense news reliance
  newssense news --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			limit, _ := cmd.Flags().GetInt("limit")

			records, err := fetchFor(cmd, app, strings.Join(args, " "))
			if err != nil {
				output.Error("Failed to fetch news: %v", err)
				return err
			}

			ranked := explain.RankNews(records)
			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}

			if output.IsJSON() {
				return output.JSON(ranked)
			}

			if len(ranked) == 0 {
				output.Warning("No news found.")
				return nil
			}

			table := NewTable(output, "TITLE", "SOURCE", "SENTIMENT", "IMPACT", "AGE")
			for _, rec := range ranked {
				table.AddRow(
					Truncate(rec.Title, 60),
					rec.Source,
					output.SentimentBadge(rec.Sentiment),
					output.ImpactBadge(rec.Impact),
					FormatTimeAgo(rec.PublishedAt),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "maximum articles to show")
	return cmd
}

func fetchFor(cmd *cobra.Command, app *App, subject string) ([]models.NewsRecord, error) {
	if subject == "" {
		return app.Fetcher.FetchGeneralMarketNews(cmd.Context())
	}
	return app.Fetcher.FetchNews(cmd.Context(), subject)
}
