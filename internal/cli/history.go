package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"newssense/internal/models"
	"newssense/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently answered queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			limit, _ := cmd.Flags().GetInt("limit")
			intent, _ := cmd.Flags().GetString("intent")

			entries, err := app.Store.GetQueryLog(cmd.Context(), store.QueryLogFilter{
				Intent: models.Intent(intent),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(entries)
			}

			if len(entries) == 0 {
				output.Dim("No queries logged yet.")
				return nil
			}

			table := NewTable(output, "WHEN", "QUERY", "INTENT", "MATCHED", "NEWS", "CACHED")
			for _, entry := range entries {
				cached := ""
				if entry.FromCache {
					cached = "yes"
				}
				table.AddRow(
					output.FormatTimestamp(entry.Timestamp),
					Truncate(entry.Raw, 50),
					string(entry.Intent),
					fmt.Sprintf("%d", entry.MatchedCount),
					fmt.Sprintf("%d", entry.NewsCount),
					cached,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum entries to show")
	cmd.Flags().String("intent", "", "filter by intent")
	return cmd
}
