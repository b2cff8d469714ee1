package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"newssense/internal/explain"
	"newssense/internal/models"
	"newssense/pkg/utils"
)

func newAskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask why an instrument is moving",
		Long: `Ask a plain-language question about a stock, ETF or mutual fund.

Examples:
  newssense ask why is jyothy labs up today
  newssense ask how are pharma funds performing
  newssense ask --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive, _ := cmd.Flags().GetBool("interactive")
			output := NewOutput(cmd, app.Config.UI)

			if interactive {
				return runInteractive(cmd, app, output)
			}

			if len(args) == 0 {
				return fmt.Errorf("provide a question or use --interactive")
			}
			return runAsk(cmd, app, output, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolP("interactive", "i", false, "interactive question loop")
	cmd.Flags().Bool("detailed", false, "show the full detailed explanation")
	return cmd
}

func runInteractive(cmd *cobra.Command, app *App, output *Output) error {
	output.Bold("NewsSense interactive mode")
	output.Dim("Ask about any Indian stock, ETF or mutual fund. Type 'exit' to quit.")
	output.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		output.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if err := runAsk(cmd, app, output, line); err != nil {
			output.Error("Error: %v", err)
		}
		output.Println()
	}
	return scanner.Err()
}

func runAsk(cmd *cobra.Command, app *App, output *Output, question string) error {
	answer, err := app.Pipeline.AnswerQuery(cmd.Context(), question)
	if err != nil {
		return err
	}

	if output.IsJSON() {
		return output.JSON(answer)
	}

	detailed, _ := cmd.Flags().GetBool("detailed")
	printAnswer(output, answer, detailed)
	return nil
}

func printAnswer(output *Output, answer *models.Answer, detailed bool) {
	output.Dim("Intent: %s | Timeframe: %s | Market: %s",
		answer.Query.Intent, answer.Query.Timeframe, utils.GetMarketStatus())
	output.Println()

	if !answer.Matched() {
		output.Warning("No instrument recognized in your question.")
		output.Println()
		if len(answer.RelatedNews) > 0 {
			output.Bold("General market news:")
			printNewsList(output, answer.RelatedNews, 5)
		} else {
			output.Println("Try naming a stock, ETF or mutual fund, e.g. \"why is jyothy labs up today\".")
		}
		return
	}

	for _, inst := range answer.MatchedInstruments {
		records := answer.NewsByInstrument[inst.ID]

		output.Bold("%s (%s)", inst.Name, inst.Category)
		output.Printf("  Performance: %s | Session: %s | Outlook: %s\n",
			output.FormatPercent(inst.Performance),
			output.FormatPercent(inst.ChangePercent),
			output.OutlookBadge(explain.Outlook(inst, records)))
		output.Println()

		if detailed {
			output.Println(answer.Explanations[inst.ID])
		} else {
			output.Println(answer.Summaries[inst.ID])
		}
		output.Println()

		if len(records) > 0 {
			output.Bold("Related news:")
			printNewsList(output, records, 3)
			output.Println()
		}
	}
}

func printNewsList(output *Output, records []models.NewsRecord, limit int) {
	if len(records) > limit {
		records = records[:limit]
	}
	for _, rec := range records {
		output.Printf("  • %s\n", Truncate(rec.Title, 80))
		output.Printf("    %s | %s | impact: %s | %s\n",
			output.DimText(rec.Source),
			output.SentimentBadge(rec.Sentiment),
			output.ImpactBadge(rec.Impact),
			output.DimText(FormatTimeAgo(rec.PublishedAt)))
	}
}
