package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"newssense/internal/models"
	"newssense/internal/resolver"
)

func newInstrumentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "Browse the instrument universe",
	}

	cmd.AddCommand(newInstrumentsListCmd(app))
	cmd.AddCommand(newInstrumentsResolveCmd(app))
	cmd.AddCommand(newInstrumentsSnapshotCmd(app))

	return cmd
}

func newInstrumentsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all instruments",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			category, _ := cmd.Flags().GetString("category")

			instruments := app.Instruments
			if category != "" {
				instruments = filterByCategory(instruments, category)
			}

			if output.IsJSON() {
				return output.JSON(instruments)
			}

			table := NewTable(output, "ID", "NAME", "CATEGORY", "SECTOR", "PERF", "SESSION")
			for _, inst := range instruments {
				table.AddRow(
					inst.ID,
					inst.Name,
					string(inst.Category),
					inst.Sector,
					output.FormatPercent(inst.Performance),
					output.FormatPercent(inst.ChangePercent),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d instruments", len(instruments))
			return nil
		},
	}

	cmd.Flags().String("category", "", "filter by category (Stock, ETF, MutualFund)")
	return cmd
}

func newInstrumentsResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [text...]",
		Short: "Show which instruments a piece of text matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			text := strings.Join(args, " ")

			matched := resolver.Resolve(text, app.Instruments)

			if output.IsJSON() {
				return output.JSON(matched)
			}

			if len(matched) == 0 {
				output.Warning("No instruments matched %q.", text)
				return nil
			}

			for _, inst := range matched {
				output.Printf("  %s  %s (%s, %s)\n", inst.ID, inst.Name, inst.Category, inst.Sector)
			}
			return nil
		},
	}
}

func newInstrumentsSnapshotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Persist the current instrument universe to the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			if err := app.Store.SaveInstruments(cmd.Context(), app.Instruments); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]int{"saved": len(app.Instruments)})
			}
			output.Success("Saved %d instruments", len(app.Instruments))
			return nil
		},
	}
}

func filterByCategory(instruments []models.Instrument, category string) []models.Instrument {
	var out []models.Instrument
	for _, inst := range instruments {
		if strings.EqualFold(string(inst.Category), category) {
			out = append(out, inst)
		}
	}
	return out
}
