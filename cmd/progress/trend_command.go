package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"progress/internal/app"
	"progress/internal/domain"
)

func newTrendCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON bool
		unit   string
		last   int
	)
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show week-over-week weight change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var points []app.WeekPoint
			err := ctx.withRepository(cmd.Context(), func(repo domain.ProgressRepository) error {
				var err error
				points, err = app.NewTrendService(repo).Weekly(cmd.Context(), unit, last)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(points)
			}
			if len(points) == 0 {
				fmt.Fprintln(out, "No entries found in database")
				return nil
			}

			rows := make([][]string, 0, len(points))
			for _, p := range points {
				change := "-"
				if p.Change != nil {
					change = fmt.Sprintf("%+.1f", *p.Change)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", p.WeekNumber),
					p.Date,
					fmt.Sprintf("%.1f", p.Weight),
					change,
					fmt.Sprintf("%.1f%%", p.FatPercent*100),
					formatNumber(p.Waist),
				})
			}
			unitLabel := points[0].Unit
			fmt.Fprintln(out, renderTable(
				[]string{"Week", "Date", "Weight (" + unitLabel + ")", "Change", "Fat", "Waist"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&unit, "unit", domain.UnitKG, "Weight unit: kg or lb")
	cmd.Flags().IntVar(&last, "last", 0, "Only show the most recent N weeks")
	return cmd
}
