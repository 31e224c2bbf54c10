package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"progress/internal/app"
	"progress/internal/domain"
)

type listEntry struct {
	ID         string  `json:"id"`
	WeekNumber int     `json:"week_number"`
	Date       string  `json:"date"`
	Weight     float64 `json:"weight"`
	Unit       string  `json:"unit"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON bool
		unit   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all entries ordered by week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := domain.ParseUnit(unit)
			if err != nil {
				return err
			}
			return runList(cmd, ctx, asJSON, u)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&unit, "unit", domain.UnitKG, "Weight unit: kg or lb")
	return cmd
}

func runList(cmd *cobra.Command, ctx *commandContext, asJSON bool, unit string) error {
	var items []domain.ProgressRecord
	err := ctx.withService(cmd.Context(), func(svc *app.EntryService) error {
		var err error
		items, err = svc.ListEntries(cmd.Context())
		return err
	})
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, listEntry{
			ID:         item.ID,
			WeekNumber: item.WeekNumber,
			Date:       item.Date,
			Weight:     domain.ConvertWeight(item.Weight, domain.UnitKG, unit),
			Unit:       unit,
		})
	}

	out := cmd.OutOrStdout()
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries found in database")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			fmt.Sprintf("%d", e.WeekNumber),
			e.Date,
			fmt.Sprintf("%.1f", e.Weight),
		})
	}
	fmt.Fprintln(out, "Current entries in database:")
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Week", "Date", "Weight (" + unit + ")"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight},
	))
	return nil
}
