package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"progress/internal/app"
	"progress/internal/domain"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		week       int
		date       string
		weight     float64
		fatPercent float64
		bmi        float64
		entryFile  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a weekly entry unless its week already exists",
		Long: `Add inserts one progress record. The record starts from the stock week-1
values dated today; an entry file (TOML, same keys as the table columns) and
flags override individual fields.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationAction: string(domain.ActionAdd)},
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := domain.DefaultRecord(ctx.now())
			if strings.TrimSpace(entryFile) != "" {
				if err := readEntryFile(entryFile, &rec); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			if flags.Changed("week") {
				rec.WeekNumber = week
			}
			if flags.Changed("date") {
				rec.Date = strings.TrimSpace(date)
			}
			if flags.Changed("weight") {
				rec.Weight = weight
			}
			if flags.Changed("fat-percent") {
				rec.FatPercent = fatPercent
			}
			if flags.Changed("bmi") {
				rec.BMI = bmi
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checking for existing entry with week_number %d...\n", rec.WeekNumber)

			var outcome domain.Outcome
			err := ctx.withService(cmd.Context(), func(svc *app.EntryService) error {
				outcome = svc.AddEntry(cmd.Context(), rec)
				return nil
			})
			if err != nil {
				outcome = domain.Outcome{Kind: domain.OutcomeFailed, Action: domain.ActionAdd, Identifier: domain.WeekIdentifier(rec.WeekNumber), Err: err}
			}

			printAddReport(out, outcome, ctx.config.Storage.Table)
			ctx.dispatcher(ctx.config.Notifications).Dispatch(cmd.Context(), outcome)
			if !outcome.Success() {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Week number (business key)")
	cmd.Flags().StringVar(&date, "date", "", "Entry date, YYYY-MM-DD (default today)")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Body weight in kg")
	cmd.Flags().Float64Var(&fatPercent, "fat-percent", 0, "Body fat as a fraction, e.g. 0.09")
	cmd.Flags().Float64Var(&bmi, "bmi", 0, "Body mass index")
	cmd.Flags().StringVarP(&entryFile, "file", "f", "", "TOML file with measurement values")
	return cmd
}

func readEntryFile(path string, rec *domain.ProgressRecord) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open entry file: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(rec); err != nil {
		return fmt.Errorf("parse entry file %s: %w", path, err)
	}
	return nil
}
