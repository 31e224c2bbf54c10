package main

import (
	"fmt"
	"io"
	"strconv"

	"progress/internal/domain"
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printAddReport(w io.Writer, out domain.Outcome, table string) {
	switch out.Kind {
	case domain.OutcomeCreated:
		rec := out.Record
		fmt.Fprintf(w, "✓ Entry added successfully to '%s' table\n", table)
		fmt.Fprintf(w, "  ID: %s\n", rec.ID)
		fmt.Fprintf(w, "  Week Number: %d\n", rec.WeekNumber)
		fmt.Fprintf(w, "  Date: %s\n", rec.Date)
		fmt.Fprintf(w, "  Weight: %s kg\n", formatNumber(rec.Weight))
	case domain.OutcomeDuplicate:
		fmt.Fprintf(w, "✗ Entry with %s already exists\n", out.Identifier)
		if ex := out.Existing; ex != nil {
			fmt.Fprintf(w, "  Existing entry: Date=%s, Weight=%s kg\n", ex.Date, formatNumber(ex.Weight))
		}
	default:
		fmt.Fprintf(w, "✗ Error adding entry: %v\n", out.Err)
	}
}

func printRemoveReport(w io.Writer, out domain.Outcome, table string) {
	switch out.Kind {
	case domain.OutcomeDeleted:
		fmt.Fprintf(w, "✓ Entry with %s removed successfully from '%s' table\n", out.Identifier, table)
	case domain.OutcomeNotFound:
		fmt.Fprintf(w, "✗ Entry with %s not found in '%s' table\n", out.Identifier, table)
	case domain.OutcomeUsageError:
		fmt.Fprintln(w, "✗ Please provide either week_number or entry_id to remove")
		printUsage(w)
	default:
		fmt.Fprintf(w, "✗ Error removing entry: %v\n", out.Err)
	}
}
