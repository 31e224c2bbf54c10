package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"progress/internal/app"
	"progress/internal/domain"
)

const removeUsage = `Usage:
  progress remove <week_number>       # Remove by week number
  progress remove --id <entry_id>     # Remove by ID
  progress remove --list              # List all entries
  progress remove --help              # Show this help
`

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var (
		entryID string
		list    bool
	)

	cmd := &cobra.Command{
		Use:         "remove [week_number]",
		Short:       "Remove an entry by week number or id",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationAction: string(domain.ActionRemove)},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				return runList(cmd, ctx, false, domain.UnitKG)
			}

			var sel app.RemoveSelector
			sel.ID = strings.TrimSpace(entryID)
			if len(args) == 1 {
				week, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil {
					fmt.Fprintf(out, "✗ Invalid week number: %s\n", args[0])
					fmt.Fprintln(out, "Use --help for usage information")
					return errReported
				}
				sel.WeekNumber = &week
			}

			var outcome domain.Outcome
			if sel.ID == "" && sel.WeekNumber == nil {
				outcome = domain.Outcome{
					Kind:   domain.OutcomeUsageError,
					Action: domain.ActionRemove,
					Err:    errors.New("provide either a week number or an entry id to remove"),
				}
			} else {
				err := ctx.withService(cmd.Context(), func(svc *app.EntryService) error {
					outcome = svc.RemoveEntry(cmd.Context(), sel)
					return nil
				})
				if err != nil {
					outcome = domain.Outcome{Kind: domain.OutcomeFailed, Action: domain.ActionRemove, Err: err}
				}
			}

			printRemoveReport(out, outcome, ctx.config.Storage.Table)
			ctx.dispatcher(ctx.config.Notifications).Dispatch(cmd.Context(), outcome)
			if !outcome.Success() {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&entryID, "id", "", "Remove the entry with this id")
	cmd.Flags().BoolVar(&list, "list", false, "List all entries instead of removing")
	return cmd
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, removeUsage)
}
