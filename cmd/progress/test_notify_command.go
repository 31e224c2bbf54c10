package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"progress/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config.Notifications
			sender, err := ctx.newSender(cfg)
			if err != nil {
				return fmt.Errorf("notifications: %w", err)
			}
			receipt, err := notifications.NewDispatcher(sender, cfg, ctx.logger).Test(cmd.Context())
			if err != nil {
				return err
			}
			if receipt != nil && receipt.Request != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Test notification sent (request %s)\n", receipt.Request)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
