package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the clip service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.Health(cmd.Context()); err != nil {
				return fmt.Errorf("service at %s is not healthy: %w", client.BaseURL(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Service at %s is healthy\n", client.BaseURL())
			return nil
		},
	}
}
