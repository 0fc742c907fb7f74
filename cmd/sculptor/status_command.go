package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status <task-id>",
		Short: "Show the current state of a processing task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := client.TaskStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			fmt.Fprintf(out, "State:    %s\n", stateLabel(status.State, colorize))
			if status.Status != "" {
				fmt.Fprintf(out, "Status:   %s\n", status.Status)
			}
			if status.Total > 0 {
				fmt.Fprintf(out, "Progress: %d/%d (%.0f%%)\n", status.Current, status.Total, status.Percent())
			}
			if status.Error != "" {
				fmt.Fprintf(out, "Error:    %s\n", status.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}
