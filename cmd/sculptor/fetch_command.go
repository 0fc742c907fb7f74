package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sculptor/internal/api"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "fetch <job-id> <asset>",
		Short: "Download a job artifact (video, audio, transcript, analysis, clips_metadata)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := api.ParseAssetKind(args[1])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			destDir := cfg.Paths.DownloadDir
			if strings.TrimSpace(dirFlag) != "" {
				expanded, err := expandFlagPath(dirFlag)
				if err != nil {
					return err
				}
				destDir = expanded
			}

			dest, size, err := client.DownloadAsset(cmd.Context(), args[0], kind, destDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", dest, size)
			return nil
		},
	}

	cmd.Flags().StringVar(&dirFlag, "dir", "", "Destination directory (defaults from config)")
	return cmd
}
