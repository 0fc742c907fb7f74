package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sculptor/internal/config"
	"sculptor/internal/gallery"
)

func newClipsCommand(ctx *commandContext) *cobra.Command {
	clipsCmd := &cobra.Command{
		Use:   "clips",
		Short: "Browse and download generated clips",
	}

	clipsCmd.AddCommand(newClipsListCommand(ctx))
	clipsCmd.AddCommand(newClipsShowCommand(ctx))
	clipsCmd.AddCommand(newClipsDownloadCommand(ctx))

	return clipsCmd
}

func newClipsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list <job-id>",
		Short: "List the clips generated for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadGallery(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			clips := model.Clips()
			if jsonOut {
				return writeJSON(cmd, clips)
			}
			out := cmd.OutOrStdout()
			if len(clips) == 0 {
				fmt.Fprintf(out, "Job %s has no clips\n", args[0])
				return nil
			}
			printClipTable(out, clips)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newClipsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <job-id> <clip-index>",
		Short: "Show one clip in detail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid clip index %q", args[1])
			}
			model, err := loadGallery(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			if err := model.Select(index); err != nil {
				return err
			}
			clip, _ := model.Selected()
			if jsonOut {
				return writeJSON(cmd, clip)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Clip:      %d\n", clip.ClipIndex)
			fmt.Fprintf(out, "Range:     %s\n", formatClipRange(clip))
			fmt.Fprintf(out, "Length:    %s\n", formatClipTime(clip.Duration))
			fmt.Fprintf(out, "Score:     %s\n", gallery.FormatScore(clip.CompositeScore))
			fmt.Fprintf(out, "Size:      %s\n", formatFileSize(clip.FileSizeMB))
			fmt.Fprintf(out, "Subtitles: %s\n", yesNo(clip.HasSrt))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newClipsDownloadCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var index int
	var withSrt bool
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "download <job-id>",
		Short: "Download clips to the local download directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && index < 0 {
				return fmt.Errorf("pass --all or --index to choose what to download")
			}
			if all && index >= 0 {
				return fmt.Errorf("--all and --index are mutually exclusive")
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

			model, err := loadGallery(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			clips := model.Clips()
			if len(clips) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Job %s has no clips\n", args[0])
				return nil
			}

			downloader := gallery.NewDownloader(client,
				gallery.WithStagger(cfg.DownloadStagger()),
				gallery.WithMinFreeBytes(cfg.MinFreeBytes()),
				gallery.WithDownloaderLogger(ctx.ensureLogger()),
			)

			var summary gallery.Summary
			if all {
				summary, err = downloader.DownloadAll(cmd.Context(), args[0], clips, destDir, withSrt)
			} else {
				if selErr := model.Select(index); selErr != nil {
					return selErr
				}
				clip, _ := model.Selected()
				summary, err = downloader.DownloadOne(cmd.Context(), args[0], clip, destDir, withSrt)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, file := range summary.Files {
				fmt.Fprintf(out, "Saved %s\n", file)
			}
			for _, failure := range summary.Failures {
				fmt.Fprintf(out, "Clip %d failed: %v\n", failure.ClipIndex, failure.Err)
			}
			fmt.Fprintf(out, "%d file(s) saved to %s\n", len(summary.Files), destDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Download every clip for the job")
	cmd.Flags().IntVar(&index, "index", -1, "Download a single clip by index")
	cmd.Flags().BoolVar(&withSrt, "srt", false, "Also download subtitle tracks where available")
	cmd.Flags().StringVar(&dirFlag, "dir", "", "Destination directory (defaults from config)")
	return cmd
}

func loadGallery(ctx *commandContext, cmd *cobra.Command, jobID string) (*gallery.Model, error) {
	client, err := ctx.apiClient()
	if err != nil {
		return nil, err
	}
	model := gallery.NewModel(client, gallery.WithModelLogger(ctx.ensureLogger()))
	if err := model.Load(cmd.Context(), jobID); err != nil {
		return nil, err
	}
	return model, nil
}

func expandFlagPath(value string) (string, error) {
	return config.ExpandPath(value)
}
