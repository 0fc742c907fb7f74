package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sculptor/internal/api"
	"sculptor/internal/gallery"
	"sculptor/internal/history"
	"sculptor/internal/logging"
	"sculptor/internal/submission"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var maxClips int
	var noWait bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "submit <source-url>",
		Short: "Submit a video and follow it until the clips are ready",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := api.ParseSubmitMode(modeFlag)
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
			logger := ctx.ensureLogger()

			if maxClips == 0 {
				maxClips = cfg.Submission.MaxClips
			}

			out := cmd.OutOrStdout()
			renderer := newProgressRenderer(out)
			var listener func(submission.Snapshot)
			if !jsonOut {
				listener = renderer.Update
			}

			navigated := make(chan string, 1)
			ctrl := submission.NewController(client,
				submission.WithPollInterval(cfg.PollInterval()),
				submission.WithNavigationDelay(cfg.NavigationDelay()),
				submission.WithLogger(logger),
				submission.WithListener(listener),
				submission.WithNavigator(func(jobID string) {
					select {
					case navigated <- jobID:
					default:
					}
				}),
			)

			job, err := ctrl.Submit(cmd.Context(), args[0], submission.SubmitOptions{
				Mode:     mode,
				MaxClips: maxClips,
			})
			if err != nil {
				renderer.Finish()
				return err
			}

			if histErr := ctx.withHistory(func(store *history.Store) error {
				_, err := store.Add(cmd.Context(), history.Record{
					JobID:     job.JobID,
					TaskID:    job.TaskID,
					SourceURL: args[0],
					Mode:      string(mode),
					State:     string(submission.PhasePolling),
				})
				return err
			}); histErr != nil {
				logger.Warn("failed to record submission", logging.Error(histErr))
			}

			if noWait {
				ctrl.Stop()
				renderer.Finish()
				if jsonOut {
					return writeJSON(cmd, job)
				}
				fmt.Fprintf(out, "Job %s accepted (task %s)\n", job.JobID, job.TaskID)
				fmt.Fprintf(out, "Check progress with: sculptor status %s\n", job.TaskID)
				return nil
			}

			final := ctrl.Watch(cmd.Context())
			renderer.Finish()

			if histErr := ctx.withHistory(func(store *history.Store) error {
				return store.SetState(cmd.Context(), job.JobID, string(final.Phase), final.Error)
			}); histErr != nil {
				logger.Warn("failed to update submission state", logging.Error(histErr))
			}

			if final.Phase != submission.PhaseSucceeded {
				if final.Error != "" {
					return errors.New(final.Error)
				}
				return fmt.Errorf("submission ended in state %s", final.Phase)
			}

			if mode != api.ModeClips {
				if jsonOut {
					return writeJSON(cmd, final)
				}
				fmt.Fprintf(out, "Job %s completed\n", job.JobID)
				return nil
			}

			target := job.JobID
			select {
			case jobID := <-navigated:
				target = jobID
			default:
			}

			model := gallery.NewModel(client, gallery.WithModelLogger(logger))
			if err := model.Load(cmd.Context(), target); err != nil {
				return err
			}

			clips := model.Clips()
			if jsonOut {
				return writeJSON(cmd, struct {
					Job   *api.Job   `json:"job"`
					State string     `json:"state"`
					Clips []api.Clip `json:"clips"`
				}{Job: job, State: string(final.Phase), Clips: clips})
			}

			if model.State() == gallery.StateEmpty {
				fmt.Fprintf(out, "Job %s completed but produced no clips\n", target)
				return nil
			}
			for _, line := range renderSectionHeader("Clips for "+target, isTerminal(out)) {
				fmt.Fprintln(out, line)
			}
			printClipTable(out, clips)
			fmt.Fprintf(out, "Download with: sculptor clips download %s --all\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "clips", "Pipeline to run: clips, download, or transcribe")
	cmd.Flags().IntVar(&maxClips, "max-clips", 0, "Maximum clips to generate (defaults from config)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return after the job is accepted instead of polling")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of tables")
	return cmd
}
