package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/models"
	"github.com/podbrief/podbrief/internal/services/poller"
	"github.com/podbrief/podbrief/internal/views"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <episode-id>",
	Short: "Follow an episode's processing status until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}
	return watchEpisode(cmd, app, args[0])
}

// watchEpisode polls the episode until terminal, rendering each update, then
// prints the completed summary or the failure panel.
func watchEpisode(cmd *cobra.Command, app *appContext, episodeID string) error {
	out := cmd.OutOrStdout()
	done := make(chan *models.Episode, 1)

	p := poller.New(app.client,
		poller.WithInterval(app.cfg.Poller.Interval),
		poller.WithObserver(poller.ObserverFuncs{
			Update: func(episode *models.Episode) {
				detail := views.BuildEpisodeDetail(episode)
				if detail.Processing {
					line := fmt.Sprintf("[%d/%d] %s  %d%%", detail.StageIndex, detail.StageTotal, detail.StageLabel, detail.Progress)
					if detail.Message != "" {
						line += "  " + detail.Message
					}
					fmt.Fprintln(out, line)
				}
			},
			Complete: func(episode *models.Episode) {
				done <- episode
			},
		}),
	)

	ctx := cmd.Context()
	p.Start(ctx, episodeID)
	defer p.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case episode := <-done:
		detail := views.BuildEpisodeDetail(episode)
		if detail.Failed {
			fmt.Fprintf(out, "\nProcessing failed: %s\n", detail.ErrorText)
			fmt.Fprintf(out, "Run 'podbrief resume %s' to retry.\n", episodeID)
			return nil
		}
		fmt.Fprintln(out, "\nProcessing completed.")
		return printEpisode(cmd, episode, false)
	}
}
