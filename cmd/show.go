package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/models"
	"github.com/podbrief/podbrief/internal/views"
)

var showTranscript bool

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <episode-id>",
	Short: "Show an episode's summary, takeaways, and quotes",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// resumeCmd represents the resume command
var resumeCmd = &cobra.Command{
	Use:   "resume <episode-id>",
	Short: "Restart processing of a failed episode",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

func init() {
	rootCmd.AddCommand(showCmd, resumeCmd)
	showCmd.Flags().BoolVar(&showTranscript, "transcript", false, "include the full transcript")
}

func runShow(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	episode, err := app.client.GetEpisode(cmd.Context(), args[0])
	if err != nil {
		return friendlyError(err)
	}
	return printEpisode(cmd, episode, showTranscript)
}

func runResume(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	if err := app.client.ResumeEpisode(cmd.Context(), args[0]); err != nil {
		return friendlyError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Processing resumed. Run 'podbrief watch %s' to follow progress.\n", args[0])
	return nil
}

// printEpisode renders the detail view of an episode.
func printEpisode(cmd *cobra.Command, episode *models.Episode, withTranscript bool) error {
	out := cmd.OutOrStdout()
	detail := views.BuildEpisodeDetail(episode)

	fmt.Fprintf(out, "%s / %s\n", orDash(detail.Title), orDash(detail.PodcastName))
	if episode.DurationSeconds != nil {
		fmt.Fprintf(out, "Duration: %s\n", formatDuration(*episode.DurationSeconds))
	}

	switch {
	case detail.Failed:
		fmt.Fprintf(out, "Status: failed: %s\n", detail.ErrorText)
		return nil
	case detail.Processing:
		fmt.Fprintf(out, "Status: %s (%d%%), still processing\n", detail.StageLabel, detail.Progress)
		return nil
	}

	if episode.Summary != nil {
		fmt.Fprintf(out, "\nSummary\n%s\n", episode.Summary.Paragraph)
		if episode.Summary.ParagraphEn != nil {
			fmt.Fprintf(out, "\nSummary (English)\n%s\n", *episode.Summary.ParagraphEn)
		}

		if len(episode.Summary.Takeaways) > 0 {
			fmt.Fprintln(out, "\nTakeaways")
			for i, takeaway := range episode.Summary.Takeaways {
				fmt.Fprintf(out, "  %d. %s\n", i+1, takeaway)
			}
		}

		if len(episode.Summary.KeyQuotes) > 0 {
			fmt.Fprintln(out, "\nKey quotes")
			for _, quote := range episode.Summary.KeyQuotes {
				speaker := ""
				if quote.Speaker != nil {
					speaker = " - " + *quote.Speaker
				}
				fmt.Fprintf(out, "  %q%s\n", quote.Text, speaker)
			}
		}
	}

	if withTranscript && len(episode.Transcript) > 0 {
		fmt.Fprintln(out, "\nTranscript")
		for _, seg := range episode.Transcript {
			speaker := "?"
			if seg.Speaker != nil {
				speaker = *seg.Speaker
			}
			fmt.Fprintf(out, "  [%s] %s: %s\n", formatDuration(seg.Start), speaker, seg.Text)
		}
	}

	return nil
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
