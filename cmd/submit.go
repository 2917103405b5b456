package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/models"
)

var (
	submitURL        string
	submitFile       string
	submitFromSearch string
	submitTitle      string
	submitPodcast    string
	submitWatch      bool
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit an episode for summarization",
	Long: `Submit a podcast episode for transcription and summarization, from a
remote audio URL, a local file, or a search result.

Example:
  podbrief submit --url https://example.com/episode.mp3 --title "My Episode"
  podbrief submit --file ./interview.mp3 --watch
  podbrief submit --from-search tf-001`,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVar(&submitURL, "url", "", "remote audio URL")
	submitCmd.Flags().StringVar(&submitFile, "file", "", "local audio file")
	submitCmd.Flags().StringVar(&submitFromSearch, "from-search", "", "search result id")
	submitCmd.Flags().StringVar(&submitTitle, "title", "", "episode title")
	submitCmd.Flags().StringVar(&submitPodcast, "podcast", "", "podcast name")
	submitCmd.Flags().BoolVar(&submitWatch, "watch", false, "watch processing until it finishes")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	sources := 0
	for _, set := range []bool{submitURL != "", submitFile != "", submitFromSearch != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of --url, --file, or --from-search is required")
	}

	ctx := cmd.Context()
	var created *models.CreatedEpisode

	switch {
	case submitFile != "":
		audio, err := os.Open(submitFile)
		if err != nil {
			return fmt.Errorf("opening audio file: %w", err)
		}
		defer audio.Close()

		created, err = app.client.UploadEpisode(ctx, filepath.Base(submitFile), audio)
		if err != nil {
			return friendlyError(err)
		}

	case submitFromSearch != "":
		result, err := app.client.GetSearchResult(ctx, submitFromSearch)
		if err != nil {
			return friendlyError(err)
		}
		created, err = app.client.CreateEpisodeFromURL(ctx, models.EpisodeURLRequest{
			URL:         result.AudioURL,
			Title:       &result.Title,
			PodcastName: &result.PodcastName,
			Description: result.Description,
		})
		if err != nil {
			return friendlyError(err)
		}

	default:
		req := models.EpisodeURLRequest{URL: submitURL}
		if submitTitle != "" {
			req.Title = &submitTitle
		}
		if submitPodcast != "" {
			req.PodcastName = &submitPodcast
		}
		created, err = app.client.CreateEpisodeFromURL(ctx, req)
		if err != nil {
			return friendlyError(err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Episode submitted: %s\n", created.ID)

	if submitWatch {
		return watchEpisode(cmd, app, created.ID)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'podbrief watch %s' to follow progress.\n", created.ID)
	return nil
}
