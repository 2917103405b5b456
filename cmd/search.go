package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/views"
)

var searchLimit int

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for podcast episodes",
	Long: `Search the backend's podcast index for episodes to summarize.

Example:
  podbrief search "Tim Ferriss"
  podbrief search sleep --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	page, err := views.RunSearch(cmd.Context(), app.client, query, searchLimit, app.cfg.Poller.SearchWait)
	if err != nil {
		return friendlyError(err)
	}

	if page.EmptyMessage != "" {
		fmt.Fprintln(cmd.OutOrStdout(), page.EmptyMessage)
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"ID", "Title", "Podcast", "Duration", "Published"})
	for _, card := range page.Cards {
		t.AppendRow(table.Row{
			card.ID,
			card.Title,
			card.PodcastName,
			formatDuration(float64(card.DurationSeconds)),
			card.PublishDate,
		})
	}
	t.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'podbrief submit --from-search <id>' to get a summary.\n")
	return nil
}
