package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/views"
)

var (
	historyFilter string
	historyLimit  int
	historyOffset int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your submitted episodes",
	Long: `List episodes you have submitted, with their processing state.

The --filter flag accepts: all, queue, completed, failed. "queue" shows
everything still being processed.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFilter, "filter", "all", "status filter (all, queue, completed, failed)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "page size")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "page offset")
}

func runHistory(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	filter := views.HistoryFilter(historyFilter)
	switch filter {
	case views.FilterAll, views.FilterQueue, views.FilterCompleted, views.FilterFailed:
	default:
		return fmt.Errorf("unknown filter %q (use all, queue, completed, or failed)", historyFilter)
	}

	list, err := app.client.ListEpisodes(cmd.Context(), views.BackendStatusFilter(filter), historyLimit, historyOffset)
	if err != nil {
		return friendlyError(err)
	}

	page := views.BuildHistoryPage(filter, list)
	if page.EmptyMessage != "" {
		fmt.Fprintln(cmd.OutOrStdout(), page.EmptyMessage)
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"ID", "Title", "Podcast", "Status", "Progress", "Created"})
	for _, card := range page.Cards {
		progress := "-"
		if card.Processing {
			progress = fmt.Sprintf("%d%%", card.Progress)
		}
		t.AppendRow(table.Row{card.ID, card.Title, card.PodcastName, card.StatusLabel, progress, card.CreatedAt})
	}
	t.Render()
	return nil
}
