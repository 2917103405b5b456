package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/models"
	"github.com/podbrief/podbrief/internal/services/subscriptions"
	"github.com/podbrief/podbrief/internal/views"
)

var (
	subAddPodcastID string
	subAddName      string
	subAddFeedURL   string

	subEpisodesStatus string
	subEpisodesLimit  int
	subEpisodesOffset int

	subBatchIDs   []string
	subBatchAll   bool
	subBatchSince string
)

// subscriptionsCmd represents the subscriptions command group
var subscriptionsCmd = &cobra.Command{
	Use:     "subscriptions",
	Aliases: []string{"subs"},
	Short:   "Manage podcast subscriptions and batch processing",
}

var subListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your podcast subscriptions",
	RunE:  runSubList,
}

var subAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Subscribe to a podcast feed",
	RunE:  runSubAdd,
}

var subRemoveCmd = &cobra.Command{
	Use:   "remove <subscription-id>",
	Short: "Unsubscribe from a podcast",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubRemove,
}

var subEpisodesCmd = &cobra.Command{
	Use:   "episodes <subscription-id>",
	Short: "List the feed items tracked under a subscription",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubEpisodes,
}

var subCheckCmd = &cobra.Command{
	Use:   "check <subscription-id>",
	Short: "Check the feed for new episodes now",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubCheck,
}

var subBatchCmd = &cobra.Command{
	Use:   "batch <subscription-id>",
	Short: "Submit pending feed items for processing",
	Long: fmt.Sprintf(`Submit pending feed items of a subscription for processing, either by
explicit ids (--id, repeatable) or everything pending (--all), optionally
narrowed by publish date (--since week|month|3months).

At most %d episodes can be submitted in one batch.`, subscriptions.MaxBatchSize),
	Args: cobra.ExactArgs(1),
	RunE: runSubBatch,
}

func init() {
	rootCmd.AddCommand(subscriptionsCmd)
	subscriptionsCmd.AddCommand(subListCmd, subAddCmd, subRemoveCmd, subEpisodesCmd, subCheckCmd, subBatchCmd)

	subAddCmd.Flags().StringVar(&subAddPodcastID, "podcast-id", "", "podcast identifier")
	subAddCmd.Flags().StringVar(&subAddName, "name", "", "podcast name")
	subAddCmd.Flags().StringVar(&subAddFeedURL, "feed-url", "", "RSS feed URL")
	subAddCmd.MarkFlagRequired("podcast-id")
	subAddCmd.MarkFlagRequired("name")
	subAddCmd.MarkFlagRequired("feed-url")

	subEpisodesCmd.Flags().StringVar(&subEpisodesStatus, "status", "", "filter by status (pending, processing, completed, skipped, failed)")
	subEpisodesCmd.Flags().IntVar(&subEpisodesLimit, "limit", 50, "page size")
	subEpisodesCmd.Flags().IntVar(&subEpisodesOffset, "offset", 0, "page offset")

	subBatchCmd.Flags().StringArrayVar(&subBatchIDs, "id", nil, "feed item id to submit (repeatable)")
	subBatchCmd.Flags().BoolVar(&subBatchAll, "all", false, "submit all pending items, up to the batch cap")
	subBatchCmd.Flags().StringVar(&subBatchSince, "since", "", "restrict to recent items (week, month, 3months)")
}

func runSubList(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	list, err := app.client.ListSubscriptions(cmd.Context())
	if err != nil {
		return friendlyError(err)
	}

	page := views.BuildSubscriptionsPage(list)
	if page.EmptyMessage != "" {
		fmt.Fprintln(cmd.OutOrStdout(), page.EmptyMessage)
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"ID", "Podcast", "Active", "Processed", "Pending", "Last checked"})
	for _, card := range page.Cards {
		active := "yes"
		if !card.Active {
			active = "no"
		}
		checked := card.LastCheckedAt
		if checked == "" {
			checked = "-"
		}
		t.AppendRow(table.Row{card.ID, card.PodcastName, active, fmt.Sprintf("%d/%d", card.Processed, card.Total), card.Pending, checked})
	}
	t.Render()
	return nil
}

func runSubAdd(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	sub, err := app.client.CreateSubscription(cmd.Context(), models.SubscriptionCreateRequest{
		PodcastID:   subAddPodcastID,
		PodcastName: subAddName,
		FeedURL:     subAddFeedURL,
	})
	if err != nil {
		return friendlyError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Subscribed to %s (%s)\n", sub.PodcastName, sub.ID)
	return nil
}

func runSubRemove(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	if err := app.client.DeleteSubscription(cmd.Context(), args[0]); err != nil {
		return friendlyError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Subscription removed.")
	return nil
}

func runSubEpisodes(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	status := models.SubscriptionEpisodeStatus(subEpisodesStatus)
	list, err := app.client.ListSubscriptionEpisodes(cmd.Context(), args[0], status, subEpisodesLimit, subEpisodesOffset)
	if err != nil {
		return friendlyError(err)
	}

	if len(list.Episodes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tracked episodes.")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"ID", "Title", "Published", "Status", "Episode"})
	for _, ep := range list.Episodes {
		t.AppendRow(table.Row{ep.ID, deref(ep.EpisodeTitle), deref(ep.PublishDate), string(ep.Status), deref(ep.EpisodeID)})
	}
	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d tracked episode(s)\n", len(list.Episodes), list.Total)
	return nil
}

func runSubCheck(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	resp, err := app.client.CheckSubscription(cmd.Context(), args[0])
	if err != nil {
		return friendlyError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d new episode(s) found, %d auto-processed.\n", resp.NewEpisodes, resp.AutoProcessed)
	return nil
}

func runSubBatch(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}
	if len(subBatchIDs) == 0 && !subBatchAll {
		return errors.New("nothing to submit: pass --id or --all")
	}

	subscriptionID := args[0]
	sub, err := app.client.GetSubscription(cmd.Context(), subscriptionID)
	if err != nil {
		return friendlyError(err)
	}

	sel := subscriptions.NewSelection(app.client, subscriptionID, sub.Episodes)
	if subBatchSince != "" {
		filter, err := sinceRange(subBatchSince)
		if err != nil {
			return err
		}
		sel.SetFilter(filter)
	}

	if subBatchAll {
		count := sel.SelectAll()
		if count == subscriptions.MaxBatchSize {
			fmt.Fprintf(cmd.OutOrStdout(), "Selection capped at %d episodes.\n", subscriptions.MaxBatchSize)
		}
	} else {
		for _, id := range subBatchIDs {
			if err := sel.Select(id); err != nil {
				return err
			}
		}
	}

	resp, err := sel.Submit(cmd.Context())
	if err != nil {
		if errors.Is(err, subscriptions.ErrEmptySelection) {
			fmt.Fprintln(cmd.OutOrStdout(), "No pending episodes matched the selection.")
			return nil
		}
		return friendlyError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d episode(s))\n", resp.Message, resp.EpisodeCount)
	return nil
}

func sinceRange(preset string) (subscriptions.DateRange, error) {
	now := time.Now()
	switch preset {
	case "week":
		return subscriptions.LastWeek(now), nil
	case "month":
		return subscriptions.LastMonth(now), nil
	case "3months":
		return subscriptions.Last3Months(now), nil
	default:
		return subscriptions.DateRange{}, fmt.Errorf("unknown --since preset %q (use week, month, or 3months)", preset)
	}
}
