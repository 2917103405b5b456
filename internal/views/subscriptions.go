package views

import "github.com/podbrief/podbrief/internal/models"

// SubscriptionCard is one rendered subscription row.
type SubscriptionCard struct {
	ID            string
	PodcastName   string
	Active        bool
	Processed     int
	Total         int
	Pending       int
	LastCheckedAt string
}

// SubscriptionsPage is the render-ready subscription list.
type SubscriptionsPage struct {
	Cards        []SubscriptionCard
	EmptyMessage string
}

// BuildSubscriptionsPage reduces the subscription list to page view state.
func BuildSubscriptionsPage(list *models.SubscriptionList) SubscriptionsPage {
	var page SubscriptionsPage
	if list != nil {
		for _, sub := range list.Subscriptions {
			card := SubscriptionCard{
				ID:          sub.ID,
				PodcastName: sub.PodcastName,
				Active:      sub.IsActive,
				Processed:   sub.ProcessedEpisodes,
				Total:       sub.TotalEpisodes,
				Pending:     sub.TotalEpisodes - sub.ProcessedEpisodes,
			}
			if card.Pending < 0 {
				card.Pending = 0
			}
			if sub.LastCheckedAt != nil {
				card.LastCheckedAt = *sub.LastCheckedAt
			}
			page.Cards = append(page.Cards, card)
		}
	}
	if len(page.Cards) == 0 {
		page.EmptyMessage = "No subscriptions yet. Subscribe to a podcast to track new episodes."
	}
	return page
}
