package stubserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/podbrief/podbrief/internal/models"
)

// maxBatchSize mirrors the production cap: each episode takes 10-15 minutes
// of real processing, so batches are bounded.
const maxBatchSize = 19

// seedFeedEpisodes is how many synthetic feed items a new subscription gets.
const seedFeedEpisodes = 30

func (s *Server) handleListSubscriptions(c *gin.Context) {
	user := currentUser(c)
	records, err := s.store.ListSubscriptions(c.Request.Context(), user.ID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to list subscriptions")
		return
	}

	list := models.SubscriptionList{Subscriptions: []models.Subscription{}}
	for i := range records {
		sub, err := s.toSubscriptionModel(c, &records[i])
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "Failed to load subscription")
			return
		}
		list.Subscriptions = append(list.Subscriptions, *sub)
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleCreateSubscription(c *gin.Context) {
	var req models.SubscriptionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FeedURL == "" || req.PodcastID == "" {
		errorJSON(c, http.StatusBadRequest, "podcast_id and feed_url are required")
		return
	}

	user := currentUser(c)
	record := &SubscriptionRecord{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		PodcastID:   req.PodcastID,
		PodcastName: req.PodcastName,
		FeedURL:     req.FeedURL,
		IsActive:    true,
	}
	if req.ArtworkURL != nil {
		record.ArtworkURL = *req.ArtworkURL
	}

	created, err := s.store.CreateSubscription(c.Request.Context(), record)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to create subscription")
		return
	}
	if !created {
		errorJSON(c, http.StatusConflict, "Already subscribed to this podcast")
		return
	}

	// The real backend fetches the feed in the background; the stub seeds
	// synthetic pending feed items instead.
	if err := s.seedFeed(c, record); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to seed feed episodes")
		return
	}

	sub, err := s.toSubscriptionModel(c, record)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load subscription")
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (s *Server) seedFeed(c *gin.Context, record *SubscriptionRecord) error {
	now := time.Now().UTC()
	for i := 0; i < seedFeedEpisodes; i++ {
		episode := &SubscriptionEpisodeRecord{
			ID:              uuid.NewString(),
			SubscriptionID:  record.ID,
			EpisodeGUID:     fmt.Sprintf("%s-guid-%03d", record.PodcastID, i),
			EpisodeTitle:    fmt.Sprintf("%s: Episode %d", record.PodcastName, seedFeedEpisodes-i),
			AudioURL:        fmt.Sprintf("https://cdn.example.com/feeds/%s/%03d.mp3", record.PodcastID, i),
			PublishDate:     now.AddDate(0, 0, -3*i).Format(time.RFC3339),
			DurationSeconds: 1800,
			Status:          string(models.SubEpisodePending),
		}
		if err := s.store.CreateSubscriptionEpisode(c.Request.Context(), episode); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleGetSubscription(c *gin.Context) {
	record, ok := s.loadOwnedSubscription(c)
	if !ok {
		return
	}

	sub, err := s.toSubscriptionModel(c, record)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load subscription")
		return
	}

	episodes, _, err := s.store.ListSubscriptionEpisodes(c.Request.Context(), record.ID, "", 200, 0)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to list episodes")
		return
	}

	resp := models.SubscriptionWithEpisodes{Subscription: *sub, Episodes: []models.SubscriptionEpisode{}}
	for i := range episodes {
		resp.Episodes = append(resp.Episodes, toSubscriptionEpisodeModel(&episodes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleUpdateSubscription(c *gin.Context) {
	record, ok := s.loadOwnedSubscription(c)
	if !ok {
		return
	}

	var req models.SubscriptionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}
	if err := s.store.SaveSubscription(c.Request.Context(), record); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	sub, err := s.toSubscriptionModel(c, record)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load subscription")
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (s *Server) handleDeleteSubscription(c *gin.Context) {
	record, ok := s.loadOwnedSubscription(c)
	if !ok {
		return
	}
	if err := s.store.DeleteSubscription(c.Request.Context(), record.ID); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to delete subscription")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
}

func (s *Server) handleListSubscriptionEpisodes(c *gin.Context) {
	record, ok := s.loadOwnedSubscription(c)
	if !ok {
		return
	}

	status := c.Query("status")
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	episodes, total, err := s.store.ListSubscriptionEpisodes(c.Request.Context(), record.ID, status, limit, offset)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to list episodes")
		return
	}

	list := models.SubscriptionEpisodeList{Total: int(total), Episodes: []models.SubscriptionEpisode{}}
	for i := range episodes {
		list.Episodes = append(list.Episodes, toSubscriptionEpisodeModel(&episodes[i]))
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleCheckSubscription(c *gin.Context) {
	record, ok := s.loadOwnedSubscription(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	record.LastCheckedAt = &now
	if err := s.store.SaveSubscription(c.Request.Context(), record); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	// Feed contents are static in the stub, so a check never finds new items
	c.JSON(http.StatusOK, models.CheckEpisodesResponse{NewEpisodes: 0, AutoProcessed: 0})
}

func (s *Server) handleBatchProcess(c *gin.Context) {
	record, ok := s.loadOwnedSubscription(c)
	if !ok {
		return
	}

	var req models.BatchProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.EpisodeIDs) > maxBatchSize {
		errorJSON(c, http.StatusBadRequest,
			fmt.Sprintf("Maximum %d episodes can be processed at once", maxBatchSize))
		return
	}
	if len(req.EpisodeIDs) == 0 {
		errorJSON(c, http.StatusBadRequest, "No episodes selected")
		return
	}

	episodes, err := s.store.GetSubscriptionEpisodesByIDs(c.Request.Context(), req.EpisodeIDs)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load episodes")
		return
	}

	var validIDs []string
	for i := range episodes {
		ep := &episodes[i]
		if ep.SubscriptionID == record.ID && ep.Status == string(models.SubEpisodePending) {
			validIDs = append(validIDs, ep.ID)
		}
	}
	if len(validIDs) == 0 {
		errorJSON(c, http.StatusBadRequest, "No valid pending episodes found")
		return
	}

	if err := s.store.UpdateSubscriptionEpisodeStatus(c.Request.Context(), validIDs, string(models.SubEpisodeProcessing)); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to mark episodes")
		return
	}

	c.JSON(http.StatusOK, models.BatchProcessResponse{
		Message:      fmt.Sprintf("Processing %d episodes", len(validIDs)),
		EpisodeCount: len(validIDs),
	})
}

func (s *Server) handleFetchMore(c *gin.Context) {
	if _, ok := s.loadOwnedSubscription(c); !ok {
		return
	}
	// Static feed: nothing more to fetch
	c.JSON(http.StatusOK, gin.H{"message": "No additional episodes available"})
}

func (s *Server) loadOwnedSubscription(c *gin.Context) (*SubscriptionRecord, bool) {
	user := currentUser(c)
	record, err := s.store.GetSubscription(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load subscription")
		return nil, false
	}
	if record == nil {
		errorJSON(c, http.StatusNotFound, "Subscription not found")
		return nil, false
	}
	return record, true
}

func (s *Server) toSubscriptionModel(c *gin.Context, record *SubscriptionRecord) (*models.Subscription, error) {
	total, processed, err := s.store.CountSubscriptionEpisodes(c.Request.Context(), record.ID)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		ID:                record.ID,
		UserID:            record.UserID,
		PodcastID:         record.PodcastID,
		PodcastName:       record.PodcastName,
		FeedURL:           record.FeedURL,
		IsActive:          record.IsActive,
		TotalEpisodes:     int(total),
		ProcessedEpisodes: int(processed),
	}
	sub.ArtworkURL = optString(record.ArtworkURL)
	if record.LastCheckedAt != nil {
		checked := record.LastCheckedAt.UTC().Format(time.RFC3339)
		sub.LastCheckedAt = &checked
	}
	createdAt := record.CreatedAt.UTC().Format(time.RFC3339)
	sub.CreatedAt = &createdAt
	return sub, nil
}

func toSubscriptionEpisodeModel(record *SubscriptionEpisodeRecord) models.SubscriptionEpisode {
	episode := models.SubscriptionEpisode{
		ID:             record.ID,
		SubscriptionID: record.SubscriptionID,
		EpisodeGUID:    record.EpisodeGUID,
		Status:         models.SubscriptionEpisodeStatus(record.Status),
	}
	episode.EpisodeTitle = optString(record.EpisodeTitle)
	episode.AudioURL = optString(record.AudioURL)
	episode.PublishDate = optString(record.PublishDate)
	episode.EpisodeID = optString(record.EpisodeID)
	if record.DurationSeconds > 0 {
		episode.DurationSeconds = &record.DurationSeconds
	}
	createdAt := record.CreatedAt.UTC().Format(time.RFC3339)
	episode.CreatedAt = &createdAt
	return episode
}
