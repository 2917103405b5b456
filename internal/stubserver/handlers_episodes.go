package stubserver

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/podbrief/podbrief/internal/models"
)

func (s *Server) handleCreateFromURL(c *gin.Context) {
	var req models.EpisodeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		errorJSON(c, http.StatusBadRequest, "A url is required")
		return
	}

	user := currentUser(c)
	record := &EpisodeRecord{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		AudioURL: req.URL,
		Status:   string(models.StatusPending),
	}
	if req.Title != nil {
		record.Title = *req.Title
	}
	if req.PodcastName != nil {
		record.PodcastName = *req.PodcastName
	}
	if req.Description != nil {
		record.Description = *req.Description
	}

	if err := s.store.CreateEpisode(c.Request.Context(), record); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to create episode")
		return
	}

	log.Printf("[INFO] Stub accepted episode %s from URL", record.ID)
	c.JSON(http.StatusOK, models.CreatedEpisode{ID: record.ID})
}

func (s *Server) handleUploadEpisode(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "A file is required")
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "audio/") &&
		!hasAudioExtension(file.Filename) {
		errorJSON(c, http.StatusBadRequest, "File must be an audio file")
		return
	}

	user := currentUser(c)
	record := &EpisodeRecord{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Title:  strings.TrimSuffix(file.Filename, filepathExt(file.Filename)),
		Status: string(models.StatusPending),
	}
	if err := s.store.CreateEpisode(c.Request.Context(), record); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to create episode")
		return
	}

	log.Printf("[INFO] Stub accepted episode %s from upload %s", record.ID, file.Filename)
	c.JSON(http.StatusOK, models.CreatedEpisode{ID: record.ID})
}

func hasAudioExtension(filename string) bool {
	switch strings.ToLower(filepathExt(filename)) {
	case ".mp3", ".m4a", ".wav", ".ogg", ".flac", ".aac":
		return true
	}
	return false
}

func filepathExt(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return filename[idx:]
	}
	return ""
}

func (s *Server) handleEpisodeStatus(c *gin.Context) {
	record, ok := s.loadOwnedEpisode(c)
	if !ok {
		return
	}

	status := models.EpisodeStatus{
		ID:       record.ID,
		Status:   models.ProcessingStatus(record.Status),
		Progress: record.Progress,
	}
	status.StatusMessage = optString(record.StatusMessage)
	status.Error = optString(record.Error)
	if record.DurationSeconds > 0 {
		status.DurationSeconds = &record.DurationSeconds
	}

	c.JSON(http.StatusOK, status)
}

func (s *Server) handleGetEpisode(c *gin.Context) {
	record, ok := s.loadOwnedEpisode(c)
	if !ok {
		return
	}

	episode, err := record.toEpisodeModel()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to decode episode")
		return
	}
	c.JSON(http.StatusOK, episode)
}

func (s *Server) handleListEpisodes(c *gin.Context) {
	user := currentUser(c)
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	status := c.Query("status")

	records, total, err := s.store.ListEpisodes(c.Request.Context(), user.ID, status, limit, offset)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to list episodes")
		return
	}

	list := models.EpisodeList{Total: int(total), Episodes: []models.EpisodeListItem{}}
	for _, record := range records {
		item := models.EpisodeListItem{
			ID:       record.ID,
			Status:   models.ProcessingStatus(record.Status),
			Progress: record.Progress,
		}
		item.Title = optString(record.Title)
		item.PodcastName = optString(record.PodcastName)
		createdAt := record.CreatedAt.UTC().Format(time.RFC3339)
		item.CreatedAt = &createdAt
		if record.DurationSeconds > 0 {
			item.DurationSeconds = &record.DurationSeconds
		}
		list.Episodes = append(list.Episodes, item)
	}

	c.JSON(http.StatusOK, list)
}

func (s *Server) handleResumeEpisode(c *gin.Context) {
	record, ok := s.loadOwnedEpisode(c)
	if !ok {
		return
	}
	if record.Status == string(models.StatusCompleted) {
		errorJSON(c, http.StatusBadRequest, "Episode already completed")
		return
	}

	record.Status = string(models.StatusPending)
	record.Progress = 0
	record.Error = ""
	record.StatusMessage = "Restarting processing"
	if err := s.store.SaveEpisode(c.Request.Context(), record); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to resume episode")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Episode processing resumed"})
}

func (s *Server) handleUpdateSpeakers(c *gin.Context) {
	record, ok := s.loadOwnedEpisode(c)
	if !ok {
		return
	}

	var req models.SpeakerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if record.TranscriptJSON == "" {
		errorJSON(c, http.StatusBadRequest, "Episode has no transcript")
		return
	}

	episode, err := record.toEpisodeModel()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to decode episode")
		return
	}

	for i := range episode.Transcript {
		seg := &episode.Transcript[i]
		if seg.SpeakerLabel == nil {
			continue
		}
		if name, ok := req.SpeakerMap[*seg.SpeakerLabel]; ok {
			seg.Speaker = &name
		}
	}

	record.TranscriptJSON = mustJSON(episode.Transcript)
	if err := s.store.SaveEpisode(c.Request.Context(), record); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to update speakers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Speakers updated"})
}

func (s *Server) handleExportPDF(c *gin.Context) {
	record, ok := s.loadOwnedEpisode(c)
	if !ok {
		return
	}
	if record.Status != string(models.StatusCompleted) {
		errorJSON(c, http.StatusBadRequest, "Episode processing not completed")
		return
	}

	var req models.PDFExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Not a real PDF renderer; a recognizable header is enough for the
	// client and harness to verify the binary path.
	body := fmt.Sprintf("%%PDF-1.4 stub export of episode %s", record.ID)
	c.Data(http.StatusOK, "application/pdf", []byte(body))
}

func (s *Server) handleGetPublicStatus(c *gin.Context) {
	record, ok := s.loadOwnedEpisode(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.PublicStatus{
		IsPublic: record.IsPublic,
		Slug:     optString(record.Slug),
	})
}

func (s *Server) handleSetPublic(c *gin.Context) {
	record, ok := s.loadOwnedEpisode(c)
	if !ok {
		return
	}

	var req models.SetPublicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	record.IsPublic = req.IsPublic
	if req.IsPublic && record.Slug == "" {
		record.Slug = buildSlug(record)
	}
	if err := s.store.SaveEpisode(c.Request.Context(), record); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to update public status")
		return
	}

	c.JSON(http.StatusOK, models.PublicStatus{
		IsPublic: record.IsPublic,
		Slug:     optString(record.Slug),
	})
}

func (s *Server) handlePublicSummary(c *gin.Context) {
	slug := c.Param("slug")
	record, err := s.store.GetEpisodeBySlug(c.Request.Context(), slug)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load summary")
		return
	}
	if record == nil {
		errorJSON(c, http.StatusNotFound, "Summary not found")
		return
	}

	episode, err := record.toEpisodeModel()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to decode episode")
		return
	}

	c.JSON(http.StatusOK, models.PublicSummary{
		Slug:            record.Slug,
		Title:           episode.Title,
		PodcastName:     episode.PodcastName,
		Description:     episode.Description,
		Summary:         episode.Summary,
		DurationSeconds: episode.DurationSeconds,
		LanguageCode:    episode.LanguageCode,
		CreatedAt:       episode.CreatedAt,
	})
}

// loadOwnedEpisode fetches the :id episode and enforces ownership.
func (s *Server) loadOwnedEpisode(c *gin.Context) (*EpisodeRecord, bool) {
	user := currentUser(c)
	record, err := s.store.GetEpisode(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load episode")
		return nil, false
	}
	if record == nil || record.UserID != user.ID {
		errorJSON(c, http.StatusNotFound, "Episode not found")
		return nil, false
	}
	return record, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func buildSlug(record *EpisodeRecord) string {
	base := strings.ToLower(strings.TrimSpace(record.Title))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		}
		return -1
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = "episode"
	}
	return base + "-" + record.ID[:8]
}
