package stubserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/podbrief/podbrief/internal/models"
)

// catalogEntry is a canned search result. The stub has no real podcast
// index; a small fixed catalog keeps search deterministic for tests.
type catalogEntry struct {
	ID              string
	Title           string
	PodcastName     string
	Description     string
	AudioURL        string
	DurationSeconds int
	PublishDate     string
}

func defaultCatalog() []catalogEntry {
	return []catalogEntry{
		{
			ID:              "tf-001",
			Title:           "Tools of Titans Revisited",
			PodcastName:     "The Tim Ferriss Show",
			Description:     "Tactics and routines from world-class performers.",
			AudioURL:        "https://cdn.example.com/audio/tf-001.mp3",
			DurationSeconds: 5400,
			PublishDate:     "2026-07-14T08:00:00Z",
		},
		{
			ID:              "tf-002",
			Title:           "On Deliberate Rest",
			PodcastName:     "The Tim Ferriss Show",
			Description:     "Why stepping back can push work forward.",
			AudioURL:        "https://cdn.example.com/audio/tf-002.mp3",
			DurationSeconds: 4800,
			PublishDate:     "2026-08-02T08:00:00Z",
		},
		{
			ID:              "dk-010",
			Title:           "The Science of Sleep",
			PodcastName:     "Deep Knowledge",
			Description:     "A researcher walks through what we know about sleep.",
			AudioURL:        "https://cdn.example.com/audio/dk-010.mp3",
			DurationSeconds: 3600,
			PublishDate:     "2026-06-20T10:00:00Z",
		},
		{
			ID:              "hs-023",
			Title:           "Building in Public",
			PodcastName:     "Hard Startups",
			Description:     "Two founders compare notes on shipping openly.",
			AudioURL:        "https://cdn.example.com/audio/hs-023.mp3",
			DurationSeconds: 2700,
			PublishDate:     "2026-08-11T09:00:00Z",
		},
	}
}

func (s *Server) handleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		errorJSON(c, http.StatusBadRequest, "A search query is required")
		return
	}
	limit := queryInt(c, "limit", 20)

	terms := strings.Fields(strings.ToLower(query))
	resp := models.SearchResponse{Results: []models.PodcastSearchResult{}}

	for _, entry := range s.catalog {
		if !matchesTerms(entry, terms) {
			continue
		}
		result := models.PodcastSearchResult{
			ID:          entry.ID,
			Title:       entry.Title,
			PodcastName: entry.PodcastName,
			AudioURL:    entry.AudioURL,
		}
		result.Description = optString(entry.Description)
		if entry.DurationSeconds > 0 {
			duration := entry.DurationSeconds
			result.DurationSeconds = &duration
		}
		result.PublishDate = optString(entry.PublishDate)

		resp.Results = append(resp.Results, result)
		if len(resp.Results) >= limit {
			break
		}
	}
	resp.Total = len(resp.Results)

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetSearchResult(c *gin.Context) {
	id := c.Param("id")
	for _, entry := range s.catalog {
		if entry.ID != id {
			continue
		}
		result := models.PodcastSearchResult{
			ID:          entry.ID,
			Title:       entry.Title,
			PodcastName: entry.PodcastName,
			AudioURL:    entry.AudioURL,
		}
		result.Description = optString(entry.Description)
		if entry.DurationSeconds > 0 {
			duration := entry.DurationSeconds
			result.DurationSeconds = &duration
		}
		result.PublishDate = optString(entry.PublishDate)
		c.JSON(http.StatusOK, result)
		return
	}
	errorJSON(c, http.StatusNotFound, "Search result not found")
}

// matchesTerms requires every query term to appear in the title, podcast
// name, or description.
func matchesTerms(entry catalogEntry, terms []string) bool {
	haystack := strings.ToLower(entry.Title + " " + entry.PodcastName + " " + entry.Description)
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
