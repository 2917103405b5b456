package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/podbrief/podbrief/internal/models"
)

// CreateEpisodeFromURL submits a remote audio URL for processing.
func (c *Client) CreateEpisodeFromURL(ctx context.Context, req models.EpisodeURLRequest) (*models.CreatedEpisode, error) {
	var created models.CreatedEpisode
	if err := c.doJSON(ctx, "POST", "/episodes/url", nil, req, &created); err != nil {
		return nil, fmt.Errorf("create episode from url: %w", err)
	}
	return &created, nil
}

// UploadEpisode submits a local audio file for processing as a multipart form.
func (c *Client) UploadEpisode(ctx context.Context, filename string, audio io.Reader) (*models.CreatedEpisode, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	raw, err := c.doRaw(ctx, "POST", "/episodes/upload", nil, writer.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("upload episode: %w", err)
	}

	var created models.CreatedEpisode
	if err := decodeInto(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetStatus fetches the lightweight processing status of an episode.
func (c *Client) GetStatus(ctx context.Context, episodeID string) (*models.EpisodeStatus, error) {
	var status models.EpisodeStatus
	if err := c.doJSON(ctx, "GET", "/episodes/"+url.PathEscape(episodeID)+"/status", nil, nil, &status); err != nil {
		return nil, fmt.Errorf("get status for episode %s: %w", episodeID, err)
	}
	return &status, nil
}

// GetEpisode fetches the full episode, including the result payload once
// processing has completed.
func (c *Client) GetEpisode(ctx context.Context, episodeID string) (*models.Episode, error) {
	var episode models.Episode
	if err := c.doJSON(ctx, "GET", "/episodes/"+url.PathEscape(episodeID), nil, nil, &episode); err != nil {
		return nil, fmt.Errorf("get episode %s: %w", episodeID, err)
	}
	return &episode, nil
}

// ListEpisodes fetches a history page, optionally filtered by status.
func (c *Client) ListEpisodes(ctx context.Context, status models.ProcessingStatus, limit, offset int) (*models.EpisodeList, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var list models.EpisodeList
	if err := c.doJSON(ctx, "GET", "/episodes", query, nil, &list); err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	return &list, nil
}

// ResumeEpisode restarts processing of a failed or stuck episode.
func (c *Client) ResumeEpisode(ctx context.Context, episodeID string) error {
	if err := c.doJSON(ctx, "POST", "/episodes/"+url.PathEscape(episodeID)+"/resume", nil, nil, nil); err != nil {
		return fmt.Errorf("resume episode %s: %w", episodeID, err)
	}
	return nil
}

// UpdateSpeakers replaces detected speaker labels with user-assigned names.
func (c *Client) UpdateSpeakers(ctx context.Context, episodeID string, req models.SpeakerUpdateRequest) error {
	if err := c.doJSON(ctx, "PUT", "/episodes/"+url.PathEscape(episodeID)+"/speakers", nil, req, nil); err != nil {
		return fmt.Errorf("update speakers for episode %s: %w", episodeID, err)
	}
	return nil
}

// ExportPDF renders the episode to a PDF and returns the raw bytes.
func (c *Client) ExportPDF(ctx context.Context, episodeID string, req models.PDFExportRequest) ([]byte, error) {
	payload, err := encodeBody(req)
	if err != nil {
		return nil, err
	}
	raw, err := c.doRaw(ctx, "POST", "/episodes/"+url.PathEscape(episodeID)+"/export/pdf", nil, "application/json", payload)
	if err != nil {
		return nil, fmt.Errorf("export pdf for episode %s: %w", episodeID, err)
	}
	return raw, nil
}

// GetPublicStatus fetches the sharing state of an episode.
func (c *Client) GetPublicStatus(ctx context.Context, episodeID string) (*models.PublicStatus, error) {
	var status models.PublicStatus
	if err := c.doJSON(ctx, "GET", "/episodes/"+url.PathEscape(episodeID)+"/public-status", nil, nil, &status); err != nil {
		return nil, fmt.Errorf("get public status for episode %s: %w", episodeID, err)
	}
	return &status, nil
}

// SetPublicStatus toggles the sharing flag of an episode.
func (c *Client) SetPublicStatus(ctx context.Context, episodeID string, isPublic bool) (*models.PublicStatus, error) {
	var status models.PublicStatus
	req := models.SetPublicRequest{IsPublic: isPublic}
	if err := c.doJSON(ctx, "PUT", "/episodes/"+url.PathEscape(episodeID)+"/public", nil, req, &status); err != nil {
		return nil, fmt.Errorf("set public status for episode %s: %w", episodeID, err)
	}
	return &status, nil
}

// GetPublicSummary fetches the unauthenticated shared view by slug.
func (c *Client) GetPublicSummary(ctx context.Context, slug string) (*models.PublicSummary, error) {
	var summary models.PublicSummary
	if err := c.doJSON(ctx, "GET", "/public/summary/"+url.PathEscape(slug), nil, nil, &summary); err != nil {
		return nil, fmt.Errorf("get public summary %s: %w", slug, err)
	}
	return &summary, nil
}
