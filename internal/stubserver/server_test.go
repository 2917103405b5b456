package stubserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podbrief/podbrief/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(Options{
		DatabasePath: ":memory:",
		SeedUsers:    map[string]string{"e2e@example.com": "secret"},
	})
	require.NoError(t, err)
	return server
}

// do issues a JSON request against the engine and decodes the response.
func do(t *testing.T, server *Server, method, path, token string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func login(t *testing.T, server *Server) string {
	t.Helper()
	var auth models.AuthResponse
	w := do(t, server, "POST", "/auth/login", "", models.LoginRequest{
		Email:    "e2e@example.com",
		Password: "secret",
	}, &auth)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func errorDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func TestAuth_LoginAndMe(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)

	var user models.User
	w := do(t, server, "GET", "/auth/me", token, nil, &user)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "e2e@example.com", user.Email)
}

func TestAuth_WrongPassword(t *testing.T) {
	server := newTestServer(t)
	w := do(t, server, "POST", "/auth/login", "", models.LoginRequest{
		Email:    "e2e@example.com",
		Password: "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", errorDetail(t, w))
}

func TestAuth_SignupDuplicateEmail(t *testing.T) {
	server := newTestServer(t)
	w := do(t, server, "POST", "/auth/signup", "", models.SignupRequest{
		Email:    "e2e@example.com",
		Password: "another",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", errorDetail(t, w))
}

func TestAuth_ProtectedRoutesRejectAnonymous(t *testing.T) {
	server := newTestServer(t)

	w := do(t, server, "GET", "/subscriptions", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", errorDetail(t, w))

	w = do(t, server, "GET", "/episodes", "not-a-real-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", errorDetail(t, w))
}

func submitURL(t *testing.T, server *Server, token, audioURL, title string) string {
	t.Helper()
	var created models.CreatedEpisode
	w := do(t, server, "POST", "/episodes/url", token, models.EpisodeURLRequest{
		URL:   audioURL,
		Title: &title,
	}, &created)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, created.ID)
	return created.ID
}

// runPipelineUntilTerminal ticks the simulation by hand until the episode
// settles, instead of waiting on the real ticker.
func runPipelineUntilTerminal(t *testing.T, server *Server, episodeID string) *EpisodeRecord {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		require.NoError(t, server.pipeline.advanceAll(ctx))
		record, err := server.store.GetEpisode(ctx, episodeID)
		require.NoError(t, err)
		require.NotNil(t, record)
		if models.ProcessingStatus(record.Status).IsTerminal() {
			return record
		}
	}
	t.Fatal("episode never reached a terminal status")
	return nil
}

func TestEpisode_FullLifecycle(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)

	id := submitURL(t, server, token, "https://cdn.example.com/audio/ep.mp3", "Lifecycle Episode")

	var status models.EpisodeStatus
	w := do(t, server, "GET", "/episodes/"+id+"/status", token, nil, &status)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusPending, status.Status)

	record := runPipelineUntilTerminal(t, server, id)
	assert.Equal(t, string(models.StatusCompleted), record.Status)
	assert.Equal(t, 100, record.Progress)

	var episode models.Episode
	w = do(t, server, "GET", "/episodes/"+id, token, nil, &episode)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusCompleted, episode.Status)
	require.NotEmpty(t, episode.Transcript)
	require.NotNil(t, episode.Summary)
	assert.NotEmpty(t, episode.Summary.Takeaways)
	require.NotNil(t, episode.DurationSeconds)
}

func TestEpisode_ProgressNeverRegresses(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	id := submitURL(t, server, token, "https://cdn.example.com/audio/ep.mp3", "Progress Episode")

	ctx := context.Background()
	last := 0
	for i := 0; i < 10; i++ {
		require.NoError(t, server.pipeline.advanceAll(ctx))
		record, err := server.store.GetEpisode(ctx, id)
		require.NoError(t, err)
		if record.Status == string(models.StatusFailed) {
			break
		}
		assert.GreaterOrEqual(t, record.Progress, last)
		last = record.Progress
		if record.Status == string(models.StatusCompleted) {
			break
		}
	}
	assert.Equal(t, 100, last)
}

func TestEpisode_FailureAndResume(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	id := submitURL(t, server, token, "https://cdn.example.com/"+FailureMarker+"/ep.mp3", "Doomed Episode")

	record := runPipelineUntilTerminal(t, server, id)
	assert.Equal(t, string(models.StatusFailed), record.Status)
	assert.Equal(t, "Transcription failed: could not decode audio", record.Error)

	var status models.EpisodeStatus
	w := do(t, server, "GET", "/episodes/"+id+"/status", token, nil, &status)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusFailed, status.Status)
	require.NotNil(t, status.Error)

	w = do(t, server, "POST", "/episodes/"+id+"/resume", token, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, server, "GET", "/episodes/"+id+"/status", token, nil, &status)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusPending, status.Status)
	assert.Zero(t, status.Progress)
}

func TestEpisode_ResumeCompletedIsRejected(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	id := submitURL(t, server, token, "https://cdn.example.com/audio/ep.mp3", "Done Episode")
	runPipelineUntilTerminal(t, server, id)

	w := do(t, server, "POST", "/episodes/"+id+"/resume", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Episode already completed", errorDetail(t, w))
}

func TestEpisode_OwnershipIsEnforced(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	id := submitURL(t, server, token, "https://cdn.example.com/audio/ep.mp3", "Private Episode")

	var other models.AuthResponse
	w := do(t, server, "POST", "/auth/signup", "", models.SignupRequest{
		Email:    "intruder@example.com",
		Password: "pw",
	}, &other)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, server, "GET", "/episodes/"+id, other.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "foreign episodes look like they do not exist")
}

func TestEpisode_UpdateSpeakers(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	id := submitURL(t, server, token, "https://cdn.example.com/audio/ep.mp3", "Speakers Episode")
	runPipelineUntilTerminal(t, server, id)

	w := do(t, server, "PUT", "/episodes/"+id+"/speakers", token, models.SpeakerUpdateRequest{
		SpeakerMap: map[string]string{"A": "Tim Ferriss"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var episode models.Episode
	do(t, server, "GET", "/episodes/"+id, token, nil, &episode)

	renamed := 0
	for _, seg := range episode.Transcript {
		if seg.SpeakerLabel != nil && *seg.SpeakerLabel == "A" {
			require.NotNil(t, seg.Speaker)
			assert.Equal(t, "Tim Ferriss", *seg.Speaker)
			renamed++
		}
	}
	assert.Greater(t, renamed, 0)
}

func TestEpisode_ExportPDF(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	id := submitURL(t, server, token, "https://cdn.example.com/audio/ep.mp3", "Export Episode")

	// Not completed yet
	w := do(t, server, "POST", "/episodes/"+id+"/export/pdf", token, models.DefaultPDFExportRequest(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	runPipelineUntilTerminal(t, server, id)

	w = do(t, server, "POST", "/episodes/"+id+"/export/pdf", token, models.DefaultPDFExportRequest(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestEpisode_UploadRejectsNonAudio(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("not audio"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/episodes/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File must be an audio file", errorDetail(t, w))
}

func TestPublicSharing_EndToEnd(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	id := submitURL(t, server, token, "https://cdn.example.com/audio/ep.mp3", "Shared Episode")
	runPipelineUntilTerminal(t, server, id)

	var status models.PublicStatus
	w := do(t, server, "GET", "/episodes/"+id+"/public-status", token, nil, &status)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, status.IsPublic)

	w = do(t, server, "PUT", "/episodes/"+id+"/public", token, models.SetPublicRequest{IsPublic: true}, &status)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, status.IsPublic)
	require.NotNil(t, status.Slug)
	assert.True(t, strings.HasPrefix(*status.Slug, "shared-episode-"))

	// Public summary requires no token
	var summary models.PublicSummary
	w = do(t, server, "GET", "/public/summary/"+*status.Slug, "", nil, &summary)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, summary.Summary)
	require.NotNil(t, summary.Title)
	assert.Equal(t, "Shared Episode", *summary.Title)

	w = do(t, server, "GET", "/public/summary/no-such-slug", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearch_Catalog(t *testing.T) {
	server := newTestServer(t)

	var resp models.SearchResponse
	w := do(t, server, "GET", "/search?q=tim+ferriss", "", nil, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.GreaterOrEqual(t, len(resp.Results), 1)
	for _, result := range resp.Results {
		assert.Equal(t, "The Tim Ferriss Show", result.PodcastName)
	}

	w = do(t, server, "GET", "/search?q=nonexistent+show+xyz", "", nil, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Results)
	assert.Zero(t, resp.Total)

	w = do(t, server, "GET", "/search", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_GetByID(t *testing.T) {
	server := newTestServer(t)

	var result models.PodcastSearchResult
	w := do(t, server, "GET", "/search/tf-001", "", nil, &result)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tools of Titans Revisited", result.Title)
	assert.NotEmpty(t, result.AudioURL)

	w = do(t, server, "GET", "/search/zz-999", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func createSubscription(t *testing.T, server *Server, token string) *models.Subscription {
	t.Helper()
	var sub models.Subscription
	w := do(t, server, "POST", "/subscriptions", token, models.SubscriptionCreateRequest{
		PodcastID:   "pod-1",
		PodcastName: "The Tim Ferriss Show",
		FeedURL:     "https://feeds.example.com/tf.xml",
	}, &sub)
	require.Equal(t, http.StatusOK, w.Code)
	return &sub
}

func TestSubscriptions_CreateSeedsFeed(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)

	sub := createSubscription(t, server, token)
	assert.Equal(t, seedFeedEpisodes, sub.TotalEpisodes)
	assert.Zero(t, sub.ProcessedEpisodes)
	assert.True(t, sub.IsActive)

	// Duplicate subscription conflicts
	w := do(t, server, "POST", "/subscriptions", token, models.SubscriptionCreateRequest{
		PodcastID:   "pod-1",
		PodcastName: "The Tim Ferriss Show",
		FeedURL:     "https://feeds.example.com/tf.xml",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Already subscribed to this podcast", errorDetail(t, w))
}

func TestSubscriptions_BatchLimits(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	sub := createSubscription(t, server, token)

	var detail models.SubscriptionWithEpisodes
	w := do(t, server, "GET", "/subscriptions/"+sub.ID, token, nil, &detail)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, detail.Episodes, seedFeedEpisodes)

	// Over the cap
	tooMany := make([]string, maxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = detail.Episodes[i].ID
	}
	w = do(t, server, "POST", "/subscriptions/"+sub.ID+"/process-batch", token,
		models.BatchProcessRequest{EpisodeIDs: tooMany}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, fmt.Sprintf("Maximum %d episodes can be processed at once", maxBatchSize), errorDetail(t, w))

	// Empty selection
	w = do(t, server, "POST", "/subscriptions/"+sub.ID+"/process-batch", token,
		models.BatchProcessRequest{EpisodeIDs: []string{}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No episodes selected", errorDetail(t, w))

	// Unknown ids
	w = do(t, server, "POST", "/subscriptions/"+sub.ID+"/process-batch", token,
		models.BatchProcessRequest{EpisodeIDs: []string{"nope-1", "nope-2"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No valid pending episodes found", errorDetail(t, w))
}

func TestSubscriptions_BatchMarksProcessing(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	sub := createSubscription(t, server, token)

	var detail models.SubscriptionWithEpisodes
	do(t, server, "GET", "/subscriptions/"+sub.ID, token, nil, &detail)

	ids := []string{detail.Episodes[0].ID, detail.Episodes[1].ID}
	var resp models.BatchProcessResponse
	w := do(t, server, "POST", "/subscriptions/"+sub.ID+"/process-batch", token,
		models.BatchProcessRequest{EpisodeIDs: ids}, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, resp.EpisodeCount)

	var list models.SubscriptionEpisodeList
	w = do(t, server, "GET", "/subscriptions/"+sub.ID+"/episodes?status=processing", token, nil, &list)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list.Episodes, 2)
}

func TestSubscriptions_UpdateAndDelete(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	sub := createSubscription(t, server, token)

	inactive := false
	var updated models.Subscription
	w := do(t, server, "PUT", "/subscriptions/"+sub.ID, token,
		models.SubscriptionUpdateRequest{IsActive: &inactive}, &updated)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, updated.IsActive)

	w = do(t, server, "DELETE", "/subscriptions/"+sub.ID, token, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, server, "GET", "/subscriptions/"+sub.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptions_CheckStampsTimestamp(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	sub := createSubscription(t, server, token)
	assert.Nil(t, sub.LastCheckedAt)

	var resp models.CheckEpisodesResponse
	w := do(t, server, "POST", "/subscriptions/"+sub.ID+"/check", token, nil, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, resp.NewEpisodes)

	var after models.Subscription
	var list models.SubscriptionList
	do(t, server, "GET", "/subscriptions", token, nil, &list)
	require.Len(t, list.Subscriptions, 1)
	after = list.Subscriptions[0]
	assert.NotNil(t, after.LastCheckedAt)
}
