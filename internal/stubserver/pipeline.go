package stubserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/podbrief/podbrief/internal/models"
)

// nextStage maps each non-terminal status to its successor.
var nextStage = map[string]string{
	string(models.StatusPending):      string(models.StatusDownloading),
	string(models.StatusDownloading):  string(models.StatusTranscribing),
	string(models.StatusTranscribing): string(models.StatusDiarizing),
	string(models.StatusDiarizing):    string(models.StatusCleaning),
	string(models.StatusCleaning):     string(models.StatusSummarizing),
	string(models.StatusSummarizing):  string(models.StatusCompleted),
}

var stageMessages = map[string]string{
	string(models.StatusDownloading):  "Downloading audio",
	string(models.StatusTranscribing): "Transcribing audio",
	string(models.StatusDiarizing):    "Identifying speakers",
	string(models.StatusCleaning):     "Cleaning transcript",
	string(models.StatusSummarizing):  "Generating summary",
}

// FailureMarker in an episode's audio URL makes the pipeline fail it at the
// transcribing stage, so tests can exercise the failure path end to end.
const FailureMarker = "simulate-failure"

// Pipeline advances every non-terminal episode one status per tick,
// standing in for the real download/transcribe/diarize/summarize workers.
type Pipeline struct {
	store    *Store
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPipeline creates the processing simulation.
func NewPipeline(store *Store, interval time.Duration) *Pipeline {
	return &Pipeline{
		store:    store,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the advancing loop.
func (p *Pipeline) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.run(ctx)
}

// Stop halts the loop and waits for it to exit.
func (p *Pipeline) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
	p.wg.Wait()
}

func (p *Pipeline) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			if err := p.advanceAll(ctx); err != nil {
				log.Printf("[ERROR] Pipeline tick failed: %v", err)
			}
		}
	}
}

// advanceAll moves every active episode one step forward.
func (p *Pipeline) advanceAll(ctx context.Context) error {
	episodes, err := p.store.ListActiveEpisodes(ctx)
	if err != nil {
		return err
	}

	for i := range episodes {
		record := &episodes[i]
		p.advance(record)
		if err := p.store.SaveEpisode(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// advance applies one pipeline step to a record.
func (p *Pipeline) advance(record *EpisodeRecord) {
	if record.Status == string(models.StatusTranscribing) &&
		strings.Contains(record.AudioURL, FailureMarker) {
		record.Status = string(models.StatusFailed)
		record.Error = "Transcription failed: could not decode audio"
		record.StatusMessage = ""
		return
	}

	next, ok := nextStage[record.Status]
	if !ok {
		// Unknown status, leave it alone
		return
	}

	record.Status = next
	record.StatusMessage = stageMessages[next]

	if next == string(models.StatusCompleted) {
		record.Progress = 100
		record.StatusMessage = ""
		p.synthesizeResult(record)
		return
	}

	// Progress tracks the stage position, never regressing
	progress := models.ProcessingStatus(next).StageIndex() * 100 / len(models.PipelineOrder)
	if progress > record.Progress {
		record.Progress = progress
	}
}

// synthesizeResult fabricates a transcript and summary for a completed
// episode, shaped like real backend output.
func (p *Pipeline) synthesizeResult(record *EpisodeRecord) {
	title := record.Title
	if title == "" {
		title = "this episode"
	}

	speakerA := "Alex"
	speakerB := "Blake"
	labelA := "A"
	labelB := "B"
	male := "male"
	female := "female"

	transcript := []models.TranscriptSegment{
		{Start: 0, End: 12.5, Text: fmt.Sprintf("Welcome to %s.", title), Speaker: &speakerA, SpeakerLabel: &labelA, SpeakerGender: &male},
		{Start: 12.5, End: 30.0, Text: "Thanks for having me, excited to dig in.", Speaker: &speakerB, SpeakerLabel: &labelB, SpeakerGender: &female},
		{Start: 30.0, End: 55.0, Text: "Let's start with the big picture.", Speaker: &speakerA, SpeakerLabel: &labelA, SpeakerGender: &male},
	}

	quoteTS := 12.5
	summary := models.EpisodeSummary{
		Paragraph: fmt.Sprintf("A stub summary of %s covering the main discussion points.", title),
		Takeaways: []string{
			"First simulated takeaway.",
			"Second simulated takeaway.",
		},
		KeyQuotes: []models.KeyQuote{
			{Text: "Thanks for having me, excited to dig in.", Speaker: &speakerB, Timestamp: &quoteTS},
		},
	}

	record.TranscriptJSON = mustJSON(transcript)
	record.SummaryJSON = mustJSON(summary)
	record.CleanedTranscript = "Welcome. Thanks for having me. Let's start with the big picture."
	record.LanguageCode = "en"
	if record.DurationSeconds == 0 {
		record.DurationSeconds = 55
	}
}

// mustJSON marshals values that cannot fail (our own structs).
func mustJSON(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return string(raw)
}
