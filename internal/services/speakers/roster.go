package speakers

import (
	"sort"

	"github.com/podbrief/podbrief/internal/models"
)

// Speaker is one detected voice in a transcript, keyed by the original
// diarization label (e.g. "A") with the currently resolved display name.
type Speaker struct {
	Label        string
	Name         string
	Gender       string
	SegmentCount int
}

// BuildRoster derives the de-duplicated speaker list from transcript
// segments, most-talkative speaker first. Segments without a label are
// ignored. An empty transcript yields an empty roster.
func BuildRoster(segments []models.TranscriptSegment) []Speaker {
	byLabel := make(map[string]*Speaker)
	var order []string

	for _, seg := range segments {
		if seg.SpeakerLabel == nil || *seg.SpeakerLabel == "" {
			continue
		}
		label := *seg.SpeakerLabel

		sp, ok := byLabel[label]
		if !ok {
			sp = &Speaker{Label: label, Name: label, Gender: "unknown"}
			byLabel[label] = sp
			order = append(order, label)
		}
		sp.SegmentCount++

		if seg.Speaker != nil && *seg.Speaker != "" {
			sp.Name = *seg.Speaker
		}
		if seg.SpeakerGender != nil && *seg.SpeakerGender != "" {
			sp.Gender = *seg.SpeakerGender
		}
	}

	roster := make([]Speaker, 0, len(order))
	for _, label := range order {
		roster = append(roster, *byLabel[label])
	}

	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].SegmentCount != roster[j].SegmentCount {
			return roster[i].SegmentCount > roster[j].SegmentCount
		}
		return roster[i].Label < roster[j].Label
	})

	return roster
}

// Names returns the distinct display names in roster order, for offering
// existing names as rename choices.
func Names(roster []Speaker) []string {
	seen := make(map[string]bool)
	var names []string
	for _, sp := range roster {
		if sp.Name == "" || seen[sp.Name] {
			continue
		}
		seen[sp.Name] = true
		names = append(names, sp.Name)
	}
	return names
}
