package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/services/speakers"
)

// speakersCmd represents the speakers command group
var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "Inspect and rename detected speakers",
}

var speakersListCmd = &cobra.Command{
	Use:   "list <episode-id>",
	Short: "List the speakers detected in an episode",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpeakersList,
}

var speakersSetCmd = &cobra.Command{
	Use:   "set <episode-id> <label>=<name> [<label>=<name> ...]",
	Short: "Rename one or more speakers by their diarization label",
	Long: `Rename detected speakers. Each argument after the episode id is a
label=name pair, for example:

  podbrief speakers set ep-123 A="Tim Ferriss" B="Guest"

Only changed names are sent to the backend.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSpeakersSet,
}

func init() {
	rootCmd.AddCommand(speakersCmd)
	speakersCmd.AddCommand(speakersListCmd, speakersSetCmd)
}

func runSpeakersList(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	episode, err := app.client.GetEpisode(cmd.Context(), args[0])
	if err != nil {
		return friendlyError(err)
	}

	roster := speakers.BuildRoster(episode.Transcript)
	if len(roster) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No speakers detected in this episode.")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"Label", "Name", "Gender", "Segments"})
	for _, sp := range roster {
		t.AppendRow(table.Row{sp.Label, sp.Name, sp.Gender, sp.SegmentCount})
	}
	t.Render()
	return nil
}

func runSpeakersSet(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	episodeID := args[0]
	episode, err := app.client.GetEpisode(cmd.Context(), episodeID)
	if err != nil {
		return friendlyError(err)
	}

	editor := speakers.NewEditor(app.client, episodeID, episode.Transcript)
	for _, pair := range args[1:] {
		label, name, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid assignment %q (expected label=name)", pair)
		}
		if err := editor.Assign(label, name); err != nil {
			return err
		}
	}

	changed := len(editor.Changes())
	if err := editor.Save(cmd.Context()); err != nil {
		if errors.Is(err, speakers.ErrNoChanges) {
			fmt.Fprintln(cmd.OutOrStdout(), "No names changed, nothing to save.")
			return nil
		}
		return friendlyError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %d speaker name(s).\n", changed)
	return nil
}
