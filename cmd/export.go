package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/models"
)

var (
	exportOutput       string
	exportNoSummary    bool
	exportNoTakeaways  bool
	exportNoQuotes     bool
	exportNoTranscript bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <episode-id>",
	Short: "Export an episode summary to a PDF file",
	Long: `Export a completed episode to PDF. All sections are included by
default; use the --no-* flags to leave sections out.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default <episode-id>.pdf)")
	exportCmd.Flags().BoolVar(&exportNoSummary, "no-summary", false, "exclude the summary paragraph")
	exportCmd.Flags().BoolVar(&exportNoTakeaways, "no-takeaways", false, "exclude takeaways")
	exportCmd.Flags().BoolVar(&exportNoQuotes, "no-quotes", false, "exclude key quotes")
	exportCmd.Flags().BoolVar(&exportNoTranscript, "no-transcript", false, "exclude the transcript")
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	req := models.DefaultPDFExportRequest()
	req.IncludeSummary = !exportNoSummary
	req.IncludeTakeaways = !exportNoTakeaways
	req.IncludeQuotes = !exportNoQuotes
	req.IncludeTranscript = !exportNoTranscript

	episodeID := args[0]
	pdf, err := app.client.ExportPDF(cmd.Context(), episodeID, req)
	if err != nil {
		return friendlyError(err)
	}

	output := exportOutput
	if output == "" {
		output = episodeID + ".pdf"
	}
	if err := os.WriteFile(output, pdf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes to %s\n", len(pdf), output)
	return nil
}
