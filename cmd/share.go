package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// shareCmd represents the share command group
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Manage public sharing of an episode",
}

var shareStatusCmd = &cobra.Command{
	Use:   "status <episode-id>",
	Short: "Show whether an episode is publicly shared",
	Args:  cobra.ExactArgs(1),
	RunE:  runShareStatus,
}

var shareEnableCmd = &cobra.Command{
	Use:   "enable <episode-id>",
	Short: "Make an episode's summary publicly viewable",
	Args:  cobra.ExactArgs(1),
	RunE:  runShareSet(true),
}

var shareDisableCmd = &cobra.Command{
	Use:   "disable <episode-id>",
	Short: "Stop sharing an episode publicly",
	Args:  cobra.ExactArgs(1),
	RunE:  runShareSet(false),
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.AddCommand(shareStatusCmd, shareEnableCmd, shareDisableCmd)
}

func runShareStatus(cmd *cobra.Command, args []string) error {
	app, err := newAppContext(cmd)
	if err != nil {
		return err
	}

	status, err := app.client.GetPublicStatus(cmd.Context(), args[0])
	if err != nil {
		return friendlyError(err)
	}

	out := cmd.OutOrStdout()
	if !status.IsPublic {
		fmt.Fprintln(out, "Not shared.")
		return nil
	}
	fmt.Fprintf(out, "Shared publicly at /public/summary/%s\n", deref(status.Slug))
	return nil
}

func runShareSet(public bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext(cmd)
		if err != nil {
			return err
		}

		status, err := app.client.SetPublicStatus(cmd.Context(), args[0], public)
		if err != nil {
			return friendlyError(err)
		}

		out := cmd.OutOrStdout()
		if status.IsPublic {
			fmt.Fprintf(out, "Sharing enabled: /public/summary/%s\n", deref(status.Slug))
		} else {
			fmt.Fprintln(out, "Sharing disabled.")
		}
		return nil
	}
}
