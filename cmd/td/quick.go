package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/api"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/ui"
)

var quickCmd = &cobra.Command{
	Use:     "quick <text>",
	Aliases: []string{"q"},
	GroupID: "tasks",
	Short:   "Add a task using natural language",
	Long: `Add a task in one request using the server's quick-add syntax:

  td quick "Pay rent #Bills tomorrow p1 @finance"

The server parses #Project, @label, p1..p4, and date words out of the text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		req := api.QuickAddRequest{Text: strings.Join(args, " ")}
		req.Note, _ = cmd.Flags().GetString("note")
		req.Reminder, _ = cmd.Flags().GetString("reminder")
		req.AutoReminder, _ = cmd.Flags().GetBool("auto-reminder")

		resp, err := client.QuickAdd(cmd.Context(), req)
		if err != nil {
			return err
		}

		if flagJSON {
			return ui.PrintJSON(resp)
		}
		if resp.ResolvedProjectName != "" {
			debug.PrintNormal("Added %q to #%s (%s)\n", resp.Content, resp.ResolvedProjectName, resp.TaskID())
		} else {
			debug.PrintNormal("Added %q (%s)\n", resp.Content, resp.TaskID())
		}
		return nil
	},
}

func init() {
	quickCmd.Flags().String("note", "", "attach a comment to the new task")
	quickCmd.Flags().String("reminder", "", "reminder in natural language")
	quickCmd.Flags().Bool("auto-reminder", false, "add the default reminder when the due date has a time")
	rootCmd.AddCommand(quickCmd)
}
