package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/types"
	"github.com/tdcli/td/internal/ui"
)

var reminderCmd = &cobra.Command{
	Use:     "reminder",
	GroupID: "tasks",
	Short:   "Manage reminders on tasks",
}

var reminderListCmd = &cobra.Command{
	Use:     "list <task-id>",
	Aliases: []string{"ls"},
	Short:   "List reminders on a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := mgr.SyncIfStale(ctx); err != nil {
			return err
		}

		it, err := mgr.ResolveItemByPrefix(ctx, args[0], nil)
		if err != nil {
			return err
		}
		var matched []types.Reminder
		for _, r := range mgr.Cache().Reminders {
			if r.ItemID == it.ID {
				matched = append(matched, r)
			}
		}
		if flagJSON {
			return ui.PrintJSON(matched)
		}
		for _, r := range matched {
			switch {
			case r.MinuteOffset != nil:
				fmt.Printf("%s  %d minutes before due\n", ui.MutedStyle.Render(r.ID), *r.MinuteOffset)
			case r.Due != nil:
				fmt.Printf("%s  at %s\n", ui.MutedStyle.Render(r.ID), r.Due.Date)
			default:
				fmt.Printf("%s  %s\n", ui.MutedStyle.Render(r.ID), r.Type)
			}
		}
		return nil
	},
}

var reminderAddCmd = &cobra.Command{
	Use:   "add <task-id>",
	Short: "Add a reminder to a task",
	Long: `Add a reminder. Use --before for a relative reminder (minutes before the
due time) or --at for an absolute date:

  td reminder add a1b2c3 --before 30
  td reminder add a1b2c3 --at 2026-09-01T09:00:00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		it, err := mgr.ResolveItemByPrefix(ctx, args[0], nil)
		if err != nil {
			return err
		}

		cmdArgs := commands.Args{"item_id": it.ID}
		before, _ := cmd.Flags().GetString("before")
		at, _ := cmd.Flags().GetString("at")
		switch {
		case before != "":
			minutes, err := strconv.Atoi(before)
			if err != nil {
				return fmt.Errorf("--before wants minutes, got %q", before)
			}
			cmdArgs["type"] = "relative"
			cmdArgs["minute_offset"] = minutes
		case at != "":
			cmdArgs["type"] = "absolute"
			cmdArgs["due"] = map[string]string{"date": at}
		default:
			return fmt.Errorf("either --before or --at is required")
		}

		c := commands.NewWithTempID(commands.ReminderAdd, uuid.NewString(), cmdArgs)
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("adding reminder: %s", st.Error)
		}
		debug.PrintNormal("Reminder set on %q\n", it.Content)
		return nil
	},
}

var reminderDeleteCmd = &cobra.Command{
	Use:   "delete <reminder-id>",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}

		c := commands.DeleteReminder(args[0])
		resp, err := mgr.ExecuteCommand(cmd.Context(), c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("deleting reminder %s: %s", args[0], st.Error)
		}
		debug.PrintNormal("Deleted reminder %s\n", args[0])
		return nil
	},
}

func init() {
	reminderAddCmd.Flags().String("before", "", "minutes before the due time")
	reminderAddCmd.Flags().String("at", "", "absolute reminder date")
	reminderCmd.AddCommand(reminderListCmd, reminderAddCmd, reminderDeleteCmd)
	rootCmd.AddCommand(reminderCmd)
}
