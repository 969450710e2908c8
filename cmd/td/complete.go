package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
)

var completeCmd = &cobra.Command{
	Use:     "complete <id>...",
	Aliases: []string{"done", "close"},
	GroupID: "tasks",
	Short:   "Complete one or more tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		unchecked := false
		var batch []commands.Command
		for _, arg := range args {
			it, err := mgr.ResolveItemByPrefix(ctx, arg, &unchecked)
			if err != nil {
				return err
			}
			batch = append(batch, commands.CloseItem(it.ID))
		}

		resp, err := mgr.ExecuteCommands(ctx, batch)
		if err != nil {
			return err
		}
		for _, c := range batch {
			if st := resp.CommandError(c.UUID); st != nil {
				return fmt.Errorf("completing %v: %s", c.Args["id"], st.Error)
			}
		}
		debug.PrintNormal("Completed %d task(s)\n", len(batch))
		return nil
	},
}

var uncompleteCmd = &cobra.Command{
	Use:     "uncomplete <id>",
	Aliases: []string{"reopen"},
	GroupID: "tasks",
	Short:   "Reopen a completed task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		checked := true
		it, err := mgr.ResolveItemByPrefix(ctx, args[0], &checked)
		if err != nil {
			return err
		}
		resp, err := mgr.ExecuteCommand(ctx, commands.UncompleteItem(it.ID))
		if err != nil {
			return err
		}
		if resp.HasErrors() {
			for _, st := range resp.SyncStatus {
				if !st.OK {
					return fmt.Errorf("reopening %s: %s", it.ID, st.Error)
				}
			}
		}
		debug.PrintNormal("Reopened %s\n", it.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(uncompleteCmd)
}
