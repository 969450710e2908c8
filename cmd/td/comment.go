package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/types"
	"github.com/tdcli/td/internal/ui"
)

var commentCmd = &cobra.Command{
	Use:     "comment",
	GroupID: "tasks",
	Short:   "Manage comments on tasks and projects",
}

var commentListCmd = &cobra.Command{
	Use:     "list <task-id>",
	Aliases: []string{"ls"},
	Short:   "List comments on a task",
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
		c := mgr.Cache()
		var notes []types.Note
		for _, n := range c.Notes {
			if n.ItemID == it.ID {
				notes = append(notes, n)
			}
		}
		if flagJSON {
			return ui.PrintJSON(notes)
		}
		if len(notes) == 0 {
			debug.PrintNormal("No comments on %q\n", it.Content)
			return nil
		}
		for _, n := range notes {
			fmt.Printf("%s  %s\n", ui.MutedStyle.Render(n.PostedAt), n.Content)
		}
		return nil
	},
}

var commentAddCmd = &cobra.Command{
	Use:   "add <task-id> <text>",
	Short: "Add a comment to a task",
	Args:  cobra.ExactArgs(2),
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
		c := commands.NewWithTempID(commands.NoteAdd, uuid.NewString(), commands.Args{
			"item_id": it.ID,
			"content": args[1],
		})
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("adding comment: %s", st.Error)
		}
		debug.PrintNormal("Commented on %q\n", it.Content)
		return nil
	},
}

var commentProjectCmd = &cobra.Command{
	Use:   "project <project> <text>",
	Short: "Add a comment to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		p, err := mgr.ResolveProject(ctx, args[0])
		if err != nil {
			return err
		}
		c := commands.NewWithTempID(commands.ProjectNoteAdd, uuid.NewString(), commands.Args{
			"project_id": p.ID,
			"content":    args[1],
		})
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("adding project comment: %s", st.Error)
		}
		debug.PrintNormal("Commented on #%s\n", p.Name)
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		c := commands.DeleteNote(args[0])
		for _, pn := range mgr.Cache().ProjectNotes {
			if pn.ID == args[0] {
				c = commands.DeleteProjectNote(args[0])
				break
			}
		}
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("deleting comment %s: %s", args[0], st.Error)
		}
		debug.PrintNormal("Deleted comment %s\n", args[0])
		return nil
	},
}

func init() {
	commentCmd.AddCommand(commentListCmd, commentAddCmd, commentProjectCmd, commentDeleteCmd)
	rootCmd.AddCommand(commentCmd)
}
