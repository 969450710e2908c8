package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
)

var assignCmd = &cobra.Command{
	Use:     "assign <id> <who>",
	GroupID: "tasks",
	Short:   "Assign a task to a collaborator",
	Long: `Assign a task in a shared project. <who> may be "me", a collaborator ID,
an email, or a (partial) name.`,
	Args: cobra.ExactArgs(2),
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
		if !mgr.IsSharedProject(it.ProjectID) {
			return fmt.Errorf("task %q is not in a shared project", it.Content)
		}
		who, err := mgr.ResolveCollaborator(args[1], it.ProjectID)
		if err != nil {
			return err
		}

		c := commands.New(commands.ItemUpdate, commands.Args{
			"id":              it.ID,
			"responsible_uid": who.ID,
		})
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("assigning %q: %s", it.Content, st.Error)
		}
		name := who.FullName
		if name == "" {
			name = who.Email
		}
		debug.PrintNormal("Assigned %q to %s\n", it.Content, name)
		return nil
	},
}

var unassignCmd = &cobra.Command{
	Use:     "unassign <id>",
	GroupID: "tasks",
	Short:   "Remove a task's assignee",
	Args:    cobra.ExactArgs(1),
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
		c := commands.New(commands.ItemUpdate, commands.Args{
			"id":              it.ID,
			"responsible_uid": nil,
		})
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("unassigning %q: %s", it.Content, st.Error)
		}
		debug.PrintNormal("Unassigned %q\n", it.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assignCmd, unassignCmd)
}
