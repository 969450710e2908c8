package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	GroupID: "tasks",
	Short:   "Delete one or more tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var batch []commands.Command
		for _, arg := range args {
			it, err := mgr.ResolveItemByPrefix(ctx, arg, nil)
			if err != nil {
				return err
			}
			batch = append(batch, commands.DeleteItem(it.ID))
		}

		resp, err := mgr.ExecuteCommands(ctx, batch)
		if err != nil {
			return err
		}
		for _, c := range batch {
			if st := resp.CommandError(c.UUID); st != nil {
				return fmt.Errorf("deleting %v: %s", c.Args["id"], st.Error)
			}
		}
		debug.PrintNormal("Deleted %d task(s)\n", len(batch))
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:     "move <id>",
	GroupID: "tasks",
	Short:   "Move a task to another project or section",
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

		dest := commands.Args{}
		project, _ := cmd.Flags().GetString("project")
		section, _ := cmd.Flags().GetString("section")
		switch {
		case section != "":
			scope := it.ProjectID
			if project != "" {
				p, err := mgr.ResolveProject(ctx, project)
				if err != nil {
					return err
				}
				scope = p.ID
			}
			s, err := mgr.ResolveSection(ctx, section, &scope)
			if err != nil {
				return err
			}
			dest["section_id"] = s.ID
		case project != "":
			p, err := mgr.ResolveProject(ctx, project)
			if err != nil {
				return err
			}
			dest["project_id"] = p.ID
		default:
			return fmt.Errorf("either --project or --section is required")
		}

		resp, err := mgr.ExecuteCommand(ctx, commands.MoveItem(it.ID, dest))
		if err != nil {
			return err
		}
		if resp.HasErrors() {
			for _, st := range resp.SyncStatus {
				if !st.OK {
					return fmt.Errorf("moving %s: %s", it.ID, st.Error)
				}
			}
		}
		debug.PrintNormal("Moved %s\n", it.Content)
		return nil
	},
}

func init() {
	moveCmd.Flags().StringP("project", "p", "", "destination project name or ID")
	moveCmd.Flags().StringP("section", "s", "", "destination section name or ID")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(moveCmd)
}
