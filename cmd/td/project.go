package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/ui"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	GroupID: "organize",
	Short:   "Manage projects",
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		if err := mgr.SyncIfStale(cmd.Context()); err != nil {
			return err
		}
		c := mgr.Cache()
		if flagJSON {
			return ui.PrintJSON(c.Projects)
		}
		for _, p := range c.Projects {
			line := "#" + p.Name
			if p.InboxProject {
				line += ui.MutedStyle.Render(" (inbox)")
			}
			if p.Shared {
				line += ui.AccentStyle.Render(" (shared)")
			}
			fmt.Printf("%s  %s\n", ui.MutedStyle.Render(p.ID), line)
		}
		return nil
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		cmdArgs := commands.Args{"name": args[0]}
		if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
			p, err := mgr.ResolveProject(ctx, parent)
			if err != nil {
				return err
			}
			cmdArgs["parent_id"] = p.ID
		}
		if color, _ := cmd.Flags().GetString("color"); color != "" {
			cmdArgs["color"] = color
		}

		tempID := uuid.NewString()
		resp, err := mgr.ExecuteCommand(ctx, commands.NewWithTempID(commands.ProjectAdd, tempID, cmdArgs))
		if err != nil {
			return err
		}
		if resp.HasErrors() {
			for _, st := range resp.SyncStatus {
				if !st.OK {
					return fmt.Errorf("creating project: %s", st.Error)
				}
			}
		}
		debug.PrintNormal("Created project #%s (%s)\n", args[0], resp.TempIDMapping[tempID])
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a project and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE:  projectAction("delete", commands.DeleteProject),
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <name-or-id>",
	Short: "Archive a project",
	Args:  cobra.ExactArgs(1),
	RunE:  projectAction("archive", commands.ArchiveProject),
}

var projectUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <name-or-id>",
	Short: "Restore an archived project",
	Args:  cobra.ExactArgs(1),
	RunE:  projectAction("unarchive", commands.UnarchiveProject),
}

func projectAction(verb string, build func(id string) commands.Command) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		p, err := mgr.ResolveProject(ctx, args[0])
		if err != nil {
			return err
		}
		resp, err := mgr.ExecuteCommand(ctx, build(p.ID))
		if err != nil {
			return err
		}
		if resp.HasErrors() {
			for _, st := range resp.SyncStatus {
				if !st.OK {
					return fmt.Errorf("%s project #%s: %s", verb, p.Name, st.Error)
				}
			}
		}
		debug.PrintNormal("Project #%s: %s\n", p.Name, verb)
		return nil
	}
}

func init() {
	projectAddCmd.Flags().String("parent", "", "parent project name or ID")
	projectAddCmd.Flags().String("color", "", "project color name")
	projectCmd.AddCommand(projectListCmd, projectAddCmd, projectDeleteCmd, projectArchiveCmd, projectUnarchiveCmd)
	rootCmd.AddCommand(projectCmd)
}
