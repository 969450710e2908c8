package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/ui"
)

var sectionCmd = &cobra.Command{
	Use:     "section",
	GroupID: "organize",
	Short:   "Manage sections within projects",
}

var sectionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sections",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := mgr.SyncIfStale(ctx); err != nil {
			return err
		}
		c := mgr.Cache()

		var scope *string
		if project, _ := cmd.Flags().GetString("project"); project != "" {
			p, err := mgr.ResolveProject(ctx, project)
			if err != nil {
				return err
			}
			scope = &p.ID
		}

		sections := c.Sections
		if scope != nil {
			kept := sections[:0:0]
			for _, s := range sections {
				if s.ProjectID == *scope {
					kept = append(kept, s)
				}
			}
			sections = kept
		}
		if flagJSON {
			return ui.PrintJSON(sections)
		}
		for _, s := range sections {
			project := s.ProjectID
			if p := c.ProjectByID(s.ProjectID); p != nil {
				project = p.Name
			}
			fmt.Printf("%s  /%s %s\n", ui.MutedStyle.Render(s.ID), s.Name,
				ui.MutedStyle.Render("(#"+project+")"))
		}
		return nil
	},
}

var sectionAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a section in a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		project, _ := cmd.Flags().GetString("project")
		if project == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := mgr.ResolveProject(ctx, project)
		if err != nil {
			return err
		}

		tempID := uuid.NewString()
		c := commands.NewWithTempID(commands.SectionAdd, tempID, commands.Args{
			"name":       args[0],
			"project_id": p.ID,
		})
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("creating section: %s", st.Error)
		}
		debug.PrintNormal("Created section /%s in #%s (%s)\n", args[0], p.Name, resp.TempIDMapping[tempID])
		return nil
	},
}

var sectionDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a section and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  sectionAction("delete", commands.DeleteSection),
}

var sectionArchiveCmd = &cobra.Command{
	Use:   "archive <name-or-id>",
	Short: "Archive a section",
	Args:  cobra.ExactArgs(1),
	RunE:  sectionAction("archive", commands.ArchiveSection),
}

var sectionUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <name-or-id>",
	Short: "Restore an archived section",
	Args:  cobra.ExactArgs(1),
	RunE:  sectionAction("unarchive", commands.UnarchiveSection),
}

func sectionAction(verb string, build func(id string) commands.Command) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var scope *string
		if project, _ := cmd.Flags().GetString("project"); project != "" {
			p, err := mgr.ResolveProject(ctx, project)
			if err != nil {
				return err
			}
			scope = &p.ID
		}
		s, err := mgr.ResolveSection(ctx, args[0], scope)
		if err != nil {
			return err
		}

		c := build(s.ID)
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("%s section /%s: %s", verb, s.Name, st.Error)
		}
		debug.PrintNormal("Section /%s: %s\n", s.Name, verb)
		return nil
	}
}

func init() {
	for _, c := range []*cobra.Command{sectionListCmd, sectionAddCmd, sectionDeleteCmd, sectionArchiveCmd, sectionUnarchiveCmd} {
		c.Flags().StringP("project", "p", "", "project name or ID to scope the section")
	}
	sectionCmd.AddCommand(sectionListCmd, sectionAddCmd, sectionDeleteCmd, sectionArchiveCmd, sectionUnarchiveCmd)
	rootCmd.AddCommand(sectionCmd)
}
