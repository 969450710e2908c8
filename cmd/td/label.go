package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/ui"
)

var labelCmd = &cobra.Command{
	Use:     "label",
	GroupID: "organize",
	Short:   "Manage labels",
}

var labelListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List labels",
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
			return ui.PrintJSON(c.Labels)
		}

		counts := make(map[string]int)
		for _, it := range c.Items {
			if it.Checked {
				continue
			}
			for _, l := range it.Labels {
				counts[l]++
			}
		}
		for _, l := range c.Labels {
			fmt.Printf("%s  @%s %s\n", ui.MutedStyle.Render(l.ID), l.Name,
				ui.MutedStyle.Render(fmt.Sprintf("(%d)", counts[l.Name])))
		}
		return nil
	},
}

var labelAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}

		cmdArgs := commands.Args{"name": args[0]}
		if color, _ := cmd.Flags().GetString("color"); color != "" {
			cmdArgs["color"] = color
		}

		tempID := uuid.NewString()
		c := commands.NewWithTempID(commands.LabelAdd, tempID, cmdArgs)
		resp, err := mgr.ExecuteCommand(cmd.Context(), c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("creating label: %s", st.Error)
		}
		debug.PrintNormal("Created label @%s (%s)\n", args[0], resp.TempIDMapping[tempID])
		return nil
	},
}

var labelDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		l, err := mgr.ResolveLabel(ctx, args[0])
		if err != nil {
			return err
		}
		c := commands.DeleteLabel(l.ID)
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("deleting label @%s: %s", l.Name, st.Error)
		}
		debug.PrintNormal("Deleted label @%s\n", l.Name)
		return nil
	},
}

func init() {
	labelAddCmd.Flags().String("color", "", "label color name")
	labelCmd.AddCommand(labelListCmd, labelAddCmd, labelDeleteCmd)
	rootCmd.AddCommand(labelCmd)
}
