package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/ui"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	GroupID: "tasks",
	Short:   "Show one task in detail",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		it, err := mgr.ResolveItemByPrefix(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		if flagJSON {
			return ui.PrintJSON(it)
		}

		c := mgr.Cache()
		fmt.Printf("%s %s\n", ui.HeaderStyle.Render(it.Content), ui.MutedStyle.Render(it.ID))
		if it.Description != "" {
			fmt.Println(it.Description)
		}
		if p := c.ProjectByID(it.ProjectID); p != nil {
			fmt.Printf("Project:  #%s\n", p.Name)
		}
		if it.SectionID != nil {
			if s := c.SectionByID(*it.SectionID); s != nil {
				fmt.Printf("Section:  /%s\n", s.Name)
			}
		}
		fmt.Printf("Priority: p%d\n", 5-it.Priority)
		if len(it.Labels) > 0 {
			fmt.Printf("Labels:   @%s\n", strings.Join(it.Labels, " @"))
		}
		if it.Due != nil {
			if day, ok := it.Due.Day(time.Local); ok {
				fmt.Printf("Due:      %s", ui.FormatDate(day, cfg.Output.DateFormat, time.Now()))
				if it.Due.IsRecurring {
					fmt.Printf(" (recurring: %s)", it.Due.String)
				}
				fmt.Println()
			}
		}
		if it.Deadline != nil {
			fmt.Printf("Deadline: %s\n", it.Deadline.Date)
		}
		if it.Checked {
			fmt.Println(ui.DoneStyle.Render("Completed"))
		}

		var notes []string
		for _, n := range c.Notes {
			if n.ItemID == it.ID {
				notes = append(notes, n.Content)
			}
		}
		if len(notes) > 0 {
			fmt.Printf("\n%s\n", ui.HeaderStyle.Render("Comments"))
			for _, n := range notes {
				fmt.Printf("  %s\n", n)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
