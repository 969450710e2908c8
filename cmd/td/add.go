package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/ui"
)

var addCmd = &cobra.Command{
	Use:     "add <content>",
	GroupID: "tasks",
	Short:   "Add a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		cmdArgs := commands.Args{"content": args[0]}

		if project, _ := cmd.Flags().GetString("project"); project != "" {
			p, err := mgr.ResolveProject(ctx, project)
			if err != nil {
				return err
			}
			cmdArgs["project_id"] = p.ID

			if section, _ := cmd.Flags().GetString("section"); section != "" {
				s, err := mgr.ResolveSection(ctx, section, &p.ID)
				if err != nil {
					return err
				}
				cmdArgs["section_id"] = s.ID
			}
		}
		if desc, _ := cmd.Flags().GetString("description"); desc != "" {
			cmdArgs["description"] = desc
		}
		if due, _ := cmd.Flags().GetString("due"); due != "" {
			cmdArgs["due"] = map[string]string{"string": due}
		}
		if deadline, _ := cmd.Flags().GetString("deadline"); deadline != "" {
			cmdArgs["deadline"] = map[string]string{"date": deadline}
		}
		if prio, _ := cmd.Flags().GetInt("priority"); prio != 0 {
			if prio < 1 || prio > 4 {
				return fmt.Errorf("priority must be 1..4")
			}
			cmdArgs["priority"] = 5 - prio // p1 is wire priority 4
		}
		if labels, _ := cmd.Flags().GetStringArray("label"); len(labels) > 0 {
			cmdArgs["labels"] = labels
		}

		tempID := uuid.NewString()
		resp, err := mgr.ExecuteCommand(ctx, commands.NewWithTempID(commands.ItemAdd, tempID, cmdArgs))
		if err != nil {
			return err
		}
		if resp.HasErrors() {
			for _, st := range resp.SyncStatus {
				if !st.OK {
					return fmt.Errorf("server rejected task: %s", st.Error)
				}
			}
		}

		id := resp.TempIDMapping[tempID]
		if flagJSON {
			return ui.PrintJSON(map[string]string{"id": id, "content": args[0]})
		}
		debug.PrintNormal("Added task %s\n", id)
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("project", "p", "", "project name or ID")
	addCmd.Flags().StringP("section", "s", "", "section name or ID (requires --project)")
	addCmd.Flags().StringP("due", "d", "", "due date in natural language (\"tomorrow\", \"every friday\")")
	addCmd.Flags().String("deadline", "", "deadline date (YYYY-MM-DD)")
	addCmd.Flags().Int("priority", 0, "priority 1..4 (1 is highest)")
	addCmd.Flags().StringArrayP("label", "l", nil, "label name (repeatable)")
	addCmd.Flags().String("description", "", "task description")
	rootCmd.AddCommand(addCmd)
}
