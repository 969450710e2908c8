package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/filter"
	"github.com/tdcli/td/internal/types"
	"github.com/tdcli/td/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list [filter]",
	Aliases: []string{"ls"},
	GroupID: "tasks",
	Short:   "List tasks, optionally matching a filter expression",
	Long: `List open tasks from the local cache.

The optional argument is a filter expression, e.g.:

  td list "today | overdue"
  td list "#Work & p1"
  td list "@errand & !no date"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		if err := mgr.SyncIfStale(cmd.Context()); err != nil {
			return err
		}
		c := mgr.Cache()

		items := make([]types.Item, 0, len(c.Items))
		showAll, _ := cmd.Flags().GetBool("all")
		for _, it := range c.Items {
			if it.Checked && !showAll {
				continue
			}
			items = append(items, it)
		}

		expr := ""
		if len(args) == 1 {
			expr = args[0]
		}
		if project, _ := cmd.Flags().GetString("project"); project != "" {
			expr = combineFilter(expr, "#"+quoteName(project))
		}
		if label, _ := cmd.Flags().GetString("label"); label != "" {
			expr = combineFilter(expr, "@"+quoteName(label))
		}
		if prio, _ := cmd.Flags().GetInt("priority"); prio != 0 {
			expr = combineFilter(expr, fmt.Sprintf("p%d", prio))
		}

		if expr != "" {
			node, lexErrs, err := filter.Parse(expr)
			if err != nil {
				return fmt.Errorf("invalid filter %q: %w", expr, err)
			}
			for _, le := range lexErrs {
				debug.Warnf("td: filter: %v\n", le)
			}
			var loc *time.Location
			if c.User != nil {
				loc = c.User.TZInfo.Location()
			}
			ev := filter.NewEvaluator(filter.Context{
				Projects: c.Projects,
				Sections: c.Sections,
				Labels:   c.Labels,
				Location: loc,
			})
			items = ev.Filter(node, items)
		}

		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Priority != items[j].Priority {
				return items[i].Priority > items[j].Priority
			}
			return items[i].ChildOrder < items[j].ChildOrder
		})

		if flagJSON {
			return ui.PrintJSON(items)
		}
		printItems(items, c)
		return nil
	},
}

func combineFilter(expr, clause string) string {
	if expr == "" {
		return clause
	}
	return "(" + expr + ") & " + clause
}

// quoteName protects names containing whitespace in a generated filter.
func quoteName(name string) string {
	if strings.ContainsAny(name, " \t") {
		return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
	}
	return name
}

func printItems(items []types.Item, c interface{ ProjectByID(string) *types.Project }) {
	if len(items) == 0 {
		debug.PrintNormal("No tasks.\n")
		return
	}
	now := time.Now()
	for _, it := range items {
		icon := ui.IconOpen
		if it.Checked {
			icon = ui.DoneStyle.Render(ui.IconDone)
		}
		line := fmt.Sprintf("%s %s  %s", icon, ui.MutedStyle.Render(shortID(it.ID)), it.Content)
		if style, ok := ui.PriorityStyles[it.Priority]; ok && it.Priority > 1 {
			line += "  " + style.Render(fmt.Sprintf("p%d", 5-it.Priority))
		}
		if it.Due != nil {
			if day, ok := it.Due.Day(time.Local); ok {
				rendered := ui.FormatDate(day, cfg.Output.DateFormat, now)
				if day.Before(now.Truncate(24 * time.Hour)) {
					rendered = ui.OverdueStyle.Render(rendered)
				}
				line += "  " + rendered
			}
		}
		if p := c.ProjectByID(it.ProjectID); p != nil {
			line += "  " + ui.AccentStyle.Render("#"+p.Name)
		}
		fmt.Println(line)
	}
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}

func init() {
	listCmd.Flags().Bool("all", false, "include completed tasks")
	listCmd.Flags().StringP("project", "p", "", "only tasks in this project")
	listCmd.Flags().StringP("label", "l", "", "only tasks with this label")
	listCmd.Flags().Int("priority", 0, "only tasks at this priority (1..4, 1 is highest)")
	rootCmd.AddCommand(listCmd)
}
