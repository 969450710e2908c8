package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/api"
	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/filter"
	"github.com/tdcli/td/internal/types"
	"github.com/tdcli/td/internal/ui"
)

var filterCmd = &cobra.Command{
	Use:     "filter",
	GroupID: "organize",
	Short:   "Manage saved filters",
}

var filterListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved filters",
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
			return ui.PrintJSON(c.Filters)
		}
		for _, f := range c.Filters {
			fmt.Printf("%s  %s  %s\n", ui.MutedStyle.Render(f.ID), f.Name,
				ui.MutedStyle.Render(f.Query))
		}
		return nil
	},
}

var filterAddCmd = &cobra.Command{
	Use:   "add <name> <query>",
	Short: "Save a filter query",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reject queries the local evaluator cannot parse before saving them.
		_, lexErrs, err := filter.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid filter %q: %w", args[1], err)
		}
		for _, le := range lexErrs {
			debug.Warnf("td: filter: %v\n", le)
		}

		mgr, err := newManager()
		if err != nil {
			return err
		}
		c := commands.NewWithTempID(commands.FilterAdd, uuid.NewString(), commands.Args{
			"name":  args[0],
			"query": args[1],
		})
		resp, err := mgr.ExecuteCommand(cmd.Context(), c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("saving filter: %s", st.Error)
		}
		debug.PrintNormal("Saved filter %q\n", args[0])
		return nil
	},
}

var filterDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a saved filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		f, err := resolveSavedFilter(mgr.Cache().Filters, args[0])
		if err != nil {
			return err
		}
		c := commands.DeleteFilter(f.ID)
		resp, err := mgr.ExecuteCommand(ctx, c)
		if err != nil {
			return err
		}
		if st := resp.CommandError(c.UUID); st != nil {
			return fmt.Errorf("deleting filter %q: %s", f.Name, st.Error)
		}
		debug.PrintNormal("Deleted filter %q\n", f.Name)
		return nil
	},
}

var filterRunCmd = &cobra.Command{
	Use:   "run <name-or-id>",
	Short: "List tasks matching a saved filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		if err := mgr.SyncIfStale(cmd.Context()); err != nil {
			return err
		}
		c := mgr.Cache()

		f, err := resolveSavedFilter(c.Filters, args[0])
		if err != nil {
			return err
		}
		node, lexErrs, err := filter.Parse(f.Query)
		if err != nil {
			return fmt.Errorf("saved filter %q has invalid query %q: %w", f.Name, f.Query, err)
		}
		for _, le := range lexErrs {
			debug.Warnf("td: filter: %v\n", le)
		}

		items := make([]types.Item, 0, len(c.Items))
		for _, it := range c.Items {
			if !it.Checked {
				items = append(items, it)
			}
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

func resolveSavedFilter(filters []types.Filter, input string) (*types.Filter, error) {
	for i := range filters {
		if filters[i].ID == input || strings.EqualFold(filters[i].Name, input) {
			return &filters[i], nil
		}
	}
	return nil, &api.NotFoundError{Resource: "filter", ID: input}
}

func init() {
	filterCmd.AddCommand(filterListCmd, filterAddCmd, filterDeleteCmd, filterRunCmd)
	rootCmd.AddCommand(filterCmd)
}
