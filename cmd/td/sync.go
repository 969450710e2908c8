package main

import (
	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/debug"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	GroupID: "setup",
	Short:   "Synchronize the local cache with the server",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}

		full, _ := cmd.Flags().GetBool("full")
		if full {
			err = mgr.FullSync(cmd.Context())
		} else {
			err = mgr.Sync(cmd.Context())
		}
		if err != nil {
			return err
		}

		c := mgr.Cache()
		debug.PrintNormal("Synced: %d tasks, %d projects, %d labels\n",
			len(c.Items), len(c.Projects), len(c.Labels))
		return nil
	},
}

func init() {
	syncCmd.Flags().Bool("full", false, "force a full sync, replacing the cache")
	rootCmd.AddCommand(syncCmd)
}
