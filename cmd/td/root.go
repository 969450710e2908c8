package main

import (
	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/api"
	"github.com/tdcli/td/internal/cache"
	"github.com/tdcli/td/internal/config"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/sync"
	"github.com/tdcli/td/internal/token"
	"github.com/tdcli/td/internal/ui"
)

var (
	flagJSON    bool
	flagQuiet   bool
	flagVerbose bool
	flagNoColor bool
	flagToken   string
	flagConfig  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "td",
	Short:         "Todoist from the command line",
	Long:          "td is a fast Todoist client backed by a locally synchronized cache.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.SetQuiet(flagQuiet)
		debug.SetVerbose(flagVerbose)

		var err error
		if flagConfig != "" {
			cfg, err = config.LoadFrom(flagConfig)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		ui.ConfigureColor(flagNoColor, cfg.Output.Color)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON instead of human-readable output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable diagnostic output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (overrides env, config, and keyring)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")

	rootCmd.AddGroup(
		&cobra.Group{ID: "tasks", Title: "Tasks:"},
		&cobra.Group{ID: "organize", Title: "Organization:"},
		&cobra.Group{ID: "setup", Title: "Setup:"},
	)
}

// newClient resolves the token and builds the API client.
func newClient() (*api.Client, error) {
	tok, err := token.Resolve(flagToken, cfg)
	if err != nil {
		return nil, err
	}
	return api.New(tok), nil
}

// newManager wires client, store, and cached state for a command.
func newManager() (*sync.Manager, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	store, err := cache.NewStore()
	if err != nil {
		return nil, err
	}
	return sync.NewManager(client, store)
}
