package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tdcli/td/internal/config"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/token"
	"github.com/tdcli/td/internal/ui"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "setup",
	Short:   "Inspect and edit the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagJSON {
			redacted := *cfg
			if redacted.Token != "" {
				redacted.Token = token.Mask(redacted.Token)
			}
			return ui.PrintJSON(redacted)
		}
		fmt.Printf("version        %d\n", cfg.Version)
		fmt.Printf("token_storage  %s\n", cfg.TokenStorage)
		if cfg.Token != "" {
			fmt.Printf("token          %s\n", token.Mask(cfg.Token))
		}
		fmt.Printf("output.color       %t\n", cfg.Output.Color)
		fmt.Printf("output.date_format %s\n", cfg.Output.DateFormat)
		fmt.Printf("cache.enabled      %t\n", cfg.Cache.Enabled)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagConfig != "" {
			fmt.Println(flagConfig)
			return nil
		}
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save",
	Long: `Settable keys:

  token_storage       config | keyring | env
  output.color        true | false
  output.date_format  relative | short | iso
  cache.enabled       true | false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		switch key {
		case "token_storage":
			cfg.TokenStorage = config.TokenStorage(value)
		case "output.color":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("output.color wants true or false, got %q", value)
			}
			cfg.Output.Color = b
		case "output.date_format":
			cfg.Output.DateFormat = value
		case "cache.enabled":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("cache.enabled wants true or false, got %q", value)
			}
			cfg.Cache.Enabled = b
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
		if err := saveConfig(); err != nil {
			return err
		}
		debug.PrintNormal("Set %s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
