package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tdcli/td/internal/config"
	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/token"
)

var authCmd = &cobra.Command{
	Use:     "auth",
	GroupID: "setup",
	Short:   "Manage the API token",
}

var authSetTokenCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Store the API token",
	Long: `Store the API token where token_storage in the config points: the system
keyring (default), the config file, or nowhere (env means you export
TODOIST_TOKEN yourself). Omit the argument to be prompted without echo.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tok string
		if len(args) == 1 {
			tok = args[0]
		} else {
			var err error
			tok, err = promptToken()
			if err != nil {
				return err
			}
		}
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return fmt.Errorf("empty token")
		}

		switch cfg.TokenStorage {
		case config.StorageKeyring:
			if err := token.StoreKeyring(tok); err != nil {
				return fmt.Errorf("storing token in keyring: %w", err)
			}
			debug.PrintNormal("Token %s stored in the system keyring\n", token.Mask(tok))
		case config.StorageConfig:
			cfg.Token = tok
			if err := saveConfig(); err != nil {
				return err
			}
			debug.PrintNormal("Token %s stored in the config file\n", token.Mask(tok))
		case config.StorageEnv:
			return fmt.Errorf("token_storage is \"env\"; export %s instead", token.EnvVar)
		}
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the token comes from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := token.Resolve(flagToken, cfg)
		if err != nil {
			debug.PrintNormal("No token configured. Run 'td auth set-token'.\n")
			return nil
		}
		source := "keyring"
		switch {
		case flagToken != "":
			source = "--token flag"
		case os.Getenv(token.EnvVar) != "":
			source = token.EnvVar + " environment variable"
		case cfg.Token != "":
			source = "config file"
		}
		debug.PrintNormal("Token %s (from %s)\n", token.Mask(tok), source)
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := token.DeleteKeyring(); err != nil {
			return fmt.Errorf("clearing keyring: %w", err)
		}
		if cfg.Token != "" {
			cfg.Token = ""
			if err := saveConfig(); err != nil {
				return err
			}
		}
		debug.PrintNormal("Token cleared\n")
		return nil
	},
}

func promptToken() (string, error) {
	fmt.Fprint(os.Stderr, "API token: ")
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func saveConfig() error {
	if flagConfig != "" {
		return cfg.SaveTo(flagConfig)
	}
	return cfg.Save()
}

func init() {
	authCmd.AddCommand(authSetTokenCmd, authStatusCmd, authClearCmd)
	rootCmd.AddCommand(authCmd)
}
