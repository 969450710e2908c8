// Package token resolves the API token and renders it safely for display.
package token

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/tdcli/td/internal/config"
)

// EnvVar overrides every other token source when set.
const EnvVar = "TODOIST_TOKEN"

const (
	keyringService = "td"
	keyringUser    = "api-token"
)

// ErrNoToken means no source in the chain produced a token.
var ErrNoToken = errors.New("no API token found; set " + EnvVar + " or run 'td auth set-token'")

// Resolve walks the priority chain: explicit override, environment,
// config file, OS keyring. cfg may be nil.
func Resolve(explicit string, cfg *config.Config) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, nil
	}
	if cfg != nil && cfg.Token != "" {
		return cfg.Token, nil
	}
	tok, err := keyring.Get(keyringService, keyringUser)
	if err == nil && tok != "" {
		return tok, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("reading keyring: %w", err)
	}
	return "", ErrNoToken
}

// StoreKeyring saves the token in the OS keyring.
func StoreKeyring(tok string) error {
	if err := keyring.Set(keyringService, keyringUser, tok); err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}
	return nil
}

// DeleteKeyring removes the stored token; a missing entry is success.
func DeleteKeyring() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("clearing keyring: %w", err)
	}
	return nil
}

// Mask renders a token for display. Tokens longer than 8 characters show
// the first and last 4 joined by "..."; anything shorter is fully masked.
// Counts are runes, not bytes.
func Mask(tok string) string {
	runes := []rune(tok)
	if len(runes) > 8 {
		return string(runes[:4]) + "..." + string(runes[len(runes)-4:])
	}
	return "****"
}
