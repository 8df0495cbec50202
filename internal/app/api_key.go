package app

import (
	"strings"

	"word-styler/internal/config"
)

// resolveAPIKey returns the key for the configured provider. A key passed in
// opts wins over .env and the environment.
func resolveAPIKey(paths *config.Paths, cfg *config.Config, explicit string) (string, error) {
	if k := strings.TrimSpace(explicit); k != "" {
		return k, nil
	}
	return config.ResolveAPIKey(paths, cfg.APIKeyEnv)
}
