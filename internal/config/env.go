package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "LIBRARY_"

// parseEnv overlays LIBRARY_* environment variables. Unset variables keep
// the current value.
func parseEnv(config *Config) {
	if err := env.ParseWithOptions(config, env.Options{Prefix: envPrefix}); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
