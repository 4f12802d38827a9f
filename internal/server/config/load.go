package config

import (
	"fmt"

	"github.com/yndnr/deskshare-go/internal/infra/confloader"
)

// Load builds the effective configuration: defaults, then the YAML file at
// path (optional), then DESKSHARE_ environment variables, then overrides.
// The result is verified.
func Load(path string, overrides map[string]any) (*ServerConfig, error) {
	cfg := Default()

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
