// Package config loads slidescan configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the slidescan service.
type Config struct {
	ListenAddr string `env:"SLIDESCAN_LISTEN_ADDR" envDefault:":8080"`
	StaticDir  string `env:"SLIDESCAN_STATIC_DIR"  envDefault:""`

	// DBPath is the SQLite database location. Empty selects
	// ~/.slidescan/slidescan.db.
	DBPath string `env:"SLIDESCAN_DB_PATH" envDefault:""`

	MinSceneDuration float64 `env:"SLIDESCAN_MIN_SCENE_DURATION" envDefault:"2.0"`
	MinAreaRatio     float64 `env:"SLIDESCAN_MIN_AREA_RATIO"     envDefault:"0.20"`
	WorkingWidth     int     `env:"SLIDESCAN_WORKING_WIDTH"      envDefault:"1280"`
}

// Load parses configuration from environment variables, falling back to the
// documented defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
