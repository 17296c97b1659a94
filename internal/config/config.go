// Package config loads the optional ~/.photosort.toml settings file.
// Precedence is flags over file over defaults; a missing file is not an
// error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"photosort/internal/cull"
	"photosort/internal/fingerprint"
	"photosort/internal/pool"
	"photosort/internal/vlm"
)

// FileName is the config file looked up in the user's home directory.
const FileName = ".photosort.toml"

// Burst contains grouping settings.
type Burst struct {
	// Threshold is the fingerprint distance at or below which two images
	// belong to the same burst. Interpreted in the active algorithm's
	// distance space.
	Threshold float64 `toml:"threshold"`

	// Algorithm selects the fingerprint family: "phash" or "embedding".
	Algorithm string `toml:"algorithm"`
}

// Cull contains triage settings.
type Cull struct {
	SharpnessGood   float64 `toml:"sharpness_good"`
	SharpnessDud    float64 `toml:"sharpness_dud"`
	ExposureDudPct  float64 `toml:"exposure_dud_pct"`
	ExposureGoodPct float64 `toml:"exposure_good_pct"`
}

// VLM contains vision-model service settings.
type VLM struct {
	URL                string `toml:"url"`
	Model              string `toml:"model"`
	AnalyzeTimeoutSecs int    `toml:"analyze_timeout_secs"`
	NamingTimeoutSecs  int    `toml:"naming_timeout_secs"`
}

// Run contains execution settings.
type Run struct {
	Workers int `toml:"workers"`
}

// Config is the full settings tree.
type Config struct {
	Burst Burst `toml:"burst"`
	Cull  Cull  `toml:"cull"`
	VLM   VLM   `toml:"vlm"`
	Run   Run   `toml:"run"`
}

// Default returns the stock configuration.
func Default() Config {
	th := cull.DefaultThresholds()
	return Config{
		Burst: Burst{
			Threshold: fingerprint.DefaultHashThreshold,
			Algorithm: "phash",
		},
		Cull: Cull{
			SharpnessGood:   th.SharpnessGood,
			SharpnessDud:    th.SharpnessDud,
			ExposureDudPct:  th.ExposureDudPct,
			ExposureGoodPct: th.ExposureGoodPct,
		},
		VLM: VLM{
			URL:                vlm.DefaultBaseURL,
			Model:              vlm.DefaultModel,
			AnalyzeTimeoutSecs: int(vlm.DefaultAnalyzeTimeout.Seconds()),
			NamingTimeoutSecs:  int(vlm.DefaultNamingTimeout.Seconds()),
		},
		Run: Run{
			Workers: pool.DefaultWorkers,
		},
	}
}

// DefaultPath returns the config file location in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the config file at path over the defaults. A missing file
// returns the defaults untouched; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("Loaded configuration")
	return cfg, nil
}

// Thresholds converts the cull section into the tier policy parameters.
func (c Config) Thresholds() cull.Thresholds {
	return cull.Thresholds{
		SharpnessGood:   c.Cull.SharpnessGood,
		SharpnessDud:    c.Cull.SharpnessDud,
		ExposureDudPct:  c.Cull.ExposureDudPct,
		ExposureGoodPct: c.Cull.ExposureGoodPct,
	}
}
