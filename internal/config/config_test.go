package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8.0, cfg.Burst.Threshold)
	assert.Equal(t, "phash", cfg.Burst.Algorithm)
	assert.Equal(t, 40.0, cfg.Cull.SharpnessGood)
	assert.Equal(t, 15.0, cfg.Cull.SharpnessDud)
	assert.Equal(t, 0.20, cfg.Cull.ExposureDudPct)
	assert.Equal(t, 0.05, cfg.Cull.ExposureGoodPct)
	assert.Equal(t, "http://localhost:11434", cfg.VLM.URL)
	assert.Equal(t, 5, cfg.Run.Workers)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".photosort.toml")
	content := `
[burst]
threshold = 12
algorithm = "embedding"

[cull]
sharpness_dud = 20.0

[vlm]
model = "llava:13b"

[run]
workers = 9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12.0, cfg.Burst.Threshold)
	assert.Equal(t, "embedding", cfg.Burst.Algorithm)
	assert.Equal(t, 20.0, cfg.Cull.SharpnessDud)
	// Untouched keys keep their defaults.
	assert.Equal(t, 40.0, cfg.Cull.SharpnessGood)
	assert.Equal(t, "llava:13b", cfg.VLM.Model)
	assert.Equal(t, "http://localhost:11434", cfg.VLM.URL)
	assert.Equal(t, 9, cfg.Run.Workers)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".photosort.toml")
	require.NoError(t, os.WriteFile(path, []byte("[burst\nthreshold="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestThresholdsConversion(t *testing.T) {
	cfg := Default()
	cfg.Cull.SharpnessDud = 22.5

	th := cfg.Thresholds()
	assert.Equal(t, 22.5, th.SharpnessDud)
	assert.Equal(t, cfg.Cull.ExposureDudPct, th.ExposureDudPct)
}
