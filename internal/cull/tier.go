// Package cull triages images by technical quality. Batch runs sort a
// directory into quality tiers from cheap metrics; per-image assessment runs
// a two-stage cascade where only the uncertain middle pays for a vision-model
// call.
package cull

import (
	"regexp"
	"strings"

	"photosort/internal/quality"
)

// Tier is a terminal quality classification. Tier A is worth editing, B needs
// a human look, C is archive material.
type Tier string

const (
	TierA Tier = "Tier_A"
	TierB Tier = "Tier_B"
	TierC Tier = "Tier_C"
)

// Folder returns the destination directory name for the tier.
func (t Tier) Folder() string {
	return "_" + string(t)
}

// Description is the tier legend recorded in the run summary.
func (t Tier) Description() string {
	switch t {
	case TierA:
		return "Best quality (high sharpness, good exposure)"
	case TierB:
		return "Review needed (moderate quality)"
	case TierC:
		return "Archive/low priority (low sharpness or bad exposure)"
	default:
		return "Unknown"
	}
}

// Thresholds parameterize the tier policy. ExposureDudPct and ExposureGoodPct
// bound the crushed-black / blown-white pixel fractions.
type Thresholds struct {
	SharpnessGood   float64 `json:"sharpness_good" toml:"sharpness_good"`
	SharpnessDud    float64 `json:"sharpness_dud" toml:"sharpness_dud"`
	ExposureDudPct  float64 `json:"exposure_dud_pct" toml:"exposure_dud_pct"`
	ExposureGoodPct float64 `json:"exposure_good_pct" toml:"exposure_good_pct"`
}

// DefaultThresholds returns the stock tier policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SharpnessGood:   40.0,
		SharpnessDud:    15.0,
		ExposureDudPct:  0.20,
		ExposureGoodPct: 0.05,
	}
}

// TierFor classifies one image from its metrics. Pure: identical inputs
// always yield the identical tier, and the C / A / B arms partition the
// metric space with no overlap (C is checked first, A requires the opposite
// extremes, everything else is B).
func TierFor(m quality.Metrics, th Thresholds) Tier {
	exposureBad := m.BlacksPct > th.ExposureDudPct || m.WhitesPct > th.ExposureDudPct
	if m.Sharpness < th.SharpnessDud || exposureBad {
		return TierC
	}

	exposureGood := m.BlacksPct < th.ExposureGoodPct && m.WhitesPct < th.ExposureGoodPct
	if m.Sharpness > th.SharpnessGood && exposureGood {
		return TierA
	}

	return TierB
}

var pickSuffix = regexp.MustCompile(`(?i)_PICK\.\w+$`)

// IsAINamedPick reports whether a filename is an already-labeled burst pick
// ("<label>_PICK.<ext>"). Such files carry a curated name and are skipped by
// re-triage. Legacy "_PICK_" prefixed files are not AI-named.
func IsAINamedPick(filename string) bool {
	if !pickSuffix.MatchString(filename) {
		return false
	}
	return !strings.HasPrefix(filename, "_PICK_")
}
