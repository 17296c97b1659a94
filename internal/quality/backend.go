package quality

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"photosort/internal/filehandler"
)

// Verdict is the stage-1 classification of an image.
type Verdict string

const (
	VerdictKeeper    Verdict = "keeper"
	VerdictAmbiguous Verdict = "ambiguous"
	VerdictDud       Verdict = "dud"
)

// Score is the stage-1 result for one image: the raw metric plus the verdict
// the thresholds assign to it.
type Score struct {
	Value   float64 `json:"score"`
	Verdict Verdict `json:"verdict"`
	Method  string  `json:"method"`
}

// ScorerFunc is a no-reference badness scorer: given raw image bytes it
// returns a scalar where lower means better quality. BRISQUE-style scorers
// fit this contract.
type ScorerFunc func(ctx context.Context, data []byte) (float64, error)

// BackendKind identifies which scoring method a Backend carries. An explicit
// capability value, not an ambient flag: callers decide behavior by asking
// the backend, never by probing globals.
type BackendKind int

const (
	BackendUnavailable BackendKind = iota
	BackendPrimary
	BackendFallback
)

func (k BackendKind) String() string {
	switch k {
	case BackendPrimary:
		return "noref"
	case BackendFallback:
		return "laplacian_patch"
	default:
		return "unavailable"
	}
}

// Thresholds for the primary badness scorer (lower score = better image):
// below Keeper is a definite keeper, above Ambiguous a likely dud,
// in between needs deeper analysis.
const (
	DefaultKeeperThreshold    = 35.0
	DefaultAmbiguousThreshold = 50.0
)

// DefaultPatchThreshold is the sharpest-patch variance below which the
// fallback backend calls an image a dud.
const DefaultPatchThreshold = 40.0

// Backend is the stage-1 scoring capability handed to the triage engine at
// construction.
type Backend struct {
	Kind    BackendKind
	primary ScorerFunc

	// Primary thresholds (badness space).
	Keeper    float64
	Ambiguous float64

	// Fallback threshold (sharpness space).
	PatchThreshold float64
}

// NewPrimaryBackend wraps a no-reference scorer with default thresholds.
func NewPrimaryBackend(fn ScorerFunc) Backend {
	return Backend{
		Kind:      BackendPrimary,
		primary:   fn,
		Keeper:    DefaultKeeperThreshold,
		Ambiguous: DefaultAmbiguousThreshold,
	}
}

// NewFallbackBackend scores with sharpest-patch Laplacian variance. It can
// only distinguish keeper from dud; the cascade degrades to single-stage
// classification.
func NewFallbackBackend() Backend {
	return Backend{
		Kind:           BackendFallback,
		PatchThreshold: DefaultPatchThreshold,
	}
}

// Available reports whether the backend can score at all.
func (b Backend) Available() bool {
	return b.Kind != BackendUnavailable
}

// Score runs the stage-1 assessment on raw image bytes.
func (b Backend) Score(ctx context.Context, data []byte) (Score, error) {
	switch b.Kind {
	case BackendPrimary:
		value, err := b.primary(ctx, data)
		if err != nil {
			return Score{}, fmt.Errorf("primary scorer: %w", err)
		}
		verdict := VerdictDud
		switch {
		case value < b.Keeper:
			verdict = VerdictKeeper
		case value < b.Ambiguous:
			verdict = VerdictAmbiguous
		}
		return Score{Value: value, Verdict: verdict, Method: b.Kind.String()}, nil

	case BackendFallback:
		img, err := filehandler.DecodeImage(data)
		if err != nil {
			return Score{}, fmt.Errorf("fallback scorer: %w", err)
		}
		value := SharpestPatchVariance(ToGray(img), DefaultPatchSize)
		verdict := VerdictDud
		if value >= b.PatchThreshold {
			verdict = VerdictKeeper
		}
		log.Debug().Float64("patch_variance", value).Str("verdict", string(verdict)).Msg("Fallback score computed")
		return Score{Value: value, Verdict: verdict, Method: b.Kind.String()}, nil

	default:
		return Score{}, fmt.Errorf("no scoring method available")
	}
}
