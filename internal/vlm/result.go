// Package vlm is the client for the local vision-language model service
// (an Ollama-compatible chat endpoint). It performs the expensive stage-2
// analysis of the triage cascade and names burst picks.
//
// Service failure is part of the contract, not an exception: every call
// returns a tagged result whose Status says whether the model answered,
// answered garbage, timed out, or could not be reached. Callers branch on
// the tag and fall back; they never see a Go error for a service failure.
package vlm

// Status tags the outcome of a model call.
type Status int

const (
	StatusSuccess Status = iota
	StatusMalformed
	StatusTimeout
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusMalformed:
		return "malformed"
	case StatusTimeout:
		return "timeout"
	case StatusUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// OK reports whether the call produced a usable payload.
func (s Status) OK() bool {
	return s == StatusSuccess
}

// Technical is the model's culling decision.
type Technical struct {
	IsKeeper       bool   `json:"is_keeper"`
	IsDud          bool   `json:"is_dud"`
	DudReason      string `json:"dud_reason"`
	TechnicalNotes string `json:"technical_notes"`
}

// Naming is the model's organization suggestion.
type Naming struct {
	SuggestedFilename string `json:"suggested_filename"`
	Subject           string `json:"subject"`
	LocationType      string `json:"location_type"`
	TimeOfDay         string `json:"time_of_day"`
}

// Critique is the model's qualitative review.
type Critique struct {
	OverallScore     float64  `json:"overall_score"`
	Composition      string   `json:"composition"`
	Lighting         string   `json:"lighting"`
	TechnicalQuality string   `json:"technical_quality"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	Mood             string   `json:"mood"`
}

// Analysis is the consolidated payload of a successful Analyze call.
type Analysis struct {
	Technical Technical `json:"technical"`
	Naming    Naming    `json:"naming"`
	Critique  Critique  `json:"critique"`
}

// Result is the tagged outcome of Analyze. Analysis is non-nil only when
// Status is StatusSuccess.
type Result struct {
	Status   Status
	Analysis *Analysis
}

// NameResult is the tagged outcome of Name. Filename and Tags are populated
// only when Status is StatusSuccess.
type NameResult struct {
	Status   Status
	Filename string
	Tags     []string
}
