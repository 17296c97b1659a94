package cull

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"photosort/internal/filehandler"
	"photosort/internal/quality"
	"photosort/internal/vlm"
)

// Analyzer runs the expensive stage-2 analysis. The vlm.Client satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, f filehandler.ImageFile) vlm.Result
}

// FinalVerdict is the terminal decision of the cascade.
type FinalVerdict string

const (
	FinalKeeper FinalVerdict = "keeper"
	FinalDud    FinalVerdict = "dud"
)

// Assessment is the full cascade outcome for one image.
type Assessment struct {
	File filehandler.ImageFile

	Stage1 quality.Score
	// Stage2 holds the model analysis when stage 2 ran and succeeded.
	Stage2 *vlm.Analysis
	// Stage2Status records how stage 2 ended when it was attempted.
	Stage2Status vlm.Status
	Stage2Ran    bool

	Verdict     FinalVerdict
	NeedsReview bool
}

// Assess runs the two-stage cascade on one image.
//
// Stage 1 always runs. Stage 2 runs only for ambiguous and dud verdicts, or
// when forced; a definite keeper never pays for a model call. A successful
// stage 2 overrides stage 1 entirely: is_dud decides the verdict and an
// answer that is neither keeper nor dud flags the image for review. A failed
// stage 2 falls back to exactly the stage-1 verdict.
func Assess(ctx context.Context, f filehandler.ImageFile, backend quality.Backend, analyzer Analyzer, force bool) (Assessment, error) {
	assessment := Assessment{File: f, Verdict: FinalKeeper}

	data, err := filehandler.ImageBytes(ctx, f)
	if err != nil {
		return assessment, fmt.Errorf("load %s: %w", f.Base(), err)
	}

	score, err := backend.Score(ctx, data)
	if err != nil {
		return assessment, fmt.Errorf("stage 1 for %s: %w", f.Base(), err)
	}
	assessment.Stage1 = score

	needsStage2 := force || score.Verdict != quality.VerdictKeeper
	if needsStage2 && analyzer != nil {
		assessment.Stage2Ran = true
		result := analyzer.Analyze(ctx, f)
		assessment.Stage2Status = result.Status

		if result.Status.OK() {
			assessment.Stage2 = result.Analysis
			technical := result.Analysis.Technical
			if technical.IsDud {
				assessment.Verdict = FinalDud
			} else {
				assessment.Verdict = FinalKeeper
			}
			assessment.NeedsReview = !technical.IsKeeper && !technical.IsDud
			return assessment, nil
		}

		log.Warn().
			Str("file", f.Base()).
			Str("status", result.Status.String()).
			Str("stage1_verdict", string(score.Verdict)).
			Msg("Deep analysis failed, keeping stage-1 verdict")
	}

	if score.Verdict != quality.VerdictKeeper {
		assessment.Verdict = FinalDud
	}
	assessment.NeedsReview = score.Verdict == quality.VerdictAmbiguous
	return assessment, nil
}
