package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"photosort/internal/cli"
	"photosort/internal/cull"
	"photosort/internal/filehandler"
	"photosort/internal/pool"
	"photosort/internal/quality"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run the full two-stage quality cascade and print each verdict",
	Long: `Assess runs the triage cascade over every image: a cheap quality score
first, then a vision-model analysis for images the score could not decide.
Nothing is moved; the verdicts, naming suggestions, and critiques are
printed for review.`,
	Run: runAssess,
}

func init() {
	assessCmd.Flags().BoolVar(&forceVLMFlag, "force-vlm", false, "Send every image to the vision model, even definite keepers")
}

func runAssess(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx := context.Background()

	dirPath := resolveDirectory()
	cfg := loadConfig()

	files, err := filehandler.ScanDirectory(dirPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to scan directory")
	}
	if len(files) == 0 {
		log.Info().Msg("No images to assess, nothing to do")
		return
	}

	backend := quality.NewFallbackBackend()
	if !backend.Available() {
		log.Fatal().Msg("No scoring method available")
	}

	// Assess exists to consult the model; a dead service means the run
	// cannot do its job, so fail before any work starts.
	client := newVLMClient(cfg)
	if err := client.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("url", cfg.VLM.URL).Msg("Vision model service unreachable")
	}
	log.Info().Str("model", client.Model()).Msg("Vision model service reachable")

	outcomes := pool.Collect(ctx, files, cfg.Run.Workers, func(ctx context.Context, f filehandler.ImageFile) (cull.Assessment, error) {
		return cull.Assess(ctx, f, backend, client, forceVLMFlag)
	}, func(done, total int) {
		log.Info().Int("done", done).Int("total", total).Msg("Assessment progress")
	})

	var keepers, duds, review, failed, modelCalls int
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			log.Warn().Err(outcome.Err).Str("file", outcome.Item.Base()).Msg("Assessment failed")
			failed++
			continue
		}

		a := outcome.Value
		if a.Stage2Ran {
			modelCalls++
		}
		switch {
		case a.NeedsReview:
			review++
		case a.Verdict == cull.FinalDud:
			duds++
		default:
			keepers++
		}
		printAssessment(a)
	}

	fmt.Printf("\n%d keepers, %d duds, %d need review", keepers, duds, review)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Printf(" (%d model calls) in %s\n", modelCalls, cli.FormatDurationShort(time.Since(start)))
}

func printAssessment(a cull.Assessment) {
	fmt.Printf("\n%s\n", a.File.Base())
	fmt.Printf("  stage 1: %s %.1f (%s)\n", a.Stage1.Verdict, a.Stage1.Value, a.Stage1.Method)

	if a.Stage2Ran && a.Stage2 == nil {
		fmt.Printf("  stage 2: failed (%s), kept stage-1 verdict\n", a.Stage2Status)
	}
	if a.Stage2 != nil {
		tech := a.Stage2.Technical
		if tech.IsDud && tech.DudReason != "" {
			fmt.Printf("  stage 2: dud - %s\n", tech.DudReason)
		} else if tech.TechnicalNotes != "" {
			fmt.Printf("  stage 2: %s\n", tech.TechnicalNotes)
		}
		if a.Stage2.Naming.SuggestedFilename != "" {
			fmt.Printf("  suggested name: %s\n", a.Stage2.Naming.SuggestedFilename)
		}
		critique := a.Stage2.Critique
		if critique.OverallScore > 0 {
			fmt.Printf("  critique: %.1f/10 - %s\n", critique.OverallScore, critique.Mood)
		}
	}

	verdict := string(a.Verdict)
	if a.NeedsReview {
		verdict += " (needs review)"
	}
	fmt.Printf("  verdict: %s\n", verdict)
}
