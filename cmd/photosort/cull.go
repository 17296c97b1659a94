package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"photosort/internal/cli"
	"photosort/internal/cull"
	"photosort/internal/filehandler"
	"photosort/internal/organizer"
	"photosort/internal/pool"
	"photosort/internal/quality"
)

var cullCmd = &cobra.Command{
	Use:   "cull",
	Short: "Sort images into quality tiers from sharpness and exposure metrics",
	Run:   runCull,
}

func runCull(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx := context.Background()

	dirPath := resolveDirectory()
	cfg := loadConfig()
	thresholds := cfg.Thresholds()

	files, err := filehandler.ScanDirectory(dirPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to scan directory")
	}

	// Already-labeled burst picks carry a curated name; leave them alone.
	candidates := files[:0]
	for _, f := range files {
		if cull.IsAINamedPick(f.Base()) {
			log.Debug().Str("file", f.Base()).Msg("Skipping labeled burst pick")
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		log.Info().Msg("No images to triage, nothing to do")
		return
	}

	log.Info().Int("images", len(candidates)).Msg("Analyzing technical quality")

	outcomes := pool.Collect(ctx, candidates, cfg.Run.Workers, func(ctx context.Context, f filehandler.ImageFile) (quality.Metrics, error) {
		data, err := filehandler.ImageBytes(ctx, f)
		if err != nil {
			return quality.Metrics{}, err
		}
		img, err := filehandler.DecodeImage(data)
		if err != nil {
			return quality.Metrics{}, err
		}
		return quality.Analyze(img), nil
	}, func(done, total int) {
		log.Debug().Int("done", done).Int("total", total).Msg("Analysis progress")
	})

	mover := organizer.NewMover(dryRunFlag, nil)

	counts := map[cull.Tier]int{}
	var entries []cull.Entry
	var failed int

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			log.Warn().Err(outcome.Err).Str("file", outcome.Item.Base()).Msg("Analysis failed, image left in place")
			failed++
			continue
		}

		tier := cull.TierFor(outcome.Value, thresholds)
		counts[tier]++

		if outcome.Item.Meta == nil && filehandler.IsStandard(outcome.Item.Ext) {
			if meta, err := filehandler.ExtractMetadata(outcome.Item.Path); err == nil {
				outcome.Item.Meta = meta
			}
		}
		entries = append(entries, cull.NewEntry(outcome.Item, outcome.Value, tier))

		tierDir := filepath.Join(dirPath, tier.Folder())
		if err := mover.EnsureDir(tierDir); err != nil {
			log.Error().Err(err).Str("tier", string(tier)).Msg("Could not create tier folder")
			failed++
			continue
		}
		if _, err := mover.Move(outcome.Item.Path, filepath.Join(tierDir, outcome.Item.Base())); err != nil {
			log.Error().Err(err).Str("file", outcome.Item.Base()).Msg("Move failed")
			failed++
		}
	}

	fmt.Printf("\nFound %d Tier A, %d Tier B, and %d Tier C", counts[cull.TierA], counts[cull.TierB], counts[cull.TierC])
	if failed > 0 {
		fmt.Printf(" (%d failed)", failed)
	}
	fmt.Printf(" in %s\n", cli.FormatDurationShort(time.Since(start)))

	if dryRunFlag {
		fmt.Println("Dry run: no files were moved and no log was written.")
		return
	}

	summary := cull.NewRunSummary(dirPath, sessionStamp, thresholds, entries)
	if path, err := summary.Write(); err != nil {
		log.Warn().Err(err).Msg("Could not write run summary")
	} else {
		fmt.Printf("Cull log: %s\n", filepath.Base(path))
	}
}
