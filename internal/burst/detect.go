package burst

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"photosort/internal/filehandler"
	"photosort/internal/fingerprint"
	"photosort/internal/pool"
)

// Detect fingerprints every file concurrently and clusters them into burst
// groups.
//
// Clustering is seed-centered on purpose: files are visited in filename
// order, and each unvisited file opens a group that absorbs every later
// unvisited file within threshold of the SEED, not of each other. This
// under-merges compared to transitive clustering on borderline thresholds,
// which matches how consecutive shutter bursts actually sit in a shoot
// folder. Groups of one are reported as singles.
func Detect(ctx context.Context, files []filehandler.ImageFile, provider fingerprint.Provider, threshold float64, workers int) DetectResult {
	var result DetectResult

	log.Info().Int("files", len(files)).Float64("threshold", threshold).Msg("Fingerprinting images")

	prints := make(map[string]fingerprint.Fingerprint, len(files))
	byPath := make(map[string]filehandler.ImageFile, len(files))

	outcomes := pool.Collect(ctx, files, workers, func(ctx context.Context, f filehandler.ImageFile) (fingerprint.Fingerprint, error) {
		return provider.Compute(ctx, f)
	}, func(done, total int) {
		log.Debug().Int("done", done).Int("total", total).Msg("Fingerprint progress")
	})

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			log.Warn().Err(outcome.Err).Str("file", outcome.Item.Base()).Msg("Fingerprint failed, image excluded from grouping")
			result.Failed = append(result.Failed, Failure{File: outcome.Item, Err: outcome.Err})
			continue
		}
		prints[outcome.Item.Path] = outcome.Value
		byPath[outcome.Item.Path] = outcome.Item
	}

	sorted := make([]string, 0, len(prints))
	for path := range prints {
		sorted = append(sorted, path)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return byPath[sorted[i]].Base() < byPath[sorted[j]].Base()
	})

	visited := make(map[string]bool, len(sorted))

	for _, seed := range sorted {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		members := []filehandler.ImageFile{byPath[seed]}

		for _, other := range sorted {
			if visited[other] {
				continue
			}
			d, err := prints[seed].Distance(prints[other])
			if err != nil {
				// Mixed fingerprint kinds cannot happen with one provider.
				log.Warn().Err(err).Msg("Fingerprint comparison failed")
				continue
			}
			if d <= threshold {
				members = append(members, byPath[other])
				visited[other] = true
			}
		}

		if len(members) > 1 {
			result.Groups = append(result.Groups, &Group{Members: members})
		} else {
			result.Singles = append(result.Singles, members[0])
		}
	}

	// Unfingerprintable images still need triage downstream.
	for _, f := range result.Failed {
		result.Singles = append(result.Singles, f.File)
	}

	log.Info().
		Int("groups", len(result.Groups)).
		Int("singles", len(result.Singles)).
		Int("failed", len(result.Failed)).
		Msg("Burst detection complete")

	return result
}
