package burst

import (
	"context"

	"github.com/rs/zerolog/log"

	"photosort/internal/filehandler"
	"photosort/internal/quality"
)

// SelectPicks elects the sharpest member of each group by full-frame
// Laplacian variance. The strict greater-than comparison keeps the first
// member in sort order on ties. A member that fails to decode is dropped
// from the comparison but stays in the group.
func SelectPicks(ctx context.Context, groups []*Group) {
	for _, group := range groups {
		best := -1.0
		bestPath := ""

		for _, member := range group.Members {
			data, err := filehandler.ImageBytes(ctx, member)
			if err != nil {
				log.Warn().Err(err).Str("file", member.Base()).Msg("Could not load member for pick selection")
				continue
			}
			img, err := filehandler.DecodeImage(data)
			if err != nil {
				log.Warn().Err(err).Str("file", member.Base()).Msg("Could not decode member for pick selection")
				continue
			}

			sharpness := quality.LaplacianVariance(quality.ToGray(img))
			if sharpness > best {
				best = sharpness
				bestPath = member.Path
			}
		}

		if bestPath != "" {
			group.Pick = bestPath
			group.PickSharpness = best
			log.Debug().
				Str("pick", bestPath).
				Float64("sharpness", best).
				Int("members", len(group.Members)).
				Msg("Burst pick selected")
		}
	}
}
