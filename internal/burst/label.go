package burst

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"photosort/internal/filehandler"
	"photosort/internal/vlm"
)

// Namer suggests a descriptive name for an image. The vlm.Client satisfies
// it; tests substitute a stub.
type Namer interface {
	Name(ctx context.Context, f filehandler.ImageFile) vlm.NameResult
}

// Labeler assigns labels and folder names to burst groups.
type Labeler struct {
	// Namer may be nil, in which case every group gets the sequential
	// fallback label.
	Namer Namer

	// FolderExists checks the destination parent for an existing entry, so a
	// re-run never writes into a prior run's folder.
	FolderExists func(name string) bool

	reserved map[string]bool
}

// AssignLabels names every group. The AI-suggested pick name labels the
// group when the model answers; otherwise the label is the positional
// "burst-NNN" fallback. AI-named groups get a "_burst" folder suffix so a
// shoot directory reads cleanly. Folder collisions, against both the disk
// and folders already assigned this run, are resolved with -2, -3, ...
// suffixes.
func (l *Labeler) AssignLabels(ctx context.Context, groups []*Group) {
	l.reserved = make(map[string]bool, len(groups))

	for i, group := range groups {
		label, aiNamed := l.labelFor(ctx, group, i)

		folder := label
		if aiNamed {
			folder = label + "_burst"
		}
		folder = l.claimFolder(folder)

		group.Label = label
		group.Folder = folder
		group.AINamed = aiNamed

		log.Info().
			Str("label", label).
			Str("folder", folder).
			Bool("ai_named", aiNamed).
			Int("members", len(group.Members)).
			Msg("Burst group labeled")
	}
}

func (l *Labeler) labelFor(ctx context.Context, group *Group, index int) (string, bool) {
	if l.Namer != nil {
		sample := group.Members[0]
		if group.Pick != "" {
			for _, m := range group.Members {
				if m.Path == group.Pick {
					sample = m
					break
				}
			}
		}

		result := l.Namer.Name(ctx, sample)
		if result.Status.OK() {
			return result.Filename, true
		}
		log.Warn().
			Str("status", result.Status.String()).
			Str("file", sample.Base()).
			Msg("Naming failed, using sequential label")
	}
	return fmt.Sprintf("burst-%03d", index+1), false
}

// claimFolder returns the first collision-free variant of name and reserves
// it for this run.
func (l *Labeler) claimFolder(name string) string {
	taken := func(n string) bool {
		if l.reserved[n] {
			return true
		}
		return l.FolderExists != nil && l.FolderExists(n)
	}

	candidate := name
	for counter := 2; taken(candidate); counter++ {
		candidate = fmt.Sprintf("%s-%d", name, counter)
	}
	l.reserved[candidate] = true
	return candidate
}
