package cull

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"photosort/internal/filehandler"
	"photosort/internal/quality"
)

// SessionTimeFormat stamps run artifact filenames.
const SessionTimeFormat = "20060102_150405"

// Entry is one image's row in the run summary. Capture metadata rides along
// when the file's EXIF block was readable.
type Entry struct {
	File      string  `json:"file"`
	Tier      Tier    `json:"tier"`
	Sharpness float64 `json:"sharpness"`
	BlacksPct float64 `json:"blacks_pct"`
	WhitesPct float64 `json:"whites_pct"`
	DateTaken string  `json:"date_taken,omitempty"`
	Camera    string  `json:"camera,omitempty"`
}

// RunSummary is the JSON report written after a batch cull, the calibration
// record for tuning thresholds between shoots.
type RunSummary struct {
	RunID           string          `json:"run_id"`
	SessionDate     string          `json:"session_date"`
	SourceDirectory string          `json:"source_directory"`
	ThresholdsUsed  Thresholds      `json:"thresholds_used"`
	TierMapping     map[Tier]string `json:"tier_mapping"`
	Analysis        []Entry         `json:"analysis"`
}

// NewRunSummary assembles the report for one batch run. Entries are sorted by
// ascending sharpness so the softest frames lead the list.
func NewRunSummary(dir, sessionStamp string, th Thresholds, entries []Entry) RunSummary {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Sharpness < sorted[j].Sharpness })

	return RunSummary{
		RunID:           uuid.NewString(),
		SessionDate:     sessionStamp,
		SourceDirectory: dir,
		ThresholdsUsed:  th,
		TierMapping: map[Tier]string{
			TierA: TierA.Description(),
			TierB: TierB.Description(),
			TierC: TierC.Description(),
		},
		Analysis: sorted,
	}
}

// NewEntry builds a summary row from an image's metrics and any EXIF
// metadata already attached to the file.
func NewEntry(f filehandler.ImageFile, m quality.Metrics, tier Tier) Entry {
	entry := Entry{
		File:      f.Base(),
		Tier:      tier,
		Sharpness: m.Sharpness,
		BlacksPct: m.BlacksPct,
		WhitesPct: m.WhitesPct,
	}
	if f.Meta != nil {
		if f.Meta.HasDate {
			entry.DateTaken = f.Meta.DateTaken.Format(time.RFC3339)
		}
		entry.Camera = strings.TrimSpace(f.Meta.CameraMake + " " + f.Meta.CameraModel)
	}
	return entry
}

// Write saves the summary as _cull_log_<timestamp>.json in the source
// directory and returns the path.
func (s RunSummary) Write() (string, error) {
	path := filepath.Join(s.SourceDirectory, fmt.Sprintf("_cull_log_%s.json", s.SessionDate))

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write run summary: %w", err)
	}

	log.Info().Str("path", path).Int("images", len(s.Analysis)).Msg("Run summary written")
	return path, nil
}
