package filehandler

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// Metadata holds the EXIF fields the pipeline cares about: capture time for
// the run summary and camera identity for context. Everything else in the
// EXIF block is ignored.
type Metadata struct {
	DateTaken   time.Time
	HasDate     bool
	CameraMake  string
	CameraModel string
}

// ExtractMetadata reads EXIF metadata from an image file. The imagemeta
// library reads only the metadata segment, not the whole file. RAW formats
// are not attempted; their embedded previews carry no reliable EXIF offsets.
func ExtractMetadata(path string) (*Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	exifData, err := imagemeta.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF metadata: %w", err)
	}

	meta := &Metadata{
		CameraMake:  strings.TrimSpace(exifData.Make),
		CameraModel: strings.TrimSpace(exifData.Model),
	}

	// Prefer the original capture time, falling back to create/modify times.
	switch {
	case !exifData.DateTimeOriginal().IsZero():
		meta.DateTaken = exifData.DateTimeOriginal()
		meta.HasDate = true
	case !exifData.CreateDate().IsZero():
		meta.DateTaken = exifData.CreateDate()
		meta.HasDate = true
	case !exifData.ModifyDate().IsZero():
		meta.DateTaken = exifData.ModifyDate()
		meta.HasDate = true
	}

	log.Debug().
		Str("path", path).
		Bool("has_date", meta.HasDate).
		Str("camera", strings.TrimSpace(meta.CameraMake+" "+meta.CameraModel)).
		Msg("EXIF metadata extracted")

	return meta, nil
}
