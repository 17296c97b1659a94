// Package filehandler discovers source images and loads their bytes,
// decoding RAW formats through an external dcraw step when needed.
package filehandler

import (
	"path/filepath"
	"strings"
)

// ImageFile identifies one source image on disk. Identity is path equality:
// once a file is moved, the ImageFile referring to the old path is dead and a
// new one must be constructed for the new location.
type ImageFile struct {
	Path string
	Ext  string // lowercase, including the dot
	Size int64

	// Meta is populated by ExtractMetadata when EXIF data is readable; nil otherwise.
	Meta *Metadata
}

// Base returns the filename component of the path.
func (f ImageFile) Base() string {
	return filepath.Base(f.Path)
}

// Stem returns the filename without its extension.
func (f ImageFile) Stem() string {
	base := f.Base()
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// standardExtensions are formats the Go image decoders handle directly.
var standardExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// rawExtensions are camera RAW formats that require external conversion
// before any analysis can see their pixels.
var rawExtensions = map[string]bool{
	".rw2": true,
	".cr2": true,
	".nef": true,
	".arw": true,
	".dng": true,
}

// IsStandard reports whether ext (lowercase, with dot) is a directly decodable format.
func IsStandard(ext string) bool {
	return standardExtensions[ext]
}

// IsRaw reports whether ext (lowercase, with dot) is a camera RAW format.
func IsRaw(ext string) bool {
	return rawExtensions[ext]
}

// IsSupported reports whether ext is any format the pipeline accepts.
func IsSupported(ext string) bool {
	return IsStandard(ext) || IsRaw(ext)
}
