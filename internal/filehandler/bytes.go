package filehandler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	// Register decoders for the standard formats.
	_ "image/jpeg"
	_ "image/png"
)

// ImageBytes returns the raw bytes to analyze for a file: the file contents
// for standard formats, or the dcraw-extracted preview for RAW formats.
func ImageBytes(ctx context.Context, f ImageFile) ([]byte, error) {
	switch {
	case IsRaw(f.Ext):
		return ConvertRawToJPEG(ctx, f.Path)
	case IsStandard(f.Ext):
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Base(), err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported extension %q", f.Ext)
	}
}

// DecodeImage decodes JPEG or PNG bytes into an image.Image.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
