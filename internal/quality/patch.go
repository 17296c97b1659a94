package quality

import "image"

// DefaultPatchSize is the side length of the sliding window used by
// SharpestPatchVariance.
const DefaultPatchSize = 256

// SharpestPatchVariance scans the image with overlapping patches (stride of
// half a patch) and returns the maximum Laplacian variance found. Using the
// sharpest region instead of a global average keeps shallow depth-of-field
// shots from being scored as blurry when the subject itself is in focus.
// Images smaller than one patch are measured whole.
func SharpestPatchVariance(gray *image.Gray, patchSize int) float64 {
	if patchSize <= 0 {
		patchSize = DefaultPatchSize
	}

	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= patchSize || h <= patchSize {
		return LaplacianVariance(gray)
	}

	stride := patchSize / 2
	var best float64

	for y := bounds.Min.Y; y+patchSize <= bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x+patchSize <= bounds.Max.X; x += stride {
			patch := gray.SubImage(image.Rect(x, y, x+patchSize, y+patchSize)).(*image.Gray)
			if v := LaplacianVariance(patch); v > best {
				best = v
			}
		}
	}

	return best
}
