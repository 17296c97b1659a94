// Package quality measures technical image quality: sharpness via Laplacian
// variance and exposure extremity via crushed-black / blown-white pixel
// fractions. It also provides the stage-1 scoring backend for the triage
// cascade.
package quality

import (
	"image"
	"image/draw"
)

// Metrics holds the per-image technical measurements used for tiering.
type Metrics struct {
	Sharpness float64 `json:"sharpness"`
	BlacksPct float64 `json:"blacks_pct"`
	WhitesPct float64 `json:"whites_pct"`
}

// Pixel values below blackCutoff count as crushed blacks, above whiteCutoff
// as blown whites.
const (
	blackCutoff = 10
	whiteCutoff = 245
)

// Analyze computes sharpness and exposure metrics for a decoded image.
func Analyze(img image.Image) Metrics {
	gray := ToGray(img)

	var m Metrics
	m.Sharpness = LaplacianVariance(gray)

	total := len(gray.Pix)
	if total == 0 {
		return m
	}

	var blacks, whites int
	for _, v := range gray.Pix {
		if v < blackCutoff {
			blacks++
		} else if v > whiteCutoff {
			whites++
		}
	}
	m.BlacksPct = float64(blacks) / float64(total)
	m.WhitesPct = float64(whites) / float64(total)

	return m
}

// ToGray converts any image to 8-bit grayscale.
func ToGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// LaplacianVariance returns the variance of the 4-neighbor Laplacian response
// over the interior of the image. Sharp images have strong local intensity
// transitions and therefore a high-variance response.
func LaplacianVariance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	stride := gray.Stride
	pix := gray.Pix

	n := (w - 2) * (h - 2)
	var sum, sumSq float64

	// PixOffset-based indexing keeps this correct for SubImage views, whose
	// bounds do not start at the origin.
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		row := gray.PixOffset(bounds.Min.X, y)
		for x := 1; x < w-1; x++ {
			i := row + x
			lap := float64(pix[i-stride]) + float64(pix[i+stride]) +
				float64(pix[i-1]) + float64(pix[i+1]) - 4*float64(pix[i])
			sum += lap
			sumSq += lap * lap
		}
	}

	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}
