package fingerprint

import (
	"context"
	"fmt"
	"image"

	"github.com/corona10/goimagehash"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	"photosort/internal/filehandler"
)

// Provider computes a Fingerprint for a source image. Implementations load
// and decode the file themselves so RAW conversion stays behind the
// filehandler boundary.
type Provider interface {
	Compute(ctx context.Context, f filehandler.ImageFile) (Fingerprint, error)

	// DefaultThreshold is the grouping threshold for this provider's
	// distance space, used when the caller does not override it.
	DefaultThreshold() float64
}

// DefaultHashThreshold is the Hamming distance at or below which two
// perceptual hashes are considered the same burst.
const DefaultHashThreshold = 8

// DefaultEmbeddingThreshold is the cosine distance at or below which two
// embeddings are considered the same burst.
const DefaultEmbeddingThreshold = 0.15

// PerceptualProvider fingerprints images with a 64-bit pHash.
type PerceptualProvider struct{}

func (PerceptualProvider) DefaultThreshold() float64 { return DefaultHashThreshold }

func (PerceptualProvider) Compute(ctx context.Context, f filehandler.ImageFile) (Fingerprint, error) {
	img, err := loadImage(ctx, f)
	if err != nil {
		return Fingerprint{}, err
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("perception hash for %s: %w", f.Base(), err)
	}

	log.Debug().Str("file", f.Base()).Str("hash", hash.ToString()).Msg("Perceptual hash computed")
	return NewPerceptual(hash), nil
}

// Embedder turns a decoded image into a fixed-size content vector. The CLIP
// family fits this contract; so does the built-in luminance grid.
type Embedder interface {
	Embed(ctx context.Context, img image.Image) ([]float32, error)
}

// EmbeddingProvider fingerprints images through an Embedder.
type EmbeddingProvider struct {
	Embedder Embedder
}

func (EmbeddingProvider) DefaultThreshold() float64 { return DefaultEmbeddingThreshold }

func (p EmbeddingProvider) Compute(ctx context.Context, f filehandler.ImageFile) (Fingerprint, error) {
	img, err := loadImage(ctx, f)
	if err != nil {
		return Fingerprint{}, err
	}

	vec, err := p.Embedder.Embed(ctx, img)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("embed %s: %w", f.Base(), err)
	}

	fp, err := NewEmbedding(vec)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("embed %s: %w", f.Base(), err)
	}
	return fp, nil
}

// LuminanceEmbedder is a model-free Embedder: it downsamples the image to a
// GridSize x GridSize luminance grid. Coarse, but it keeps the embedding path
// exercisable without an external model process.
type LuminanceEmbedder struct {
	GridSize int
}

// DefaultGridSize yields a 1024-dimensional vector.
const DefaultGridSize = 32

func (e LuminanceEmbedder) Embed(_ context.Context, img image.Image) ([]float32, error) {
	size := e.GridSize
	if size <= 0 {
		size = DefaultGridSize
	}

	gray := image.NewGray(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	vec := make([]float32, size*size)
	for i, v := range gray.Pix {
		vec[i] = float32(v) / 255
	}
	return vec, nil
}

func loadImage(ctx context.Context, f filehandler.ImageFile) (image.Image, error) {
	data, err := filehandler.ImageBytes(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.Base(), err)
	}
	img, err := filehandler.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Base(), err)
	}
	return img, nil
}
