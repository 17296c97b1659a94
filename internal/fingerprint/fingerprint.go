// Package fingerprint produces compact visual signatures for images and
// measures the distance between them. Two signature families are supported:
// 64-bit perceptual hashes compared by Hamming distance, and float32 content
// embeddings compared by cosine distance.
package fingerprint

import (
	"fmt"

	"github.com/corona10/goimagehash"
	"github.com/hupe1980/vecgo/distance"
)

// Kind discriminates the signature families. Distances are only defined
// within a family.
type Kind int

const (
	KindPerceptual Kind = iota
	KindEmbedding
)

func (k Kind) String() string {
	switch k {
	case KindPerceptual:
		return "perceptual"
	case KindEmbedding:
		return "embedding"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Fingerprint is an opaque visual signature. It is computed once per run per
// image and never mutated.
type Fingerprint struct {
	kind Kind
	hash *goimagehash.ImageHash
	vec  []float32
}

// NewPerceptual wraps a perceptual hash.
func NewPerceptual(hash *goimagehash.ImageHash) Fingerprint {
	return Fingerprint{kind: KindPerceptual, hash: hash}
}

// NewEmbedding wraps a content embedding. The vector is L2-normalized so the
// cosine distance reduces to 1 - dot.
func NewEmbedding(vec []float32) (Fingerprint, error) {
	normalized, ok := distance.NormalizeL2Copy(vec)
	if !ok {
		return Fingerprint{}, fmt.Errorf("embedding has zero norm")
	}
	return Fingerprint{kind: KindEmbedding, vec: normalized}, nil
}

// Kind returns the signature family.
func (fp Fingerprint) Kind() Kind {
	return fp.kind
}

// Distance computes the distance to another fingerprint of the same kind:
// Hamming bit count for perceptual hashes, cosine distance (1 - dot of
// normalized vectors) for embeddings.
func (fp Fingerprint) Distance(other Fingerprint) (float64, error) {
	if fp.kind != other.kind {
		return 0, fmt.Errorf("cannot compare %s fingerprint with %s", fp.kind, other.kind)
	}

	switch fp.kind {
	case KindPerceptual:
		d, err := fp.hash.Distance(other.hash)
		if err != nil {
			return 0, fmt.Errorf("hash distance: %w", err)
		}
		return float64(d), nil
	case KindEmbedding:
		if len(fp.vec) != len(other.vec) {
			return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(fp.vec), len(other.vec))
		}
		return float64(1 - distance.Dot(fp.vec, other.vec)), nil
	default:
		return 0, fmt.Errorf("unknown fingerprint kind %d", int(fp.kind))
	}
}
