package colour

import (
	"fmt"
	"image"
	"strings"
)

// Cluster is one group of similar pixels: its representative colour and
// how many pixels were assigned to it.
type Cluster struct {
	RGB   RGB
	Count int
}

// Extractor defines the interface for colour clustering backends.
type Extractor interface {
	// Extract groups the pixels of img into at most k clusters. Counts across
	// the returned clusters cover every pixel the backend examined.
	Extract(img image.Image, k int) ([]Cluster, error)
}

// Algorithm represents the colour extraction backend.
type Algorithm string

const (
	// AlgorithmKMeans runs seeded k-means in HSV space.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmProminent uses the prominentcolor RGB k-means implementation.
	AlgorithmProminent Algorithm = "prominent"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmKMeans, AlgorithmProminent}
}

// ParseAlgorithm parses an algorithm name. The empty string selects k-means.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return AlgorithmKMeans, nil
	}
	alg := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: unknown algorithm %q (valid algorithms: %v)", ErrInvalidParameter, s, ValidAlgorithms())
}

// NewExtractor creates an Extractor for the specified algorithm.
func NewExtractor(alg Algorithm, seed int64) (Extractor, error) {
	switch alg {
	case AlgorithmKMeans, "":
		return NewKMeansExtractor(seed), nil
	case AlgorithmProminent:
		return NewProminentExtractor(), nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q (valid algorithms: %v)", ErrInvalidParameter, alg, ValidAlgorithms())
	}
}
