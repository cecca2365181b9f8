package colour

import (
	"fmt"
	"image"

	"github.com/EdlinOrg/prominentcolor"
)

// ProminentExtractor clusters with github.com/EdlinOrg/prominentcolor. The
// library resizes the image internally, so cluster counts are relative to
// the resized copy rather than the input.
type ProminentExtractor struct {
	resize uint
}

// NewProminentExtractor creates a ProminentExtractor with the library's default resize.
func NewProminentExtractor() *ProminentExtractor {
	return &ProminentExtractor{resize: prominentcolor.DefaultSize}
}

// Extract implements Extractor.
func (e *ProminentExtractor) Extract(img image.Image, k int) ([]Cluster, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image cannot be nil", ErrInvalidParameter)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: cluster count must be at least 1, got %d", ErrInvalidParameter, k)
	}

	items, err := prominentcolor.KmeansWithAll(k, img, prominentcolor.ArgumentNoCropping, e.resize, nil)
	if err != nil {
		return nil, fmt.Errorf("prominent colour clustering: %w", err)
	}

	clusters := make([]Cluster, 0, len(items))
	for _, item := range items {
		if item.Cnt <= 0 {
			continue
		}
		clusters = append(clusters, Cluster{
			RGB:   RGBFromInts(int(item.Color.R), int(item.Color.G), int(item.Color.B)),
			Count: item.Cnt,
		})
	}
	return clusters, nil
}
