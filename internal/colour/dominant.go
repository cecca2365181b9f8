package colour

import (
	"cmp"
	"fmt"
	"image"
	"math"
	"slices"

	"golang.org/x/image/draw"
)

// Extraction limits.
const (
	MinDominantColours = 1
	MaxDominantColours = 20
	MinPercentageFloor = 0.01
	MinPercentageCeil  = 0.5

	// MaxImageSide bounds the longer image side before clustering.
	MaxImageSide = 800
)

// DominantOptions configures ExtractDominant.
type DominantOptions struct {
	K             int
	MinPercentage float64
	Algorithm     Algorithm
	Seed          int64
}

// DefaultDominantOptions returns five colours, a 5% floor and seeded k-means.
func DefaultDominantOptions() DominantOptions {
	return DominantOptions{
		K:             5,
		MinPercentage: 0.05,
		Algorithm:     AlgorithmKMeans,
		Seed:          DefaultKMeansSeed,
	}
}

// Validate checks K and MinPercentage against the extraction limits.
func (o DominantOptions) Validate() error {
	if o.K < MinDominantColours || o.K > MaxDominantColours {
		return fmt.Errorf("%w: num_colors must be between %d and %d, got %d",
			ErrInvalidParameter, MinDominantColours, MaxDominantColours, o.K)
	}
	if math.IsNaN(o.MinPercentage) || o.MinPercentage < MinPercentageFloor || o.MinPercentage > MinPercentageCeil {
		return fmt.Errorf("%w: min_percentage must be between %g and %g, got %g",
			ErrInvalidParameter, MinPercentageFloor, MinPercentageCeil, o.MinPercentage)
	}
	if _, err := ParseAlgorithm(string(o.Algorithm)); err != nil {
		return err
	}
	return nil
}

// DominantColour is one extracted colour and its share of the image.
type DominantColour struct {
	Hex        string  `json:"hex_code"`
	RGB        RGB     `json:"rgb"`
	Percentage float64 `json:"percentage"`
	Name       string  `json:"color_name"`
}

// Extraction is the result of ExtractDominant.
type Extraction struct {
	Colors    []DominantColour `json:"colors"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Algorithm Algorithm        `json:"algorithm"`
}

// ExtractDominant finds the dominant colours of img.
//
// Images larger than MaxImageSide are downscaled first; Width and Height
// report the size that was clustered. Colours are sorted by percentage,
// largest first, and those below MinPercentage are dropped, so the result
// may hold fewer than K colours (possibly none).
func ExtractDominant(img image.Image, opts DominantOptions) (*Extraction, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image cannot be nil", ErrInvalidParameter)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	alg, _ := ParseAlgorithm(string(opts.Algorithm))

	extractor, err := NewExtractor(alg, opts.Seed)
	if err != nil {
		return nil, err
	}

	img = Downscale(img, MaxImageSide)
	bounds := img.Bounds()

	clusters, err := extractor.Extract(img, opts.K)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, c := range clusters {
		total += c.Count
	}

	result := &Extraction{
		Colors:    make([]DominantColour, 0, len(clusters)),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Algorithm: alg,
	}
	if total == 0 {
		return result, nil
	}

	slices.SortStableFunc(clusters, func(a, b Cluster) int {
		return cmp.Compare(b.Count, a.Count)
	})

	for _, c := range clusters {
		pct := float64(c.Count) / float64(total)
		if pct < opts.MinPercentage {
			continue
		}
		result.Colors = append(result.Colors, DominantColour{
			Hex:        c.RGB.Hex(),
			RGB:        c.RGB,
			Percentage: pct,
			Name:       CoarseName(c.RGB),
		})
	}
	return result, nil
}

// Downscale shrinks img so its longer side is maxSide, preserving the aspect
// ratio. Images already within bounds are returned unchanged.
func Downscale(img image.Image, maxSide int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxSide
		nh = max(h*maxSide/w, 1)
	} else {
		nh = maxSide
		nw = max(w*maxSide/h, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
