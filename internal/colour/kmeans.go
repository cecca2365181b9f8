package colour

import (
	"cmp"
	"fmt"
	"image"
	"math"
	"math/rand"
	"slices"
)

// DefaultKMeansSeed seeds the k-means initialisation so repeated runs over
// the same image give the same clusters.
const DefaultKMeansSeed int64 = 42

// KMeansExtractor clusters pixels with k-means in HSV space.
//
// Colours are placed in the HSV cone (hue as angle, saturation*value as
// radius, value as height) so hue wraps around and dark colours of any hue
// sit close together.
type KMeansExtractor struct {
	maxIterations int
	convergence   float64
	maxSamples    int
	seed          int64
}

// NewKMeansExtractor creates a KMeansExtractor using the given seed.
func NewKMeansExtractor(seed int64) *KMeansExtractor {
	return &KMeansExtractor{
		maxIterations: 20,
		convergence:   1e-3,
		maxSamples:    5000,
		seed:          seed,
	}
}

// Extract returns up to k clusters covering every pixel of img. When the
// image holds k or fewer distinct colours each colour is its own cluster.
func (e *KMeansExtractor) Extract(img image.Image, k int) ([]Cluster, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image cannot be nil", ErrInvalidParameter)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: cluster count must be at least 1, got %d", ErrInvalidParameter, k)
	}

	hist := histogram(img)
	if len(hist) == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrImageDecode)
	}

	if len(hist) <= k {
		clusters := make([]Cluster, len(hist))
		for i, b := range hist {
			clusters[i] = Cluster{RGB: b.rgb, Count: b.count}
		}
		return clusters, nil
	}

	// #nosec G404 -- deterministic clustering, not security sensitive
	rng := rand.New(rand.NewSource(e.seed))

	samples := e.samplePoints(img)
	centroids := e.kmeans(samples, k, rng)

	// Final pass assigns every distinct colour (weighted by its pixel count)
	// so percentages cover the whole image, not just the sample.
	sums := make([]conePoint, k)
	counts := make([]int, k)
	for _, b := range hist {
		p := toCone(b.rgb)
		idx := nearestCentroid(p, centroids)
		w := float64(b.count)
		sums[idx].X += p.X * w
		sums[idx].Y += p.Y * w
		sums[idx].Z += p.Z * w
		counts[idx] += b.count
	}

	clusters := make([]Cluster, 0, k)
	for i := range centroids {
		if counts[i] == 0 {
			continue
		}
		n := float64(counts[i])
		mean := conePoint{X: sums[i].X / n, Y: sums[i].Y / n, Z: sums[i].Z / n}
		clusters = append(clusters, Cluster{RGB: mean.rgb(), Count: counts[i]})
	}
	return clusters, nil
}

type colourCount struct {
	rgb   RGB
	count int
}

// histogram counts every distinct colour, ordered by packed RGB value so the
// result does not depend on map iteration order.
func histogram(img image.Image) []colourCount {
	bounds := img.Bounds()
	counts := make(map[RGB]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			counts[ToRGB(img.At(x, y))]++
		}
	}

	out := make([]colourCount, 0, len(counts))
	for rgb, n := range counts {
		out = append(out, colourCount{rgb: rgb, count: n})
	}
	slices.SortFunc(out, func(a, b colourCount) int {
		return cmp.Compare(packRGB(a.rgb), packRGB(b.rgb))
	})
	return out
}

func packRGB(c RGB) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// conePoint is a colour in Cartesian HSV-cone coordinates.
type conePoint struct {
	X, Y, Z float64
}

func toCone(c RGB) conePoint {
	hsv := c.HSV()
	angle := 2 * math.Pi * hsv.H
	radius := hsv.S * hsv.V
	return conePoint{X: radius * math.Cos(angle), Y: radius * math.Sin(angle), Z: hsv.V}
}

func (p conePoint) rgb() RGB {
	v := clamp01(p.Z)
	radius := math.Hypot(p.X, p.Y)
	s := 0.0
	if v > 0 {
		s = radius / v
	}
	h := math.Atan2(p.Y, p.X) / (2 * math.Pi)
	return NewHSV(h, s, v).RGB()
}

func (p conePoint) distance(other conePoint) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// samplePoints grid-samples the image down to at most maxSamples points.
func (e *KMeansExtractor) samplePoints(img image.Image) []conePoint {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	step := 1
	if total > e.maxSamples {
		step = max(int(math.Ceil(math.Sqrt(float64(total)/float64(e.maxSamples)))), 1)
	}

	points := make([]conePoint, 0, min(total, e.maxSamples))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			points = append(points, toCone(ToRGB(img.At(x, y))))
		}
	}
	return points
}

func (e *KMeansExtractor) kmeans(points []conePoint, k int, rng *rand.Rand) []conePoint {
	centroids := initCentroids(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < e.maxIterations; iter++ {
		for i, p := range points {
			assignments[i] = nearestCentroid(p, centroids)
		}

		next := recalculateCentroids(points, assignments, k, rng)

		movement := 0.0
		for i := range centroids {
			movement += centroids[i].distance(next[i])
		}
		centroids = next

		if movement/float64(k) < e.convergence {
			break
		}
	}
	return centroids
}

// initCentroids picks starting centroids with k-means++.
func initCentroids(points []conePoint, k int, rng *rand.Rand) []conePoint {
	centroids := make([]conePoint, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	distances := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := p.distance(centroids[nearestCentroid(p, centroids)])
			distances[i] = d * d
			total += distances[i]
		}

		if total == 0 {
			last := centroids[len(centroids)-1]
			centroids = append(centroids, conePoint{X: last.X + 1e-3, Y: last.Y + 1e-3, Z: last.Z + 1e-3})
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(points) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}
	return centroids
}

func nearestCentroid(p conePoint, centroids []conePoint) int {
	best, nearest := math.MaxFloat64, 0
	for i, c := range centroids {
		if d := p.distance(c); d < best {
			best, nearest = d, i
		}
	}
	return nearest
}

func recalculateCentroids(points []conePoint, assignments []int, k int, rng *rand.Rand) []conePoint {
	sums := make([]conePoint, k)
	counts := make([]int, k)
	for i, p := range points {
		c := assignments[i]
		sums[c].X += p.X
		sums[c].Y += p.Y
		sums[c].Z += p.Z
		counts[c]++
	}

	centroids := make([]conePoint, k)
	for i := range k {
		if counts[i] == 0 {
			// Empty cluster, reseed from a random point.
			centroids[i] = points[rng.Intn(len(points))]
			continue
		}
		n := float64(counts[i])
		centroids[i] = conePoint{X: sums[i].X / n, Y: sums[i].Y / n, Z: sums[i].Z / n}
	}
	return centroids
}
