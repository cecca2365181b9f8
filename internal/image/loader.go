// Package image provides utilities for loading and decoding images from
// files, URLs and data URIs.
package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/security"
	httputil "github.com/Fifi-Huo/UI-Color-Bot/internal/util/http"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/util/imagecache"
)

const (
	// DefaultMaxBytes limits encoded and decompressed image payloads.
	DefaultMaxBytes int64 = 20 << 20

	// DefaultMaxPixels limits decoded image area (width * height).
	DefaultMaxPixels int64 = 50_000_000
)

var (
	xzMagic  = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
	qoiMagic = []byte("qoif")

	dataURIPattern = regexp.MustCompile(`^data:image/[^;,]+;base64,((?s:.+))$`)
)

// SupportedFormats lists the formats Decode understands.
func SupportedFormats() []string {
	return []string{"png", "jpeg", "gif", "webp", "bmp", "tiff", "qoi"}
}

// Decode decodes an encoded image, transparently unwrapping xz compression.
// Errors wrap colour.ErrImageDecode.
func Decode(data []byte) (image.Image, string, error) {
	return decode(data, DefaultMaxBytes, DefaultMaxPixels)
}

func decode(data []byte, maxBytes, maxPixels int64) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty image data", colour.ErrImageDecode)
	}

	if bytes.HasPrefix(data, xzMagic) {
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("%w: xz: %v", colour.ErrImageDecode, err)
		}
		inflated, err := io.ReadAll(security.NewLimitedReader(xzr, maxBytes))
		if err != nil {
			return nil, "", fmt.Errorf("%w: xz: %v", colour.ErrImageDecode, err)
		}
		data = inflated
	}

	if err := checkDimensions(data, maxPixels); err != nil {
		return nil, "", err
	}

	if bytes.HasPrefix(data, qoiMagic) {
		img, err := qoi.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("%w: qoi: %v", colour.ErrImageDecode, err)
		}
		return img, "qoi", nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v (supported: %s)",
			colour.ErrImageDecode, err, strings.Join(SupportedFormats(), ", "))
	}
	return img, format, nil
}

// checkDimensions reads only the image header and rejects images whose
// decoded area would exceed maxPixels.
func checkDimensions(data []byte, maxPixels int64) error {
	if maxPixels <= 0 {
		return nil
	}

	var (
		cfg image.Config
		err error
	)
	if bytes.HasPrefix(data, qoiMagic) {
		cfg, err = qoi.DecodeConfig(bytes.NewReader(data))
	} else {
		cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		return fmt.Errorf("%w: %v (supported: %s)",
			colour.ErrImageDecode, err, strings.Join(SupportedFormats(), ", "))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", colour.ErrImageDecode, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("%w: image is %dx%d, larger than %d pixels",
			colour.ErrImageDecode, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

// DecodeDataURI decodes a data:image/...;base64,... URI.
func DecodeDataURI(uri string) (image.Image, string, error) {
	raw, err := dataURIBytes(uri)
	if err != nil {
		return nil, "", err
	}
	return Decode(raw)
}

// IsDataURI reports whether s looks like an image data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

func dataURIBytes(uri string) ([]byte, error) {
	m := dataURIPattern.FindStringSubmatch(strings.TrimSpace(uri))
	if m == nil {
		return nil, fmt.Errorf("%w: not a base64 image data URI", colour.ErrImageDecode)
	}
	payload := strings.TrimRight(strings.Join(strings.Fields(m[1]), ""), "=")
	raw, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", colour.ErrImageDecode, err)
	}
	return raw, nil
}

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given source.
	Load(ctx context.Context, source string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct {
	maxBytes  int64
	maxPixels int64
}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{maxBytes: DefaultMaxBytes, maxPixels: DefaultMaxPixels}
}

// Load loads an image from a file path.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(security.NewLimitedReader(file, l.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	img, _, err := decode(data, l.maxBytes, l.maxPixels)
	return img, err
}

// LoaderOptions configures SmartLoader.
type LoaderOptions struct {
	// FetchTimeout bounds URL downloads. Zero uses the HTTP default.
	FetchTimeout time.Duration

	// MaxBytes limits encoded and decompressed payloads. Zero uses DefaultMaxBytes.
	MaxBytes int64

	// MaxPixels limits decoded width * height. Zero uses DefaultMaxPixels.
	MaxPixels int64

	// URLPolicy decides which hosts may be fetched.
	URLPolicy security.URLPolicy

	// CacheDir enables the on-disk URL cache when set.
	CacheDir string

	// Client overrides the HTTP client used for downloads.
	Client *http.Client
}

// SmartLoader loads images from local files, HTTP(S) URLs and data URIs.
type SmartLoader struct {
	fileLoader *FileLoader
	opts       LoaderOptions
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader(opts LoaderOptions) *SmartLoader {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	return &SmartLoader{
		fileLoader: &FileLoader{maxBytes: opts.MaxBytes, maxPixels: opts.MaxPixels},
		opts:       opts,
	}
}

// Load loads an image from a data URI, an HTTP(S) URL or a local file path.
func (l *SmartLoader) Load(ctx context.Context, source string) (image.Image, error) {
	switch {
	case IsDataURI(source):
		raw, err := dataURIBytes(source)
		if err != nil {
			return nil, err
		}
		img, _, err := decode(raw, l.opts.MaxBytes, l.opts.MaxPixels)
		return img, err
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return l.loadFromURL(ctx, source)
	default:
		return l.fileLoader.Load(ctx, source)
	}
}

// LoadURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) LoadURL(ctx context.Context, url string) (image.Image, error) {
	return l.loadFromURL(ctx, url)
}

func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if err := security.ValidateHTTPURL(url, l.opts.URLPolicy); err != nil {
		return nil, fmt.Errorf("rejected image URL: %w", err)
	}

	fetch := httputil.FetchOptions{
		Timeout:  l.opts.FetchTimeout,
		MaxBytes: l.opts.MaxBytes,
		Client:   l.opts.Client,
	}

	var (
		data []byte
		err  error
	)
	if l.opts.CacheDir != "" {
		data, err = imagecache.Get(ctx, url, imagecache.CacheOptions{CacheDir: l.opts.CacheDir, Fetch: fetch})
	} else {
		data, err = httputil.Fetch(ctx, url, fetch)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	img, _, err := decode(data, l.opts.MaxBytes, l.opts.MaxPixels)
	return img, err
}
