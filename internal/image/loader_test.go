package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/security"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	img.Set(3, 1, color.RGBA{B: 255, A: 255})
	return img
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func checkImage(t *testing.T, img image.Image) {
	t.Helper()
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 4x2", b)
	}
	if got := colour.ToRGB(img.At(3, 1)); got != (colour.RGB{B: 255}) {
		t.Errorf("pixel (3,1) = %+v, want blue", got)
	}
}

func TestDecodeFormats(t *testing.T) {
	pngData := encodePNG(t)

	var xzBuf bytes.Buffer
	w, err := xz.NewWriter(&xzBuf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(pngData); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var qoiBuf bytes.Buffer
	if err := qoi.Encode(&qoiBuf, testImage()); err != nil {
		t.Fatal(err)
	}

	var bmpBuf bytes.Buffer
	if err := bmp.Encode(&bmpBuf, testImage()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		data       []byte
		wantFormat string
	}{
		{name: "png", data: pngData, wantFormat: "png"},
		{name: "xz wrapped png", data: xzBuf.Bytes(), wantFormat: "png"},
		{name: "qoi", data: qoiBuf.Bytes(), wantFormat: "qoi"},
		{name: "bmp", data: bmpBuf.Bytes(), wantFormat: "bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, format, err := Decode(tt.data)
			if err != nil {
				t.Fatal(err)
			}
			if format != tt.wantFormat {
				t.Errorf("format = %q, want %q", format, tt.wantFormat)
			}
			checkImage(t, img)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("definitely not an image"), {0xFD, '7', 'z', 'X', 'Z', 0x00, 1, 2}} {
		if _, _, err := Decode(data); !errors.Is(err, colour.ErrImageDecode) {
			t.Errorf("Decode(%q) error = %v, want ErrImageDecode", data, err)
		}
	}
}

// pngWithDimensions rewrites the IHDR of a tiny PNG so that its header
// declares width x height while the payload stays a few hundred bytes.
func pngWithDimensions(t *testing.T, width, height uint32) []byte {
	t.Helper()
	data := encodePNG(t)
	if string(data[12:16]) != "IHDR" {
		t.Fatalf("unexpected PNG layout: %q", data[12:16])
	}
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeRejectsOversizedImages(t *testing.T) {
	huge := pngWithDimensions(t, 15000, 15000)
	if len(huge) > 1024 {
		t.Fatalf("payload is %d bytes, want a small one", len(huge))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(huge))
	if err != nil || cfg.Width != 15000 || cfg.Height != 15000 {
		t.Fatalf("DecodeConfig = %+v, %v", cfg, err)
	}

	var xzBuf bytes.Buffer
	w, err := xz.NewWriter(&xzBuf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(huge); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var qoiBuf bytes.Buffer
	if err := qoi.Encode(&qoiBuf, testImage()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		data      []byte
		maxPixels int64
	}{
		{name: "png over default limit", data: huge, maxPixels: DefaultMaxPixels},
		{name: "xz wrapped png over default limit", data: xzBuf.Bytes(), maxPixels: DefaultMaxPixels},
		{name: "png over small limit", data: encodePNG(t), maxPixels: 7},
		{name: "qoi over small limit", data: qoiBuf.Bytes(), maxPixels: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, _, err := decode(tt.data, DefaultMaxBytes, tt.maxPixels)
			if !errors.Is(err, colour.ErrImageDecode) {
				t.Fatalf("decode error = %v, want ErrImageDecode", err)
			}
			if img != nil {
				t.Errorf("decode returned an image of %v", img.Bounds())
			}
		})
	}

	if _, _, err := Decode(huge); !errors.Is(err, colour.ErrImageDecode) {
		t.Errorf("Decode(15000x15000) error = %v, want ErrImageDecode", err)
	}

	// Exactly at the limit is allowed.
	if _, _, err := decode(encodePNG(t), DefaultMaxBytes, 8); err != nil {
		t.Errorf("decode at limit error = %v", err)
	}
}

func TestSmartLoaderPixelLimit(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(encodePNG(t))

	loader := NewSmartLoader(LoaderOptions{MaxPixels: 4})
	if _, err := loader.Load(context.Background(), "data:image/png;base64,"+encoded); !errors.Is(err, colour.ErrImageDecode) {
		t.Errorf("Load error = %v, want ErrImageDecode", err)
	}

	huge := base64.StdEncoding.EncodeToString(pngWithDimensions(t, 20000, 20000))
	if _, err := NewSmartLoader(LoaderOptions{}).Load(context.Background(), "data:image/png;base64,"+huge); !errors.Is(err, colour.ErrImageDecode) {
		t.Errorf("Load(20000x20000) error = %v, want ErrImageDecode", err)
	}
}

func TestDecodeDataURI(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(encodePNG(t))

	img, _, err := DecodeDataURI("data:image/png;base64," + encoded)
	if err != nil {
		t.Fatal(err)
	}
	checkImage(t, img)

	for _, bad := range []string{"data:text/plain;base64,aGVsbG8=", "data:image/png;base64,!!!", "image/png;base64," + encoded} {
		if _, _, err := DecodeDataURI(bad); !errors.Is(err, colour.ErrImageDecode) {
			t.Errorf("DecodeDataURI(%q) error = %v, want ErrImageDecode", bad, err)
		}
	}
}

func TestSmartLoaderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.png")
	if err := os.WriteFile(path, encodePNG(t), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := NewSmartLoader(LoaderOptions{})
	img, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	checkImage(t, img)

	if _, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := loader.Load(context.Background(), t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
}

func TestSmartLoaderFileSizeLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.png")
	if err := os.WriteFile(path, encodePNG(t), 0o600); err != nil {
		t.Fatal(err)
	}
	loader := NewSmartLoader(LoaderOptions{MaxBytes: 8})
	if _, err := loader.Load(context.Background(), path); !errors.Is(err, security.ErrSizeLimit) {
		t.Errorf("error = %v, want ErrSizeLimit", err)
	}
}

func TestSmartLoaderURL(t *testing.T) {
	data := encodePNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	// httptest listens on loopback, which the default policy rejects.
	if _, err := NewSmartLoader(LoaderOptions{}).Load(context.Background(), srv.URL+"/a.png"); err == nil {
		t.Fatal("expected loopback URL to be rejected")
	}

	for _, cacheDir := range []string{"", t.TempDir()} {
		loader := NewSmartLoader(LoaderOptions{
			URLPolicy: security.URLPolicy{AllowPrivateHosts: true},
			CacheDir:  cacheDir,
		})
		img, err := loader.Load(context.Background(), srv.URL+"/a.png")
		if err != nil {
			t.Fatalf("cache dir %q: %v", cacheDir, err)
		}
		checkImage(t, img)
	}
}

func TestSmartLoaderDataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t))
	img, err := NewSmartLoader(LoaderOptions{}).Load(context.Background(), uri)
	if err != nil {
		t.Fatal(err)
	}
	checkImage(t, img)
}
