// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Command-line flags override these values.
type Config struct {
	HTTPAddr       string
	Service        string
	AllowedOrigins []string
	LogLevel       string
	LogJSON        bool

	MaxConcurrentExtractions int
	ImageFetchTimeout        time.Duration
	ImageMaxBytes            int64
	ImageMaxPixels           int64
	AllowPrivateImageHosts   bool
	ImageCacheDir            string

	ExtractionURL    string
	PaletteURL       string
	AccessibilityURL string

	GoogleAPIKey string
	GenAIBackend string
	GenAIModel   string
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		HTTPAddr:                 ":8080",
		Service:                  "all",
		AllowedOrigins:           []string{"*"},
		LogLevel:                 "info",
		MaxConcurrentExtractions: 4,
		ImageFetchTimeout:        30 * time.Second,
		ImageMaxBytes:            20 << 20,
		ImageMaxPixels:           50_000_000,
		ExtractionURL:            "http://localhost:8080",
		PaletteURL:               "http://localhost:8080",
		AccessibilityURL:         "http://localhost:8080",
		GenAIBackend:             "gemini",
		GenAIModel:               "gemini-2.5-flash",
	}
}

// Load reads the given .env files (".env" when none are named, missing files
// are ignored) and then the process environment.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		_ = godotenv.Load(f)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() Config {
	d := Defaults()
	return Config{
		HTTPAddr:       getEnv("HTTP_ADDR", d.HTTPAddr),
		Service:        getEnv("SERVICE", d.Service),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", d.AllowedOrigins),
		LogLevel:       getEnv("LOG_LEVEL", d.LogLevel),
		LogJSON:        getEnvBool("LOG_JSON", d.LogJSON),

		MaxConcurrentExtractions: getEnvInt("MAX_CONCURRENT_EXTRACTIONS", d.MaxConcurrentExtractions),
		ImageFetchTimeout:        getEnvDuration("IMAGE_FETCH_TIMEOUT", d.ImageFetchTimeout),
		ImageMaxBytes:            int64(getEnvInt("IMAGE_MAX_BYTES", int(d.ImageMaxBytes))),
		ImageMaxPixels:           int64(getEnvInt("IMAGE_MAX_PIXELS", int(d.ImageMaxPixels))),
		AllowPrivateImageHosts:   getEnvBool("ALLOW_PRIVATE_IMAGE_HOSTS", d.AllowPrivateImageHosts),
		ImageCacheDir:            getEnv("IMAGE_CACHE_DIR", d.ImageCacheDir),

		ExtractionURL:    getEnv("EXTRACTION_URL", d.ExtractionURL),
		PaletteURL:       getEnv("PALETTE_URL", d.PaletteURL),
		AccessibilityURL: getEnv("ACCESSIBILITY_URL", d.AccessibilityURL),

		GoogleAPIKey: getEnv("GOOGLE_API_KEY", d.GoogleAPIKey),
		GenAIBackend: getEnv("GENAI_BACKEND", d.GenAIBackend),
		GenAIModel:   getEnv("GENAI_MODEL", d.GenAIModel),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

// getEnvDuration accepts Go durations ("45s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
