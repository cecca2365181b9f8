package colour

import "errors"

// Validation failures surfaced by the colour core. Every error returned by this
// package wraps exactly one of these, so callers can branch with errors.Is.
var (
	// ErrInvalidColorFormat reports a colour string that is not #RRGGBB.
	ErrInvalidColorFormat = errors.New("invalid color format")

	// ErrInvalidParameter reports an out-of-range count, percentage or range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidPaletteType reports an unsupported harmony type.
	ErrInvalidPaletteType = errors.New("invalid palette type")

	// ErrImageDecode reports bytes that could not be decoded as a raster image.
	ErrImageDecode = errors.New("image decode error")
)
