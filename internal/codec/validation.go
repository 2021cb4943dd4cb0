package codec

import (
	"errors"
	"image"
)

var (
	// ErrFileTooLarge is returned when the input exceeds the byte limit.
	ErrFileTooLarge = errors.New("file size exceeds limit")
	// ErrInvalidImageDimensions is returned for zero or negative
	// decoded dimensions.
	ErrInvalidImageDimensions = errors.New("invalid image dimensions")
	// ErrImageTooLarge is returned when decoded dimensions exceed limits.
	ErrImageTooLarge = errors.New("image dimensions exceed maximum allowed")
)

// Validation limits. The pixel cap protects against decompression
// bombs: a small compressed file that decodes to an enormous bitmap.
const (
	MaxFileSize    = 50 * 1024 * 1024
	MaxImageWidth  = 20000
	MaxImageHeight = 20000
	MaxImagePixels = 250_000_000
)

// ValidateBytes checks the raw input size before any decoding work.
func ValidateBytes(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if len(data) > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// ValidateImage checks decoded image dimensions are within limits.
// Tiny images are allowed; the pipeline handles them explicitly.
func ValidateImage(img image.Image) error {
	if img == nil {
		return ErrInvalidImageDimensions
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return ErrInvalidImageDimensions
	}
	if width > MaxImageWidth || height > MaxImageHeight {
		return ErrImageTooLarge
	}
	if int64(width)*int64(height) > MaxImagePixels {
		return ErrImageTooLarge
	}
	return nil
}
