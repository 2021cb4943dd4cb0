// Package codec wraps the image decode and encode primitives the
// conversion pipeline builds on: format sniffing and decoding for the
// supported input formats, lossy WebP output, and resampling.
package codec

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/adrium/goheif"
	xwebp "golang.org/x/image/webp"
)

var (
	// ErrEmptyInput is returned when there are no bytes to decode.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnsupportedFormat is returned when the input is not a
	// recognized raster format.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Input formats recognized by Sniff and Decode.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatWebP = "webp"
	FormatHEIF = "heif"
)

// Sniff identifies the image format from the leading magic bytes.
func Sniff(data []byte) (string, error) {
	if len(data) < 12 {
		return "", ErrUnsupportedFormat
	}

	switch {
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return FormatJPEG, nil
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG, nil
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF, nil
	case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return FormatWebP, nil
	case isHEIF(data):
		return FormatHEIF, nil
	}
	return "", ErrUnsupportedFormat
}

// isHEIF checks for the ISO Base Media File Format layout HEIF uses:
// [4 byte size] + "ftyp" + [brand].
func isHEIF(data []byte) bool {
	if string(data[4:8]) != "ftyp" {
		return false
	}
	brand := strings.ToLower(string(data[8:12]))
	return strings.HasPrefix(brand, "he") || brand == "mif1" || brand == "msf1"
}

// Decode sniffs data and decodes it into an in-memory image. The
// returned format is one of the Format constants.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyInput
	}

	format, err := Sniff(data)
	if err != nil {
		return nil, "", err
	}

	var img image.Image
	r := bytes.NewReader(data)
	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatGIF:
		img, err = gif.Decode(r)
	case FormatWebP:
		img, err = xwebp.Decode(r)
	case FormatHEIF:
		img, err = goheif.Decode(r)
	}
	if err != nil {
		return nil, "", err
	}

	if err := ValidateImage(img); err != nil {
		return nil, "", err
	}
	return img, format, nil
}
