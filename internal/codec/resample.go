package codec

import (
	"image"

	"golang.org/x/image/draw"
)

// Resample scales img to width x height with bilinear filtering and
// returns it as a packed RGBA bitmap. Dimensions below 1 are clamped.
func Resample(img image.Image, width, height int) *image.RGBA {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// FitWithin returns dimensions for img scaled so its larger dimension
// equals max, preserving aspect ratio. When img already fits, its own
// dimensions are returned.
func FitWithin(img image.Image, max int) (width, height int) {
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	if max <= 0 || (width <= max && height <= max) {
		return width, height
	}
	if width >= height {
		return max, maxInt(1, height*max/width)
	}
	return maxInt(1, width*max/height), max
}

// toRGBA returns img as a packed *image.RGBA, copying only when the
// underlying representation differs.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Copy(dst, image.Point{}, img, bounds, draw.Src, nil)
	return dst
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
