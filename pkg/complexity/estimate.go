// Package complexity scores how visually busy an image is, as a cheap
// proxy for how well it will mask lossy compression artifacts.
package complexity

import (
	"image"

	"golang.org/x/image/draw"
)

// maxSampleDim caps the resampled size so estimation cost stays
// bounded regardless of input resolution.
const maxSampleDim = 256

// maxPairDiff is the largest possible difference between two RGBA
// samples: 255 per channel across R, G and B.
const maxPairDiff = 255 * 3

// Estimate returns a texture score in [0,1]: 0 for a uniform image,
// 1 when every adjacent pair of samples differs maximally. Images
// with fewer than two pixels after resampling score 0.
//
// Differences are taken between consecutive pixels in flat scan
// order, so the last pixel of a row is compared against the first
// pixel of the next row. A true edge detector would compare both
// horizontal and vertical neighbors; the scan-order walk is kept for
// its simplicity and stable behavior.
func Estimate(img image.Image) float64 {
	if img == nil {
		return 0
	}

	rgba := sampleRGBA(img)
	pix := rgba.Pix
	pixels := len(pix) / 4
	if pixels < 2 {
		return 0
	}

	var diffSum uint64
	for i := 0; i+7 < len(pix); i += 4 {
		diffSum += uint64(absDiff(pix[i], pix[i+4]))
		diffSum += uint64(absDiff(pix[i+1], pix[i+5]))
		diffSum += uint64(absDiff(pix[i+2], pix[i+6]))
	}

	maxDiff := uint64(maxPairDiff) * uint64(pixels-1)
	return float64(diffSum) / float64(maxDiff)
}

// sampleRGBA converts img to a tightly packed RGBA bitmap, downscaled
// so its larger dimension is at most maxSampleDim while preserving
// aspect ratio.
func sampleRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxSampleDim || h > maxSampleDim {
		if w >= h {
			h = h * maxSampleDim / w
			w = maxSampleDim
		} else {
			w = w * maxSampleDim / h
			h = maxSampleDim
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Copy(dst, image.Point{}, img, bounds, draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	}
	return dst
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
