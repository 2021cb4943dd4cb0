package quality

import (
	"errors"
	"image"
)

// Codec performs one lossy encode of an image at a quality fraction
// in [0,1]. Implementations must be deterministic for a given image
// and quality so the adaptive search is repeatable.
type Codec interface {
	Encode(img image.Image, quality float64) ([]byte, error)
}

// Result is the outcome of one adaptive encode: the encoded bytes and
// the quality percent that produced them.
type Result struct {
	Data    []byte
	Quality int
}

var errNilImage = errors.New("quality: nil image")

// Encode encodes img once at initialQuality (percent, 0-100 scale)
// and, when targetBytes is positive, re-encodes at progressively
// lower quality until the output fits or the quality floor is
// reached. A non-positive targetBytes disables the search entirely.
//
// The budget is advisory: when even the floor-quality encode exceeds
// it, that encode is returned rather than an error. Quality is
// tracked in whole percent so the sequence of attempts is exact, e.g.
// starting at 90 against an unreachable budget tries 90, 85, ..., 20
// for 15 encodes in total.
func Encode(c Codec, img image.Image, initialQuality, targetBytes int) (Result, error) {
	if img == nil {
		return Result{}, errNilImage
	}

	q := initialQuality
	if q < 1 {
		q = 1
	} else if q > 100 {
		q = 100
	}

	data, err := c.Encode(img, float64(q)/100)
	if err != nil {
		return Result{}, err
	}
	if targetBytes <= 0 {
		return Result{Data: data, Quality: q}, nil
	}

	for len(data) > targetBytes && q > Floor {
		q -= Step
		if data, err = c.Encode(img, float64(q)/100); err != nil {
			return Result{}, err
		}
	}
	return Result{Data: data, Quality: q}, nil
}
