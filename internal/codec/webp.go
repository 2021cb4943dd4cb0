package codec

import (
	"image"

	"github.com/chai2010/webp"
)

// Extension is the file extension of encoded output, without dot.
const Extension = "webp"

// WebP encodes images as lossy WebP. It satisfies quality.Codec: the
// quality fraction in [0,1] is mapped onto the encoder's 0-100 scale.
// The zero value is ready to use and safe for concurrent use.
type WebP struct{}

// Encode encodes img at the given quality fraction and returns the
// encoded bytes.
func (WebP) Encode(img image.Image, quality float64) ([]byte, error) {
	rgba := toRGBA(img)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := webp.Encode(buf, rgba, &webp.Options{Quality: float32(quality * 100)}); err != nil {
		return nil, err
	}

	// The pooled buffer is reused, so hand back a copy.
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}
