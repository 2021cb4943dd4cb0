// Package pipeline runs the per-image conversion flow: estimate
// complexity, suggest or accept an encode quality, then adaptively
// encode against an optional size budget. Pipelines share no mutable
// state across images, so independent images may run concurrently.
package pipeline

import (
	"image"
	"time"

	"webpress/internal/codec"
	"webpress/pkg/complexity"
	"webpress/pkg/metrics"
	"webpress/pkg/quality"
)

// Bounds for a user-supplied quality override.
const (
	MinOverride = 30
	MaxOverride = 100
)

// Options control one conversion.
type Options struct {
	// Quality forces the encode quality percent instead of deriving
	// it from complexity. Zero means "suggest from complexity";
	// non-zero values are clamped into [MinOverride, MaxOverride].
	Quality int

	// TargetBytes is the advisory output size budget. Non-positive
	// disables the adaptive search.
	TargetBytes int

	// MaxDimension, when positive, downscales the image before
	// encoding so its larger dimension does not exceed it.
	MaxDimension int
}

// Result is one finished conversion.
type Result struct {
	Data       []byte
	Quality    int     // percent actually used
	Suggested  int     // complexity-derived suggestion, also set when overridden
	Complexity float64 // score in [0,1]
	Format     string  // sniffed source format, set by RunBytes
	Width      int     // dimensions of the encoded image
	Height     int
}

// Pipeline converts images with a fixed codec. Safe for concurrent
// use when the codec is.
type Pipeline struct {
	codec quality.Codec
}

func New(c quality.Codec) *Pipeline {
	return &Pipeline{codec: metered{c}}
}

// metered counts every single-shot codec encode, including the
// re-encodes of the adaptive search.
type metered struct {
	inner quality.Codec
}

func (m metered) Encode(img image.Image, q float64) ([]byte, error) {
	metrics.CodecInvocations.Inc()
	return m.inner.Encode(img, q)
}

// Run converts an already decoded image.
func (p *Pipeline) Run(img image.Image, opts Options) (Result, error) {
	if err := codec.ValidateImage(img); err != nil {
		return Result{}, err
	}

	if opts.MaxDimension > 0 {
		if w, h := codec.FitWithin(img, opts.MaxDimension); w != img.Bounds().Dx() || h != img.Bounds().Dy() {
			img = codec.Resample(img, w, h)
		}
	}

	score := complexity.Estimate(img)
	suggested := quality.Suggest(score)

	q := suggested
	if opts.Quality != 0 {
		q = clampOverride(opts.Quality)
	}

	enc, err := quality.Encode(p.codec, img, q, opts.TargetBytes)
	if err != nil {
		return Result{}, err
	}

	bounds := img.Bounds()
	return Result{
		Data:       enc.Data,
		Quality:    enc.Quality,
		Suggested:  suggested,
		Complexity: score,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
	}, nil
}

// RunBytes decodes raw file bytes and converts them. This is the
// entry point for work items and HTTP uploads; it records conversion
// metrics and never mutates anything shared between images, so a
// failed run can simply be retried from scratch.
func (p *Pipeline) RunBytes(data []byte, opts Options) (Result, error) {
	start := time.Now()
	mode := "adaptive"
	if opts.Quality != 0 {
		mode = "fixed"
	}

	res, err := p.runBytes(data, opts)
	if err != nil {
		metrics.RecordConversion("error", mode, time.Since(start).Seconds(), len(data), 0)
		return Result{}, err
	}

	metrics.RecordConversion("success", mode, time.Since(start).Seconds(), len(data), len(res.Data))
	metrics.QualityUsed.Observe(float64(res.Quality))
	if opts.TargetBytes > 0 && len(res.Data) > opts.TargetBytes {
		metrics.BudgetMissed.Inc()
	}
	return res, nil
}

func (p *Pipeline) runBytes(data []byte, opts Options) (Result, error) {
	if err := codec.ValidateBytes(data); err != nil {
		return Result{}, err
	}

	img, format, err := codec.Decode(data)
	if err != nil {
		return Result{}, err
	}

	res, err := p.Run(img, opts)
	if err != nil {
		return Result{}, err
	}
	res.Format = format
	return res, nil
}

func clampOverride(q int) int {
	if q < MinOverride {
		return MinOverride
	}
	if q > MaxOverride {
		return MaxOverride
	}
	return q
}
