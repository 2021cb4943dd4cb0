package complexity

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func checkerImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func TestEstimate_UniformImage(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{80, 120, 200, 255})
	if got := Estimate(img); got != 0 {
		t.Errorf("Estimate(uniform) = %v, want 0", got)
	}
}

func TestEstimate_DegenerateImages(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"Nil image", nil},
		{"Empty image", image.NewRGBA(image.Rect(0, 0, 0, 0))},
		{"Single pixel", solidImage(1, 1, color.RGBA{255, 0, 0, 255})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Estimate(tt.img); got != 0 {
				t.Errorf("Estimate() = %v, want 0", got)
			}
		})
	}
}

func TestEstimate_Range(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"Gradient", gradientImage(64, 64)},
		{"Checkerboard", checkerImage(32, 32)},
		{"Wide", gradientImage(300, 7)},
		{"Tall", gradientImage(7, 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.img)
			if got < 0 || got > 1 {
				t.Errorf("Estimate() = %v, out of [0,1]", got)
			}
		})
	}
}

func TestEstimate_CheckerboardBusierThanGradient(t *testing.T) {
	checker := Estimate(checkerImage(64, 64))
	gradient := Estimate(gradientImage(64, 64))
	if checker <= gradient {
		t.Errorf("checker %v <= gradient %v, expected busier score", checker, gradient)
	}
	if checker == 0 {
		t.Error("Checkerboard scored 0")
	}
}

func TestEstimate_DownscalesLargeImages(t *testing.T) {
	// Same content at wildly different resolutions should land in the
	// same neighborhood once both are resampled to the cap.
	small := Estimate(gradientImage(256, 256))
	large := Estimate(gradientImage(1024, 1024))

	diff := small - large
	if diff < 0 {
		diff = -diff
	}
	if diff > 0.05 {
		t.Errorf("Score drifted across resolutions: %v vs %v", small, large)
	}
}

func BenchmarkEstimate(b *testing.B) {
	img := gradientImage(1920, 1080)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Estimate(img)
	}
}
