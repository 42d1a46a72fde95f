package kernel

import (
	"testing"

	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
)

func constPlaneRGB(w, h int, v pixel.RGB) *cachedimage.Plane[pixel.RGB] {
	p := cachedimage.NewPlane[pixel.RGB](w, h)
	p.Fill(v)
	return p
}

func TestGaussianBlurConstantPlaneIsUnchanged(t *testing.T) {
	src := constPlaneRGB(8, 8, pixel.RGB{R: 1, G: 2, B: 3})
	dst := GaussianBlurRGB(src, true)
	for y := range 8 {
		for x := range 8 {
			got := dst.At(x, y)
			if got != src.At(x, y) {
				t.Fatalf("blur of constant plane changed value at (%d,%d): got %+v want %+v", x, y, got, src.At(x, y))
			}
		}
	}
}

func TestGaussianBlurWrapVsClampDiffer(t *testing.T) {
	w, h := 8, 1
	src := cachedimage.NewPlane[pixel.RGB](w, h)
	src.Set(0, 0, pixel.RGB{R: 10})

	wrapped := GaussianBlurRGB(src, true)
	clamped := GaussianBlurRGB(src, false)

	// Near the right edge, a wrap-enabled blur picks up contribution
	// from column 0's spike; a clamped blur does not.
	if wrapped.At(w-1, 0) == clamped.At(w-1, 0) {
		t.Fatal("expected wrap and clamp blurs to differ near the wrap boundary")
	}
}

func TestDownscaleUpscaleRoundTripShape(t *testing.T) {
	src := constPlaneRGB(8, 6, pixel.RGB{R: 1, G: 1, B: 1})
	down := Downscale2xRGB(src)
	if down.Width != 4 || down.Height != 3 {
		t.Fatalf("downscale shape = %dx%d, want 4x3", down.Width, down.Height)
	}
	up := Upscale2xRGB(down)
	if up.Width != 8 || up.Height != 6 {
		t.Fatalf("upscale shape = %dx%d, want 8x6", up.Width, up.Height)
	}
	// Zero-insertion: odd columns/rows must be zero.
	if up.At(1, 0) != (pixel.RGB{}) {
		t.Fatalf("upscale odd column not zero: %+v", up.At(1, 0))
	}
}

func TestRemoveNegativeValues(t *testing.T) {
	src := cachedimage.NewPlane[pixel.RGB](2, 1)
	src.Set(0, 0, pixel.RGB{R: -1, G: 2, B: -0.5})
	out := RemoveNegativeValuesRGB(src)
	got := out.At(0, 0)
	if got.R != 0 || got.G != 2 || got.B != 0 {
		t.Fatalf("RemoveNegativeValuesRGB = %+v, want {0,2,0}", got)
	}
}

func TestEdgeAwareGaussianAvoidsMaskBleed(t *testing.T) {
	w, h := 8, 1
	color := cachedimage.NewPlane[pixel.RGB](w, h)
	mask := cachedimage.NewPlane[float32](w, h)
	for x := range w {
		if x < w/2 {
			color.Set(x, 0, pixel.RGB{R: 1, G: 1, B: 1})
			mask.Set(x, 0, 1)
		}
		// Right half: color and mask both zero (invalid region).
	}

	outColor, outMask := EdgeAwareGaussian(color, mask, false)

	// A pixel well inside the valid region should stay close to the
	// original color, not pulled toward zero by the invalid half.
	c := outColor.At(1, 0)
	if c.R < 0.9 {
		t.Fatalf("edge-aware color bled toward invalid region: %+v", c)
	}
	if outMask.At(1, 0) <= 0 {
		t.Fatal("expected positive blurred mask inside valid region")
	}
}
