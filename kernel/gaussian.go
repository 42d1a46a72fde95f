// Package kernel implements the pure pixel-processing primitives the
// Laplacian pyramid is built from: a fixed 5-tap Gaussian blur,
// nearest-sample downscale/zero-insert upscale, plane arithmetic, and
// the edge-aware (mask-normalized) Gaussian used to keep color from
// bleeding across a view's coverage mask.
//
// Every function here operates on cachedimage.Plane values only and
// knows nothing of panorama-wide coordinates. Panorama wrap-around is
// the caller's concern (CachedImage's Extract/Assign); the blurs take
// an explicit wrap bool, and with it set they wrap column indices
// modulo the plane's own width.
package kernel

import (
	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
)

// gaussianTaps are the fixed binomial 5-tap weights [1,4,6,4,1]/16 used
// throughout the pyramid — never parameterized by radius, since every
// level of the pyramid uses the same 5x5 footprint.
var gaussianTaps = [5]float32{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}

// clampCoord clamps a coordinate to [0, n) for the vertical axis, which
// never wraps.
func clampCoord(c, n int) int {
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// wrapOrClampCoord resolves a horizontal coordinate either by wrapping
// modulo n (wrap == true) or by clamping to the edge (wrap == false).
func wrapOrClampCoord(c, n int, wrap bool) int {
	if wrap {
		m := c % n
		if m < 0 {
			m += n
		}
		return m
	}
	return clampCoord(c, n)
}

// GaussianBlurRGB applies the separable 5-tap Gaussian to an RGB plane.
// The horizontal pass wraps modulo the plane's width when wrap is true
// (360-degree continuity); the vertical pass always clamps to the edge.
func GaussianBlurRGB(src *cachedimage.Plane[pixel.RGB], wrap bool) *cachedimage.Plane[pixel.RGB] {
	w, h := src.Width, src.Height
	tmp := cachedimage.NewPlane[pixel.RGB](w, h)
	dst := cachedimage.NewPlane[pixel.RGB](w, h)

	for y := range h {
		for x := range w {
			var sum pixel.RGB
			for k := -2; k <= 2; k++ {
				sx := wrapOrClampCoord(x+k, w, wrap)
				sum = sum.Add(src.At(sx, y).Scale(gaussianTaps[k+2]))
			}
			tmp.Set(x, y, sum)
		}
	}
	for y := range h {
		for x := range w {
			var sum pixel.RGB
			for k := -2; k <= 2; k++ {
				sy := clampCoord(y+k, h)
				sum = sum.Add(tmp.At(x, sy).Scale(gaussianTaps[k+2]))
			}
			dst.Set(x, y, sum)
		}
	}
	return dst
}

// GaussianBlurScalar applies the separable 5-tap Gaussian to a float32
// plane (weight levels, masks-as-float). Same wrap semantics as
// GaussianBlurRGB.
func GaussianBlurScalar(src *cachedimage.Plane[float32], wrap bool) *cachedimage.Plane[float32] {
	w, h := src.Width, src.Height
	tmp := cachedimage.NewPlane[float32](w, h)
	dst := cachedimage.NewPlane[float32](w, h)

	for y := range h {
		for x := range w {
			var sum float32
			for k := -2; k <= 2; k++ {
				sx := wrapOrClampCoord(x+k, w, wrap)
				sum += src.At(sx, y) * gaussianTaps[k+2]
			}
			tmp.Set(x, y, sum)
		}
	}
	for y := range h {
		for x := range w {
			var sum float32
			for k := -2; k <= 2; k++ {
				sy := clampCoord(y+k, h)
				sum += tmp.At(x, sy) * gaussianTaps[k+2]
			}
			dst.Set(x, y, sum)
		}
	}
	return dst
}
