package kernel

import (
	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
)

// Downscale2xRGB halves src's dimensions by point sampling (every other
// pixel), matching the pyramid's design: downscaling happens after a
// blur pass already band-limited the signal, so a point sample is
// sufficient and avoids a second filtering pass.
func Downscale2xRGB(src *cachedimage.Plane[pixel.RGB]) *cachedimage.Plane[pixel.RGB] {
	dw, dh := src.Width/2, src.Height/2
	dst := cachedimage.NewPlane[pixel.RGB](dw, dh)
	for y := range dh {
		for x := range dw {
			dst.Set(x, y, src.At(x*2, y*2))
		}
	}
	return dst
}

// Downscale2xScalar is Downscale2xRGB's float32-plane counterpart, used
// for weight levels.
func Downscale2xScalar(src *cachedimage.Plane[float32]) *cachedimage.Plane[float32] {
	dw, dh := src.Width/2, src.Height/2
	dst := cachedimage.NewPlane[float32](dw, dh)
	for y := range dh {
		for x := range dw {
			dst.Set(x, y, src.At(x*2, y*2))
		}
	}
	return dst
}

// Upscale2xRGB doubles src's dimensions by zero-insertion: even
// coordinates copy the source pixel, odd coordinates are zero. Callers
// reconstructing a Laplacian level follow this with a 4x-scaled
// GaussianBlurRGB pass to interpolate the inserted zeros.
func Upscale2xRGB(src *cachedimage.Plane[pixel.RGB]) *cachedimage.Plane[pixel.RGB] {
	dw, dh := src.Width*2, src.Height*2
	dst := cachedimage.NewPlane[pixel.RGB](dw, dh)
	for y := range src.Height {
		for x := range src.Width {
			dst.Set(x*2, y*2, src.At(x, y))
		}
	}
	return dst
}
