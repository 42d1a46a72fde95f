package kernel

import (
	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
)

// edgeAwareEpsilon is the minimum blurred-mask weight treated as
// non-zero; below it, EdgeAwareGaussian reports zero color rather than
// dividing by a near-zero denominator.
const edgeAwareEpsilon = 1e-6

// EdgeAwareGaussian blurs color and mask together and divides, so that
// invalid (zero-mask) regions don't bleed their (usually garbage or
// black) color into the blurred result near a mask edge. This is the
// one non-obvious numerical idea in the kernel package: a plain
// GaussianBlurRGB of color alone would let out-of-mask pixels (often
// zero) pull valid edge pixels toward black.
//
// Returns the corrected color plane and a binary mask plane: 1 where
// the blurred mask exceeds edgeAwareEpsilon, 0 elsewhere. The blurred
// mask itself is only an intermediate divisor for the color
// correction; callers that need mask-in for a next level need the
// boundary snapped back to 0/1, not the soft blurred value, so it is
// not returned.
func EdgeAwareGaussian(color *cachedimage.Plane[pixel.RGB], mask *cachedimage.Plane[float32], wrap bool) (*cachedimage.Plane[pixel.RGB], *cachedimage.Plane[float32]) {
	weighted := cachedimage.NewPlane[pixel.RGB](color.Width, color.Height)
	for i := range weighted.Data {
		weighted.Data[i] = color.Data[i].Scale(mask.Data[i])
	}

	blurredWeighted := GaussianBlurRGB(weighted, wrap)
	blurredMask := GaussianBlurScalar(mask, wrap)

	outColor := cachedimage.NewPlane[pixel.RGB](color.Width, color.Height)
	outMask := cachedimage.NewPlane[float32](color.Width, color.Height)
	for i := range outColor.Data {
		m := blurredMask.Data[i]
		if m > edgeAwareEpsilon {
			outColor.Data[i] = blurredWeighted.Data[i].Scale(1 / m)
			outMask.Data[i] = 1
		}
	}

	return outColor, outMask
}

// Feather is a thin wrapper over GaussianBlurScalar used to soften a
// weight map that was supplied without an explicit binary mask — a
// plain blur rather than the full mask-normalized correction
// EdgeAwareGaussian performs.
func Feather(weight *cachedimage.Plane[float32], wrap bool) *cachedimage.Plane[float32] {
	return GaussianBlurScalar(weight, wrap)
}
