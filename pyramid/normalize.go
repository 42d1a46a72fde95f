package pyramid

import (
	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
)

// minWeightEpsilon is the accumulated-weight threshold below which a
// pixel is treated as having no contribution: its normalized color is
// zero and (in Rebuild) its alpha is zero. This is the corrected
// contract from the source's alpha bug (see DESIGN.md).
const minWeightEpsilon = 1e-6

// normalizeByWeight divides colorAccum by weightAccum element-wise,
// leaving a pixel at zero where weightAccum is below minWeightEpsilon
// rather than dividing by (near) zero.
func normalizeByWeight(colorAccum *cachedimage.Plane[pixel.RGB], weightAccum *cachedimage.Plane[float32]) *cachedimage.Plane[pixel.RGB] {
	out := cachedimage.NewPlane[pixel.RGB](colorAccum.Width, colorAccum.Height)
	for i := range out.Data {
		w := weightAccum.Data[i]
		if w > minWeightEpsilon {
			out.Data[i] = colorAccum.Data[i].Scale(1 / w)
		}
	}
	return out
}
