package pyramid

import (
	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
)

// mergeLevel folds colorContribution (unweighted; mergeLevel multiplies
// each pixel by the matching weight) and weight into level l's
// accumulators: extract the existing accumulator region, add the
// view's weighted contribution, and assign it back. Horizontal
// wrap-around is resolved by CachedImage.Extract/Assign themselves
// (bb's Left/Width may exceed the level's width); only the vertical
// extent is clamped here, matching the panorama's wrap-only-horizontal
// continuity rule.
func (p *LaplacianPyramid) mergeLevel(l int, bb cachedimage.BoundingBox, colorContribution *cachedimage.Plane[pixel.RGB], weight *cachedimage.Plane[float32]) error {
	lvl := p.levels[l]
	clamped := bb.Clamp(lvl.width, lvl.height)
	if clamped.Empty() {
		return nil
	}
	dy := clamped.Top - bb.Top

	existingColor, err := lvl.color.Extract(clamped)
	if err != nil {
		return err
	}
	existingWeight, err := lvl.weight.Extract(clamped)
	if err != nil {
		return err
	}

	for ly := range clamped.Height {
		srcY := ly + dy
		for lx := range clamped.Width {
			w := weight.At(lx, srcY)
			c := existingColor.At(lx, ly).Add(colorContribution.At(lx, srcY).Scale(w))
			existingColor.Set(lx, ly, c)
			existingWeight.Set(lx, ly, existingWeight.At(lx, ly)+w)
		}
	}

	if err := lvl.color.Assign(clamped, existingColor); err != nil {
		return err
	}
	return lvl.weight.Assign(clamped, existingWeight)
}
