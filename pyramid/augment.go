package pyramid

import (
	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/kernel"
	"github.com/panoblend/panoblend/pixel"
)

// Augment extends an already-populated pyramid to newNumLevels bands.
//
// The source this package is grounded on leaves this operation mostly
// commented out after recovering the coarsest level's raw color and
// mask; this implementation completes it: the current coarsest band no
// longer gets to be the pyramid's base (direct-color) band once deeper
// bands exist, so its accumulated color/weight is recovered, and the
// same per-level blur/downscale/residual chain Apply uses is re-run
// starting from that recovered band down through the new depth,
// overwriting the old coarsest band with its proper Laplacian residual
// and writing fresh base content into the new deepest band.
func (p *LaplacianPyramid) Augment(newNumLevels int) error {
	if len(p.levels) == 0 {
		return ErrNotInitialized
	}
	oldNumLevels := len(p.levels)
	if newNumLevels <= oldNumLevels {
		return ErrInvalidLevels
	}

	oldTop := oldNumLevels - 1
	oldLvl := p.levels[oldTop]
	full := cachedimage.BoundingBox{Left: 0, Top: 0, Width: oldLvl.width, Height: oldLvl.height}

	colorAccum, err := oldLvl.color.Extract(full)
	if err != nil {
		return err
	}
	weightAccum, err := oldLvl.weight.Extract(full)
	if err != nil {
		return err
	}
	rawColor := normalizeByWeight(colorAccum, weightAccum)
	mask := cachedimage.NewPlane[float32](oldLvl.width, oldLvl.height)
	for i, w := range weightAccum.Data {
		if w > minWeightEpsilon {
			mask.Data[i] = 1
		}
	}

	for l := oldNumLevels; l < newNumLevels; l++ {
		w := p.panoramaWidth >> l
		h := p.panoramaHeight >> l
		if w == 0 || h == 0 {
			return ErrInvalidLevels
		}
		tw := levelTileSize(p.tileWidth, l, w)
		th := levelTileSize(p.tileHeight, l, h)

		colorImg, err := cachedimage.Create[pixel.RGB](p.store, p.pool, w, h, tw, th, true)
		if err != nil {
			return err
		}
		weightImg, err := cachedimage.Create[float32](p.store, p.pool, w, h, tw, th, true)
		if err != nil {
			return err
		}
		if err := colorImg.Fill(pixel.RGB{}); err != nil {
			return err
		}
		if err := weightImg.Fill(0); err != nil {
			return err
		}
		p.levels = append(p.levels, level{color: colorImg, weight: weightImg, width: w, height: h})
	}

	curColor := rawColor
	curMask := mask
	curWeight := weightAccum
	newTop := newNumLevels - 1

	for l := oldTop; l < newNumLevels; l++ {
		if l == newTop {
			if err := assignWeightedLevel(p.levels[l], curColor, curWeight); err != nil {
				return err
			}
			break
		}

		blurredColor, blurredMask := kernel.EdgeAwareGaussian(curColor, curMask, true)
		nextColor := kernel.Downscale2xRGB(blurredColor)
		nextMask := kernel.Downscale2xScalar(blurredMask)
		nextWeight := kernel.Downscale2xScalar(kernel.GaussianBlurScalar(curWeight, true))

		upscaled := kernel.Upscale2xRGB(nextColor)
		reblurred := kernel.ScaleRGB(kernel.GaussianBlurRGB(upscaled, true), 4)
		residual := kernel.SubtractRGB(curColor, reblurred)

		if err := assignWeightedLevel(p.levels[l], residual, curWeight); err != nil {
			return err
		}

		curColor, curMask, curWeight = nextColor, nextMask, nextWeight
	}

	return nil
}

// assignWeightedLevel overwrites lvl's accumulators with weight*color
// and weight, covering the whole level. Unlike mergeLevel this replaces
// rather than accumulates: Augment is re-deriving a band's content from
// scratch, not folding in one more view's contribution.
func assignWeightedLevel(lvl level, color *cachedimage.Plane[pixel.RGB], weight *cachedimage.Plane[float32]) error {
	full := cachedimage.BoundingBox{Left: 0, Top: 0, Width: lvl.width, Height: lvl.height}
	weightedColor := cachedimage.NewPlane[pixel.RGB](lvl.width, lvl.height)
	for i := range weightedColor.Data {
		weightedColor.Data[i] = color.Data[i].Scale(weight.Data[i])
	}
	if err := lvl.color.Assign(full, weightedColor); err != nil {
		return err
	}
	return lvl.weight.Assign(full, weight)
}
