package pyramid

import (
	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/kernel"
	"github.com/panoblend/panoblend/pixel"
)

// rebuildDilation is the fixed per-level border grown around a
// reconstruction window so the 5-tap Gaussian used by the upscale+reblur
// step always has valid neighbors, matching the "dilate by >= 5px"
// guidance for a 5x5 kernel footprint after a 2x upscale.
const rebuildDilation = 5

// Rebuild collapses the accumulated pyramid back into a single RGBA
// panorama: normalize each band by its accumulated weight, clamp
// negative residue, and collapse coarse-to-fine by repeatedly
// upscaling+4x-reblurring the coarser band and adding the next band's
// normalized residual. Processing is windowed (default windowSize,
// e.g. 512) rather than materializing a whole level at once, since a
// full panorama level does not fit in memory for realistic panorama
// sizes.
//
// The output alpha channel follows the corrected contract: 0 where the
// level-0 accumulated weight is below the epsilon used throughout this
// package, 1 otherwise (the source wrote 1 unconditionally — see
// DESIGN.md).
func (p *LaplacianPyramid) Rebuild(windowSize int) (*cachedimage.CachedImage[pixel.RGBA], error) {
	if len(p.levels) == 0 {
		return nil, ErrNotInitialized
	}
	if windowSize <= 0 {
		windowSize = 512
	}

	output, err := cachedimage.Create[pixel.RGBA](p.store, p.pool, p.panoramaWidth, p.panoramaHeight, p.tileWidth, p.tileHeight, true)
	if err != nil {
		return nil, err
	}

	var windows []cachedimage.BoundingBox
	for top := 0; top < p.panoramaHeight; top += windowSize {
		h := min(windowSize, p.panoramaHeight-top)
		for left := 0; left < p.panoramaWidth; left += windowSize {
			w := min(windowSize, p.panoramaWidth-left)
			windows = append(windows, cachedimage.BoundingBox{Left: left, Top: top, Width: w, Height: h})
		}
	}

	errs := make([]error, len(windows))
	work := func(i int) {
		plane, err := p.reconstructWindow(windows[i])
		if err != nil {
			errs[i] = err
			return
		}
		errs[i] = output.Assign(windows[i], plane)
	}
	if p.pool != nil {
		p.pool.DoRange(len(windows), work)
	} else {
		for i := range windows {
			work(i)
		}
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return output, nil
}

// reconstructWindow reconstructs the RGBA pixels covering core by
// collapsing the pyramid from its coarsest band down to level 0 over a
// dilated working region, then cropping back to exactly core.
func (p *LaplacianPyramid) reconstructWindow(core cachedimage.BoundingBox) (*cachedimage.Plane[pixel.RGBA], error) {
	top := len(p.levels) - 1

	coreAtLevel := make([]cachedimage.BoundingBox, top+1)
	coreAtLevel[0] = core
	for l := 1; l <= top; l++ {
		coreAtLevel[l] = coreAtLevel[l-1].HalveSize()
	}

	dilatedTop := coreAtLevel[top].Dilate(rebuildDilation).Clamp(p.levels[top].width, p.levels[top].height)
	colorAccum, err := p.levels[top].color.Extract(dilatedTop)
	if err != nil {
		return nil, err
	}
	weightAccum, err := p.levels[top].weight.Extract(dilatedTop)
	if err != nil {
		return nil, err
	}

	current := kernel.RemoveNegativeValuesRGB(normalizeByWeight(colorAccum, weightAccum))
	curBB := dilatedTop

	for l := top - 1; l >= 0; l-- {
		upscaled := kernel.Upscale2xRGB(current)
		reblurred := kernel.ScaleRGB(kernel.GaussianBlurRGB(upscaled, true), 4)
		upscaledBB := curBB.DoubleSize()

		wantBB := coreAtLevel[l].Dilate(rebuildDilation).Clamp(p.levels[l].width, p.levels[l].height)
		offX := wantBB.Left - upscaledBB.Left
		offY := wantBB.Top - upscaledBB.Top
		croppedReblurred := reblurred.Sub(offX, offY, wantBB.Width, wantBB.Height)

		colorAccumL, err := p.levels[l].color.Extract(wantBB)
		if err != nil {
			return nil, err
		}
		weightAccumL, err := p.levels[l].weight.Extract(wantBB)
		if err != nil {
			return nil, err
		}
		residual := normalizeByWeight(colorAccumL, weightAccumL)

		current = kernel.AddRGB(residual, croppedReblurred)
		curBB = wantBB
	}

	current = kernel.RemoveNegativeValuesRGB(current)

	offX := core.Left - curBB.Left
	offY := core.Top - curBB.Top
	finalColor := current.Sub(offX, offY, core.Width, core.Height)

	weightAtCore, err := p.levels[0].weight.Extract(core)
	if err != nil {
		return nil, err
	}

	out := cachedimage.NewPlane[pixel.RGBA](core.Width, core.Height)
	for i := range out.Data {
		c := finalColor.Data[i]
		a := float32(0)
		if weightAtCore.Data[i] > minWeightEpsilon {
			a = 1
		}
		out.Data[i] = pixel.RGBA{R: c.R, G: c.G, B: c.B, A: a}
	}
	return out, nil
}
