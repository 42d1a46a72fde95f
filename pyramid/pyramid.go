package pyramid

import (
	"fmt"

	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/kernel"
	"github.com/panoblend/panoblend/pixel"
)

// Initialize allocates numLevels bands (0 = finest, numLevels-1 =
// coarsest), each a zero-filled color+weight CachedImage pair at
// panoramaWidth>>l x panoramaHeight>>l.
func (p *LaplacianPyramid) Initialize(numLevels int) error {
	if len(p.levels) != 0 {
		return ErrAlreadyInitialized
	}
	if numLevels <= 0 {
		return ErrInvalidLevels
	}

	levels := make([]level, numLevels)
	for l := range numLevels {
		w := p.panoramaWidth >> l
		h := p.panoramaHeight >> l
		if w == 0 || h == 0 {
			return fmt.Errorf("%w: level %d has zero extent for panorama %dx%d", ErrInvalidLevels, l, p.panoramaWidth, p.panoramaHeight)
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

		levels[l] = level{color: colorImg, weight: weightImg, width: w, height: h}
	}
	p.levels = levels
	return nil
}

// levelTileSize shrinks a level-0 tile dimension proportionally to the
// level, falling back to a single tile spanning the whole level extent
// when the shrunk size no longer evenly divides it.
func levelTileSize(base, l, extent int) int {
	t := base >> l
	if t <= 0 || extent%t != 0 {
		return extent
	}
	return t
}

// Apply folds one view's contribution into every band of the pyramid,
// per AliceVision's per-level algorithm: mask the color in, blur
// color+mask together (edge-aware, mask-normalized), downscale the
// blurred pair to seed the next level, recover this level's Laplacian
// residual by upscaling+4x-reblurring the next level's seed and
// subtracting it from the masked, unblurred color of this level, and
// merge the weighted residual into this level's
// accumulators. The coarsest level stores the blurred base color
// directly (there is no next level to subtract).
func (p *LaplacianPyramid) Apply(view View) error {
	if len(p.levels) == 0 {
		return ErrNotInitialized
	}

	curColor := view.Color
	curMask := maskToFloat(view.Mask)
	curWeight := view.Weight
	bb := cachedimage.BoundingBox{Left: view.OffsetX, Top: view.OffsetY, Width: curColor.Width, Height: curColor.Height}
	if bb.Top >= p.panoramaHeight || bb.Top+bb.Height <= 0 {
		return ErrViewOutOfRange
	}

	// mask-in: zero out color outside the view's coverage mask before
	// any blurring, so invalid input pixels never contribute.
	maskedColor := cachedimage.NewPlane[pixel.RGB](curColor.Width, curColor.Height)
	for i := range maskedColor.Data {
		maskedColor.Data[i] = curColor.Data[i].Scale(curMask.Data[i])
	}
	curColor = maskedColor

	last := len(p.levels) - 1
	for l := range p.levels {
		if l == last {
			if err := p.mergeLevel(l, bb, curColor, curWeight); err != nil {
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

		if err := p.mergeLevel(l, bb, residual, curWeight); err != nil {
			return err
		}

		curColor, curMask, curWeight = nextColor, nextMask, nextWeight
		bb = bb.HalveSize()
	}
	return nil
}
