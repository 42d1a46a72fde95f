package pyramid

import (
	"testing"

	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/internal/workerpool"
	"github.com/panoblend/panoblend/pixel"
	"github.com/panoblend/panoblend/tilestore"
)

func newTestPyramid(t *testing.T, w, h, tile, levels int) *LaplacianPyramid {
	t.Helper()
	store := tilestore.New(tilestore.WithScratchDir(t.TempDir()), tilestore.WithMaxResidentTiles(4096), tilestore.WithFreeSpaceCheck(false))
	pool := workerpool.New(2)
	t.Cleanup(func() {
		pool.Close()
		store.Close()
	})
	p := New(store, pool, w, h, tile, tile)
	if err := p.Initialize(levels); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return p
}

func constView(w, h, offX, offY int, c pixel.RGB, weight float32) View {
	color := cachedimage.NewPlane[pixel.RGB](w, h)
	mask := cachedimage.NewPlane[uint8](w, h)
	wp := cachedimage.NewPlane[float32](w, h)
	for i := range color.Data {
		color.Data[i] = c
		mask.Data[i] = 1
		wp.Data[i] = weight
	}
	return View{Color: color, Mask: mask, Weight: wp, OffsetX: offX, OffsetY: offY}
}

func TestSingleFullCoverageViewRoundTrips(t *testing.T) {
	p := newTestPyramid(t, 16, 16, 4, 3)
	v := constView(16, 16, 0, 0, pixel.RGB{R: 0.5, G: 0.25, B: 0.75}, 1)
	if err := p.Apply(v); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	out, err := p.Rebuild(8)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	plane, err := out.Extract(cachedimage.BoundingBox{Left: 4, Top: 4, Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i, px := range plane.Data {
		if px.A != 1 {
			t.Fatalf("pixel %d alpha = %v, want 1", i, px.A)
		}
		if diff := px.R - 0.5; diff > 0.05 || diff < -0.05 {
			t.Fatalf("pixel %d R = %v, want ~0.5", i, px.R)
		}
	}
}

// gradientView builds a view whose color varies linearly across x (so
// the Laplacian residual path is actually exercised, not collapsed to
// zero by a constant input) and whose mask/weight only cover a
// sub-rectangle with a fractional weight (so the mask-normalization
// and partition-of-unity paths are exercised too).
func gradientView(w, h, offX, offY int) View {
	color := cachedimage.NewPlane[pixel.RGB](w, h)
	mask := cachedimage.NewPlane[uint8](w, h)
	weight := cachedimage.NewPlane[float32](w, h)
	for y := range h {
		for x := range w {
			t := float32(x) / float32(w-1)
			color.Set(x, y, pixel.RGB{R: t, G: 1 - t, B: 0.5})
			if x >= w/4 && x < w-w/4 {
				mask.Set(x, y, 1)
				weight.Set(x, y, 0.7)
			}
		}
	}
	return View{Color: color, Mask: mask, Weight: weight, OffsetX: offX, OffsetY: offY}
}

func TestGradientPartialCoverageViewRoundTrips(t *testing.T) {
	p := newTestPyramid(t, 16, 16, 4, 3)
	v := gradientView(16, 16, 0, 0)
	if err := p.Apply(v); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	out, err := p.Rebuild(8)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	// Only the interior quarter-to-three-quarter column range was ever
	// covered by the view's mask; check the round-trip there, well away
	// from the mask boundary so the edge-aware blur's own smoothing at
	// the boundary doesn't count as a round-trip failure.
	plane, err := out.Extract(cachedimage.BoundingBox{Left: 0, Top: 6, Width: 16, Height: 4})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for x := 6; x < 10; x++ {
		for y := 0; y < 4; y++ {
			px := plane.At(x, y)
			wantT := float32(x) / 15
			wantR := wantT
			wantG := 1 - wantT
			if px.A != 1 {
				t.Fatalf("pixel (%d,%d) alpha = %v, want 1", x, y, px.A)
			}
			if diff := px.R - wantR; diff > 0.1 || diff < -0.1 {
				t.Fatalf("pixel (%d,%d) R = %v, want ~%v", x, y, px.R, wantR)
			}
			if diff := px.G - wantG; diff > 0.1 || diff < -0.1 {
				t.Fatalf("pixel (%d,%d) G = %v, want ~%v", x, y, px.G, wantG)
			}
			if diff := px.B - 0.5; diff > 0.1 || diff < -0.1 {
				t.Fatalf("pixel (%d,%d) B = %v, want ~0.5", x, y, px.B)
			}
		}
	}

	// Outside the mask entirely, weight never accumulated: alpha must
	// be 0 under the corrected contract.
	outside, err := out.Extract(cachedimage.BoundingBox{Left: 0, Top: 0, Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("Extract outside: %v", err)
	}
	for _, px := range outside.Data {
		if px.A != 0 {
			t.Fatalf("pixel outside mask alpha = %v, want 0", px.A)
		}
	}
}

func TestZeroViewsProducesZeroWeightEverywhere(t *testing.T) {
	p := newTestPyramid(t, 8, 8, 4, 2)

	out, err := p.Rebuild(8)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	plane, err := out.Extract(cachedimage.BoundingBox{Left: 0, Top: 0, Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i, px := range plane.Data {
		if px.R != 0 || px.G != 0 || px.B != 0 {
			t.Fatalf("pixel %d = %+v, want RGB all zero", i, px)
		}
		// Corrected alpha contract (see DESIGN.md): alpha is 0, not 1,
		// where accumulated weight is below epsilon -- including here,
		// where no view ever contributed any weight.
		if px.A != 0 {
			t.Fatalf("pixel %d alpha = %v, want 0 under the corrected contract", i, px.A)
		}
	}
}

func TestDisjointTwoViewsKeepSeparateColors(t *testing.T) {
	p := newTestPyramid(t, 16, 8, 4, 2)

	left := constView(8, 8, 0, 0, pixel.RGB{R: 1}, 1)
	right := constView(8, 8, 8, 0, pixel.RGB{B: 1}, 1)
	if err := p.Apply(left); err != nil {
		t.Fatalf("Apply left: %v", err)
	}
	if err := p.Apply(right); err != nil {
		t.Fatalf("Apply right: %v", err)
	}

	out, err := p.Rebuild(16)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	leftPlane, _ := out.Extract(cachedimage.BoundingBox{Left: 2, Top: 2, Width: 2, Height: 2})
	rightPlane, _ := out.Extract(cachedimage.BoundingBox{Left: 10, Top: 2, Width: 2, Height: 2})

	for _, px := range leftPlane.Data {
		if px.R < 0.8 || px.B > 0.2 {
			t.Fatalf("left region pixel = %+v, expected dominant red", px)
		}
	}
	for _, px := range rightPlane.Data {
		if px.B < 0.8 || px.R > 0.2 {
			t.Fatalf("right region pixel = %+v, expected dominant blue", px)
		}
	}
}

func TestMeridianWrapViewMatchesUnwrapped(t *testing.T) {
	w, h := 16, 8
	p1 := newTestPyramid(t, w, h, 4, 2)
	p2 := newTestPyramid(t, w, h, 4, 2)

	interior := constView(4, 4, 6, 2, pixel.RGB{G: 1}, 1)
	wrapped := constView(4, 4, w-2, 2, pixel.RGB{G: 1}, 1) // off_x = W - 2 wraps two columns around

	if err := p1.Apply(interior); err != nil {
		t.Fatalf("Apply interior: %v", err)
	}
	if err := p2.Apply(wrapped); err != nil {
		t.Fatalf("Apply wrapped: %v", err)
	}

	out1, err := p1.Rebuild(16)
	if err != nil {
		t.Fatalf("Rebuild 1: %v", err)
	}
	out2, err := p2.Rebuild(16)
	if err != nil {
		t.Fatalf("Rebuild 2: %v", err)
	}

	// The total rebuilt green channel (proxy for "did color land
	// somewhere") should match between the two pyramids: wrap must not
	// lose energy.
	plane1, _ := out1.Extract(cachedimage.BoundingBox{Left: 0, Top: 0, Width: w, Height: h})
	plane2, _ := out2.Extract(cachedimage.BoundingBox{Left: 0, Top: 0, Width: w, Height: h})

	var sum1, sum2 float32
	for i := range plane1.Data {
		sum1 += plane1.Data[i].G
		sum2 += plane2.Data[i].G
	}
	if diff := sum1 - sum2; diff > 0.5 || diff < -0.5 {
		t.Fatalf("wrap energy mismatch: interior sum=%v wrapped sum=%v", sum1, sum2)
	}
}

func TestAugmentAddsLevelsAndPreservesRoughColor(t *testing.T) {
	p := newTestPyramid(t, 16, 16, 4, 2)
	v := constView(16, 16, 0, 0, pixel.RGB{R: 0.4, G: 0.4, B: 0.4}, 1)
	if err := p.Apply(v); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if err := p.Augment(4); err != nil {
		t.Fatalf("Augment: %v", err)
	}
	if p.Levels() != 4 {
		t.Fatalf("Levels() = %d, want 4", p.Levels())
	}

	out, err := p.Rebuild(16)
	if err != nil {
		t.Fatalf("Rebuild after augment: %v", err)
	}
	plane, err := out.Extract(cachedimage.BoundingBox{Left: 4, Top: 4, Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for _, px := range plane.Data {
		if diff := px.R - 0.4; diff > 0.1 || diff < -0.1 {
			t.Fatalf("pixel R = %v, want ~0.4 after augment", px.R)
		}
	}
}
