package cachedimage

// BoundingBox is an axis-aligned pixel rectangle: Left/Top is the
// top-left corner, Width/Height its extent. Left may be negative or
// exceed an image's width for a wrap-enabled image — wrapping is
// resolved at Extract/Assign time, not here.
type BoundingBox struct {
	Left, Top, Width, Height int
}

// Clamp returns bb with its vertical extent intersected with [0, maxH);
// the horizontal extent is returned unchanged. Unlike the
// horizontal axis (which wraps in Extract/Assign), the vertical axis
// has no panorama-wide wrap semantics, so Clamp is the only defense
// against a box running past the top or bottom edge.
func (bb BoundingBox) Clamp(maxW, maxH int) BoundingBox {
	left := bb.Left
	top := bb.Top
	bottom := bb.Top + bb.Height

	if top < 0 {
		top = 0
	}
	if bottom > maxH {
		bottom = maxH
	}
	if bottom < top {
		bottom = top
	}

	// Horizontal extent is intentionally NOT clamped against maxW here:
	// a wrap-enabled image may legitimately be asked to extract/assign a
	// box whose Left is negative or whose Left+Width exceeds maxW: it
	// wraps around the meridian. Width is not capped at maxW either: a
	// dilated reconstruction window may be wider than a coarse level, and
	// its wrapped columns must all be present for the crop that follows.
	return BoundingBox{Left: left, Top: top, Width: bb.Width, Height: bottom - top}
}

// Dilate grows bb by n pixels on every side.
func (bb BoundingBox) Dilate(n int) BoundingBox {
	return BoundingBox{
		Left:   bb.Left - n,
		Top:    bb.Top - n,
		Width:  bb.Width + 2*n,
		Height: bb.Height + 2*n,
	}
}

// DoubleSize maps bb from one pyramid level to the next finer level,
// where coordinates and extents double.
func (bb BoundingBox) DoubleSize() BoundingBox {
	return BoundingBox{
		Left:   bb.Left * 2,
		Top:    bb.Top * 2,
		Width:  bb.Width * 2,
		Height: bb.Height * 2,
	}
}

// HalveSize maps bb from one pyramid level to the next coarser level,
// rounding the extent up so a dilated fine-level box always maps to a
// coarse-level box that still covers it.
func (bb BoundingBox) HalveSize() BoundingBox {
	return BoundingBox{
		Left:   divFloor(bb.Left, 2),
		Top:    divFloor(bb.Top, 2),
		Width:  (bb.Width + 1) / 2,
		Height: (bb.Height + 1) / 2,
	}
}

func divFloor(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Empty reports whether bb has no area.
func (bb BoundingBox) Empty() bool {
	return bb.Width <= 0 || bb.Height <= 0
}
