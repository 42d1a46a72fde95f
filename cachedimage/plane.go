package cachedimage

// Plane is a small, tile-store-independent in-memory W x H buffer of a
// single element type. Kernels and the pyramid operate on Plane values;
// CachedImage.Extract/Assign are the only bridge between a Plane and
// tile-backed storage, which keeps horizontal wrap-around out of every
// pure kernel (per the panorama-continuity design rule: wrap lives at
// the cache boundary, never inside a pixel kernel).
type Plane[T any] struct {
	Width, Height int
	Data          []T
}

// NewPlane allocates a zero-valued w x h plane.
func NewPlane[T any](w, h int) *Plane[T] {
	return &Plane[T]{Width: w, Height: h, Data: make([]T, w*h)}
}

// At returns the value at (x, y). Callers are expected to stay within
// bounds; Plane performs no bounds checking beyond what a slice index
// gives for free, matching the pure-kernel contract that planes are
// always pre-sized correctly by their caller.
func (p *Plane[T]) At(x, y int) T {
	return p.Data[y*p.Width+x]
}

// Set stores v at (x, y).
func (p *Plane[T]) Set(x, y int, v T) {
	p.Data[y*p.Width+x] = v
}

// Row returns the slice of Data backing row y, for tight inner loops.
func (p *Plane[T]) Row(y int) []T {
	return p.Data[y*p.Width : (y+1)*p.Width]
}

// Fill sets every element to v.
func (p *Plane[T]) Fill(v T) {
	for i := range p.Data {
		p.Data[i] = v
	}
}

// Sub returns a newly allocated plane containing the w x h region of p
// starting at (left, top). Used by the pyramid's windowed reconstruction
// to crop a dilated working plane down to the region it actually needs
// to contribute to the next stage.
func (p *Plane[T]) Sub(left, top, w, h int) *Plane[T] {
	out := NewPlane[T](w, h)
	for y := range h {
		srcRow := p.Row(top + y)[left : left+w]
		copy(out.Row(y), srcRow)
	}
	return out
}

// Clone returns a deep copy of p.
func (p *Plane[T]) Clone() *Plane[T] {
	out := &Plane[T]{Width: p.Width, Height: p.Height, Data: make([]T, len(p.Data))}
	copy(out.Data, p.Data)
	return out
}
