// Package cachedimage implements the out-of-core, tile-cached 2D image
// abstraction the pyramid and compositer operate on: a logical W x H
// grid of typed pixels physically stored as fixed-size byte tiles in a
// tilestore.Store, with horizontal wrap-around (360 deg panorama
// continuity) resolved only at the Extract/Assign boundary.
package cachedimage

import (
	"fmt"
	"unsafe"

	"github.com/panoblend/panoblend/internal/workerpool"
	"github.com/panoblend/panoblend/tilestore"
)

// CachedImage is a tile-backed, generic 2D image. T is the per-pixel
// element type (pixel.RGB, float32 weight, uint8 mask, pixel.RGBA).
type CachedImage[T any] struct {
	store *tilestore.Store
	pool  *workerpool.Pool

	width, height       int
	tileWidth, tileHeight int
	tilesX, tilesY      int
	wrap                bool // horizontal wrap-around enabled

	tiles []tilestore.TileID // row-major, len == tilesX*tilesY
}

// Create allocates a new CachedImage of the given logical dimensions,
// tiled at tileWidth x tileHeight. width and height must be evenly
// divisible by the tile dimensions (the panorama-size divisibility
// constraint); otherwise ErrDimensionMismatch is returned.
//
// wrap enables horizontal wrap-around addressing in Extract/Assign,
// appropriate for full-panorama-width color/weight levels; interior
// working buffers that never span the meridian should pass false.
func Create[T any](store *tilestore.Store, pool *workerpool.Pool, width, height, tileWidth, tileHeight int, wrap bool) (*CachedImage[T], error) {
	if width <= 0 || height <= 0 || tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: non-positive dimension", ErrDimensionMismatch)
	}
	if width%tileWidth != 0 || height%tileHeight != 0 {
		return nil, fmt.Errorf("%w: %dx%d not divisible by tile %dx%d", ErrDimensionMismatch, width, height, tileWidth, tileHeight)
	}

	tilesX := width / tileWidth
	tilesY := height / tileHeight

	img := &CachedImage[T]{
		store:      store,
		pool:       pool,
		width:      width,
		height:     height,
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
		tilesX:     tilesX,
		tilesY:     tilesY,
		wrap:       wrap,
		tiles:      make([]tilestore.TileID, tilesX*tilesY),
	}

	var zero T
	tileBytes := tileWidth * tileHeight * int(unsafe.Sizeof(zero))
	for i := range img.tiles {
		id, err := store.NewTile(tileBytes)
		if err != nil {
			return nil, err
		}
		img.tiles[i] = id
	}
	return img, nil
}

// Width returns the image's logical width in pixels.
func (img *CachedImage[T]) Width() int { return img.width }

// Height returns the image's logical height in pixels.
func (img *CachedImage[T]) Height() int { return img.height }

// Wrap reports whether this image resolves horizontal out-of-range
// column indices by wrapping modulo Width instead of treating them as
// out of bounds.
func (img *CachedImage[T]) Wrap() bool { return img.wrap }

// tileAsSlice reinterprets a tile's raw byte buffer as a []T of
// tileWidth*tileHeight elements. This is the one place CachedImage
// steps outside the type system: tiles are allocated with exactly
// tileWidth*tileHeight*sizeof(T) bytes by Create, so the reinterpretation
// is always in-bounds and correctly aligned for the plain data types
// (pixel.RGB, pixel.RGBA, float32, uint8) this module instantiates T
// with.
func tileAsSlice[T any](data []byte, n int) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), n)
}

// Fill sets every pixel in the image to v.
func (img *CachedImage[T]) Fill(v T) error {
	return img.forEachTile(tilestore.ReadWrite, func(tileData []T) error {
		for i := range tileData {
			tileData[i] = v
		}
		return nil
	})
}

// PerPixel applies fn to every pixel in the image in place. fn receives
// the pixel's logical (x, y) coordinate and current value and returns
// the new value. Tiles are processed in parallel; fn must be safe to
// call concurrently from multiple goroutines for different tiles.
func (img *CachedImage[T]) PerPixel(fn func(x, y int, v T) T) error {
	return img.forEachTileCoord(tilestore.ReadWrite, func(tx, ty int, tileData []T) error {
		baseX := tx * img.tileWidth
		baseY := ty * img.tileHeight
		for ly := range img.tileHeight {
			row := tileData[ly*img.tileWidth : (ly+1)*img.tileWidth]
			y := baseY + ly
			for lx := range img.tileWidth {
				row[lx] = fn(baseX+lx, y, row[lx])
			}
		}
		return nil
	})
}

// forEachTile acquires every tile (with the given mode) and calls fn
// with its data reinterpreted as []T, dispatched across the worker
// pool. The first error encountered is returned; other tiles still in
// flight are allowed to finish.
func (img *CachedImage[T]) forEachTile(mode tilestore.AccessMode, fn func(tileData []T) error) error {
	return img.forEachTileCoord(mode, func(_, _ int, tileData []T) error {
		return fn(tileData)
	})
}

func (img *CachedImage[T]) forEachTileCoord(mode tilestore.AccessMode, fn func(tx, ty int, tileData []T) error) error {
	n := len(img.tiles)
	errs := make([]error, n)
	perTile := img.tileWidth * img.tileHeight

	work := func(i int) {
		tx := i % img.tilesX
		ty := i / img.tilesX
		data, release, err := img.store.Acquire(img.tiles[i], mode)
		if err != nil {
			errs[i] = err
			return
		}
		defer release()
		errs[i] = fn(tx, ty, tileAsSlice[T](data, perTile))
	}

	if img.pool != nil {
		img.pool.DoRange(n, work)
	} else {
		for i := range n {
			work(i)
		}
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// wrapX resolves a logical column index against this image's width. For
// wrap-enabled images, out-of-range columns wrap modulo width (the
// 360-degree meridian continuity); for non-wrap images, out-of-range
// columns return ok=false.
func (img *CachedImage[T]) wrapX(x int) (int, bool) {
	if x >= 0 && x < img.width {
		return x, true
	}
	if !img.wrap {
		return 0, false
	}
	m := x % img.width
	if m < 0 {
		m += img.width
	}
	return m, true
}

// pixelAt reads the pixel at logical (x, y), applying horizontal wrap.
// Returns ok=false if the coordinate is out of bounds (vertically, or
// horizontally on a non-wrap image).
func (img *CachedImage[T]) pixelAt(x, y int) (T, bool) {
	var zero T
	if y < 0 || y >= img.height {
		return zero, false
	}
	wx, ok := img.wrapX(x)
	if !ok {
		return zero, false
	}
	tx := wx / img.tileWidth
	ty := y / img.tileHeight
	lx := wx % img.tileWidth
	ly := y % img.tileHeight

	tileIdx := ty*img.tilesX + tx
	data, release, err := img.store.Acquire(img.tiles[tileIdx], tilestore.ReadOnly)
	if err != nil {
		return zero, false
	}
	defer release()
	slice := tileAsSlice[T](data, img.tileWidth*img.tileHeight)
	return slice[ly*img.tileWidth+lx], true
}

// setPixelAt writes v at logical (x, y), applying horizontal wrap. It is
// a no-op if the coordinate is out of bounds.
func (img *CachedImage[T]) setPixelAt(x, y int, v T) error {
	if y < 0 || y >= img.height {
		return nil
	}
	wx, ok := img.wrapX(x)
	if !ok {
		return nil
	}
	tx := wx / img.tileWidth
	ty := y / img.tileHeight
	lx := wx % img.tileWidth
	ly := y % img.tileHeight

	tileIdx := ty*img.tilesX + tx
	data, release, err := img.store.Acquire(img.tiles[tileIdx], tilestore.ReadWrite)
	if err != nil {
		return err
	}
	defer release()
	slice := tileAsSlice[T](data, img.tileWidth*img.tileHeight)
	slice[ly*img.tileWidth+lx] = v
	return nil
}

// Extract copies the pixels covered by bb into a newly allocated Plane.
// Horizontal out-of-range columns wrap (for wrap-enabled images);
// vertical out-of-range rows are left at T's zero value. bb should
// already be vertically clamped by the caller via BoundingBox.Clamp if
// a partial edge read is not desired.
func (img *CachedImage[T]) Extract(bb BoundingBox) (*Plane[T], error) {
	if bb.Empty() {
		return nil, fmt.Errorf("%w: empty bounding box", ErrDimensionMismatch)
	}
	plane := NewPlane[T](bb.Width, bb.Height)
	for ly := range bb.Height {
		y := bb.Top + ly
		for lx := range bb.Width {
			x := bb.Left + lx
			if v, ok := img.pixelAt(x, y); ok {
				plane.Set(lx, ly, v)
			}
		}
	}
	return plane, nil
}

// Assign writes plane's pixels into the image at bb. plane's dimensions
// must match bb exactly. Horizontal out-of-range columns wrap; vertical
// out-of-range rows are silently skipped.
func (img *CachedImage[T]) Assign(bb BoundingBox, plane *Plane[T]) error {
	if plane.Width != bb.Width || plane.Height != bb.Height {
		return fmt.Errorf("%w: plane %dx%d does not match box %dx%d", ErrDimensionMismatch, plane.Width, plane.Height, bb.Width, bb.Height)
	}
	for ly := range bb.Height {
		y := bb.Top + ly
		for lx := range bb.Width {
			x := bb.Left + lx
			if err := img.setPixelAt(x, y, plane.At(lx, ly)); err != nil {
				return err
			}
		}
	}
	return nil
}
