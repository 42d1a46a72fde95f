// Package panoblend provides an out-of-core panorama compositing engine.
//
// # Overview
//
// panoblend is a pure Go library for compositing many overlapping
// camera views into a single large equirectangular panorama using
// multi-band (Laplacian pyramid) blending. It is built around a
// tile-cached image abstraction that keeps only a bounded number of
// tiles resident in memory at once, paging the rest to a scratch
// directory on disk, so panoramas far larger than available RAM can be
// composited.
//
// # Quick Start
//
//	c, err := panoblend.New(8192, 4096)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	err = c.Apply(panoblend.View{
//		Color:   colorPlane,
//		Mask:    maskPlane,
//		Weight:  weightPlane,
//		OffsetX: 1024,
//		OffsetY: 512,
//	})
//
//	err = c.Finish(ioformat.NewTiledFloatWriter(w), 0)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Compositer, View, Option, OutputWriter (this package)
//   - tilestore: the LRU tile cache with disk paging
//   - cachedimage: a generic tile-backed 2D image over tilestore
//   - kernel: separable Gaussian blur, resample, and edge-aware kernels
//   - pyramid: the Laplacian pyramid algorithm itself
//   - gpuaccel: pluggable CPU/GPU convolution backends
//   - ioformat: panorama and view-manifest serialization
//
// # Coordinate System
//
// Panorama coordinates have their origin (0,0) at the top-left. The
// horizontal axis wraps around at the panorama width (suited to
// 360-degree equirectangular panoramas); the vertical axis always
// clamps. Every pyramid level wraps horizontally; WithWrap(false) does
// not turn this off.
//
// # Concurrency
//
// A Compositer is safe for concurrent use: Apply calls may run from
// multiple goroutines, serialized internally by a read/write lock that
// also excludes Finish while views are being applied.
package panoblend

// Version information.
const (
	// Version is the current version of the library.
	Version = "0.1.0"

	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)
