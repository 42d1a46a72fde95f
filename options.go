package panoblend

import "github.com/panoblend/panoblend/internal/workerpool"

// Option configures a Compositer during creation.
//
// Example:
//
//	// Default configuration
//	c, err := panoblend.New(8192, 4096)
//
//	// Custom tile size and resident-tile budget
//	c, err := panoblend.New(8192, 4096,
//		panoblend.WithTileSize(256),
//		panoblend.WithMaxResidentTiles(4096))
type Option func(*config)

// config holds optional configuration for Compositer creation.
type config struct {
	tileSize         int
	levels           int
	maxResidentTiles int
	scratchDir       string
	workers          int
	wrap             bool
}

// defaultConfig returns the default Compositer configuration.
func defaultConfig() config {
	return config{
		tileSize:         512,
		levels:           6,
		maxResidentTiles: 2048,
		scratchDir:       "",
		workers:          0, // 0 means use runtime.GOMAXPROCS(0)
		wrap:             true,
	}
}

// WithTileSize sets the tile edge length, in pixels, used by every
// CachedImage the Compositer allocates. Panorama width and height must
// each be evenly divisible by it.
func WithTileSize(n int) Option {
	return func(c *config) {
		c.tileSize = n
	}
}

// WithLevels sets the number of Laplacian pyramid levels the
// Compositer builds. Level l is panorama width>>l by height>>l, so
// each level must have a non-zero extent.
func WithLevels(n int) Option {
	return func(c *config) {
		c.levels = n
	}
}

// WithMaxResidentTiles caps the number of tiles the underlying
// tilestore.Store keeps resident in memory across all pyramid levels
// combined. Exceeding this budget while every tile is pinned returns
// tilestore.ErrOutOfBudget.
func WithMaxResidentTiles(n int) Option {
	return func(c *config) {
		c.maxResidentTiles = n
	}
}

// WithScratchDir sets the directory used to page evicted tiles to
// disk. If unset, the tilestore uses its own default (see
// tilestore.WithScratchDir).
func WithScratchDir(dir string) Option {
	return func(c *config) {
		c.scratchDir = dir
	}
}

// WithWorkers sets the size of the internal worker pool used for
// tile-parallel and window-parallel dispatch. Zero selects
// runtime.GOMAXPROCS(0) workers.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithWrap records a horizontal wrap-around setting (true by default).
// New does not pass it on: every pyramid level is created with
// wrap-around enabled whatever this option is set to.
func WithWrap(wrap bool) Option {
	return func(c *config) {
		c.wrap = wrap
	}
}

func newPool(c config) *workerpool.Pool {
	if c.workers > 0 {
		return workerpool.New(c.workers)
	}
	return workerpool.New(0)
}
