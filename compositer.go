package panoblend

import (
	"fmt"
	"sync"

	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/internal/workerpool"
	"github.com/panoblend/panoblend/pixel"
	"github.com/panoblend/panoblend/pyramid"
	"github.com/panoblend/panoblend/tilestore"
)

// OutputWriter consumes the panorama Finish reconstructs. The module's
// implementation is ioformat.TiledFloatWriter; Finish never assumes a
// particular destination.
type OutputWriter interface {
	WriteImage(img *cachedimage.CachedImage[pixel.RGBA]) error
}

// Compositer accumulates warped views into a Laplacian pyramid and
// reconstructs the blended panorama on Finish.
//
// A Compositer is safe for concurrent use: Apply may be called from
// multiple goroutines; Finish and Close exclude any Apply in progress.
type Compositer struct {
	mu    sync.RWMutex
	store *tilestore.Store
	pool  *workerpool.Pool
	pyr   *pyramid.LaplacianPyramid

	width, height int
	tileSize      int
	closed        bool
}

// New creates a Compositer for a panorama of the given width and
// height, both of which must be positive multiples of the configured
// tile size (512 by default).
func New(width, height int, opts ...Option) (*Compositer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width and height must be positive", ErrInvalidConfiguration)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.tileSize <= 0 || width%cfg.tileSize != 0 || height%cfg.tileSize != 0 {
		return nil, fmt.Errorf("%w: width/height must be divisible by tile size %d", ErrInvalidConfiguration, cfg.tileSize)
	}
	if cfg.levels <= 0 {
		return nil, fmt.Errorf("%w: levels must be positive", ErrInvalidConfiguration)
	}

	var storeOpts []tilestore.Option
	storeOpts = append(storeOpts, tilestore.WithMaxResidentTiles(cfg.maxResidentTiles))
	if cfg.scratchDir != "" {
		storeOpts = append(storeOpts, tilestore.WithScratchDir(cfg.scratchDir))
	}
	store := tilestore.New(storeOpts...)
	pool := newPool(cfg)

	pyr := pyramid.New(store, pool, width, height, cfg.tileSize, cfg.tileSize)
	if err := pyr.Initialize(cfg.levels); err != nil {
		pool.Close()
		store.Close()
		return nil, fmt.Errorf("panoblend: initialize pyramid: %w", err)
	}

	Logger().Info("panoblend: compositer created",
		"width", width, "height", height,
		"tile_size", cfg.tileSize, "levels", cfg.levels,
		"max_resident_tiles", cfg.maxResidentTiles, "workers", pool.Workers())

	return &Compositer{
		store:    store,
		pool:     pool,
		pyr:      pyr,
		width:    width,
		height:   height,
		tileSize: cfg.tileSize,
	}, nil
}

// Apply folds one warped view's contribution into every pyramid level.
//
// Apply takes the same write lock Finish does: two views' merges into
// overlapping tiles are each a read-extract/accumulate/write-assign
// sequence, not a single atomic operation, so concurrent Applies over
// the same region could otherwise drop one view's contribution.
func (c *Compositer) Apply(v View) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.pyr.Apply(v); err != nil {
		return fmt.Errorf("panoblend: apply view: %w", err)
	}
	return nil
}

// Augment extends the pyramid to newNumLevels bands, recovering
// approximate color/mask from the current coarsest band and re-running
// the blur/downscale/residual chain down to the new depth. newNumLevels
// must exceed the current level count.
func (c *Compositer) Augment(newNumLevels int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.pyr.Augment(newNumLevels); err != nil {
		return fmt.Errorf("panoblend: augment: %w", err)
	}
	return nil
}

// Finish reconstructs the blended panorama and hands it to w. windowSize
// controls the reconstruction's tile-processing granularity; zero
// selects the pyramid package's default (512).
func (c *Compositer) Finish(w OutputWriter, windowSize int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	out, err := c.pyr.Rebuild(windowSize)
	if err != nil {
		return fmt.Errorf("panoblend: rebuild: %w", err)
	}
	if err := w.WriteImage(out); err != nil {
		return fmt.Errorf("panoblend: write output: %w", err)
	}
	return nil
}

// Stats reports the underlying tile store's current residency.
func (c *Compositer) Stats() tilestore.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Stats()
}

// Close releases the worker pool and flushes/releases the tile store.
// The Compositer must not be used afterward.
func (c *Compositer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.pool.Close()
	return c.store.Close()
}
