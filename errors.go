package panoblend

import (
	"errors"

	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pyramid"
	"github.com/panoblend/panoblend/tilestore"
)

// Sentinel errors surfaced by Compositer. Errors returned by the
// underlying tilestore/cachedimage/pyramid packages are wrapped so
// callers can errors.Is against either the package-specific sentinel
// or its panoblend alias.
var (
	// ErrOutOfBudget is returned when a tile acquisition would exceed
	// the configured resident-tile budget and no tile can be evicted.
	ErrOutOfBudget = tilestore.ErrOutOfBudget

	// ErrIO is returned when paging a tile to or from the scratch
	// directory fails.
	ErrIO = tilestore.ErrIO

	// ErrDimensionMismatch is returned when a View's planes, or the
	// configured panorama dimensions, are not compatible with the
	// configured tile size.
	ErrDimensionMismatch = cachedimage.ErrDimensionMismatch

	// ErrInvalidConfiguration is returned by New when the supplied
	// dimensions or options cannot produce a valid Compositer.
	ErrInvalidConfiguration = errors.New("panoblend: invalid configuration")

	// ErrClosed is returned by any Compositer method called after Close.
	ErrClosed = errors.New("panoblend: compositer closed")

	// ErrNotInitialized mirrors pyramid.ErrNotInitialized, surfaced
	// when Rebuild or Finish runs before any levels have been
	// allocated.
	ErrNotInitialized = pyramid.ErrNotInitialized
)
