package tilestore

import "errors"

// Sentinel errors returned by Store operations. Callers should compare
// against these with errors.Is; wrapped errors carry additional context
// via fmt.Errorf("%w: ...").
var (
	// ErrOutOfBudget is returned by Acquire when every resident tile is
	// itself pinned (acquired) and no tile can be evicted to make room.
	ErrOutOfBudget = errors.New("tilestore: out of resident tile budget")

	// ErrIO is returned when a scratch-file flush or load fails, including
	// when the scratch filesystem has no free space for a flush.
	ErrIO = errors.New("tilestore: scratch i/o failure")

	// ErrUnknownTile is returned when an operation references a TileID
	// the Store never allocated.
	ErrUnknownTile = errors.New("tilestore: unknown tile id")

	// ErrClosed is returned by operations on a Store that has been closed.
	ErrClosed = errors.New("tilestore: store is closed")
)
