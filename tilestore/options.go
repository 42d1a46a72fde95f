package tilestore

// Option configures a Store during construction.
//
// Example:
//
//	s := tilestore.New(tilestore.WithScratchDir("/tmp/panoblend"),
//		tilestore.WithMaxResidentTiles(256))
type Option func(*config)

type config struct {
	scratchDir        string
	maxResidentTiles  int
	maxTileBytes      int64
	checkFreeSpace    bool
}

func defaultConfig() config {
	return config{
		scratchDir:       ".",
		maxResidentTiles: 512,
		maxTileBytes:     0, // 0 means no per-tile cap beyond the caller's NewTile size
		checkFreeSpace:   true,
	}
}

// WithScratchDir sets the directory tiles are paged out to when evicted.
// The directory must already exist; Store never creates it.
func WithScratchDir(dir string) Option {
	return func(c *config) { c.scratchDir = dir }
}

// WithMaxResidentTiles sets the hard cap on simultaneously resident
// (in-memory) tiles. Acquire returns ErrOutOfBudget if this cap is
// reached and every resident tile is pinned.
func WithMaxResidentTiles(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxResidentTiles = n
		}
	}
}

// WithMaxTileBytes sets an upper bound on the size of any single tile's
// backing buffer, independent of the per-call size passed to NewTile.
// Zero (the default) leaves tile size unbounded.
func WithMaxTileBytes(n int64) Option {
	return func(c *config) { c.maxTileBytes = n }
}

// WithFreeSpaceCheck enables or disables the pre-flush free-space check
// against the scratch filesystem. Enabled by default.
func WithFreeSpaceCheck(enabled bool) Option {
	return func(c *config) { c.checkFreeSpace = enabled }
}
