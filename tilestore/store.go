// Package tilestore implements an out-of-core, LRU-paged byte-tile
// cache: a fixed budget of tiles is kept resident in memory, with the
// rest paged out to a scratch directory and re-loaded on demand.
//
// Store is the unit CachedImage builds its tiled addressing on top of;
// it knows nothing about pixel formats, only fixed-size byte buffers
// keyed by a stable TileID.
package tilestore

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// TileID is a process-unique, stable handle to a tile. Identity survives
// eviction and reload.
type TileID uint64

// AccessMode controls whether Release marks a tile dirty.
type AccessMode int

const (
	// ReadOnly indicates the caller will not mutate the acquired buffer.
	ReadOnly AccessMode = iota
	// ReadWrite indicates the caller may mutate the buffer; Release marks
	// the tile dirty so the next eviction flushes it to scratch.
	ReadWrite
)

// record is a Store's bookkeeping for one tile.
type record struct {
	id   TileID
	mu   sync.Mutex // serializes Acquire/Release of this one tile
	size int

	// Fields below are guarded by Store.mu, not r.mu, since eviction
	// needs to inspect/mutate them while picking a victim.
	data     []byte // nil when not resident
	resident bool
	dirty    bool
	pinned   bool
	path     string   // scratch filename, assigned lazily on first flush
	node     *lruNode // nil while pinned or never linked
}

// Store manages a budgeted set of resident byte tiles, paging the least
// recently used ones out to disk when the budget is exceeded.
//
// Thread safety: Store is safe for concurrent use. Acquiring distinct
// tiles concurrently proceeds independently; acquiring the same tile
// concurrently serializes on that tile's own mutex.
type Store struct {
	cfg config

	mu       sync.Mutex
	records  map[TileID]*record
	lru      *lruList
	resident int
	closed   bool

	nextID atomic.Uint64
}

// New creates a Store. The scratch directory (config.scratchDir) must
// already exist.
func New(opts ...Option) *Store {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Store{
		cfg:     cfg,
		records: make(map[TileID]*record),
		lru:     newLRUList(),
	}
}

// NewTile allocates a new, resident, zero-filled tile of size bytes and
// returns its id. The tile counts against the resident budget
// immediately and is placed at the front of the LRU list, so it is
// eligible for eviction at once. It starts dirty, so its first eviction
// writes a scratch file.
func (s *Store) NewTile(size int) (TileID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if s.cfg.maxTileBytes > 0 && int64(size) > s.cfg.maxTileBytes {
		return 0, fmt.Errorf("%w: tile size %d exceeds max %d", ErrIO, size, s.cfg.maxTileBytes)
	}

	if err := s.makeRoomLocked(1); err != nil {
		return 0, err
	}

	id := TileID(s.nextID.Add(1))
	r := &record{
		id:       id,
		size:     size,
		data:     make([]byte, size),
		resident: true,
		dirty:    true, // a freshly-allocated tile has never been flushed
	}
	r.node = s.lru.PushFront(id)
	s.resident++
	s.records[id] = r
	return id, nil
}

// Acquire pins tile id resident in memory and returns its backing
// buffer along with a release function the caller must call exactly
// once. While acquired, the tile is ineligible for eviction.
//
// Acquire may block briefly while evicting other tiles to make room,
// but never blocks waiting on another goroutine's Acquire of the same
// tile beyond that tile's own critical section.
func (s *Store) Acquire(id TileID, mode AccessMode) ([]byte, func(), error) {
	s.mu.Lock()
	r, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownTile, id)
	}
	s.mu.Unlock()

	r.mu.Lock() // serialize this tile's own acquire/release pairs

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		r.mu.Unlock()
		return nil, nil, ErrClosed
	}

	if r.resident {
		// Pin: remove from LRU consideration.
		if r.node != nil {
			s.lru.Remove(r.node)
			r.node = nil
		}
	} else {
		if err := s.makeRoomLocked(1); err != nil {
			s.mu.Unlock()
			r.mu.Unlock()
			return nil, nil, err
		}
		r.data = make([]byte, r.size)
		if err := s.load(r); err != nil {
			s.mu.Unlock()
			r.mu.Unlock()
			return nil, nil, err
		}
		r.resident = true
		r.node = nil
		s.resident++
	}
	r.pinned = true
	data := r.data
	s.mu.Unlock()

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		s.mu.Lock()
		if mode == ReadWrite {
			r.dirty = true
		}
		r.pinned = false
		r.node = s.lru.PushFront(r.id)
		s.mu.Unlock()
		r.mu.Unlock()
	}

	return data, release, nil
}

// makeRoomLocked evicts unpinned resident tiles until at least `need`
// additional resident slots are available, or returns ErrOutOfBudget if
// every resident tile is pinned. Must be called with s.mu held.
func (s *Store) makeRoomLocked(need int) error {
	for s.resident+need > s.cfg.maxResidentTiles {
		victimID, ok := s.lru.RemoveOldest()
		if !ok {
			return ErrOutOfBudget
		}
		victim := s.records[victimID]
		if err := s.flush(victim); err != nil {
			return err
		}
		victim.data = nil
		victim.resident = false
		victim.node = nil
		s.resident--
	}
	return nil
}

// Delete removes a tile permanently, discarding both its resident buffer
// and any scratch file. A deleted TileID must not be Acquired again.
func (s *Store) Delete(id TileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTile, id)
	}
	if r.node != nil {
		s.lru.Remove(r.node)
	}
	if r.resident {
		s.resident--
	}
	if r.path != "" {
		removeScratchFile(r.path)
	}
	delete(s.records, id)
	return nil
}

// Stats reports current residency accounting, for tests and diagnostics.
type Stats struct {
	ResidentTiles int
	TotalTiles    int
}

// Stats returns a snapshot of the store's residency accounting.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{ResidentTiles: s.resident, TotalTiles: len(s.records)}
}

// Close flushes all dirty resident tiles and marks the store unusable
// for further Acquire/NewTile calls. Scratch files are left on disk.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	for _, r := range s.records {
		if r.resident {
			if err := s.flush(r); err != nil {
				return err
			}
		}
	}
	s.closed = true
	return nil
}
