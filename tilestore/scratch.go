package tilestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// scratchPath assigns and returns the on-disk path for a tile's scratch
// file, creating the name (but not the file) on first use. Per spec, the
// scratch filename is <scratch_dir>/<uuid>.tile; the uuid is only minted
// when a tile is first flushed, so a tile that is evicted while clean
// and never flushed costs no filesystem name.
func (s *Store) scratchPath(r *record) string {
	if r.path == "" {
		r.path = filepath.Join(s.cfg.scratchDir, uuid.NewString()+".tile")
	}
	return r.path
}

// flush writes r's resident data to its scratch file, minting the file
// name if needed. Called with s.mu held, either on an unpinned victim
// already removed from the LRU list (eviction) or from Close.
func (s *Store) flush(r *record) error {
	if !r.dirty {
		// Clean tiles that were already flushed once still have valid
		// on-disk contents; nothing to do. Clean tiles never flushed
		// don't need a file at all (their zero value is implicit).
		return nil
	}

	path := s.scratchPath(r)

	if s.cfg.checkFreeSpace {
		if err := checkFreeSpace(s.cfg.scratchDir, int64(len(r.data))); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	if err := os.WriteFile(path, r.data, 0o600); err != nil {
		return fmt.Errorf("%w: flush tile %d: %v", ErrIO, r.id, err)
	}
	r.dirty = false
	return nil
}

// load reads r's scratch file back into r.data. Called with r.mu held
// and r.data already allocated to the correct size.
func (s *Store) load(r *record) error {
	if r.path == "" {
		// Never flushed: the tile's resident contents were never written
		// out, so there is nothing on disk to differ from a zeroed
		// buffer. Leave data as allocated (zero).
		return nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("%w: load tile %d: %v", ErrIO, r.id, err)
	}
	if len(data) != len(r.data) {
		return fmt.Errorf("%w: load tile %d: size mismatch (have %d, want %d)", ErrIO, r.id, len(data), len(r.data))
	}
	copy(r.data, data)
	return nil
}

// removeScratchFile best-effort deletes a tile's scratch file. Errors
// are not surfaced: a leaked scratch file on delete is not worth
// failing the caller's Delete over.
func removeScratchFile(path string) {
	_ = os.Remove(path)
}

// checkFreeSpace fails fast with an error if dir's filesystem does not
// have at least need bytes free, rather than letting a short write
// silently truncate a tile file.
func checkFreeSpace(dir string, need int64) error {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		// If we can't stat the filesystem, don't block the flush on it;
		// the subsequent write will surface a real error if one exists.
		return nil
	}
	available := int64(st.Bavail) * int64(st.Bsize)
	if available < need {
		return fmt.Errorf("insufficient free space in %s: need %d, have %d", dir, need, available)
	}
	return nil
}
