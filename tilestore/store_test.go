package tilestore

import (
	"os"
	"testing"
)

func newTestStore(t *testing.T, maxResident int) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(WithScratchDir(dir), WithMaxResidentTiles(maxResident), WithFreeSpaceCheck(false))
}

func TestNewTileAcquireRelease(t *testing.T) {
	s := newTestStore(t, 4)
	defer s.Close()

	id, err := s.NewTile(16)
	if err != nil {
		t.Fatalf("NewTile: %v", err)
	}

	data, release, err := s.Acquire(id, ReadWrite)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if len(data) != 16 {
		t.Fatalf("len(data) = %d, want 16", len(data))
	}
	data[0] = 0xAB
	release()

	data2, release2, err := s.Acquire(id, ReadOnly)
	if err != nil {
		t.Fatalf("Acquire 2: %v", err)
	}
	defer release2()
	if data2[0] != 0xAB {
		t.Fatalf("data2[0] = %x, want 0xAB", data2[0])
	}
}

func TestEvictionPersistsToScratch(t *testing.T) {
	s := newTestStore(t, 2)
	defer s.Close()

	ids := make([]TileID, 4)
	for i := range ids {
		id, err := s.NewTile(8)
		if err != nil {
			t.Fatalf("NewTile %d: %v", i, err)
		}
		data, release, err := s.Acquire(id, ReadWrite)
		if err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
		data[0] = byte(i + 1)
		release()
		ids[i] = id
	}

	stats := s.Stats()
	if stats.ResidentTiles > 2 {
		t.Fatalf("resident tiles = %d, want <= 2", stats.ResidentTiles)
	}

	for i, id := range ids {
		data, release, err := s.Acquire(id, ReadOnly)
		if err != nil {
			t.Fatalf("re-Acquire %d: %v", i, err)
		}
		if data[0] != byte(i+1) {
			t.Fatalf("tile %d: data[0] = %d, want %d", i, data[0], i+1)
		}
		release()
	}
}

func TestAcquireOutOfBudgetWhenAllPinned(t *testing.T) {
	s := newTestStore(t, 2)
	defer s.Close()

	id1, _ := s.NewTile(8)
	id2, _ := s.NewTile(8)
	id3, _ := s.NewTile(8)

	_, release1, err := s.Acquire(id1, ReadOnly)
	if err != nil {
		t.Fatalf("Acquire id1: %v", err)
	}
	defer release1()
	_, release2, err := s.Acquire(id2, ReadOnly)
	if err != nil {
		t.Fatalf("Acquire id2: %v", err)
	}
	defer release2()

	if _, _, err := s.Acquire(id3, ReadOnly); err == nil {
		t.Fatal("expected ErrOutOfBudget, got nil")
	}
}

func TestDeleteRemovesScratchFile(t *testing.T) {
	s := newTestStore(t, 1)
	defer s.Close()

	id1, _ := s.NewTile(8)
	_, release1, err := s.Acquire(id1, ReadWrite)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	release1()

	// Force id1 to flush to scratch by allocating a second tile while the
	// budget is 1.
	id2, _ := s.NewTile(8)
	data2, release2, err := s.Acquire(id2, ReadWrite)
	if err != nil {
		t.Fatalf("Acquire id2: %v", err)
	}
	data2[0] = 1
	release2()

	s.mu.Lock()
	r1 := s.records[id1]
	path := r1.path
	s.mu.Unlock()
	if path == "" {
		t.Fatal("expected id1 to have been flushed to a scratch path")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("scratch file missing: %v", err)
	}

	if err := s.Delete(id1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected scratch file removed, stat err = %v", err)
	}
}
