package cachedimage

import (
	"testing"

	"github.com/panoblend/panoblend/internal/workerpool"
	"github.com/panoblend/panoblend/tilestore"
)

func newTestImage[T any](t *testing.T, w, h, tw, th int, wrap bool) *CachedImage[T] {
	t.Helper()
	store := tilestore.New(tilestore.WithScratchDir(t.TempDir()), tilestore.WithFreeSpaceCheck(false))
	pool := workerpool.New(2)
	t.Cleanup(func() {
		pool.Close()
		store.Close()
	})
	img, err := Create[T](store, pool, w, h, tw, th, wrap)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return img
}

func TestFillAndExtractRoundTrip(t *testing.T) {
	img := newTestImage[float32](t, 16, 8, 4, 4, false)

	if err := img.Fill(2.5); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	plane, err := img.Extract(BoundingBox{Left: 2, Top: 1, Width: 5, Height: 3})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i, v := range plane.Data {
		if v != 2.5 {
			t.Fatalf("plane.Data[%d] = %v, want 2.5", i, v)
		}
	}
}

func TestAssignThenExtract(t *testing.T) {
	img := newTestImage[float32](t, 16, 8, 4, 4, false)
	_ = img.Fill(0)

	bb := BoundingBox{Left: 3, Top: 2, Width: 4, Height: 3}
	plane := NewPlane[float32](bb.Width, bb.Height)
	for i := range plane.Data {
		plane.Data[i] = float32(i) + 1
	}
	if err := img.Assign(bb, plane); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	got, err := img.Extract(bb)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i := range got.Data {
		if got.Data[i] != plane.Data[i] {
			t.Fatalf("got.Data[%d] = %v, want %v", i, got.Data[i], plane.Data[i])
		}
	}
}

func TestHorizontalWrap(t *testing.T) {
	img := newTestImage[float32](t, 16, 4, 4, 4, true)
	_ = img.Fill(0)

	// Write a value at column 0 and expect it visible when extracting a
	// box that wraps around the meridian (off_x = W - 2).
	bb := BoundingBox{Left: 0, Top: 0, Width: 1, Height: 1}
	plane := NewPlane[float32](1, 1)
	plane.Set(0, 0, 9)
	if err := img.Assign(bb, plane); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	wrapBox := BoundingBox{Left: 14, Top: 0, Width: 4, Height: 1}
	got, err := img.Extract(wrapBox)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// Columns 14,15,16(=0),17(=1) -> index 2 should be the value we wrote.
	if got.At(2, 0) != 9 {
		t.Fatalf("wrapped column value = %v, want 9", got.At(2, 0))
	}
}

func TestCreateRejectsIndivisibleDimensions(t *testing.T) {
	store := tilestore.New(tilestore.WithScratchDir(t.TempDir()), tilestore.WithFreeSpaceCheck(false))
	defer store.Close()
	pool := workerpool.New(1)
	defer pool.Close()

	if _, err := Create[float32](store, pool, 10, 8, 4, 4, false); err == nil {
		t.Fatal("expected ErrDimensionMismatch, got nil")
	}
}

func TestBoundingBoxDilateAndDoubleSize(t *testing.T) {
	bb := BoundingBox{Left: 10, Top: 10, Width: 20, Height: 20}
	d := bb.Dilate(5)
	want := BoundingBox{Left: 5, Top: 5, Width: 30, Height: 30}
	if d != want {
		t.Fatalf("Dilate = %+v, want %+v", d, want)
	}

	ds := bb.DoubleSize()
	wantDS := BoundingBox{Left: 20, Top: 20, Width: 40, Height: 40}
	if ds != wantDS {
		t.Fatalf("DoubleSize = %+v, want %+v", ds, wantDS)
	}
}

func TestBoundingBoxClampVerticalOnly(t *testing.T) {
	bb := BoundingBox{Left: -4, Top: -2, Width: 10, Height: 10}
	c := bb.Clamp(16, 8)
	if c.Top != 0 {
		t.Fatalf("Top = %d, want 0", c.Top)
	}
	if c.Left != -4 {
		t.Fatalf("Left = %d, want -4 (horizontal is not clamped)", c.Left)
	}
	if c.Height != 8 {
		t.Fatalf("Height = %d, want 8 ([-2, 8) intersected with [0, 8))", c.Height)
	}
}
