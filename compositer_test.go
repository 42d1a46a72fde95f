package panoblend

import (
	"bytes"
	"testing"

	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/ioformat"
	"github.com/panoblend/panoblend/pixel"
)

func newTestCompositer(t *testing.T, w, h int) *Compositer {
	t.Helper()
	c, err := New(w, h,
		WithTileSize(4),
		WithLevels(2),
		WithScratchDir(t.TempDir()),
		WithWorkers(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

type sliceWriter struct {
	buf bytes.Buffer
}

func (s *sliceWriter) WriteImage(img *cachedimage.CachedImage[pixel.RGBA]) error {
	return ioformat.NewTiledFloatWriter(&s.buf).WriteImage(img)
}

func TestCompositerApplyAndFinish(t *testing.T) {
	c := newTestCompositer(t, 16, 8)

	color := cachedimage.NewPlane[pixel.RGB](16, 8)
	mask := cachedimage.NewPlane[uint8](16, 8)
	for i := range color.Data {
		color.Data[i] = pixel.RGB{R: 0.6, G: 0.2, B: 0.1}
		mask.Data[i] = 1
	}
	v := NewView(color, mask, nil, 0, 0)
	if err := c.Apply(v); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	w := &sliceWriter{}
	if err := c.Finish(w, 8); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	out, err := ioformat.ReadImage(bytes.NewReader(w.buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	mid := out.At(8, 4)
	if mid.A != 1 {
		t.Fatalf("alpha = %v, want 1 inside the covered view", mid.A)
	}
	if diff := mid.R - 0.6; diff > 0.1 || diff < -0.1 {
		t.Fatalf("R = %v, want ~0.6", mid.R)
	}
}

func TestCompositerRejectsIndivisibleDimensions(t *testing.T) {
	_, err := New(17, 8, WithTileSize(4))
	if err == nil {
		t.Fatal("expected ErrInvalidConfiguration for non-divisible width")
	}
}

func TestCompositerApplyAfterCloseFails(t *testing.T) {
	c := newTestCompositer(t, 8, 8)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	color := cachedimage.NewPlane[pixel.RGB](8, 8)
	mask := cachedimage.NewPlane[uint8](8, 8)
	v := NewView(color, mask, nil, 0, 0)
	if err := c.Apply(v); err != ErrClosed {
		t.Fatalf("Apply after Close = %v, want ErrClosed", err)
	}
}

func TestCompositerStatsReportsResidency(t *testing.T) {
	c := newTestCompositer(t, 16, 8)
	stats := c.Stats()
	if stats.TotalTiles == 0 {
		t.Fatal("expected nonzero total tiles after Initialize")
	}
}
