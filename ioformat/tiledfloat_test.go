package ioformat

import (
	"bytes"
	"testing"

	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/internal/workerpool"
	"github.com/panoblend/panoblend/pixel"
	"github.com/panoblend/panoblend/tilestore"
)

func TestTiledFloatRoundTrip(t *testing.T) {
	store := tilestore.New(tilestore.WithScratchDir(t.TempDir()), tilestore.WithFreeSpaceCheck(false))
	pool := workerpool.New(2)
	t.Cleanup(func() {
		pool.Close()
		store.Close()
	})

	img, err := cachedimage.Create[pixel.RGBA](store, pool, 8, 4, 4, 4, true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := pixel.RGBA{R: 0.25, G: 0.5, B: 0.75, A: 1}
	if err := img.Fill(want); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	var buf bytes.Buffer
	if err := NewTiledFloatWriter(&buf).WriteImage(img); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}

	plane, err := ReadImage(&buf)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if plane.Width != 8 || plane.Height != 4 {
		t.Fatalf("dims = %dx%d, want 8x4", plane.Width, plane.Height)
	}
	for i, px := range plane.Data {
		if px != want {
			t.Fatalf("pixel %d = %+v, want %+v", i, px, want)
		}
	}
}

func TestReadImageRejectsBadMagic(t *testing.T) {
	_, err := ReadImage(bytes.NewReader([]byte("not a panoblend file at all")))
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
}
