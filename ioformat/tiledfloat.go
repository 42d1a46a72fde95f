// Package ioformat provides serialization for panoblend panoramas and
// input view lists: a self-describing binary float format standing in
// for a production EXR/TIFF codec, and a YAML view manifest standing in
// for an externally-owned scene database.
package ioformat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
)

// magic identifies a panoblend tiled-float panorama file.
var magic = [4]byte{'P', 'B', 'L', 'D'}

const formatVersion = 1

// TiledFloatWriter serializes a *cachedimage.CachedImage[pixel.RGBA]
// as a self-describing binary stream: magic, version, width, height,
// channel count (all little-endian uint32 after the magic), then the
// whole panorama's RGBA float32 data one scanline at a time, top to
// bottom. The stream records no tile size and is not laid out in tiles.
// It implements panoblend.OutputWriter
// structurally, without importing the panoblend package (ioformat sits
// below panoblend in the dependency graph).
type TiledFloatWriter struct {
	w io.Writer
}

// NewTiledFloatWriter wraps w for a single WriteImage call.
func NewTiledFloatWriter(w io.Writer) *TiledFloatWriter {
	return &TiledFloatWriter{w: w}
}

// WriteImage writes img's header and full pixel contents to the
// wrapped writer.
func (tw *TiledFloatWriter) WriteImage(img *cachedimage.CachedImage[pixel.RGBA]) error {
	bw := bufio.NewWriter(tw.w)

	width, height := img.Width(), img.Height()
	header := struct {
		Magic   [4]byte
		Version uint32
		Width   uint32
		Height  uint32
		Channels uint32
	}{magic, formatVersion, uint32(width), uint32(height), 4}

	if err := binary.Write(bw, binary.LittleEndian, header.Magic); err != nil {
		return fmt.Errorf("ioformat: write magic: %w", err)
	}
	for _, v := range []uint32{header.Version, header.Width, header.Height, header.Channels} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("ioformat: write header: %w", err)
		}
	}

	plane, err := img.Extract(cachedimage.BoundingBox{Left: 0, Top: 0, Width: width, Height: height})
	if err != nil {
		return fmt.Errorf("ioformat: extract panorama: %w", err)
	}
	buf := make([]float32, 4*width)
	for y := range height {
		row := plane.Row(y)
		for x, px := range row {
			buf[4*x] = px.R
			buf[4*x+1] = px.G
			buf[4*x+2] = px.B
			buf[4*x+3] = px.A
		}
		if err := binary.Write(bw, binary.LittleEndian, buf); err != nil {
			return fmt.Errorf("ioformat: write row %d: %w", y, err)
		}
	}
	return bw.Flush()
}

// ReadImage reads a stream written by TiledFloatWriter back into a
// plain in-memory plane (not a CachedImage, since the panorama has
// already been fully reconstructed by the time it is written).
func ReadImage(r io.Reader) (*cachedimage.Plane[pixel.RGBA], error) {
	br := bufio.NewReader(r)

	var gotMagic [4]byte
	if err := binary.Read(br, binary.LittleEndian, &gotMagic); err != nil {
		return nil, fmt.Errorf("ioformat: read magic: %w", err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("ioformat: bad magic %v", gotMagic)
	}

	var version, width, height, channels uint32
	for _, dst := range []*uint32{&version, &width, &height, &channels} {
		if err := binary.Read(br, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("ioformat: read header: %w", err)
		}
	}
	if version != formatVersion {
		return nil, fmt.Errorf("ioformat: unsupported version %d", version)
	}
	if channels != 4 {
		return nil, fmt.Errorf("ioformat: unsupported channel count %d", channels)
	}

	plane := cachedimage.NewPlane[pixel.RGBA](int(width), int(height))
	buf := make([]float32, 4*int(width))
	for y := range int(height) {
		if err := binary.Read(br, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("ioformat: read row %d: %w", y, err)
		}
		row := plane.Row(y)
		for x := range row {
			row[x] = pixel.RGBA{R: buf[4*x], G: buf[4*x+1], B: buf[4*x+2], A: buf[4*x+3]}
		}
	}
	return plane, nil
}
