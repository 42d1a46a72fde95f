package ioformat

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
	"gopkg.in/yaml.v2"

	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
)

// ViewEntry describes one view's inputs and placement, as read from a
// ViewManifest YAML file. Color and Mask are paths to PNG images; Weight
// is optional and, when empty, every masked-in pixel is given weight 1.
type ViewEntry struct {
	Color   string `yaml:"color"`
	Mask    string `yaml:"mask"`
	Weight  string `yaml:"weight,omitempty"`
	OffsetX int    `yaml:"offset_x"`
	OffsetY int    `yaml:"offset_y"`
}

// ViewManifest is a minimal YAML stand-in for the excluded
// scene-database view list: an ordered set of (color, mask, weight,
// offset) tuples to feed into Compositer.Apply in order.
type ViewManifest struct {
	Views []ViewEntry `yaml:"views"`
}

// LoadViewManifest reads and parses a YAML manifest from path.
func LoadViewManifest(path string) (*ViewManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ioformat: read manifest: %w", err)
	}
	var m ViewManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("ioformat: parse manifest: %w", err)
	}
	return &m, nil
}

// LoadColorMaskWeight decodes the PNG images named by e into Plane
// buffers suitable for panoblend.NewView / panoblend.View, resizing
// mask and weight (when present) to match the color image's
// dimensions via golang.org/x/image/draw if they differ.
func LoadColorMaskWeight(e ViewEntry) (*cachedimage.Plane[pixel.RGB], *cachedimage.Plane[uint8], *cachedimage.Plane[float32], error) {
	colorImg, err := decodePNG(e.Color)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ioformat: decode color: %w", err)
	}
	bounds := colorImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	colorPlane := cachedimage.NewPlane[pixel.RGB](w, h)
	for y := range h {
		for x := range w {
			r, g, b, _ := colorImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			colorPlane.Set(x, y, pixel.RGB{
				R: float32(r) / 0xffff,
				G: float32(g) / 0xffff,
				B: float32(b) / 0xffff,
			})
		}
	}

	maskImg, err := decodePNG(e.Mask)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ioformat: decode mask: %w", err)
	}
	maskImg = resizeIfNeeded(maskImg, w, h)
	maskPlane := cachedimage.NewPlane[uint8](w, h)
	for y := range h {
		for x := range w {
			gr, _, _, _ := maskImg.At(x, y).RGBA()
			if gr > 0x7fff {
				maskPlane.Set(x, y, 1)
			}
		}
	}

	var weightPlane *cachedimage.Plane[float32]
	if e.Weight != "" {
		weightImg, err := decodePNG(e.Weight)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("ioformat: decode weight: %w", err)
		}
		weightImg = resizeIfNeeded(weightImg, w, h)
		weightPlane = cachedimage.NewPlane[float32](w, h)
		for y := range h {
			for x := range w {
				gr, _, _, _ := weightImg.At(x, y).RGBA()
				weightPlane.Set(x, y, float32(gr)/0xffff)
			}
		}
	} else {
		weightPlane = cachedimage.NewPlane[float32](w, h)
		for i, m := range maskPlane.Data {
			if m != 0 {
				weightPlane.Data[i] = 1
			}
		}
	}

	return colorPlane, maskPlane, weightPlane, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func resizeIfNeeded(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
