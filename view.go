package panoblend

import (
	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
	"github.com/panoblend/panoblend/pyramid"
)

// View is one pre-warped input tile to fold into the panorama: a color
// plane, a coverage mask, a blending weight, and its offset in full
// panorama coordinates. View is a thin alias over pyramid.View so
// callers never need to import the pyramid package directly.
type View = pyramid.View

// NewView builds a View from raw color, mask, and weight planes. mask
// and weight must have the same dimensions as color; a nil weight is
// treated as uniform weight 1 wherever mask is nonzero.
func NewView(color *cachedimage.Plane[pixel.RGB], mask *cachedimage.Plane[uint8], weight *cachedimage.Plane[float32], offsetX, offsetY int) View {
	if weight == nil {
		weight = cachedimage.NewPlane[float32](color.Width, color.Height)
		for i, m := range mask.Data {
			if m != 0 {
				weight.Data[i] = 1
			}
		}
	}
	return View{Color: color, Mask: mask, Weight: weight, OffsetX: offsetX, OffsetY: offsetY}
}
