// Package pixel defines the floating-point color types the rest of
// panoblend operates on: RGB for pyramid color accumulators and RGBA
// for the final composited output.
package pixel

// RGB is a linear, unpremultiplied color sample with no alpha channel.
// Pyramid color and Laplacian levels are stored as RGB since weight is
// tracked in a separate accumulator (see the weight pyramid).
type RGB struct {
	R, G, B float32
}

// Add returns the component-wise sum of a and b.
func (a RGB) Add(b RGB) RGB {
	return RGB{a.R + b.R, a.G + b.G, a.B + b.B}
}

// Sub returns the component-wise difference a - b.
func (a RGB) Sub(b RGB) RGB {
	return RGB{a.R - b.R, a.G - b.G, a.B - b.B}
}

// Scale returns a scaled by s.
func (a RGB) Scale(s float32) RGB {
	return RGB{a.R * s, a.G * s, a.B * s}
}

// RemoveNegative clamps each channel to zero.
func (a RGB) RemoveNegative() RGB {
	return RGB{max(a.R, 0), max(a.G, 0), max(a.B, 0)}
}

// RGBA is a linear, unpremultiplied color sample with an alpha channel,
// used only for the final rebuilt output image.
type RGBA struct {
	R, G, B, A float32
}
