package kernel

import (
	"github.com/panoblend/panoblend/cachedimage"
	"github.com/panoblend/panoblend/pixel"
)

// AddRGB returns the pointwise sum of two equally-sized planes.
func AddRGB(a, b *cachedimage.Plane[pixel.RGB]) *cachedimage.Plane[pixel.RGB] {
	dst := cachedimage.NewPlane[pixel.RGB](a.Width, a.Height)
	for i := range dst.Data {
		dst.Data[i] = a.Data[i].Add(b.Data[i])
	}
	return dst
}

// SubtractRGB returns the pointwise difference a - b.
func SubtractRGB(a, b *cachedimage.Plane[pixel.RGB]) *cachedimage.Plane[pixel.RGB] {
	dst := cachedimage.NewPlane[pixel.RGB](a.Width, a.Height)
	for i := range dst.Data {
		dst.Data[i] = a.Data[i].Sub(b.Data[i])
	}
	return dst
}

// ScaleRGB returns a scaled by s.
func ScaleRGB(a *cachedimage.Plane[pixel.RGB], s float32) *cachedimage.Plane[pixel.RGB] {
	dst := cachedimage.NewPlane[pixel.RGB](a.Width, a.Height)
	for i := range dst.Data {
		dst.Data[i] = a.Data[i].Scale(s)
	}
	return dst
}

// RemoveNegativeValuesRGB clamps every channel of every pixel to zero.
// Used at the coarsest pyramid level and after the final collapse,
// where accumulated Laplacian residuals can dip slightly below zero.
func RemoveNegativeValuesRGB(a *cachedimage.Plane[pixel.RGB]) *cachedimage.Plane[pixel.RGB] {
	dst := cachedimage.NewPlane[pixel.RGB](a.Width, a.Height)
	for i := range dst.Data {
		dst.Data[i] = a.Data[i].RemoveNegative()
	}
	return dst
}

// AddScalar returns the pointwise sum of two equally-sized float32
// planes (used for weight-level accumulation).
func AddScalar(a, b *cachedimage.Plane[float32]) *cachedimage.Plane[float32] {
	dst := cachedimage.NewPlane[float32](a.Width, a.Height)
	for i := range dst.Data {
		dst.Data[i] = a.Data[i] + b.Data[i]
	}
	return dst
}

// ScaleScalar returns a scaled by s.
func ScaleScalar(a *cachedimage.Plane[float32], s float32) *cachedimage.Plane[float32] {
	dst := cachedimage.NewPlane[float32](a.Width, a.Height)
	for i := range dst.Data {
		dst.Data[i] = a.Data[i] * s
	}
	return dst
}
