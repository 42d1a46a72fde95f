package gpuaccel

// gaussianTaps mirrors kernel.gaussianTaps; duplicated here rather than
// imported to keep gpuaccel free of a dependency on the cachedimage
// Plane type, since accelerators exchange flat float32 buffers (the
// shape a GPU backend can upload directly).
var gaussianTaps = [5]float32{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}

// CPU is the always-available fallback Accelerator: a plain Go
// implementation of the same separable 5-tap blur kernel.GaussianBlurRGB
// performs. Current registers and selects it when no backend has been
// registered.
type CPU struct{}

func (*CPU) Name() string { return "cpu" }
func (*CPU) Init() error  { return nil }
func (*CPU) Close()       {}

func (*CPU) ConvolveGaussian5x5RGB(data []float32, width, height int, wrap bool) ([]float32, error) {
	tmp := make([]float32, len(data))
	out := make([]float32, len(data))

	idx := func(x, y, c int) int { return (y*width+x)*3 + c }
	wrapOrClamp := func(c, n int) int {
		if wrap {
			m := c % n
			if m < 0 {
				m += n
			}
			return m
		}
		if c < 0 {
			return 0
		}
		if c >= n {
			return n - 1
		}
		return c
	}

	for y := range height {
		for x := range width {
			for ch := range 3 {
				var sum float32
				for k := -2; k <= 2; k++ {
					sx := wrapOrClamp(x+k, width)
					sum += data[idx(sx, y, ch)] * gaussianTaps[k+2]
				}
				tmp[idx(x, y, ch)] = sum
			}
		}
	}
	for y := range height {
		for x := range width {
			for ch := range 3 {
				var sum float32
				for k := -2; k <= 2; k++ {
					sy := y + k
					if sy < 0 {
						sy = 0
					}
					if sy >= height {
						sy = height - 1
					}
					sum += tmp[idx(x, sy, ch)] * gaussianTaps[k+2]
				}
				out[idx(x, y, ch)] = sum
			}
		}
	}
	return out, nil
}
