// Package gpuaccel provides a pluggable convolution backend interface
// for the same 5-tap Gaussian the kernel package applies, a registry,
// and a CPU implementation that is always available. The kernel and
// pyramid packages do not call it; they blur on the CPU directly.
// gpuaccel/gogpu holds wgpu device and compute-pipeline bring-up for a
// GPU backend.
//
// The interface shape and the registry pattern are grounded on the
// teacher's RenderBackend/Register/Get pluggable-backend design: one
// small interface, a package-level registry, and a "current" backend
// selected once and reused.
package gpuaccel

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrNotAvailable is returned by Get when no backend with the requested
// name has been registered.
var ErrNotAvailable = errors.New("gpuaccel: backend not available")

// Accelerator is the interface a convolution backend implements.
type Accelerator interface {
	// Name returns the backend identifier ("cpu", "wgpu").
	Name() string

	// Init prepares the backend for use (e.g. GPU adapter/device
	// bring-up). Init is idempotent.
	Init() error

	// Close releases backend resources. The backend must not be used
	// after Close.
	Close()

	// ConvolveGaussian5x5RGB applies the fixed 5-tap separable Gaussian
	// to an RGB plane stored as a flat row-major slice of 3*width*height
	// float32 values, returning a result of the same shape. wrap selects
	// horizontal wrap-around (matching kernel.GaussianBlurRGB).
	ConvolveGaussian5x5RGB(data []float32, width, height int, wrap bool) ([]float32, error)
}

// loggerSetter is implemented by accelerators that want the shared
// package logger propagated to them.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

var (
	mu       sync.RWMutex
	registry = map[string]Accelerator{}
	current  Accelerator
)

// Register adds a backend to the registry under its own Name(). The
// first backend registered also becomes the current default.
func Register(a Accelerator) {
	mu.Lock()
	defer mu.Unlock()
	registry[a.Name()] = a
	if current == nil {
		current = a
	}
}

// Get returns the registered backend with the given name.
func Get(name string) (Accelerator, error) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := registry[name]
	if !ok {
		return nil, ErrNotAvailable
	}
	return a, nil
}

// Use sets the current default backend by name.
func Use(name string) error {
	a, err := Get(name)
	if err != nil {
		return err
	}
	mu.Lock()
	current = a
	mu.Unlock()
	return nil
}

// Current returns the active backend, registering and selecting the
// CPU fallback if nothing has been registered yet.
func Current() Accelerator {
	mu.RLock()
	c := current
	mu.RUnlock()
	if c != nil {
		return c
	}
	cpu := &CPU{}
	Register(cpu)
	return cpu
}

// SetLogger propagates l to every registered accelerator that accepts
// one. Called by panoblend.SetLogger so gpuaccel shares the caller's
// logging configuration without an import cycle.
func SetLogger(l *slog.Logger) {
	mu.RLock()
	defer mu.RUnlock()
	for _, a := range registry {
		if ls, ok := a.(loggerSetter); ok {
			ls.SetLogger(l)
		}
	}
}
