package driver

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// BackendType identifies the GPU backend implementation used by the Driver.
type BackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based driver backend.
	BackendTypeWGPU BackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// BufferBinding describes how a buffer object is bound in shaders, which
// determines the GPU usage flags it is created with.
type BufferBinding int

const (
	// BufferBindingUniform creates the buffer for uniform bindings.
	BufferBindingUniform BufferBinding = iota

	// BufferBindingStorage creates the buffer for storage bindings.
	BufferBindingStorage

	// BufferBindingVertex creates the buffer for vertex input.
	BufferBindingVertex

	// BufferBindingIndex creates the buffer for index input.
	BufferBindingIndex
)

// BufferObject is an opaque handle to a GPU buffer created through the Driver.
// Holders track only the size; the underlying GPU resource is managed by the
// driver that created it.
type BufferObject interface {
	// Size returns the buffer capacity in bytes.
	//
	// Returns:
	//   - uint64: the buffer size in bytes
	Size() uint64

	// Binding returns the binding type the buffer was created for.
	//
	// Returns:
	//   - BufferBinding: the binding type
	Binding() BufferBinding
}

// ReadPixelsCallback receives the result of an asynchronous pixel readback.
// data holds tightly row-aligned pixel rows (bytesPerRow apart, which may be
// larger than width·4 due to GPU copy alignment); err is non-nil if the
// readback failed, in which case data is nil.
type ReadPixelsCallback func(data []byte, bytesPerRow uint32, err error)

// Driver is the top-level GPU abstraction used by the frame preparation
// pipeline for buffer lifecycle, surface management, and pixel readback.
// It embeds the concrete driver interface for the selected GPU API.
type Driver interface {
	wgpuDriver
}

// NewDriver creates a new Driver instance for the specified backend type.
// The surface descriptor is platform-specific and is typically obtained from
// Window.SurfaceDescriptor().
//
// Parameters:
//   - backendType: the type of GPU backend to use (e.g., WGPU)
//   - surfaceDescriptor: the platform-specific surface descriptor for surface creation
//   - options: variadic list of DriverBuilderOption functions to configure the Driver
//
// Returns:
//   - Driver: a new instance of Driver configured with the specified backend and options
func NewDriver(backendType BackendType, surfaceDescriptor *wgpu.SurfaceDescriptor, options ...DriverBuilderOption) Driver {
	cfg := &driverConfig{
		sampleCount: MSAA4x,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	for _, opt := range options {
		opt(cfg)
	}

	var d Driver
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		d = newWGPUDriver(surfaceDescriptor, cfg)
	}

	if cfg.presentMode != nil {
		d.SetPresentMode(*cfg.presentMode)
	}
	return d
}
