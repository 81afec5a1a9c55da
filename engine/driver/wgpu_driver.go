package driver

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// readbackRowAlignment is the required alignment of BytesPerRow for
// texture-to-buffer copies in WebGPU.
const readbackRowAlignment = 256

type wgpuDriverImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass
	clearColor  wgpu.Color

	// Frame state held between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuDriver interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Instance() *wgpu.Instance
	Adapter() *wgpu.Adapter
	Surface() *wgpu.Surface
	SetDevice(device *wgpu.Device)
	SetQueue(queue *wgpu.Queue)
	SetInstance(instance *wgpu.Instance)
	SetAdapter(adapter *wgpu.Adapter)
	SetSurface(surface *wgpu.Surface)

	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// CreateBufferObject creates a GPU buffer of the given size for the given
	// binding type. The buffer contents are undefined until the first
	// UpdateBufferObject call.
	//
	// Parameters:
	//   - label: a debug label for the buffer
	//   - size: the buffer capacity in bytes
	//   - binding: how the buffer will be bound in shaders
	//
	// Returns:
	//   - BufferObject: an opaque handle to the created buffer
	//   - error: an error if the buffer could not be created
	CreateBufferObject(label string, size uint64, binding BufferBinding) (BufferObject, error)

	// UpdateBufferObject schedules a write of data into the buffer at the
	// given byte offset. Panics if the write would overflow the buffer or if
	// the handle was not created by this driver.
	//
	// Parameters:
	//   - obj: the buffer handle returned by CreateBufferObject
	//   - offset: the destination byte offset within the buffer
	//   - data: the bytes to write
	UpdateBufferObject(obj BufferObject, offset uint64, data []byte)

	// DestroyBufferObject releases the GPU buffer behind the handle. The
	// handle must not be used afterwards. Nil handles are ignored.
	//
	// Parameters:
	//   - obj: the buffer handle to destroy
	DestroyBufferObject(obj BufferObject)

	// BeginFrame acquires the next swapchain texture, creates a command encoder, and begins
	// the main render pass. Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface — call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// CreateShadowDepthTexture creates a Depth32Float texture and view for shadow mapping.
	// The texture has sample count 1 (no MSAA) and can be sampled as a depth texture.
	//
	// Parameters:
	//   - width: shadow map width in texels
	//   - height: shadow map height in texels
	//
	// Returns:
	//   - *wgpu.TextureView: the depth texture view for the shadow render pass
	//   - *wgpu.Texture: the underlying texture (caller must release when done)
	//   - error: an error if texture creation fails
	CreateShadowDepthTexture(width, height int) (*wgpu.TextureView, *wgpu.Texture, error)

	// CreateComparisonSampler creates a comparison sampler suitable for PCF shadow mapping.
	// Uses CompareFunction Less for standard shadow depth comparison.
	//
	// Returns:
	//   - *wgpu.Sampler: the comparison sampler
	//   - error: an error if sampler creation fails
	CreateComparisonSampler() (*wgpu.Sampler, error)

	// ReadPixels copies a rectangle of the given texture into a CPU-visible
	// buffer and invokes the callback with the pixel bytes once the map
	// completes. Rows in the returned data are bytesPerRow apart, which may
	// exceed width·4 due to GPU copy row alignment.
	//
	// Parameters:
	//   - src: the texture to read from (must have CopySrc usage)
	//   - x, y: the top-left corner of the rectangle in texels
	//   - width, height: the rectangle size in texels
	//   - callback: receives the pixel data or an error
	//
	// Returns:
	//   - error: an error if the readback could not be scheduled
	ReadPixels(src *wgpu.Texture, x, y, width, height uint32, callback ReadPixelsCallback) error

	// IsFrameTimeSupported reports whether the driver can measure GPU frame
	// time directly. When false, callers fall back to CPU frame timing.
	//
	// Returns:
	//   - bool: true if GPU frame time queries are available
	IsFrameTimeSupported() bool
}

var _ Driver = &wgpuDriverImpl{}

// bufferObjectImpl is the wgpu-backed BufferObject handle.
type bufferObjectImpl struct {
	buffer  *wgpu.Buffer
	size    uint64
	binding BufferBinding
}

func (b *bufferObjectImpl) Size() uint64 {
	return b.size
}

func (b *bufferObjectImpl) Binding() BufferBinding {
	return b.binding
}

func newWGPUDriver(surfaceDescriptor *wgpu.SurfaceDescriptor, cfg *driverConfig) wgpuDriver {
	runtime.LockOSThread()
	d := &wgpuDriverImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: cfg.sampleCount,
		clearColor:  cfg.clearColor,
	}
	d.SetSurface(d.instance.CreateSurface(surfaceDescriptor))

	a, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		panic(err)
	}
	d.SetAdapter(a)

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	d.SetDevice(dev)
	d.SetQueue(dev.GetQueue())

	return d
}

func (d *wgpuDriverImpl) ConfigureSurface(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surfaceFormat = &capabilities.Formats[0]

	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *d.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: d.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(d.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture; the resolved result is
		// written to the swapchain view as the ResolveTarget.
		msaaTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *d.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		d.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	} else {
		// No MSAA — the render pass draws directly to the swapchain view.
		d.msaaTextureView = nil
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	d.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// Build the cached render pass descriptor for the main render target.
	// When MSAA is enabled, View is the MSAA texture and ResolveTarget is
	// set per-frame to the swapchain view. When disabled, View is set
	// per-frame to the swapchain view and ResolveTarget remains nil.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}
	d.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          d.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    d.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthTextureView, // Persistent until resize
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard, // Depth not needed after resolving
			DepthClearValue: 1.0,
		},
	}
}

func (d *wgpuDriverImpl) SetPresentMode(mode PresentMode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		d.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		d.presentMode = wgpu.PresentModeImmediate
	}
}

func (d *wgpuDriverImpl) CreateBufferObject(label string, size uint64, binding BufferBinding) (BufferObject, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var usage wgpu.BufferUsage
	switch binding {
	case BufferBindingUniform:
		usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	case BufferBindingStorage:
		usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	case BufferBindingVertex:
		usage = wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
	case BufferBindingIndex:
		usage = wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst
	default:
		return nil, fmt.Errorf("driver: unknown buffer binding %d", binding)
	}

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}

	return &bufferObjectImpl{buffer: buf, size: size, binding: binding}, nil
}

func (d *wgpuDriverImpl) UpdateBufferObject(obj BufferObject, offset uint64, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	impl, ok := obj.(*bufferObjectImpl)
	if !ok {
		panic("driver: buffer object was not created by this driver")
	}
	if offset+uint64(len(data)) > impl.size {
		panic(fmt.Sprintf("driver: buffer write of %d bytes at offset %d overflows buffer of %d bytes", len(data), offset, impl.size))
	}
	if len(data) == 0 {
		return
	}

	d.queue.WriteBuffer(impl.buffer, offset, data)
}

func (d *wgpuDriverImpl) DestroyBufferObject(obj BufferObject) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if obj == nil {
		return
	}
	impl, ok := obj.(*bufferObjectImpl)
	if !ok {
		panic("driver: buffer object was not created by this driver")
	}
	impl.buffer.Release()
	impl.buffer = nil
}

func (d *wgpuDriverImpl) BeginFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// If a previous frame's surface texture is still held, avoid acquiring
	// another one. This prevents wgpu-native validation errors like
	// "Surface image is already acquired" when frames overlap.
	if d.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	// When MSAA is enabled, the MSAA texture is the color attachment View and
	// the swapchain view is the ResolveTarget. When MSAA is off, the swapchain
	// view is the color attachment View directly and ResolveTarget is nil.
	if d.sampleCount > 1 {
		d.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		d.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(d.renderPassDescriptor)

	d.frameEncoder = encoder
	d.framePass = pass
	d.frameSurface = surfaceTexture
	d.frameView = view

	return nil
}

func (d *wgpuDriverImpl) EndFrame() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.framePass.End()

	commandBuffer, err := d.frameEncoder.Finish(nil)
	if err != nil {
		d.frameEncoder.Release()
		d.frameView.Release()
		d.frameSurface.Release()
		d.frameEncoder = nil
		d.framePass = nil
		d.frameSurface = nil
		d.frameView = nil
		return
	}

	d.queue.Submit(commandBuffer)

	commandBuffer.Release()
	d.frameEncoder.Release()
	d.frameEncoder = nil
	d.framePass = nil
}

func (d *wgpuDriverImpl) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if d.frameSurface == nil {
		return
	}

	// Present the acquired surface image and release local references.
	d.surface.Present()

	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	if d.frameSurface != nil {
		d.frameSurface.Release()
		d.frameSurface = nil
	}
}

func (d *wgpuDriverImpl) CreateShadowDepthTexture(width, height int) (*wgpu.TextureView, *wgpu.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Shadow Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create shadow depth texture: %w", err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("failed to create shadow depth texture view: %w", err)
	}

	return view, tex, nil
}

func (d *wgpuDriverImpl) CreateComparisonSampler() (*wgpu.Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Shadow Comparison Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       wgpu.CompareFunctionLess,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comparison sampler: %w", err)
	}

	return samp, nil
}

func (d *wgpuDriverImpl) ReadPixels(src *wgpu.Texture, x, y, width, height uint32, callback ReadPixelsCallback) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if width == 0 || height == 0 {
		return fmt.Errorf("driver: read rectangle is empty (%dx%d)", width, height)
	}

	bytesPerRow := (width*4 + readbackRowAlignment - 1) &^ (readbackRowAlignment - 1)
	size := uint64(bytesPerRow) * uint64(height)

	readback, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Pixel Readback Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		readback.Release()
		return err
	}

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  src,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: x, Y: y},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: readback,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bytesPerRow,
				RowsPerImage: height,
			},
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		readback.Release()
		return err
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()

	return readback.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			callback(nil, 0, fmt.Errorf("driver: pixel readback map failed with status %d", status))
			readback.Release()
			return
		}
		mapped := readback.GetMappedRange(0, uint(size))
		data := make([]byte, len(mapped))
		copy(data, mapped)
		readback.Unmap()
		readback.Release()
		callback(data, bytesPerRow, nil)
	})
}

func (d *wgpuDriverImpl) IsFrameTimeSupported() bool {
	// Timestamp queries require an optional device feature that is not
	// requested; frame timing comes from the CPU clock instead.
	return false
}

func (d *wgpuDriverImpl) Device() *wgpu.Device {
	return d.device
}

func (d *wgpuDriverImpl) Queue() *wgpu.Queue {
	return d.queue
}

func (d *wgpuDriverImpl) Instance() *wgpu.Instance {
	return d.instance
}

func (d *wgpuDriverImpl) Adapter() *wgpu.Adapter {
	return d.adapter
}

func (d *wgpuDriverImpl) Surface() *wgpu.Surface {
	return d.surface
}

func (d *wgpuDriverImpl) SetDevice(device *wgpu.Device) {
	d.device = device
}

func (d *wgpuDriverImpl) SetQueue(queue *wgpu.Queue) {
	d.queue = queue
}

func (d *wgpuDriverImpl) SetInstance(instance *wgpu.Instance) {
	d.instance = instance
}

func (d *wgpuDriverImpl) SetAdapter(adapter *wgpu.Adapter) {
	d.adapter = adapter
}

func (d *wgpuDriverImpl) SetSurface(surface *wgpu.Surface) {
	d.surface = surface
}
