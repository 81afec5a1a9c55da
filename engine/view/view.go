package view

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/camera"
	"github.com/Carmen-Shannon/vista-go/engine/cull"
	"github.com/Carmen-Shannon/vista-go/engine/driver"
	"github.com/Carmen-Shannon/vista-go/engine/frameinfo"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/Carmen-Shannon/vista-go/engine/scene"
	"github.com/Carmen-Shannon/vista-go/engine/shadow"
	"github.com/cogentcore/webgpu/wgpu"
)

// cullFanOutThreshold is the padded renderable count above which frustum
// culling fans out across the worker pool instead of running serially.
const cullFanOutThreshold = 512

// cullChunkSize is the number of rows each worker task culls. Must be a
// multiple of cull.BlockSize so chunks stay batch-aligned.
const cullChunkSize = 128

// froxelZLightNear and froxelZLightFar bound the view-space volume that is
// sliced into froxels for clustered lighting. The volume is independent of
// the camera's clipping planes: lights beyond it fall back to the last slice.
const (
	froxelZLightNear float32 = 5
	froxelZLightFar  float32 = 100
)

// Driver is the subset of the GPU driver the view needs: buffer lifecycle for
// its per-frame GPU data, pixel readback for picking, and the shadow-atlas
// resources its shadow manager allocates. A view built without a driver
// prepares frames headlessly and skips all GPU work.
type Driver interface {
	shadow.Driver

	// CreateBufferObject creates a GPU buffer of the given size for the given
	// binding type.
	//
	// Parameters:
	//   - label: a debug label for the buffer
	//   - size: the buffer capacity in bytes
	//   - binding: how the buffer will be bound in shaders
	//
	// Returns:
	//   - driver.BufferObject: an opaque handle to the created buffer
	//   - error: an error if the buffer could not be created
	CreateBufferObject(label string, size uint64, binding driver.BufferBinding) (driver.BufferObject, error)

	// UpdateBufferObject schedules a write of data into the buffer at the
	// given byte offset.
	//
	// Parameters:
	//   - obj: the buffer handle returned by CreateBufferObject
	//   - offset: the destination byte offset within the buffer
	//   - data: the bytes to write
	UpdateBufferObject(obj driver.BufferObject, offset uint64, data []byte)

	// DestroyBufferObject releases the GPU buffer behind the handle. Nil
	// handles are ignored.
	//
	// Parameters:
	//   - obj: the buffer handle to destroy
	DestroyBufferObject(obj driver.BufferObject)

	// ReadPixels copies a rectangle of the given texture into a CPU-visible
	// buffer and invokes the callback with the pixel bytes once the map
	// completes.
	//
	// Parameters:
	//   - src: the texture to read from
	//   - x, y: the top-left corner of the rectangle in texels
	//   - width, height: the rectangle size in texels
	//   - callback: receives the pixel data or an error
	//
	// Returns:
	//   - error: an error if the readback could not be scheduled
	ReadPixels(src *wgpu.Texture, x, y, width, height uint32, callback driver.ReadPixelsCallback) error
}

var _ Driver = (driver.Driver)(nil)

type viewImpl struct {
	mu *sync.Mutex

	name     string
	scene    scene.Scene
	camera   camera.Camera
	viewport common.Viewport
	driver   Driver

	visibleLayers uint8

	dynamicResolution DynamicResolutionOptions
	scale             [2]float32
	reportedScale     [2]float32
	pid               *pidController

	shadowingEnabled bool
	shadowType       shadow.Type
	shadowMgr        shadow.Manager
	hasShadowing     bool
	needsShadowMap   bool

	cullingEnabled bool
	cameraAtOrigin bool

	ranges     renderableRanges
	froxelGrid light.FroxelGrid

	// lightDistances is the distance-sort scratch column, reused across
	// frames so light preparation does not allocate at steady state.
	lightDistances []float32

	renderableBuffer  driver.BufferObject
	lightBuffer       driver.BufferObject
	uniformBuffer     driver.BufferObject
	renderableScratch []byte
	lightScratch      []byte

	pickingQueries []pickingQuery
	pickingSource  *wgpu.Texture
}

// View ties a scene and a camera to a viewport and owns the per-frame
// preparation pipeline: world-origin resolution, frustum culling, light
// culling and sorting, shadow setup, visibility classification, draw-order
// partitioning, and the GPU data commits that feed rendering.
type View interface {
	// Name returns the view's debug name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName sets the view's debug name.
	//
	// Parameters:
	//   - name: the name
	SetName(name string)

	// Scene returns the scene the view renders, or nil.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// SetScene replaces the scene the view renders. May be nil, in which case
	// Prepare fails until a scene is set again.
	//
	// Parameters:
	//   - s: the scene
	SetScene(s scene.Scene)

	// Camera returns the view's camera, or nil.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// SetCamera replaces the view's camera.
	//
	// Parameters:
	//   - c: the camera
	SetCamera(c camera.Camera)

	// Viewport returns the view's viewport in physical pixels.
	//
	// Returns:
	//   - common.Viewport: the viewport
	Viewport() common.Viewport

	// SetViewport sets the view's viewport in physical pixels.
	//
	// Parameters:
	//   - vp: the viewport
	SetViewport(vp common.Viewport)

	// VisibleLayers returns the bitmask of renderable layers the view draws.
	//
	// Returns:
	//   - uint8: the layer bitmask
	VisibleLayers() uint8

	// SetVisibleLayers updates the selected bits of the layer bitmask to the
	// given values, leaving unselected bits unchanged. Panics if values has a
	// bit set outside the selection.
	//
	// Parameters:
	//   - selectBits: which bits of the mask to modify
	//   - values: the new state of the selected bits
	SetVisibleLayers(selectBits, values uint8)

	// IsSkyboxVisible reports whether the scene's skybox renders in this
	// view: a skybox is present and its layer mask overlaps the view's
	// visible layers.
	//
	// Returns:
	//   - bool: true when the skybox is drawn
	IsSkyboxVisible() bool

	// DynamicResolutionOptions returns the active dynamic resolution options.
	//
	// Returns:
	//   - DynamicResolutionOptions: the sanitized options
	DynamicResolutionOptions() DynamicResolutionOptions

	// SetDynamicResolutionOptions replaces the dynamic resolution options.
	// The options are sanitized before use.
	//
	// Parameters:
	//   - opts: the new options
	SetDynamicResolutionOptions(opts DynamicResolutionOptions)

	// ShadowingEnabled reports whether shadow setup runs during Prepare.
	//
	// Returns:
	//   - bool: true when shadowing is enabled
	ShadowingEnabled() bool

	// SetShadowingEnabled toggles shadow setup. When disabled, no shadow maps
	// are registered and the caster partitions come out empty.
	//
	// Parameters:
	//   - enabled: the new state
	SetShadowingEnabled(enabled bool)

	// ShadowType returns the shadow mapping technique requested for the view.
	//
	// Returns:
	//   - shadow.Type: the technique
	ShadowType() shadow.Type

	// SetShadowType selects the shadow mapping technique. VSM widens the
	// caster set to include all shadow receivers.
	//
	// Parameters:
	//   - t: the technique
	SetShadowType(t shadow.Type)

	// FrustumCullingEnabled reports whether renderables are frustum-culled.
	//
	// Returns:
	//   - bool: true when culling is enabled
	FrustumCullingEnabled() bool

	// SetFrustumCullingEnabled toggles frustum culling. Disabling it marks
	// every renderable camera-visible, which is useful to debug culling
	// artifacts; the rest of the pipeline runs unchanged.
	//
	// Parameters:
	//   - enabled: the new state
	SetFrustumCullingEnabled(enabled bool)

	// CameraRecenteringEnabled reports whether the world is translated so the
	// camera sits at the origin during preparation.
	//
	// Returns:
	//   - bool: true when recentering is enabled
	CameraRecenteringEnabled() bool

	// SetCameraRecenteringEnabled toggles camera recentering. Folding the
	// camera position into the world-origin transform keeps world-space
	// magnitudes small far from the origin, at the cost of re-uploading
	// transforms every frame the camera moves.
	//
	// Parameters:
	//   - enabled: the new state
	SetCameraRecenteringEnabled(enabled bool)

	// UpdateScale advances the dynamic resolution controller with a denoised
	// frame-time sample and returns the scale to render the next frame at.
	// The returned per-axis scale is rounded so the scaled viewport lands on
	// multiples of eight pixels; the controller's internal state keeps full
	// precision. With dynamic resolution disabled the scale is always 1.
	//
	// Parameters:
	//   - sample: the denoised frame-time measurement
	//   - frameRate: the pacing configuration
	//   - display: the presentation target description
	//
	// Returns:
	//   - [2]float32: the (x, y) scale for the next frame
	UpdateScale(sample frameinfo.Sample, frameRate FrameRateOptions, display DisplayInfo) [2]float32

	// Scale returns the scale reported by the last UpdateScale call.
	//
	// Returns:
	//   - [2]float32: the (x, y) scale
	Scale() [2]float32

	// ScaledViewport returns the viewport scaled by the current dynamic
	// resolution scale.
	//
	// Returns:
	//   - common.Viewport: the scaled viewport
	ScaledViewport() common.Viewport

	// Prepare runs the per-frame preparation pipeline: it resolves the
	// world-origin transform, snapshots the camera, flattens the scene, culls
	// renderables and lights concurrently, sets up shadows, classifies
	// visibility, partitions the renderable set into draw groups, and commits
	// the per-frame GPU buffers. userTime is the application clock fed to the
	// shader time uniform.
	//
	// Parameters:
	//   - userTime: monotonic time since the application's rendering epoch
	//
	// Returns:
	//   - error: an error if a GPU buffer commit failed
	Prepare(userTime time.Duration) error

	// VisibleRenderables returns the partition of renderables visible to the
	// camera, in SoA row indices. Valid until the next Prepare call.
	//
	// Returns:
	//   - common.Range: the camera-visible rows
	VisibleRenderables() common.Range

	// VisibleDirectionalShadowCasters returns the partition of renderables
	// that cast into the directional shadow cascades. Valid until the next
	// Prepare call.
	//
	// Returns:
	//   - common.Range: the directional caster rows
	VisibleDirectionalShadowCasters() common.Range

	// SpotLightShadowCasters returns the partition of renderables that cast
	// into at least one spot shadow map. Valid until the next Prepare call.
	//
	// Returns:
	//   - common.Range: the spot caster rows
	SpotLightShadowCasters() common.Range

	// HasShadowing reports whether the last prepared frame uses any shadowing
	// mechanism.
	//
	// Returns:
	//   - bool: true when shadows are active this frame
	HasShadowing() bool

	// NeedsShadowMap reports whether the last prepared frame renders shadow
	// maps.
	//
	// Returns:
	//   - bool: true when shadow map passes are required this frame
	NeedsShadowMap() bool

	// ShadowManager returns the view's shadow manager for access to the
	// cascade configuration and the atlas resources.
	//
	// Returns:
	//   - shadow.Manager: the shadow manager
	ShadowManager() shadow.Manager

	// FroxelGrid returns the clustered-lighting grid computed by the last
	// Prepare call for the scaled viewport.
	//
	// Returns:
	//   - light.FroxelGrid: the grid parameters
	FroxelGrid() light.FroxelGrid

	// RenderableBuffer returns the GPU buffer holding the per-renderable
	// records for the merged visible set, or nil before the first Prepare
	// with a driver.
	//
	// Returns:
	//   - driver.BufferObject: the renderable buffer
	RenderableBuffer() driver.BufferObject

	// LightBuffer returns the GPU buffer holding the light header and the
	// positional light records, or nil before the first Prepare with a
	// driver.
	//
	// Returns:
	//   - driver.BufferObject: the light buffer
	LightBuffer() driver.BufferObject

	// UniformBuffer returns the per-view uniform buffer, or nil before the
	// first Prepare with a driver.
	//
	// Returns:
	//   - driver.BufferObject: the uniform buffer
	UniformBuffer() driver.BufferObject

	// Pick queues a picking query at the given viewport coordinates. The
	// callback is invoked from ProcessPickingQueries once the readback
	// completes.
	//
	// Parameters:
	//   - x, y: the query position in (unscaled) viewport pixels
	//   - callback: receives the query result
	Pick(x, y uint32, callback PickingCallback)

	// SetPickingSource sets the texture picking queries read from. The
	// texture holds the renderable id in its RGB channels and normalized
	// depth in alpha. Passing nil disables picking; queued queries fail.
	//
	// Parameters:
	//   - tex: the picking texture, or nil
	SetPickingSource(tex *wgpu.Texture)

	// ProcessPickingQueries issues the readbacks for all queued picking
	// queries. Call after the frame that rendered the picking source.
	ProcessPickingQueries()
}

var _ View = &viewImpl{}

// NewView creates a new View. A scene, camera, and driver can be supplied
// through options or attached later with the setters; Prepare requires the
// scene and camera, while the driver stays optional for headless use.
//
// Parameters:
//   - options: functional options to configure the view
//
// Returns:
//   - View: the newly created view
func NewView(options ...ViewBuilderOption) View {
	v := &viewImpl{
		mu:                &sync.Mutex{},
		visibleLayers:     0x1,
		scale:             [2]float32{1, 1},
		reportedScale:     [2]float32{1, 1},
		dynamicResolution: DefaultDynamicResolutionOptions(),
		shadowingEnabled:  true,
		shadowType:        shadow.TypePCF,
		cullingEnabled:    true,
	}
	for _, option := range options {
		option(v)
	}

	v.pid = newPidController()
	v.pid.setIntegralLimits(-100, 100)
	v.pid.setOutputDeadBand(-0.01, 0.05)

	var shadowOpts []shadow.ManagerBuilderOption
	if v.driver != nil {
		shadowOpts = append(shadowOpts, shadow.WithDriver(v.driver))
	}
	v.shadowMgr = shadow.NewManager(shadowOpts...)
	return v
}

func (v *viewImpl) Name() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.name
}

func (v *viewImpl) SetName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.name = name
}

func (v *viewImpl) Scene() scene.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scene
}

func (v *viewImpl) SetScene(s scene.Scene) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scene = s
}

func (v *viewImpl) Camera() camera.Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera
}

func (v *viewImpl) SetCamera(c camera.Camera) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera = c
}

func (v *viewImpl) Viewport() common.Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewport
}

func (v *viewImpl) SetViewport(vp common.Viewport) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewport = vp
}

func (v *viewImpl) VisibleLayers() uint8 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visibleLayers
}

func (v *viewImpl) SetVisibleLayers(selectBits, values uint8) {
	if values&^selectBits != 0 {
		panic(fmt.Sprintf("view: layer values 0x%02x outside selection 0x%02x", values, selectBits))
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visibleLayers = (v.visibleLayers &^ selectBits) | (values & selectBits)
}

func (v *viewImpl) IsSkyboxVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.scene == nil {
		return false
	}
	sb := v.scene.Skybox()
	return sb != nil && sb.LayerMask()&v.visibleLayers != 0
}

func (v *viewImpl) DynamicResolutionOptions() DynamicResolutionOptions {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dynamicResolution
}

func (v *viewImpl) SetDynamicResolutionOptions(opts DynamicResolutionOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dynamicResolution = opts.Sanitized()
}

func (v *viewImpl) ShadowingEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shadowingEnabled
}

func (v *viewImpl) SetShadowingEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shadowingEnabled = enabled
}

func (v *viewImpl) ShadowType() shadow.Type {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shadowType
}

func (v *viewImpl) SetShadowType(t shadow.Type) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shadowType = t
}

func (v *viewImpl) FrustumCullingEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cullingEnabled
}

func (v *viewImpl) SetFrustumCullingEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cullingEnabled = enabled
}

func (v *viewImpl) CameraRecenteringEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cameraAtOrigin
}

func (v *viewImpl) SetCameraRecenteringEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cameraAtOrigin = enabled
}

func (v *viewImpl) Scale() [2]float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reportedScale
}

func (v *viewImpl) ScaledViewport() common.Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewport.Scaled(v.reportedScale[0], v.reportedScale[1])
}

func (v *viewImpl) VisibleRenderables() common.Range {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ranges.visibleRenderables
}

func (v *viewImpl) VisibleDirectionalShadowCasters() common.Range {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ranges.visibleDirectionalShadowCasters
}

func (v *viewImpl) SpotLightShadowCasters() common.Range {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ranges.spotLightShadowCasters
}

func (v *viewImpl) HasShadowing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasShadowing
}

func (v *viewImpl) NeedsShadowMap() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.needsShadowMap
}

func (v *viewImpl) ShadowManager() shadow.Manager {
	return v.shadowMgr
}

func (v *viewImpl) FroxelGrid() light.FroxelGrid {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.froxelGrid
}

func (v *viewImpl) RenderableBuffer() driver.BufferObject {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderableBuffer
}

func (v *viewImpl) LightBuffer() driver.BufferObject {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lightBuffer
}

func (v *viewImpl) UniformBuffer() driver.BufferObject {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.uniformBuffer
}

func (v *viewImpl) Prepare(userTime time.Duration) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.scene == nil || v.camera == nil {
		return fmt.Errorf("view: prepare requires a scene and a camera")
	}

	sc := v.scene
	lm := sc.Lights()

	// The environment rotation defines the frame's world origin; rendering
	// happens in a space where the environment is axis-aligned.
	var worldOrigin [16]float32
	common.Identity(worldOrigin[:])
	if il := sc.IndirectLight(); il != nil {
		worldOrigin = il.WorldOriginTransform()
	}
	if v.cameraAtOrigin {
		// Fold the camera position into the origin so world-space magnitudes
		// stay small when the camera is far from the world origin.
		pos := v.camera.Position()
		var recenter, composed [16]float32
		common.Identity(recenter[:])
		recenter[12] = -pos[0]
		recenter[13] = -pos[1]
		recenter[14] = -pos[2]
		common.Mul4(composed[:], worldOrigin[:], recenter[:])
		worldOrigin = composed
	}

	info := camera.NewInfo(v.camera, worldOrigin)

	// The culling frustum can differ from the rendering projection, which
	// lets debug views freeze or widen culling independently.
	var cullingViewProj [16]float32
	common.Mul4(cullingViewProj[:], info.CullingProjection[:], info.View[:])
	frustum := common.ExtractFrustumFromMatrix(cullingViewProj[:])

	usesVSM := v.shadowingEnabled && v.shadowType == shadow.TypeVSM
	sc.Prepare(worldOrigin, usesVSM)

	soa := sc.RenderableData()
	lightData := sc.LightData()

	// Positional light culling is independent of renderable culling, so it
	// runs on the pool while this goroutine culls renderables.
	var lightJob sync.WaitGroup
	distances := v.lightDistances
	hasPositionalLights := lightData.Count > 1
	if hasPositionalLights {
		lightJob.Add(1)
		viewMatrix := info.View
		sc.WorkerPool().SubmitTask(worker.Task{
			ID: 0,
			Do: func() (any, error) {
				defer lightJob.Done()
				distances = prepareVisibleLights(lm, viewMatrix, &frustum, lightData, distances)
				return nil, nil
			},
		})
	}

	if v.cullingEnabled {
		v.cullRenderables(&frustum, soa, visibleRenderableBit)
	} else {
		n := cull.Round(soa.Count)
		for i := 0; i < n; i++ {
			soa.Masks[i] |= 1 << visibleRenderableBit
		}
	}

	if hasPositionalLights {
		lightJob.Wait()
		v.lightDistances = distances
	}

	v.prepareShadowing(lm, lightData, info)
	v.cullShadowCasters(lm, lightData, soa)

	computeVisibilityMasks(v.visibleLayers, soa.Layers, soa.Flags, soa.Masks)
	v.ranges = partitionVisibility(soa)
	v.updateLods(soa)
	debugLog.Printf("visible=%d dirCasters=%d merged=%d lights=%d",
		v.ranges.visibleRenderables.Size(), v.ranges.visibleDirectionalShadowCasters.Size(),
		v.ranges.merged.Size(), lightData.Count)

	scaled := v.viewport.Scaled(v.reportedScale[0], v.reportedScale[1])
	v.froxelGrid = light.ComputeFroxelGrid(scaled, froxelZLightNear, froxelZLightFar)

	if v.driver != nil {
		exposure := info.Exposure()
		ambient := ambientColor(sc.IndirectLight(), exposure)
		if err := v.updateRenderableBuffer(soa); err != nil {
			return err
		}
		if err := v.updateLightBuffer(lm, lightData, ambient); err != nil {
			return err
		}
		if err := v.updateViewUniform(info, lm, lightData, scaled, ambient, userTime); err != nil {
			return err
		}
	}
	return nil
}

// cullRenderables tests every renderable's world-space bounding box against
// the frustum and writes the outcome into one bit of the row's visibility
// mask. Large sets fan out across the worker pool in batch-aligned chunks
// that write disjoint rows.
func (v *viewImpl) cullRenderables(frustum *common.Frustum, soa *scene.RenderableSoa, bit uint) {
	n := cull.Round(soa.Count)
	if n == 0 {
		return
	}
	if n < cullFanOutThreshold {
		cull.Intersects(soa.Masks, frustum, soa.AabbCenter, soa.AabbExtent, soa.Count, bit)
		return
	}

	pool := v.scene.WorkerPool()
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < n; start += cullChunkSize {
		end := min(start+cullChunkSize, n)
		wg.Add(1)
		startCap, endCap := start, end // capture for closure
		pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				cull.Intersects(soa.Masks[startCap:endCap], frustum,
					soa.AabbCenter[startCap:endCap], soa.AabbExtent[startCap:endCap],
					endCap-startCap, bit)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
}

// updateLods refreshes the level-of-detail selection for every renderable
// contributing to the frame. Distance-based selection is not implemented;
// every visible renderable renders at its base level.
// TODO: select the level from the projected bounding-box size once
// renderables carry more than one level.
func (v *viewImpl) updateLods(soa *scene.RenderableSoa) {
	for i := v.ranges.merged.First; i < v.ranges.merged.Last; i++ {
		soa.Lods[i] = 0
	}
}

// ambientColor pre-exposes the environment irradiance for the light header
// and the per-view uniform.
func ambientColor(il scene.IndirectLight, exposure float32) [3]float32 {
	if il == nil {
		return [3]float32{}
	}
	irradiance := il.Irradiance()
	k := il.Intensity() * exposure
	return [3]float32{irradiance[0] * k, irradiance[1] * k, irradiance[2] * k}
}
