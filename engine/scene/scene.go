package scene

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/chewxy/math32"
)

// parallelPrepareThreshold is the renderable count above which the flatten
// pass fans out across the worker pool instead of running serially.
const parallelPrepareThreshold = 128

// prepareChunkSize is the number of renderables each worker task flattens.
const prepareChunkSize = 64

// Scene manages a registry of Renderables and lights together with the
// optional environment (indirect light and skybox). Each frame, Prepare
// flattens the registry into structure-of-arrays form for the visibility
// passes; the per-frame data is owned by whichever view is being prepared.
// Scenes can be hot-swapped via the Active flag to switch between levels.
// Thread-safe for concurrent access outside of Prepare.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// AddRenderable registers a renderable and returns its stable id.
	// Panics if r is nil.
	//
	// Parameters:
	//   - r: the renderable to add
	//
	// Returns:
	//   - uint64: the assigned id
	AddRenderable(r Renderable) uint64

	// RemoveRenderable removes the renderable with the given id. Unknown ids
	// are ignored.
	//
	// Parameters:
	//   - id: the id returned by AddRenderable
	RemoveRenderable(id uint64)

	// Renderable returns the renderable with the given id, or nil.
	//
	// Parameters:
	//   - id: the id returned by AddRenderable
	//
	// Returns:
	//   - Renderable: the renderable or nil if not found
	Renderable(id uint64) Renderable

	// RenderableCount returns the number of registered renderables.
	//
	// Returns:
	//   - int: the renderable count
	RenderableCount() int

	// AddLight registers a light with the scene's light manager and includes
	// it in per-frame preparation. A directional light replaces any previous
	// directional light; positional lights accumulate. Panics if l is nil.
	//
	// Parameters:
	//   - l: the light to add
	//
	// Returns:
	//   - light.Instance: the manager handle for the light
	AddLight(l light.Light) light.Instance

	// RemoveLight stops including the light in per-frame preparation. The
	// manager handle stays valid. Unknown handles are ignored.
	//
	// Parameters:
	//   - instance: the handle returned by AddLight
	RemoveLight(instance light.Instance)

	// DirectionalLight returns the handle of the scene's directional light,
	// or the invalid handle when none is set.
	//
	// Returns:
	//   - light.Instance: the directional light handle
	DirectionalLight() light.Instance

	// Lights returns the scene's light manager.
	//
	// Returns:
	//   - light.Manager: the light manager
	Lights() light.Manager

	// LightCount returns the number of lights included in preparation,
	// counting the directional light if present.
	//
	// Returns:
	//   - int: the light count
	LightCount() int

	// IndirectLight returns the scene's environment light, or nil.
	IndirectLight() IndirectLight

	// SetIndirectLight replaces the scene's environment light. May be nil.
	//
	// Parameters:
	//   - il: the indirect light to set
	SetIndirectLight(il IndirectLight)

	// Skybox returns the scene's skybox, or nil.
	Skybox() Skybox

	// SetSkybox replaces the scene's skybox. May be nil.
	//
	// Parameters:
	//   - sb: the skybox to set
	SetSkybox(sb Skybox)

	// Prepare flattens the registry into the per-frame structure-of-arrays.
	// Renderable transforms and bounding boxes are brought into world space
	// with the world-origin transform folded in, visibility flags are packed,
	// and the light columns are filled with the directional light in slot 0.
	// When shadowReceiversAreCasters is set, every shadow receiver is also
	// marked as a caster (required by shadow mapping techniques that blur the
	// stored depth). Called once per frame before visibility processing.
	//
	// Parameters:
	//   - worldOrigin: the transform applied to the whole world (column-major)
	//   - shadowReceiversAreCasters: widen caster flags to include receivers
	Prepare(worldOrigin [16]float32, shadowReceiversAreCasters bool)

	// RenderableData returns the per-frame renderable columns filled by the
	// last Prepare call. The visibility passes mutate this data in place;
	// it is only coherent between Prepare and the end of frame preparation.
	//
	// Returns:
	//   - *RenderableSoa: the renderable columns
	RenderableData() *RenderableSoa

	// LightData returns the per-frame light columns filled by the last
	// Prepare call. Same coherency rules as RenderableData.
	//
	// Returns:
	//   - *LightSoa: the light columns
	LightData() *LightSoa

	// WorkerPool returns the scene's worker pool, shared with the view for
	// the parallel phases of frame preparation.
	//
	// Returns:
	//   - worker.DynamicWorkerPool: the pool
	WorkerPool() worker.DynamicWorkerPool
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	renderables map[uint64]Renderable
	order       []uint64
	nextID      uint64

	lightManager light.Manager
	directional  light.Instance
	positional   []light.Instance

	indirectLight IndirectLight
	skybox        Skybox

	renderableSoa RenderableSoa
	lightSoa      LightSoa

	// flattenList and flattenIds are scratch buffers reused across frames so
	// Prepare does not allocate at steady state.
	flattenList []Renderable
	flattenIds  []uint64

	// computePool manages a bounded set of reusable goroutines for the
	// parallel flatten phase of Prepare and the view's culling fan-out.
	// Workers persist across frames, avoiding per-frame goroutine
	// spawn/teardown overhead.
	computePool    worker.DynamicWorkerPool
	computeWorkers int // stored so we can log/inspect the configured count
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with the given name. The scene starts
// inactive with no renderables, lights, or environment.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		active:         false,
		renderables:    make(map[uint64]Renderable),
		nextID:         1,
		lightManager:   light.NewManager(),
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can
	// override the default. Queue size of 256 accommodates the flatten and
	// culling chunk counts of large scenes with headroom.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) AddRenderable(r Renderable) uint64 {
	if r == nil {
		panic("scene: AddRenderable requires a non-nil Renderable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.renderables[id] = r
	s.order = append(s.order, id)
	return id
}

func (s *scene) RemoveRenderable(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.renderables[id]; !ok {
		return
	}
	delete(s.renderables, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *scene) Renderable(id uint64) Renderable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderables[id]
}

func (s *scene) RenderableCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *scene) AddLight(l light.Light) light.Instance {
	if l == nil {
		panic("scene: AddLight requires a non-nil Light")
	}
	instance := s.lightManager.Register(l)
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.Type() == light.LightTypeDirectional {
		s.directional = instance
	} else {
		s.positional = append(s.positional, instance)
	}
	return instance
}

func (s *scene) RemoveLight(instance light.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.directional == instance {
		s.directional = 0
		return
	}
	for i, inst := range s.positional {
		if inst == instance {
			s.positional = append(s.positional[:i], s.positional[i+1:]...)
			return
		}
	}
}

func (s *scene) DirectionalLight() light.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directional
}

func (s *scene) Lights() light.Manager {
	return s.lightManager
}

func (s *scene) LightCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := len(s.positional)
	if s.directional.IsValid() {
		count++
	}
	return count
}

func (s *scene) IndirectLight() IndirectLight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indirectLight
}

func (s *scene) SetIndirectLight(il IndirectLight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indirectLight = il
}

func (s *scene) Skybox() Skybox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skybox
}

func (s *scene) SetSkybox(sb Skybox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skybox = sb
}

func (s *scene) Prepare(worldOrigin [16]float32, shadowReceiversAreCasters bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.order)
	s.renderableSoa.Resize(count)

	// Snapshot the registry in insertion order so worker tasks index a
	// stable slice.
	if cap(s.flattenList) < count {
		s.flattenList = make([]Renderable, count)
		s.flattenIds = make([]uint64, count)
	}
	list := s.flattenList[:count]
	ids := s.flattenIds[:count]
	for i, id := range s.order {
		list[i] = s.renderables[id]
		ids[i] = id
	}

	flatten := func(start, end int) {
		soa := &s.renderableSoa
		for i := start; i < end; i++ {
			r := list[i]
			local := r.Transform()
			var world [16]float32
			common.Mul4(world[:], worldOrigin[:], local[:])

			center, extent := r.BoundingBox()
			worldCenter, worldExtent := common.TransformAabb(world[:], center, extent)

			flags := flagsOf(r)
			if shadowReceiversAreCasters && flags&FlagReceiveShadows != 0 {
				flags |= FlagCastShadows
			}

			soa.WorldTransform[i] = world
			soa.AabbCenter[i] = worldCenter
			soa.AabbExtent[i] = worldExtent
			soa.Layers[i] = r.LayerMask()
			soa.Flags[i] = flags
			soa.Masks[i] = 0
			soa.Lods[i] = 0
			soa.LodCounts[i] = r.LodCount()
			soa.Ids[i] = uint32(ids[i])
		}
	}

	if count >= parallelPrepareThreshold {
		// Fan the flatten out across the pool in fixed-size chunks. Chunks
		// write disjoint index ranges, so no synchronization is needed
		// beyond the join barrier. pool.Wait() blocks until workers
		// idle-exit, which is unsuitable for frame-rate workloads, so a
		// WaitGroup provides the per-frame barrier instead.
		var wg sync.WaitGroup
		taskID := 0
		for start := 0; start < count; start += prepareChunkSize {
			end := min(start+prepareChunkSize, count)
			wg.Add(1)
			startCap, endCap := start, end // capture for closure
			s.computePool.SubmitTask(worker.Task{
				ID: taskID,
				Do: func() (any, error) {
					defer wg.Done()
					flatten(startCap, endCap)
					return nil, nil
				},
			})
			taskID++
		}
		wg.Wait()
	} else {
		flatten(0, count)
	}

	s.prepareLightData(worldOrigin)
}

// prepareLightData fills the light columns. Slot 0 is always the directional
// light; enabled positional lights follow in registration order. Disabled
// lights never enter the frame's list. Caller must hold the mutex.
func (s *scene) prepareLightData(worldOrigin [16]float32) {
	soa := &s.lightSoa
	soa.Resize(1 + len(s.positional))

	// The directional slot is reserved even when the scene has no
	// directional light; downstream passes check the handle validity. A
	// disabled directional light presents as absent.
	soa.Instances[0] = 0
	soa.PositionRadius[0] = [4]float32{}
	soa.Directions[0] = [3]float32{0, -1, 0}
	soa.Visible[0] = 1
	if s.directional.IsValid() {
		l := s.lightManager.Light(s.directional)
		if l.Enabled() {
			soa.Instances[0] = s.directional
			soa.Directions[0] = common.Normalize3(common.TransformDirection(worldOrigin[:], l.Direction()))
			soa.PositionRadius[0] = [4]float32{0, 0, 0, math32.Inf(1)}
		}
	}

	n := 1
	for _, instance := range s.positional {
		l := s.lightManager.Light(instance)
		if !l.Enabled() {
			continue
		}
		p := common.TransformPoint(worldOrigin[:], l.Position())
		soa.PositionRadius[n] = [4]float32{p[0], p[1], p[2], l.Range()}
		soa.Directions[n] = common.Normalize3(common.TransformDirection(worldOrigin[:], l.Direction()))
		soa.Instances[n] = instance
		soa.Visible[n] = 0
		n++
	}
	soa.Truncate(n)
}

func (s *scene) RenderableData() *RenderableSoa {
	return &s.renderableSoa
}

func (s *scene) LightData() *LightSoa {
	return &s.lightSoa
}

func (s *scene) WorkerPool() worker.DynamicWorkerPool {
	return s.computePool
}
