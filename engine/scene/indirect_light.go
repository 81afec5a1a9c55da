package scene

import (
	"sync"

	"github.com/Carmen-Shannon/vista-go/common"
)

// DefaultIndirectLightIntensity is the default environment intensity in lux.
const DefaultIndirectLightIntensity = 30000.0

type indirectLightImpl struct {
	mu sync.RWMutex

	rotation   [16]float32
	irradiance [3]float32
	intensity  float32
}

// IndirectLight describes image-based environment lighting: an irradiance
// color, an intensity in lux, and a rotation applied to the environment. The
// inverse of the rotation becomes the frame's world-origin transform so that
// the environment stays axis-aligned while the world rotates under it.
type IndirectLight interface {
	// Rotation returns the environment rotation (column-major; the upper 3x3
	// is a pure rotation).
	//
	// Returns:
	//   - [16]float32: the rotation matrix
	Rotation() [16]float32

	// WorldOriginTransform returns the inverse of the environment rotation.
	// Rotations invert by transposition, so this is the transpose of the
	// upper 3x3 promoted back to a 4x4.
	//
	// Returns:
	//   - [16]float32: the world-origin transform for the frame
	WorldOriginTransform() [16]float32

	// Irradiance returns the average environment irradiance color.
	//
	// Returns:
	//   - [3]float32: linear RGB irradiance
	Irradiance() [3]float32

	// Intensity returns the environment intensity in lux.
	//
	// Returns:
	//   - float32: the intensity
	Intensity() float32

	// SetRotation replaces the environment rotation. The matrix must be a
	// pure rotation in its upper 3x3.
	//
	// Parameters:
	//   - m: the rotation matrix (column-major)
	SetRotation(m [16]float32)

	// SetIrradiance sets the average environment irradiance color.
	//
	// Parameters:
	//   - color: linear RGB irradiance
	SetIrradiance(color [3]float32)

	// SetIntensity sets the environment intensity in lux.
	//
	// Parameters:
	//   - intensity: the intensity
	SetIntensity(intensity float32)
}

var _ IndirectLight = &indirectLightImpl{}

// NewIndirectLight creates a new IndirectLight with an identity rotation,
// white irradiance, and the default intensity.
//
// Parameters:
//   - options: functional options to configure the indirect light
//
// Returns:
//   - IndirectLight: the newly created indirect light
func NewIndirectLight(options ...IndirectLightBuilderOption) IndirectLight {
	il := &indirectLightImpl{
		rotation:   [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		irradiance: [3]float32{1, 1, 1},
		intensity:  DefaultIndirectLightIntensity,
	}
	for _, option := range options {
		option(il)
	}
	return il
}

func (il *indirectLightImpl) Rotation() [16]float32 {
	il.mu.RLock()
	defer il.mu.RUnlock()
	return il.rotation
}

func (il *indirectLightImpl) WorldOriginTransform() [16]float32 {
	il.mu.RLock()
	defer il.mu.RUnlock()
	var out [16]float32
	common.Transpose4(out[:], il.rotation[:])
	// Transposing moved the translation row into the bottom row; a rotation
	// has none, so clear both to keep the result affine.
	out[3], out[7], out[11] = 0, 0, 0
	out[12], out[13], out[14] = 0, 0, 0
	out[15] = 1
	return out
}

func (il *indirectLightImpl) Irradiance() [3]float32 {
	il.mu.RLock()
	defer il.mu.RUnlock()
	return il.irradiance
}

func (il *indirectLightImpl) Intensity() float32 {
	il.mu.RLock()
	defer il.mu.RUnlock()
	return il.intensity
}

func (il *indirectLightImpl) SetRotation(m [16]float32) {
	il.mu.Lock()
	defer il.mu.Unlock()
	il.rotation = m
}

func (il *indirectLightImpl) SetIrradiance(color [3]float32) {
	il.mu.Lock()
	defer il.mu.Unlock()
	il.irradiance = color
}

func (il *indirectLightImpl) SetIntensity(intensity float32) {
	il.mu.Lock()
	defer il.mu.Unlock()
	il.intensity = intensity
}
