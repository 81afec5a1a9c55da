package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPULights is the maximum number of positional lights that can be
// marshaled into the GPU light buffer per frame. The froxel light-index
// records are 8 bits wide, so 256 is a hard ceiling; the visibility pipeline
// distance-sorts surviving lights and truncates to this cap (plus the one
// directional slot) before upload.
const MaxGPULights = 256

// GPULight is the GPU-aligned representation of a single positional light in
// the froxel light buffer. Size: 64 bytes (std430 / WGSL aligned).
//
// Layout:
//
//	vec4<f32> position_radius    (16 bytes, offset  0)
//	vec3<f32> color              (12 bytes, offset 16)
//	f32       intensity          ( 4 bytes, offset 28)
//	vec3<f32> direction          (12 bytes, offset 32)
//	f32       cos_outer_squared  ( 4 bytes, offset 44)
//	u32       light_type         ( 4 bytes, offset 48)
//	u32       casts_shadows      ( 4 bytes, offset 52)
//	u32       shadow_index       ( 4 bytes, offset 56)
//	u32       _pad               ( 4 bytes, offset 60)
type GPULight struct {
	PositionRadius  [4]float32 // world-space position xyz + culling sphere radius
	Color           [3]float32 // RGB color
	Intensity       float32    // scalar multiplier
	Direction       [3]float32 // normalized cone axis (spot) or unused (point)
	CosOuterSquared float32    // cos²(outer half-angle) for spot cone falloff
	LightType       uint32     // 1 = point, 2 = spot
	CastsShadows    uint32     // 1 = casts shadows, 0 = does not
	ShadowIndex     uint32     // spot shadow slot + 1, 0 = no shadow map
	_pad            uint32     // padding to 64-byte alignment
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.PositionRadius[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.PositionRadius[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.PositionRadius[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.PositionRadius[3]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Direction[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Direction[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(g.Direction[2]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.CosOuterSquared))
	binary.LittleEndian.PutUint32(buf[48:52], g.LightType)
	binary.LittleEndian.PutUint32(buf[52:56], g.CastsShadows)
	binary.LittleEndian.PutUint32(buf[56:60], g.ShadowIndex)
	binary.LittleEndian.PutUint32(buf[60:64], 0) // padding
	return buf
}

// GPULightHeader is the header prepended to the light buffer. Contains the
// exposure-scaled ambient color and the positional light count that follows.
// Size: 16 bytes (vec3 + u32, std430 aligned).
type GPULightHeader struct {
	AmbientColor [3]float32 // offset 0: indirect-light RGB, pre-multiplied by exposure
	LightCount   uint32     // offset 12: number of GPULight records following the header
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(h.AmbientColor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(h.AmbientColor[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(h.AmbientColor[2]))
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// ToGPULight builds the GPU record for one positional light from its
// world-space culling sphere and direction (already transformed into the
// rendering origin by scene preparation) plus the light's own properties.
//
// Parameters:
//   - l: the light to convert
//   - positionRadius: world-space position xyz + culling sphere radius
//   - direction: world-space normalized direction
//   - shadowIndex: assigned spot shadow slot + 1, or 0 for none
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l Light, positionRadius [4]float32, direction [3]float32, shadowIndex uint32) GPULight {
	shadowVal := uint32(0)
	if l.CastsShadows() {
		shadowVal = 1
	}
	outer := l.OuterCone()
	return GPULight{
		PositionRadius:  positionRadius,
		Color:           l.Color(),
		Intensity:       l.Intensity(),
		Direction:       direction,
		CosOuterSquared: outer * outer,
		LightType:       uint32(l.Type()),
		CastsShadows:    shadowVal,
		ShadowIndex:     shadowIndex,
	}
}
