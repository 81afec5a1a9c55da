package scene

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPURenderableData is the GPU-aligned per-object record uploaded to the
// renderable uniform buffer. One record per visible renderable, indexed by
// the object's position in the prepared renderable arrays.
// Size: 128 bytes (std430 / WGSL aligned).
//
// Layout:
//
//	mat4x4<f32> world_from_model   (64 bytes, offset  0)
//	mat3x3<f32> normal_from_model  (48 bytes, offset 64, vec4-padded columns)
//	u32         flags              ( 4 bytes, offset 112)
//	u32         layers             ( 4 bytes, offset 116)
//	u32         object_id          ( 4 bytes, offset 120)
//	u32         _pad               ( 4 bytes, offset 124)
type GPURenderableData struct {
	WorldFromModel  [16]float32 // column-major world transform
	NormalFromModel [12]float32 // cofactor of the upper 3x3, vec4-padded columns
	Flags           uint32      // packed VisibilityFlags
	Layers          uint32      // layer membership bitmask
	ObjectID        uint32      // stable renderable id for picking
	_pad            uint32      // padding to 128-byte alignment
}

// Size returns the size of the GPURenderableData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPURenderableData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPURenderableData struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload
func (g *GPURenderableData) Marshal() []byte {
	buf := make([]byte, 128)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.WorldFromModel[i]))
	}
	for i := range 12 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.NormalFromModel[i]))
	}
	binary.LittleEndian.PutUint32(buf[112:], g.Flags)
	binary.LittleEndian.PutUint32(buf[116:], g.Layers)
	binary.LittleEndian.PutUint32(buf[120:], g.ObjectID)
	binary.LittleEndian.PutUint32(buf[124:], 0) // _pad
	return buf
}

// ToGPURenderableData builds the GPU record for one renderable from its
// prepared world transform and packed attributes. The normal matrix is the
// cofactor of the world transform's upper 3x3, which transforms normals
// correctly under non-uniform scale (shaders renormalize after transform).
//
// Parameters:
//   - world: column-major world transform
//   - flags: packed VisibilityFlags
//   - layers: layer membership bitmask
//   - objectID: stable renderable id
//
// Returns:
//   - GPURenderableData: the GPU-aligned representation
func ToGPURenderableData(world [16]float32, flags VisibilityFlags, layers uint8, objectID uint32) GPURenderableData {
	m00, m10, m20 := world[0], world[1], world[2]
	m01, m11, m21 := world[4], world[5], world[6]
	m02, m12, m22 := world[8], world[9], world[10]

	return GPURenderableData{
		WorldFromModel: world,
		NormalFromModel: [12]float32{
			m11*m22 - m21*m12, m21*m02 - m01*m22, m01*m12 - m11*m02, 0,
			m20*m12 - m10*m22, m00*m22 - m20*m02, m10*m02 - m00*m12, 0,
			m10*m21 - m20*m11, m20*m01 - m00*m21, m00*m11 - m10*m01, 0,
		},
		Flags:    uint32(flags),
		Layers:   uint32(layers),
		ObjectID: objectID,
	}
}
