package view

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUViewUniform is the GPU-aligned representation of the per-view uniform
// buffer, committed once per prepared frame. Size: 336 bytes (std430 / WGSL
// aligned).
//
// Layout:
//
//	mat4x4<f32> view_from_world      ( 64 bytes, offset   0)
//	mat4x4<f32> clip_from_view       ( 64 bytes, offset  64)
//	mat4x4<f32> clip_from_world      ( 64 bytes, offset 128)
//	vec4<f32>   viewport             ( 16 bytes, offset 192)
//	vec4<f32>   resolution           ( 16 bytes, offset 208)
//	vec3<f32>   camera_position      ( 12 bytes, offset 224)
//	f32         exposure             (  4 bytes, offset 236)
//	vec3<f32>   ambient_color        ( 12 bytes, offset 240)
//	f32         ev100                (  4 bytes, offset 252)
//	vec3<f32>   sun_direction        ( 12 bytes, offset 256)
//	u32         cascade_count        (  4 bytes, offset 268)
//	vec4<f32>   sun_color_intensity  ( 16 bytes, offset 272)
//	vec3<u32>   froxel_count         ( 12 bytes, offset 288)
//	f32         time                 (  4 bytes, offset 300)
//	vec4<f32>   froxel_z_params      ( 16 bytes, offset 304)
//	vec4<f32>   cascade_splits       ( 16 bytes, offset 320)
type GPUViewUniform struct {
	ViewFromWorld     [16]float32 // offset   0: camera view matrix
	ClipFromView      [16]float32 // offset  64: projection matrix
	ClipFromWorld     [16]float32 // offset 128: projection * view
	Viewport          [4]float32  // offset 192: scaled viewport (left, bottom, width, height)
	Resolution        [4]float32  // offset 208: scaled size (w, h, 1/w, 1/h)
	CameraPosition    [3]float32  // offset 224: camera position in the rendering origin
	Exposure          float32     // offset 236: photometric exposure multiplier
	AmbientColor      [3]float32  // offset 240: pre-exposed environment irradiance
	Ev100             float32     // offset 252: exposure value at ISO 100
	SunDirection      [3]float32  // offset 256: directional light direction
	CascadeCount      uint32      // offset 268: active directional shadow cascades
	SunColorIntensity [4]float32  // offset 272: directional RGB + pre-exposed intensity
	FroxelCountX      uint32      // offset 288: froxel grid columns
	FroxelCountY      uint32      // offset 292: froxel grid rows
	FroxelCountZ      uint32      // offset 296: froxel depth slices
	Time              float32     // offset 300: shader clock in seconds
	FroxelZParams     [4]float32  // offset 304: zLightNear, zLightFar, logZScale, logZBias
	CascadeSplits     [4]float32  // offset 320: view-space cascade far bounds, +Inf past the last
}

// Size returns the size of the GPUViewUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (336)
func (g *GPUViewUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUViewUniform struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUViewUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewFromWorld[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.ClipFromView[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.ClipFromWorld[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[192+i*4:], math.Float32bits(g.Viewport[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[208+i*4:], math.Float32bits(g.Resolution[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[224+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[236:], math.Float32bits(g.Exposure))
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[240+i*4:], math.Float32bits(g.AmbientColor[i]))
	}
	binary.LittleEndian.PutUint32(buf[252:], math.Float32bits(g.Ev100))
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[256+i*4:], math.Float32bits(g.SunDirection[i]))
	}
	binary.LittleEndian.PutUint32(buf[268:], g.CascadeCount)
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[272+i*4:], math.Float32bits(g.SunColorIntensity[i]))
	}
	binary.LittleEndian.PutUint32(buf[288:], g.FroxelCountX)
	binary.LittleEndian.PutUint32(buf[292:], g.FroxelCountY)
	binary.LittleEndian.PutUint32(buf[296:], g.FroxelCountZ)
	binary.LittleEndian.PutUint32(buf[300:], math.Float32bits(g.Time))
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[304+i*4:], math.Float32bits(g.FroxelZParams[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[320+i*4:], math.Float32bits(g.CascadeSplits[i]))
	}
	return buf
}
