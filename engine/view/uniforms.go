package view

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/camera"
	"github.com/Carmen-Shannon/vista-go/engine/driver"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/Carmen-Shannon/vista-go/engine/scene"
	"github.com/chewxy/math32"
)

const (
	renderableBufferLabel = "view-renderables"
	lightBufferLabel      = "view-lights"
	viewUniformLabel      = "view-uniform"
)

// minRenderableBufferRecords is the smallest renderable buffer ever
// allocated, in records.
const minRenderableBufferRecords = 16

// updateRenderableBuffer commits the merged visible set to the renderable
// buffer, growing it geometrically when the set outgrows the current
// allocation. The buffer never shrinks: a crowded frame sizes it for the rest
// of the session. An empty merged set leaves the buffer untouched and
// allocates nothing.
func (v *viewImpl) updateRenderableBuffer(soa *scene.RenderableSoa) error {
	var record scene.GPURenderableData
	stride := record.Size()

	merged := v.ranges.merged
	required := merged.Size()
	if required == 0 {
		return nil
	}
	needed := uint64(required * stride)
	if v.renderableBuffer == nil || needed > v.renderableBuffer.Size() {
		count := max(minRenderableBufferRecords, (4*required+2)/3)
		v.driver.DestroyBufferObject(v.renderableBuffer)
		v.renderableBuffer = nil
		buf, err := v.driver.CreateBufferObject(renderableBufferLabel, uint64(count*stride), driver.BufferBindingStorage)
		if err != nil {
			return fmt.Errorf("view: create renderable buffer: %w", err)
		}
		v.renderableBuffer = buf
	}

	v.renderableScratch = v.renderableScratch[:0]
	for i := merged.First; i < merged.Last; i++ {
		rec := scene.ToGPURenderableData(soa.WorldTransform[i], soa.Flags[i], soa.Layers[i], soa.Ids[i])
		v.renderableScratch = append(v.renderableScratch, rec.Marshal()...)
	}
	if len(v.renderableScratch) > 0 {
		v.driver.UpdateBufferObject(v.renderableBuffer, 0, v.renderableScratch)
	}
	return nil
}

// updateLightBuffer commits the light header and the positional light records
// that survived culling. The buffer is sized for the hard light cap up front,
// so it is allocated exactly once.
func (v *viewImpl) updateLightBuffer(lm light.Manager, lightData *scene.LightSoa, ambient [3]float32) error {
	var header light.GPULightHeader
	var record light.GPULight
	if v.lightBuffer == nil {
		size := uint64(header.Size() + light.MaxGPULights*record.Size())
		buf, err := v.driver.CreateBufferObject(lightBufferLabel, size, driver.BufferBindingStorage)
		if err != nil {
			return fmt.Errorf("view: create light buffer: %w", err)
		}
		v.lightBuffer = buf
	}

	positional := lightData.Count - 1
	if positional < 0 {
		positional = 0
	}
	header.AmbientColor = ambient
	header.LightCount = uint32(positional)

	v.lightScratch = v.lightScratch[:0]
	v.lightScratch = append(v.lightScratch, header.Marshal()...)
	for i := 1; i < lightData.Count; i++ {
		inst := lightData.Instances[i]
		if !inst.IsValid() {
			continue
		}
		rec := light.ToGPULight(lm.Light(inst), lightData.PositionRadius[i], lightData.Directions[i], v.spotShadowIndexFor(i))
		v.lightScratch = append(v.lightScratch, rec.Marshal()...)
	}
	v.driver.UpdateBufferObject(v.lightBuffer, 0, v.lightScratch)
	return nil
}

// spotShadowIndexFor maps a light slot to its one-based spot shadow index,
// or 0 when the light has no shadow map this frame.
func (v *viewImpl) spotShadowIndexFor(lightIndex int) uint32 {
	if !v.needsShadowMap {
		return 0
	}
	for slot := 0; slot < v.shadowMgr.SpotShadowCount(); slot++ {
		if v.shadowMgr.SpotLightIndex(slot) == lightIndex {
			return uint32(slot + 1)
		}
	}
	return 0
}

// updateViewUniform commits the per-view uniform block for the prepared
// frame.
func (v *viewImpl) updateViewUniform(info camera.Info, lm light.Manager, lightData *scene.LightSoa,
	scaled common.Viewport, ambient [3]float32, userTime time.Duration) error {
	var u GPUViewUniform
	if v.uniformBuffer == nil {
		buf, err := v.driver.CreateBufferObject(viewUniformLabel, uint64(u.Size()), driver.BufferBindingUniform)
		if err != nil {
			return fmt.Errorf("view: create uniform buffer: %w", err)
		}
		v.uniformBuffer = buf
	}

	u.ViewFromWorld = info.View
	u.ClipFromView = info.Projection
	common.Mul4(u.ClipFromWorld[:], info.Projection[:], info.View[:])

	w := float32(scaled.Width)
	h := float32(scaled.Height)
	u.Viewport = [4]float32{float32(scaled.Left), float32(scaled.Bottom), w, h}
	u.Resolution = [4]float32{w, h, 0, 0}
	if w > 0 {
		u.Resolution[2] = 1 / w
	}
	if h > 0 {
		u.Resolution[3] = 1 / h
	}

	u.CameraPosition = info.Position()
	u.Exposure = info.Exposure()
	u.AmbientColor = ambient
	u.Ev100 = info.Ev100

	u.SunDirection = lightData.Directions[0]
	u.CascadeCount = uint32(v.shadowMgr.CascadeCount())
	if inst := lightData.Instances[0]; inst.IsValid() {
		l := lm.Light(inst)
		c := l.Color()
		u.SunColorIntensity = [4]float32{c[0], c[1], c[2], l.Intensity() * u.Exposure}
	}

	grid := v.froxelGrid
	u.FroxelCountX = grid.CountX
	u.FroxelCountY = grid.CountY
	u.FroxelCountZ = grid.CountZ
	u.Time = float32(userTime.Seconds())
	u.FroxelZParams = [4]float32{grid.ZLightNear, grid.ZLightFar, grid.LogZScale, grid.LogZBias}

	splits := v.shadowMgr.CascadeSplits()
	for i := range u.CascadeSplits {
		u.CascadeSplits[i] = math32.Inf(1)
		if i+1 < len(splits) {
			u.CascadeSplits[i] = splits[i+1]
		}
	}

	v.driver.UpdateBufferObject(v.uniformBuffer, 0, u.Marshal())
	return nil
}
