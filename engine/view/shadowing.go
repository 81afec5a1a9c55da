package view

import (
	"github.com/Carmen-Shannon/vista-go/engine/camera"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/Carmen-Shannon/vista-go/engine/scene"
	"github.com/Carmen-Shannon/vista-go/engine/shadow"
)

// prepareShadowing registers this frame's shadow-casting lights with the
// shadow manager and resolves the shadowing technique. It runs after light
// culling, so the positional slots hold only visible lights sorted by camera
// distance and the spot shadow slots go to the closest casters.
func (v *viewImpl) prepareShadowing(lm light.Manager, lightData *scene.LightSoa, info camera.Info) {
	v.hasShadowing = false
	v.needsShadowMap = false
	v.shadowMgr.Reset()
	if !v.shadowingEnabled {
		return
	}

	if inst := lightData.Instances[0]; inst.IsValid() && lm.IsShadowCaster(inst) {
		v.shadowMgr.SetCascades(0, lm.ShadowOptions(inst))
	}

	for i := 1; i < lightData.Count; i++ {
		inst := lightData.Instances[i]
		if !inst.IsValid() || !lm.IsShadowCaster(inst) || !lm.IsSpotLight(inst) {
			continue
		}
		// Slots are exhausted once a registration is refused; later lights
		// are farther away and cannot claim one either.
		if !v.shadowMgr.AddSpotShadowMap(i, lm.ShadowOptions(inst)) {
			break
		}
	}

	technique := v.shadowMgr.Update(shadow.UpdateParams{
		ShadowType:        v.shadowType,
		CameraNear:        info.Zn,
		CameraFar:         info.Zf,
		CullingProjection: info.CullingProjection,
		View:              info.View,
	})
	v.hasShadowing = technique != 0
	v.needsShadowMap = technique.HasShadowMap()
}

// cullShadowCasters tags renderable rows with the shadow maps whose culling
// volumes they intersect: bit 1 for the directional cascades, one bit from
// bit 2 up for each registered spot shadow map. Rows outside the camera
// frustum keep their caster bits so geometry behind the viewer still casts
// into the frame.
func (v *viewImpl) cullShadowCasters(lm light.Manager, lightData *scene.LightSoa, soa *scene.RenderableSoa) {
	if !v.needsShadowMap {
		return
	}

	if v.shadowMgr.HasDirectionalShadows() {
		if frustum, ok := v.shadowMgr.DirectionalCullingFrustum(lightData.Directions[0]); ok {
			v.cullRenderables(&frustum, soa, visibleDirShadowCasterBit)
		}
	}

	for slot := 0; slot < v.shadowMgr.SpotShadowCount(); slot++ {
		idx := v.shadowMgr.SpotLightIndex(slot)
		if idx >= lightData.Count {
			continue
		}
		inst := lightData.Instances[idx]
		if !inst.IsValid() {
			continue
		}
		l := lm.Light(inst)
		pos := [3]float32{
			lightData.PositionRadius[idx][0],
			lightData.PositionRadius[idx][1],
			lightData.PositionRadius[idx][2],
		}
		frustum := v.shadowMgr.SpotCullingFrustum(slot, pos, lightData.Directions[idx], l.OuterCone(), l.Range())
		v.cullRenderables(&frustum, soa, visibleSpotShadowBaseBit+uint(slot))
	}
}
