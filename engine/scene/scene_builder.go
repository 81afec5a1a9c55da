package scene

import (
	"github.com/Carmen-Shannon/vista-go/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene during creation.
type SceneBuilderOption func(*scene)

// WithActive sets the initial active state of the scene.
//
// Parameters:
//   - active: whether the scene starts active
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithRenderables registers the given renderables with the scene. Nil entries
// are skipped.
//
// Parameters:
//   - renderables: the renderables to add
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithRenderables(renderables ...Renderable) SceneBuilderOption {
	return func(s *scene) {
		for _, r := range renderables {
			if r == nil {
				continue
			}
			id := s.nextID
			s.nextID++
			s.renderables[id] = r
			s.order = append(s.order, id)
		}
	}
}

// WithLights registers the given lights with the scene. Nil entries are
// skipped. A directional light replaces any previous directional light.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		for _, l := range lights {
			if l == nil {
				continue
			}
			instance := s.lightManager.Register(l)
			if l.Type() == light.LightTypeDirectional {
				s.directional = instance
			} else {
				s.positional = append(s.positional, instance)
			}
		}
	}
}

// WithComputeWorkers sets the number of workers in the scene's compute pool.
// Values below 1 are clamped to 1. Defaults to NumCPU-1.
//
// Parameters:
//   - workers: the number of pool workers
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithComputeWorkers(workers int) SceneBuilderOption {
	return func(s *scene) {
		s.computeWorkers = max(workers, 1)
	}
}

// WithIndirectLight sets the scene's environment light.
//
// Parameters:
//   - il: the indirect light to use
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithIndirectLight(il IndirectLight) SceneBuilderOption {
	return func(s *scene) {
		s.indirectLight = il
	}
}

// WithSkybox sets the scene's skybox.
//
// Parameters:
//   - sb: the skybox to use
//
// Returns:
//   - SceneBuilderOption: the option to apply
func WithSkybox(sb Skybox) SceneBuilderOption {
	return func(s *scene) {
		s.skybox = sb
	}
}
