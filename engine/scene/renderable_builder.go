package scene

// RenderableBuilderOption is a functional option for configuring a Renderable.
// Use the With* functions to create options.
type RenderableBuilderOption func(*renderableImpl)

// WithTransform sets the renderable's local-to-world matrix.
//
// Parameters:
//   - m: the transform matrix (column-major)
//
// Returns:
//   - RenderableBuilderOption: option function to apply
func WithTransform(m [16]float32) RenderableBuilderOption {
	return func(r *renderableImpl) {
		r.transform = m
	}
}

// WithBoundingBox sets the renderable's local-space bounding box.
//
// Parameters:
//   - center: the box center
//   - extent: the half-extent per axis
//
// Returns:
//   - RenderableBuilderOption: option function to apply
func WithBoundingBox(center, extent [3]float32) RenderableBuilderOption {
	return func(r *renderableImpl) {
		r.aabbCenter = center
		r.aabbExtent = extent
	}
}

// WithLayerMask sets the full bitmask of layers the renderable belongs to.
//
// Parameters:
//   - layers: the layer bitmask
//
// Returns:
//   - RenderableBuilderOption: option function to apply
func WithLayerMask(layers uint8) RenderableBuilderOption {
	return func(r *renderableImpl) {
		r.layers = layers
	}
}

// WithShadowCaster sets whether the renderable casts shadows.
//
// Parameters:
//   - casts: true to cast shadows
//
// Returns:
//   - RenderableBuilderOption: option function to apply
func WithShadowCaster(casts bool) RenderableBuilderOption {
	return func(r *renderableImpl) {
		r.castShadows = casts
	}
}

// WithShadowReceiver sets whether the renderable receives shadows.
//
// Parameters:
//   - receives: true to receive shadows
//
// Returns:
//   - RenderableBuilderOption: option function to apply
func WithShadowReceiver(receives bool) RenderableBuilderOption {
	return func(r *renderableImpl) {
		r.receiveShadows = receives
	}
}

// WithCulling sets whether frustum culling applies to the renderable.
// Culling is enabled by default.
//
// Parameters:
//   - enabled: true to enable culling
//
// Returns:
//   - RenderableBuilderOption: option function to apply
func WithCulling(enabled bool) RenderableBuilderOption {
	return func(r *renderableImpl) {
		r.culling = enabled
	}
}

// WithLodCount sets the number of detail levels the renderable provides.
//
// Parameters:
//   - count: the level count (minimum 1)
//
// Returns:
//   - RenderableBuilderOption: option function to apply
func WithLodCount(count uint8) RenderableBuilderOption {
	return func(r *renderableImpl) {
		if count < 1 {
			count = 1
		}
		r.lodCount = count
	}
}
