// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "github.com/chewxy/math32"

// Viewport describes a rectangle of the render target in pixels.
// Left/Bottom are the lower-left origin, following the GPU scissor convention.
type Viewport struct {
	// Left is the horizontal offset of the rectangle's lower-left corner.
	Left int32
	// Bottom is the vertical offset of the rectangle's lower-left corner.
	Bottom int32
	// Width is the rectangle width in pixels.
	Width uint32
	// Height is the rectangle height in pixels.
	Height uint32
}

// Empty reports whether the viewport has a zero area.
//
// Returns:
//   - bool: true when width or height is zero
func (v Viewport) Empty() bool {
	return v.Width == 0 || v.Height == 0
}

// Scaled returns the viewport scaled by independent x/y factors, rounding
// each dimension to the nearest pixel. The origin scales with the size so
// nested viewports keep their relative placement.
//
// Parameters:
//   - sx: horizontal scale factor
//   - sy: vertical scale factor
//
// Returns:
//   - Viewport: the scaled viewport
func (v Viewport) Scaled(sx, sy float32) Viewport {
	return Viewport{
		Left:   int32(math32.Round(float32(v.Left) * sx)),
		Bottom: int32(math32.Round(float32(v.Bottom) * sy)),
		Width:  uint32(math32.Round(float32(v.Width) * sx)),
		Height: uint32(math32.Round(float32(v.Height) * sy)),
	}
}

// Range is a half-open index interval [First, Last) into a parallel-array
// set. Ranges are frame-local: partitioning physically reorders rows, so a
// range captured on one frame must not be carried into the next.
type Range struct {
	// First is the inclusive start index.
	First int
	// Last is the exclusive end index.
	Last int
}

// Size returns the number of indices covered by the range.
//
// Returns:
//   - int: Last - First, or 0 for an inverted range
func (r Range) Size() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First
}

// Empty reports whether the range covers no indices.
//
// Returns:
//   - bool: true when Size() == 0
func (r Range) Empty() bool {
	return r.Size() == 0
}
