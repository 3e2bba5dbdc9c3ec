// Package input turns user and sensor events into the per-frame RenderState.
// Handlers never mutate a shared state; each returns an updated copy that the
// caller hands to the next render.
package input

import (
	"polar-anaglyph/internal/mathutil"
)

// RenderState is everything the UI and sensors contribute to a frame.
type RenderState struct {
	Filled        bool
	EyeSeparation int
	Orientation   mathutil.Mat4
	View          mathutil.Mat4
}

// DefaultRenderState is a wireframe with the default eye separation and no rotation.
func DefaultRenderState() RenderState {
	return RenderState{
		EyeSeparation: 70,
		Orientation:   mathutil.Mat4Identity(),
		View:          mathutil.Mat4Identity(),
	}
}

// WithFilled handles the fill checkbox.
func (s RenderState) WithFilled(filled bool) RenderState {
	s.Filled = filled
	return s
}

// WithEyeSeparation handles the eye separation slider.
func (s RenderState) WithEyeSeparation(sep int) RenderState {
	s.EyeSeparation = sep
	return s
}

// WithOrientation handles a device orientation reading.
func (s RenderState) WithOrientation(o Orientation) RenderState {
	s.Orientation = o.Matrix()
	return s
}

// WithView handles a new view matrix from the trackball.
func (s RenderState) WithView(view mathutil.Mat4) RenderState {
	s.View = view
	return s
}
