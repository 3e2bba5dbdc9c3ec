package mathutil

// Fixed placement of the surface in front of the camera.
var (
	// SceneTilt rotates the surface 0.7 rad around the (1,1,0) diagonal so the
	// default view looks at it from above the XY plane.
	SceneTilt = AxisRotation(Vec3{0.707, 0.707, 0}, 0.7)

	// ScenePullback moves the surface 10 units down the view axis.
	ScenePullback = Translation(0, 0, -10)
)
