// Package render holds CPU-side camera helpers and a quick point-projection
// preview for gaussian splat scenes. There is no rasterizer here; a real
// render needs a GPU splatting pipeline.
package render

import (
	"github.com/chewxy/math32"
)

// Camera is a pinhole camera with a camera-to-world matrix (row-major 4x4,
// OpenCV convention: +Y down in the image, +Z forward).
type Camera struct {
	Width, Height  int
	Fx, Fy, Cx, Cy float32
	CameraToWorld  [16]float32
}

// LookAt returns a camera-to-world matrix looking from pos to target with
// +Y as the world up axis.
func LookAt(pos, target [3]float32) [16]float32 {
	forward := normalize(sub(target, pos))
	up := [3]float32{0, 1, 0}
	right := normalize(cross(forward, up))
	trueUp := cross(right, forward)

	// Columns: right, -trueUp, forward.
	return [16]float32{
		right[0], -trueUp[0], forward[0], pos[0],
		right[1], -trueUp[1], forward[1], pos[1],
		right[2], -trueUp[2], forward[2], pos[2],
		0, 0, 0, 1,
	}
}

// Turntable builds a circular camera path of numFrames cameras around the
// origin at the given radius and elevation.
func Turntable(numFrames int, radius float32, height, width int, fovDegrees, elevation float32) []Camera {
	focal := 0.5 * float32(width) / math32.Tan(fovDegrees*math32.Pi/180.0/2.0)
	cams := make([]Camera, 0, numFrames)
	for i := 0; i < numFrames; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(numFrames)
		pos := [3]float32{radius * math32.Cos(angle), elevation, radius * math32.Sin(angle)}
		cams = append(cams, Camera{
			Width:         width,
			Height:        height,
			Fx:            focal,
			Fy:            focal,
			Cx:            float32(width) / 2,
			Cy:            float32(height) / 2,
			CameraToWorld: LookAt(pos, [3]float32{0, 0, 0}),
		})
	}
	return cams
}

// worldToCamera inverts the rigid camera-to-world transform.
func (c *Camera) worldToCamera(p [3]float32) [3]float32 {
	m := &c.CameraToWorld
	dx := p[0] - m[3]
	dy := p[1] - m[7]
	dz := p[2] - m[11]
	// R^T * d; R columns live at strides of 4.
	return [3]float32{
		m[0]*dx + m[4]*dy + m[8]*dz,
		m[1]*dx + m[5]*dy + m[9]*dz,
		m[2]*dx + m[6]*dy + m[10]*dz,
	}
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	n := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n == 0 {
		return v
	}
	return [3]float32{v[0] / n, v[1] / n, v[2] / n}
}
