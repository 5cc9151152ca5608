package render

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookAtForward(t *testing.T) {
	m := LookAt([3]float32{0, 0, -5}, [3]float32{0, 0, 0})

	// Forward column (+Z camera axis) points toward the target.
	assert.InDelta(t, 0, m[2], 1e-6)
	assert.InDelta(t, 0, m[6], 1e-6)
	assert.InDelta(t, 1, m[10], 1e-6)

	// Translation column carries the camera position.
	assert.Equal(t, float32(0), m[3])
	assert.Equal(t, float32(0), m[7])
	assert.Equal(t, float32(-5), m[11])

	// Bottom row of a rigid transform.
	assert.Equal(t, [4]float32{0, 0, 0, 1}, [4]float32{m[12], m[13], m[14], m[15]})
}

func TestWorldToCameraRoundTrip(t *testing.T) {
	cam := Camera{CameraToWorld: LookAt([3]float32{3, 1, -4}, [3]float32{0, 0, 0})}

	// The camera position maps to the camera-frame origin.
	p := cam.worldToCamera([3]float32{3, 1, -4})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, 0, p[2], 1e-5)

	// The target sits on the +Z axis at the camera distance.
	dist := math32.Sqrt(9 + 1 + 16)
	p = cam.worldToCamera([3]float32{0, 0, 0})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, dist, p[2], 1e-5)
}

func TestTurntable(t *testing.T) {
	cams := Turntable(12, 3, 480, 640, 60, 1.5)
	require.Len(t, cams, 12)

	wantFocal := 0.5 * 640 / math32.Tan(60*math32.Pi/360)
	for i, cam := range cams {
		assert.Equal(t, 640, cam.Width)
		assert.Equal(t, 480, cam.Height)
		assert.InDelta(t, wantFocal, cam.Fx, 1e-3)
		assert.Equal(t, cam.Fx, cam.Fy)
		assert.Equal(t, float32(320), cam.Cx)
		assert.Equal(t, float32(240), cam.Cy)

		// Every camera sits on the circle at the requested elevation.
		x, y, z := cam.CameraToWorld[3], cam.CameraToWorld[7], cam.CameraToWorld[11]
		assert.InDelta(t, 1.5, y, 1e-5, "frame %d", i)
		assert.InDelta(t, 3, math32.Sqrt(x*x+z*z), 1e-4, "frame %d", i)
	}

	// First frame starts on the +X axis.
	assert.InDelta(t, 3, cams[0].CameraToWorld[3], 1e-5)
	assert.InDelta(t, 0, cams[0].CameraToWorld[11], 1e-5)
}
