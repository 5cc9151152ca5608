package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marble-sdk/api/internal/spz"
)

// singleSplat is one fully opaque red splat at the origin.
func singleSplat() *spz.Gaussians {
	return &spz.Gaussians{
		Count:       1,
		Means:       []float32{0, 0, 0},
		Scales:      []float32{0.1, 0.1, 0.1},
		Quaternions: []float32{1, 0, 0, 0},
		Opacities:   []float32{1},
		Colors:      []float32{1, 0, 0},
	}
}

func frontCamera(size int) Camera {
	return Camera{
		Width: size, Height: size,
		Fx: float32(size), Fy: float32(size),
		Cx: float32(size) / 2, Cy: float32(size) / 2,
		CameraToWorld: LookAt([3]float32{0, 0, -5}, [3]float32{0, 0, 0}),
	}
}

func TestPreviewPNGCenterSplat(t *testing.T) {
	img := PreviewPNG(singleSplat(), frontCamera(64))

	b := img.Bounds()
	require.Equal(t, 64, b.Dx())
	require.Equal(t, 64, b.Dy())

	// The origin projects to the principal point and the splat is red.
	c := img.RGBAAt(32, 32)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(0), c.B)

	// A far corner stays background.
	corner := img.RGBAAt(0, 0)
	assert.Equal(t, uint8(0), corner.R)
}

func TestPreviewPNGBehindCameraCulled(t *testing.T) {
	g := singleSplat()
	g.Means = []float32{0, 0, -10} // behind a camera at z=-5 looking at +Z

	img := PreviewPNG(g, frontCamera(32))
	c := img.RGBAAt(16, 16)
	assert.Equal(t, uint8(0), c.R)
}

func TestPreviewPNGDepthOrder(t *testing.T) {
	// A near red splat over a far green one on the same ray.
	g := &spz.Gaussians{
		Count:       2,
		Means:       []float32{0, 0, 1, 0, 0, 0},
		Scales:      []float32{0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
		Quaternions: []float32{1, 0, 0, 0, 1, 0, 0, 0},
		Opacities:   []float32{1, 1},
		Colors:      []float32{0, 1, 0, 1, 0, 0},
	}
	// Camera at z=-5: the splat at z=0 is nearer than the one at z=1.
	img := PreviewPNG(g, frontCamera(64))
	c := img.RGBAAt(32, 32)
	assert.Equal(t, uint8(255), c.R, "near splat should win")
	assert.Equal(t, uint8(0), c.G)
}

func TestSavePreviewPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames", "f0.png")
	require.NoError(t, SavePreviewPNG(path, singleSplat(), frontCamera(16)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}
