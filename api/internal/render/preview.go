package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"marble-sdk/api/internal/spz"
)

// PreviewPNG projects every splat center through cam and alpha-blends small
// squares back to front. It is a sanity-check view, not a faithful render:
// anisotropy and view-dependent effects are ignored.
func PreviewPNG(g *spz.Gaussians, cam Camera) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cam.Width, cam.Height))

	type point struct {
		u, v, z float32
		idx     int
	}
	pts := make([]point, 0, g.Count)
	for i := 0; i < g.Count; i++ {
		p := cam.worldToCamera([3]float32{g.Means[3*i], g.Means[3*i+1], g.Means[3*i+2]})
		if p[2] <= 1e-4 {
			continue
		}
		u := cam.Fx*p[0]/p[2] + cam.Cx
		v := cam.Fy*p[1]/p[2] + cam.Cy
		if u < -4 || u >= float32(cam.Width)+4 || v < -4 || v >= float32(cam.Height)+4 {
			continue
		}
		pts = append(pts, point{u: u, v: v, z: p[2], idx: i})
	}
	// Far to near so closer splats blend on top.
	sort.Slice(pts, func(a, b int) bool { return pts[a].z > pts[b].z })

	for _, pt := range pts {
		i := pt.idx
		// Screen-space footprint from the largest scale axis.
		s := g.Scales[3*i]
		if g.Scales[3*i+1] > s {
			s = g.Scales[3*i+1]
		}
		if g.Scales[3*i+2] > s {
			s = g.Scales[3*i+2]
		}
		r := int(cam.Fx * s / pt.z)
		if r < 1 {
			r = 1
		} else if r > 4 {
			r = 4
		}

		a := g.Opacities[i]
		cr := g.Colors[3*i]
		cg := g.Colors[3*i+1]
		cb := g.Colors[3*i+2]

		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				x, y := int(pt.u)+dx, int(pt.v)+dy
				if x < 0 || x >= cam.Width || y < 0 || y >= cam.Height {
					continue
				}
				dst := img.RGBAAt(x, y)
				blend := func(c float32, d uint8) uint8 {
					v := a*c*255 + (1-a)*float32(d)
					if v > 255 {
						v = 255
					}
					return uint8(v)
				}
				img.SetRGBA(x, y, color.RGBA{
					R: blend(cr, dst.R),
					G: blend(cg, dst.G),
					B: blend(cb, dst.B),
					A: 255,
				})
			}
		}
	}
	return img
}

// SavePreviewPNG renders a preview and writes it to path.
func SavePreviewPNG(path string, g *spz.Gaussians, cam Camera) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, PreviewPNG(g, cam)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
