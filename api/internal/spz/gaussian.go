package spz

import (
	"fmt"

	"github.com/chewxy/math32"
)

// SHC0 is the degree-0 spherical harmonics basis constant, 1/(2*sqrt(pi)).
const SHC0 = 0.28209479177387814

// Gaussians is a splat set in activated form, ready for viewers:
// Scales after exp, Opacities after sigmoid, Colors as RGB in [0, 1],
// Quaternions reordered to (w, x, y, z), coordinates converted from the
// format's -Y-up to +Y-up.
type Gaussians struct {
	Count       int
	Means       []float32 // len 3*Count
	Scales      []float32 // len 3*Count
	Quaternions []float32 // len 4*Count, (w, x, y, z)
	Opacities   []float32 // len Count
	Colors      []float32 // len 3*Count, RGB
}

// Gaussians applies the activation functions exactly once: exp on scales,
// sigmoid on alphas, RGB = 0.5 + dc*C0 on colors. Positions and rotations
// are rotated 180 degrees around X to flip the up axis.
func (c *Cloud) Gaussians() *Gaussians {
	n := c.NumPoints
	g := &Gaussians{
		Count:       n,
		Means:       make([]float32, 3*n),
		Scales:      make([]float32, 3*n),
		Quaternions: make([]float32, 4*n),
		Opacities:   make([]float32, n),
		Colors:      make([]float32, 3*n),
	}
	for i := 0; i < n; i++ {
		g.Means[3*i+0] = c.Positions[3*i+0]
		g.Means[3*i+1] = -c.Positions[3*i+1]
		g.Means[3*i+2] = -c.Positions[3*i+2]

		g.Scales[3*i+0] = math32.Exp(c.Scales[3*i+0])
		g.Scales[3*i+1] = math32.Exp(c.Scales[3*i+1])
		g.Scales[3*i+2] = math32.Exp(c.Scales[3*i+2])

		// (x, y, z, w) -> (w, x, y, z), then negate the y and z
		// components for the axis flip.
		g.Quaternions[4*i+0] = c.Rotations[4*i+3]
		g.Quaternions[4*i+1] = c.Rotations[4*i+0]
		g.Quaternions[4*i+2] = -c.Rotations[4*i+1]
		g.Quaternions[4*i+3] = -c.Rotations[4*i+2]

		g.Opacities[i] = sigmoid(c.Alphas[i])

		for ch := 0; ch < 3; ch++ {
			v := 0.5 + c.Colors[3*i+ch]*SHC0
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			g.Colors[3*i+ch] = v
		}
	}
	return g
}

// Validate checks that every attribute slice matches Count.
func (g *Gaussians) Validate() error {
	for _, f := range []struct {
		name string
		have int
		want int
	}{
		{"means", len(g.Means), 3 * g.Count},
		{"scales", len(g.Scales), 3 * g.Count},
		{"quaternions", len(g.Quaternions), 4 * g.Count},
		{"opacities", len(g.Opacities), g.Count},
		{"colors", len(g.Colors), 3 * g.Count},
	} {
		if f.have != f.want {
			return fmt.Errorf("gaussians: %s length %d, want %d", f.name, f.have, f.want)
		}
	}
	return nil
}

// LogScales undoes the exp activation (for exporters that want raw values).
func (g *Gaussians) LogScales() []float32 {
	out := make([]float32, len(g.Scales))
	for i, s := range g.Scales {
		out[i] = math32.Log(s)
	}
	return out
}

// LogitOpacities undoes the sigmoid activation, clamped away from 0 and 1.
func (g *Gaussians) LogitOpacities() []float32 {
	out := make([]float32, len(g.Opacities))
	for i, o := range g.Opacities {
		out[i] = invSigmoid(o)
	}
	return out
}

// SHDCColors converts RGB back to SH DC coefficients.
func (g *Gaussians) SHDCColors() []float32 {
	out := make([]float32, len(g.Colors))
	for i, c := range g.Colors {
		out[i] = (c - 0.5) / SHC0
	}
	return out
}
