// Package export writes activated gaussian splats out as PLY or USDZ, in
// the raw (pre-activation) attribute layouts downstream tools expect.
package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"marble-sdk/api/internal/spz"
)

// plyProps is the 3DGS vertex layout: position, zero normals, DC color
// coefficients, logit opacity, log scales and an unnormalized wxyz
// quaternion. No higher-order SH (Marble splats carry RGB only).
var plyProps = []string{
	"x", "y", "z",
	"nx", "ny", "nz",
	"f_dc_0", "f_dc_1", "f_dc_2",
	"opacity",
	"scale_0", "scale_1", "scale_2",
	"rot_0", "rot_1", "rot_2", "rot_3",
}

// WritePLY writes g as a binary little-endian 3DGS PLY. Scale and opacity
// go out in pre-activation form (log, logit), colors as SH DC coefficients.
func WritePLY(w io.Writer, g *spz.Gaussians) error {
	if err := g.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\nformat binary_little_endian 1.0\nelement vertex %d\n", g.Count)
	for _, p := range plyProps {
		fmt.Fprintf(bw, "property float %s\n", p)
	}
	fmt.Fprint(bw, "end_header\n")

	logScales := g.LogScales()
	logits := g.LogitOpacities()
	dc := g.SHDCColors()

	row := make([]float32, len(plyProps))
	for i := 0; i < g.Count; i++ {
		row[0], row[1], row[2] = g.Means[3*i], g.Means[3*i+1], g.Means[3*i+2]
		row[3], row[4], row[5] = 0, 0, 0
		row[6], row[7], row[8] = dc[3*i], dc[3*i+1], dc[3*i+2]
		row[9] = logits[i]
		row[10], row[11], row[12] = logScales[3*i], logScales[3*i+1], logScales[3*i+2]
		row[13], row[14], row[15], row[16] = g.Quaternions[4*i], g.Quaternions[4*i+1], g.Quaternions[4*i+2], g.Quaternions[4*i+3]
		if err := binary.Write(bw, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SavePLY writes a PLY file, creating parent directories as needed.
func SavePLY(path string, g *spz.Gaussians) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePLY(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
