package export

import (
	"archive/zip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"marble-sdk/api/internal/spz"
)

// usdz packaging: a zip archive whose entries are stored uncompressed with
// file data aligned to 64 bytes. The default layer carries the 3dgrut
// attribute set (positions, log scales, wxyz rotations, logit densities,
// albedo), which is what the Blender viewer addon reads.

const usdLayerName = "gaussians.usda"

// WriteUSDZ writes g as a usdz package to w.
func WriteUSDZ(w io.Writer, g *spz.Gaussians) error {
	if err := g.Validate(); err != nil {
		return err
	}

	layer := buildUSDA(g)

	zw := zip.NewWriter(w)
	hdr := &zip.FileHeader{
		Name:   usdLayerName,
		Method: zip.Store,
		Extra:  alignmentPadding(usdLayerName),
	}
	f, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	if _, err := f.Write([]byte(layer)); err != nil {
		return err
	}
	return zw.Close()
}

// SaveUSDZ writes a usdz file, creating parent directories as needed.
func SaveUSDZ(path string, g *spz.Gaussians) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteUSDZ(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// alignmentPadding builds a zip extra field that pushes the entry's file
// data to a 64-byte boundary. The local file header is 30 bytes plus the
// name plus the extra field; the extra field itself needs a 4-byte TLV
// header, so padding shorter than that rolls over to the next boundary.
func alignmentPadding(name string) []byte {
	base := 30 + len(name)
	pad := (64 - base%64) % 64
	if pad > 0 && pad < 4 {
		pad += 64
	}
	if pad == 0 {
		return nil
	}
	extra := make([]byte, pad)
	binary.LittleEndian.PutUint16(extra[0:2], 0x1986) // unregistered tag, ignored by readers
	binary.LittleEndian.PutUint16(extra[2:4], uint16(pad-4))
	return extra
}

func buildUSDA(g *spz.Gaussians) string {
	var b strings.Builder
	b.Grow(64 * g.Count)

	b.WriteString("#usda 1.0\n(\n    defaultPrim = \"Gaussians\"\n    upAxis = \"Y\"\n)\n\n")
	b.WriteString("def Scope \"Gaussians\"\n{\n")

	writeVec3 := func(attr, usdType string, v []float32) {
		fmt.Fprintf(&b, "    custom %s %s = [", usdType, attr)
		for i := 0; i < len(v)/3; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "(%g, %g, %g)", v[3*i], v[3*i+1], v[3*i+2])
		}
		b.WriteString("]\n")
	}

	writeVec3("positions", "point3f[]", g.Means)
	writeVec3("scales", "vector3f[]", g.LogScales())

	fmt.Fprintf(&b, "    custom quatf[] rotations = [")
	for i := 0; i < g.Count; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%g, %g, %g, %g)",
			g.Quaternions[4*i], g.Quaternions[4*i+1], g.Quaternions[4*i+2], g.Quaternions[4*i+3])
	}
	b.WriteString("]\n")

	fmt.Fprintf(&b, "    custom float[] densities = [")
	for i, d := range g.LogitOpacities() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%g", d)
	}
	b.WriteString("]\n")

	writeVec3("features_albedo", "color3f[]", g.Colors)

	b.WriteString("}\n")
	return b.String()
}
