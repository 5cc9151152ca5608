// Package spz reads and writes the SPZ gaussian splat container
// (https://github.com/nianticlabs/spz): a gzip stream holding a 16-byte
// header followed by per-splat quantized attributes. Decoding yields the
// raw pre-activation values the format stores; see Cloud.Gaussians for the
// activated form.
package spz

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
)

const (
	magic = 0x5053474e // "NGSP" little-endian

	headerSize = 16

	// colorScale maps quantized color bytes to SH DC coefficients.
	colorScale = 0.15

	flagAntialiased = 1 << 0

	// maxPoints guards against corrupt headers before allocating.
	maxPoints = 10_000_000
)

// shCoeffsPerChannel is the number of higher-order SH coefficients per color
// channel, by degree.
var shCoeffsPerChannel = [4]int{0, 3, 8, 15}

// Cloud is a decoded splat set in the format's native, pre-activation form:
// Scales are log-scale, Alphas are pre-sigmoid (logit opacity), Colors are
// SH DC coefficients and Rotations are (x, y, z, w) quaternions.
type Cloud struct {
	NumPoints      int
	SHDegree       int
	FractionalBits int
	Antialiased    bool

	Positions []float32 // len 3*NumPoints
	Alphas    []float32 // len NumPoints
	Colors    []float32 // len 3*NumPoints
	Scales    []float32 // len 3*NumPoints
	Rotations []float32 // len 4*NumPoints, (x, y, z, w)
	SH        []float32 // len 3*shCoeffsPerChannel[SHDegree]*NumPoints
}

// Decode reads one SPZ stream (versions 1 and 2).
func Decode(r io.Reader) (*Cloud, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("spz: not a gzip stream: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("spz: decompress: %w", err)
	}
	if len(raw) < headerSize {
		return nil, fmt.Errorf("spz: short header (%d bytes)", len(raw))
	}

	if m := binary.LittleEndian.Uint32(raw[0:4]); m != magic {
		return nil, fmt.Errorf("spz: bad magic 0x%08x", m)
	}
	version := binary.LittleEndian.Uint32(raw[4:8])
	if version != 1 && version != 2 {
		return nil, fmt.Errorf("spz: unsupported version %d", version)
	}
	numPoints := binary.LittleEndian.Uint32(raw[8:12])
	if numPoints > maxPoints {
		return nil, fmt.Errorf("spz: implausible point count %d", numPoints)
	}
	shDegree := int(raw[12])
	if shDegree > 3 {
		return nil, fmt.Errorf("spz: unsupported SH degree %d", shDegree)
	}
	fractionalBits := int(raw[13])
	flags := raw[14]

	n := int(numPoints)
	posBytes := 3 * 3 * n // 24-bit fixed point
	if version == 1 {
		posBytes = 3 * 2 * n // float16
	}
	shDim := shCoeffsPerChannel[shDegree] * 3
	want := posBytes + n + 3*n + 3*n + 3*n + shDim*n
	body := raw[headerSize:]
	if len(body) < want {
		return nil, fmt.Errorf("spz: truncated body: have %d bytes, want %d", len(body), want)
	}

	c := &Cloud{
		NumPoints:      n,
		SHDegree:       shDegree,
		FractionalBits: fractionalBits,
		Antialiased:    flags&flagAntialiased != 0,
		Positions:      make([]float32, 3*n),
		Alphas:         make([]float32, n),
		Colors:         make([]float32, 3*n),
		Scales:         make([]float32, 3*n),
		Rotations:      make([]float32, 4*n),
		SH:             make([]float32, shDim*n),
	}

	off := 0
	if version == 1 {
		for i := 0; i < 3*n; i++ {
			c.Positions[i] = float16ToFloat32(binary.LittleEndian.Uint16(body[off : off+2]))
			off += 2
		}
	} else {
		inv := 1.0 / float32(uint32(1)<<uint(fractionalBits))
		for i := 0; i < 3*n; i++ {
			fixed := int32(body[off]) | int32(body[off+1])<<8 | int32(body[off+2])<<16
			if fixed&0x800000 != 0 {
				fixed -= 1 << 24
			}
			c.Positions[i] = float32(fixed) * inv
			off += 3
		}
	}

	for i := 0; i < n; i++ {
		c.Alphas[i] = invSigmoid(float32(body[off]) / 255.0)
		off++
	}
	for i := 0; i < 3*n; i++ {
		c.Colors[i] = (float32(body[off])/255.0 - 0.5) / colorScale
		off++
	}
	for i := 0; i < 3*n; i++ {
		c.Scales[i] = float32(body[off])/16.0 - 10.0
		off++
	}
	for i := 0; i < n; i++ {
		x := float32(body[off])/127.5 - 1.0
		y := float32(body[off+1])/127.5 - 1.0
		z := float32(body[off+2])/127.5 - 1.0
		off += 3
		w := math32.Sqrt(math32.Max(0, 1.0-x*x-y*y-z*z))
		c.Rotations[4*i+0] = x
		c.Rotations[4*i+1] = y
		c.Rotations[4*i+2] = z
		c.Rotations[4*i+3] = w
	}
	for i := 0; i < shDim*n; i++ {
		c.SH[i] = (float32(body[off]) - 128.0) / 128.0
		off++
	}

	return c, nil
}

// DecodeFile reads an SPZ file from disk.
func DecodeFile(path string) (*Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes c as a version 2 SPZ stream. Used for fixtures and
// round-trip tests; the quantization matches the reference packer.
func Encode(w io.Writer, c *Cloud) error {
	if err := c.check(); err != nil {
		return err
	}

	zw := gzip.NewWriter(w)

	fb := c.FractionalBits
	if fb <= 0 {
		fb = 12
	}
	var flags byte
	if c.Antialiased {
		flags |= flagAntialiased
	}
	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:4], magic)
	binary.LittleEndian.PutUint32(hdr[4:8], 2)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(c.NumPoints))
	hdr[12] = byte(c.SHDegree)
	hdr[13] = byte(fb)
	hdr[14] = flags
	if _, err := zw.Write(hdr); err != nil {
		return err
	}

	n := c.NumPoints
	scale := float32(uint32(1) << uint(fb))
	buf := make([]byte, 0, 9*n)
	for i := 0; i < 3*n; i++ {
		fixed := int32(math32.Round(c.Positions[i] * scale))
		if fixed > 0x7FFFFF {
			fixed = 0x7FFFFF
		} else if fixed < -0x800000 {
			fixed = -0x800000
		}
		u := uint32(fixed) & 0xFFFFFF
		buf = append(buf, byte(u), byte(u>>8), byte(u>>16))
	}
	for i := 0; i < n; i++ {
		buf = append(buf, quantize(sigmoid(c.Alphas[i])*255.0))
	}
	for i := 0; i < 3*n; i++ {
		buf = append(buf, quantize(c.Colors[i]*colorScale*255.0+127.5))
	}
	for i := 0; i < 3*n; i++ {
		buf = append(buf, quantize((c.Scales[i]+10.0)*16.0))
	}
	for i := 0; i < n; i++ {
		x, y, z, qw := c.Rotations[4*i], c.Rotations[4*i+1], c.Rotations[4*i+2], c.Rotations[4*i+3]
		norm := math32.Sqrt(x*x + y*y + z*z + qw*qw)
		if norm > 0 {
			x, y, z, qw = x/norm, y/norm, z/norm, qw/norm
		}
		// Store xyz with positive w so the decoder can recover it.
		if qw < 0 {
			x, y, z = -x, -y, -z
		}
		buf = append(buf,
			quantize(x*127.5+127.5),
			quantize(y*127.5+127.5),
			quantize(z*127.5+127.5))
	}
	shDim := shCoeffsPerChannel[c.SHDegree] * 3
	for i := 0; i < shDim*n; i++ {
		buf = append(buf, quantize(c.SH[i]*128.0+128.0))
	}

	if _, err := zw.Write(buf); err != nil {
		return err
	}
	return zw.Close()
}

// EncodeFile writes an SPZ file to disk.
func EncodeFile(path string, c *Cloud) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *Cloud) check() error {
	n := c.NumPoints
	if n < 0 || n > maxPoints {
		return fmt.Errorf("spz: bad point count %d", n)
	}
	if c.SHDegree < 0 || c.SHDegree > 3 {
		return fmt.Errorf("spz: bad SH degree %d", c.SHDegree)
	}
	shDim := shCoeffsPerChannel[c.SHDegree] * 3
	for _, f := range []struct {
		name string
		have int
		want int
	}{
		{"positions", len(c.Positions), 3 * n},
		{"alphas", len(c.Alphas), n},
		{"colors", len(c.Colors), 3 * n},
		{"scales", len(c.Scales), 3 * n},
		{"rotations", len(c.Rotations), 4 * n},
		{"sh", len(c.SH), shDim * n},
	} {
		if f.have != f.want {
			return fmt.Errorf("spz: %s length %d, want %d", f.name, f.have, f.want)
		}
	}
	return nil
}

func quantize(v float32) byte {
	i := int32(math32.Round(v))
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return byte(i)
}

func sigmoid(x float32) float32 {
	return 1.0 / (1.0 + math32.Exp(-x))
}

// invSigmoid is clamped so fully transparent / opaque bytes map to large
// finite logits instead of ±Inf.
func invSigmoid(v float32) float32 {
	const eps = 1e-6
	if v < eps {
		v = eps
	} else if v > 1-eps {
		v = 1 - eps
	}
	return math32.Log(v / (1.0 - v))
}

func float16ToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 1
	exp := uint32(h>>10) & 0x1F
	mant := uint32(h) & 0x3FF

	var bits uint32
	switch {
	case exp == 0 && mant == 0:
		bits = sign << 31
	case exp == 0:
		// subnormal: renormalize
		e := uint32(127 - 15 + 1)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		mant &= 0x3FF
		bits = sign<<31 | e<<23 | mant<<13
	case exp == 0x1F:
		bits = sign<<31 | 0xFF<<23 | mant<<13
	default:
		bits = sign<<31 | (exp-15+127)<<23 | mant<<13
	}
	return math32.Float32frombits(bits)
}
