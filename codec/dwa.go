package codec

import (
	"math"

	"github.com/mrjoshuak/go-openexr/half"
)

// dwaLumaQuant and dwaChromaQuant are the JPEG-style base quantization
// matrices the format calls for: a luma table for Y (or any channel
// not grouped into an RGB->YCbCr triple) and a chroma table for Cb/Cr,
// both scaled by a per-call quantization error before use.
var dwaLumaQuant = [64]float32{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

var dwaChromaQuant = [64]float32{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// dwaZigzag is the fixed zig-zag permutation of an 8x8 block's 64
// coefficients, lowest frequency first.
var dwaZigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// dwaQuantError is the base quantization step size; DWAA/DWAB both use
// the same default compression level.
const dwaQuantError = float32(0.1)

var dwaDctCoeff [8][8]float32

func init() {
	sqrt8 := float32(math.Sqrt(8))
	sqrt2_8 := float32(math.Sqrt(2.0 / 8.0))
	for k := 0; k < 8; k++ {
		for n := 0; n < 8; n++ {
			c := float32(math.Cos(float64(2*n+1) * float64(k) * math.Pi / 16.0))
			if k == 0 {
				dwaDctCoeff[k][n] = c / sqrt8
			} else {
				dwaDctCoeff[k][n] = c * sqrt2_8
			}
		}
	}
}

// dctForward8x8 applies a separable orthonormal forward DCT in place
// to an 8x8 block stored row-major.
func dctForward8x8(data *[64]float32) {
	var tmp [64]float32
	for row := 0; row < 8; row++ {
		base := row * 8
		for k := 0; k < 8; k++ {
			var sum float32
			for n := 0; n < 8; n++ {
				sum += dwaDctCoeff[k][n] * data[base+n]
			}
			tmp[base+k] = sum
		}
	}
	var out [64]float32
	for col := 0; col < 8; col++ {
		for k := 0; k < 8; k++ {
			var sum float32
			for n := 0; n < 8; n++ {
				sum += dwaDctCoeff[k][n] * tmp[n*8+col]
			}
			out[k*8+col] = sum
		}
	}
	*data = out
}

// dctInverse8x8 applies the inverse transform of dctForward8x8.
func dctInverse8x8(data *[64]float32) {
	var tmp [64]float32
	for col := 0; col < 8; col++ {
		for n := 0; n < 8; n++ {
			var sum float32
			for k := 0; k < 8; k++ {
				sum += dwaDctCoeff[k][n] * data[k*8+col]
			}
			tmp[n*8+col] = sum
		}
	}
	var out [64]float32
	for row := 0; row < 8; row++ {
		base := row * 8
		for n := 0; n < 8; n++ {
			var sum float32
			for k := 0; k < 8; k++ {
				sum += dwaDctCoeff[k][n] * tmp[base+k]
			}
			out[base+n] = sum
		}
	}
	*data = out
}

// csc709Forward converts one 8x8 block of R,G,B float samples to
// Y,Cb,Cr in place using the format's fixed Rec.709 coefficients.
func csc709Forward(r, g, b *[64]float32) {
	for i := range r {
		y := 0.2126*r[i] + 0.7152*g[i] + 0.0722*b[i]
		cb := (b[i] - y) / 1.8556
		cr := (r[i] - y) / 1.5748
		r[i], g[i], b[i] = y, cb, cr
	}
}

// csc709Inverse inverts csc709Forward.
func csc709Inverse(y, cb, cr *[64]float32) {
	for i := range y {
		r := y[i] + 1.5748*cr[i]
		b := y[i] + 1.8556*cb[i]
		g := (y[i] - 0.2126*r - 0.0722*b) / 0.7152
		y[i], cb[i], cr[i] = r, g, b
	}
}

// dwaRGBTriple looks for a channel triple named R,G,B (order-insensitive)
// among desc, returning their indices when found so the encoder can
// apply the RGB->YCbCr color-space conversion the format calls for.
func dwaRGBTriple(desc BlockDesc) (r, g, b int, ok bool) {
	r, g, b = -1, -1, -1
	for i, c := range desc.Channels {
		switch c.Name {
		case "R":
			r = i
		case "G":
			g = i
		case "B":
			b = i
		}
	}
	return r, g, b, r >= 0 && g >= 0 && b >= 0
}

// dwaEncodeAC run-length encodes zero runs in an 8x8 block's 63 AC
// coefficients (zig-zag order), using the sentinel 0xFF00|run. A
// nonzero coefficient that itself lies in 0xFF00..0xFFFF (a small
// negative value) is escaped by a preceding zero-length run, 0xFF00.
func dwaEncodeAC(ac []uint16) []uint16 {
	out := make([]uint16, 0, len(ac))
	i := 0
	for i < len(ac) {
		if ac[i] == 0 {
			run := 0
			for i+run < len(ac) && ac[i+run] == 0 && run < 0xff {
				run++
			}
			out = append(out, 0xFF00|uint16(run))
			i += run
		} else {
			if ac[i]&0xFF00 == 0xFF00 {
				out = append(out, 0xFF00)
			}
			out = append(out, ac[i])
			i++
		}
	}
	return out
}

// dwaDecodeAC inverts dwaEncodeAC, expanding run sentinels back into
// explicit zero coefficients until exactly n values are produced.
func dwaDecodeAC(coded []uint16, n int) ([]uint16, error) {
	out := make([]uint16, 0, n)
	for j := 0; j < len(coded); j++ {
		v := coded[j]
		if v == 0xFF00 {
			j++
			if j >= len(coded) {
				return nil, ErrCorrupted
			}
			out = append(out, coded[j])
		} else if v&0xFF00 == 0xFF00 {
			run := int(v & 0xFF)
			for k := 0; k < run; k++ {
				out = append(out, 0)
			}
		} else {
			out = append(out, v)
		}
		if len(out) > n {
			return nil, ErrCorrupted
		}
	}
	if len(out) != n {
		return nil, ErrCorrupted
	}
	return out, nil
}

func dwaQuantize(val, step float32) uint16 {
	if step <= 0 {
		step = 1
	}
	q := math.Round(float64(val / step))
	if q < -32768 {
		q = -32768
	}
	if q > 32767 {
		q = 32767
	}
	return uint16(int16(q))
}

func dwaDequantize(q uint16, step float32) float32 {
	return float32(int16(q)) * step
}

// dwaBlockGroup is one 8x8 block's worth of quantized coefficients for
// a single logical plane (a raw channel, or a CSC-derived Y/Cb/Cr).
type dwaBlockGroup struct {
	dc uint16
	ac []uint16
}

// dwaCompressPlane DCT-transforms, quantizes and zig-zag reorders
// every 8x8 block of one logical width x height plane of linear
// float32 samples, returning per-block DC and AC (zig-zag, index 1..63)
// coefficient groups in raster block order.
func dwaCompressPlane(samples []float32, width, height int, quant [64]float32) []dwaBlockGroup {
	bw := (width + 7) / 8
	bh := (height + 7) / 8
	groups := make([]dwaBlockGroup, 0, bw*bh)

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			var block [64]float32
			for y := 0; y < 8; y++ {
				sy := by*8 + y
				if sy >= height {
					sy = height - 1
				}
				for x := 0; x < 8; x++ {
					sx := bx*8 + x
					if sx >= width {
						sx = width - 1
					}
					block[y*8+x] = samples[sy*width+sx]
				}
			}
			dctForward8x8(&block)

			var zz [64]uint16
			for i := 0; i < 64; i++ {
				step := quant[i] * dwaQuantError
				zz[i] = dwaQuantize(block[dwaZigzag[i]], step)
			}
			groups = append(groups, dwaBlockGroup{dc: zz[0], ac: dwaEncodeAC(zz[1:])})
		}
	}
	return groups
}

// dwaDecompressPlane inverts dwaCompressPlane.
func dwaDecompressPlane(groups []dwaBlockGroup, width, height int, quant [64]float32) ([]float32, error) {
	bw := (width + 7) / 8
	bh := (height + 7) / 8
	out := make([]float32, width*height)

	idx := 0
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			g := groups[idx]
			idx++
			ac, err := dwaDecodeAC(g.ac, 63)
			if err != nil {
				return nil, err
			}
			var zz [64]uint16
			zz[0] = g.dc
			copy(zz[1:], ac)

			var block [64]float32
			for i := 0; i < 64; i++ {
				step := quant[i] * dwaQuantError
				block[dwaZigzag[i]] = dwaDequantize(zz[i], step)
			}
			dctInverse8x8(&block)

			for y := 0; y < 8; y++ {
				sy := by*8 + y
				if sy >= height {
					continue
				}
				for x := 0; x < 8; x++ {
					sx := bx*8 + x
					if sx >= width {
						continue
					}
					out[sy*width+sx] = block[y*8+x]
				}
			}
		}
	}
	return out, nil
}

// dwaPlaneDesc pairs a logical plane's samples with the quantization
// table it should use.
type dwaPlaneDesc struct {
	name   string
	width  int
	height int
	quant  [64]float32
	class  SampleClass
}

// dwaBuildPlanes extracts raw's channels into linear float32 planes,
// grouping an R/G/B triple into Y/Cb/Cr via the Rec.709 forward CSC
// when present (spec §4.6.7). Non-half channels (U32) are returned
// unconverted, to be handled losslessly by the caller.
func dwaBuildPlanes(raw []byte, desc BlockDesc) ([]dwaPlaneDesc, map[string][]float32) {
	offsets := make([]int, len(desc.Channels))
	off := 0
	for i, c := range desc.Channels {
		offsets[i] = off
		off += c.Width * c.Height * c.Class.ByteSize()
	}

	floats := make(map[string][]float32, len(desc.Channels))
	for i, c := range desc.Channels {
		if c.Class != SampleHalf {
			continue
		}
		n := c.Width * c.Height
		plane := make([]float32, n)
		base := offsets[i]
		for k := 0; k < n; k++ {
			bits := uint16(raw[base+k*2]) | uint16(raw[base+k*2+1])<<8
			plane[k] = half.Half(bits).Float32()
		}
		floats[c.Name] = plane
	}

	var planes []dwaPlaneDesc
	consumed := make(map[string]bool)
	if r, g, b, ok := dwaRGBTriple(desc); ok {
		rc, gc, bc := desc.Channels[r], desc.Channels[g], desc.Channels[b]
		if rc.Width == gc.Width && rc.Width == bc.Width && rc.Height == gc.Height && rc.Height == bc.Height {
			n := rc.Width * rc.Height
			rp, gp, bp := floats["R"], floats["G"], floats["B"]
			yPlane := make([]float32, n)
			cbPlane := make([]float32, n)
			crPlane := make([]float32, n)
			for i := 0; i < n; i += 64 {
				end := i + 64
				if end > n {
					end = n
				}
				var rb, gb, bb [64]float32
				copy(rb[:], rp[i:end])
				copy(gb[:], gp[i:end])
				copy(bb[:], bp[i:end])
				csc709Forward(&rb, &gb, &bb)
				copy(yPlane[i:end], rb[:end-i])
				copy(cbPlane[i:end], gb[:end-i])
				copy(crPlane[i:end], bb[:end-i])
			}
			floats["Y"] = yPlane
			floats["Cb"] = cbPlane
			floats["Cr"] = crPlane
			planes = append(planes,
				dwaPlaneDesc{"Y", rc.Width, rc.Height, dwaLumaQuant, SampleHalf},
				dwaPlaneDesc{"Cb", rc.Width, rc.Height, dwaChromaQuant, SampleHalf},
				dwaPlaneDesc{"Cr", rc.Width, rc.Height, dwaChromaQuant, SampleHalf},
			)
			consumed["R"], consumed["G"], consumed["B"] = true, true, true
		}
	}
	for _, c := range desc.Channels {
		if c.Class != SampleHalf || consumed[c.Name] {
			continue
		}
		planes = append(planes, dwaPlaneDesc{c.Name, c.Width, c.Height, dwaLumaQuant, SampleHalf})
	}

	return planes, floats
}

// EncodeDWA implements the format's DWAA/DWAB pipeline: RGB CSC where
// applicable, 8x8 DCT, quantization, zig-zag, AC run-length and
// Huffman compression of the DC and AC streams. Non-half channels are
// carried losslessly alongside the compressed streams.
func EncodeDWA(raw []byte, desc BlockDesc) ([]byte, error) {
	planes, floats := dwaBuildPlanes(raw, desc)

	var allDC, allAC []uint16
	planeGroupCounts := make([]int, len(planes))
	for i, p := range planes {
		groups := dwaCompressPlane(floats[p.name], p.width, p.height, p.quant)
		planeGroupCounts[i] = len(groups)
		for _, g := range groups {
			allDC = append(allDC, g.dc)
			allAC = append(allAC, uint16(len(g.ac)))
			allAC = append(allAC, g.ac...)
		}
	}

	dcHuff := EncodeHuffman16(allDC)
	acHuff := EncodeHuffman16(allAC)

	var nonHalf []byte
	off := 0
	for _, c := range desc.Channels {
		n := c.Width * c.Height * c.Class.ByteSize()
		if c.Class != SampleHalf {
			nonHalf = append(nonHalf, raw[off:off+n]...)
		}
		off += n
	}

	w := dwaWriter{}
	w.writeUint32(uint32(len(planes)))
	for i, p := range planes {
		w.writeString(p.name)
		w.writeUint32(uint32(p.width))
		w.writeUint32(uint32(p.height))
		w.writeUint32(uint32(planeGroupCounts[i]))
	}
	w.writeBlob(dcHuff)
	w.writeBlob(acHuff)
	w.writeBlob(nonHalf)
	return w.bytes(), nil
}

// DecodeDWA inverts EncodeDWA.
func DecodeDWA(compressed []byte, desc BlockDesc, expectedSize int) ([]byte, error) {
	r := dwaReader{buf: compressed}
	nPlanes, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	names := make([]string, nPlanes)
	widths := make([]int, nPlanes)
	heights := make([]int, nPlanes)
	counts := make([]int, nPlanes)
	for i := range names {
		names[i], err = r.readString()
		if err != nil {
			return nil, err
		}
		w32, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		h32, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		c32, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		widths[i], heights[i], counts[i] = int(w32), int(h32), int(c32)
	}
	dcHuff, err := r.readBlob()
	if err != nil {
		return nil, err
	}
	acHuff, err := r.readBlob()
	if err != nil {
		return nil, err
	}
	nonHalf, err := r.readBlob()
	if err != nil {
		return nil, err
	}

	allDC, err := DecodeHuffman16(dcHuff)
	if err != nil {
		return nil, err
	}
	allAC, err := DecodeHuffman16(acHuff)
	if err != nil {
		return nil, err
	}

	floats := make(map[string][]float32, nPlanes)
	dcPos, acPos := 0, 0
	for i := range names {
		groups := make([]dwaBlockGroup, counts[i])
		for g := 0; g < counts[i]; g++ {
			if dcPos >= len(allDC) || acPos >= len(allAC) {
				return nil, ErrCorrupted
			}
			groups[g].dc = allDC[dcPos]
			dcPos++
			n := int(allAC[acPos])
			acPos++
			if acPos+n > len(allAC) {
				return nil, ErrCorrupted
			}
			groups[g].ac = allAC[acPos : acPos+n]
			acPos += n
		}
		plane, err := dwaDecompressPlane(groups, widths[i], heights[i], dwaQuantFor(names[i]))
		if err != nil {
			return nil, err
		}
		floats[names[i]] = plane
	}

	if y, okY := floats["Y"]; okY {
		cb, cr := floats["Cb"], floats["Cr"]
		n := len(y)
		r := make([]float32, n)
		g := make([]float32, n)
		b := make([]float32, n)
		for i := 0; i < n; i += 64 {
			end := i + 64
			if end > n {
				end = n
			}
			var yb, cbb, crb [64]float32
			copy(yb[:], y[i:end])
			copy(cbb[:], cb[i:end])
			copy(crb[:], cr[i:end])
			csc709Inverse(&yb, &cbb, &crb)
			copy(r[i:end], yb[:end-i])
			copy(g[i:end], cbb[:end-i])
			copy(b[i:end], crb[:end-i])
		}
		floats["R"], floats["G"], floats["B"] = r, g, b
	}

	out := make([]byte, expectedSize)
	off := 0
	nonHalfOff := 0
	for _, c := range desc.Channels {
		n := c.Width * c.Height * c.Class.ByteSize()
		if c.Class != SampleHalf {
			if nonHalfOff+n > len(nonHalf) {
				return nil, ErrCorrupted
			}
			copy(out[off:off+n], nonHalf[nonHalfOff:nonHalfOff+n])
			nonHalfOff += n
			off += n
			continue
		}
		plane, ok := floats[c.Name]
		if !ok {
			return nil, ErrCorrupted
		}
		for k := 0; k < c.Width*c.Height; k++ {
			bits := uint16(half.FromFloat32(plane[k]))
			out[off+k*2] = byte(bits)
			out[off+k*2+1] = byte(bits >> 8)
		}
		off += n
	}
	return out, nil
}

func dwaQuantFor(name string) [64]float32 {
	if name == "Cb" || name == "Cr" {
		return dwaChromaQuant
	}
	return dwaLumaQuant
}
