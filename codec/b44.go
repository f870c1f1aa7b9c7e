package codec

import (
	"math"
	"sync"
)

// toOrdered maps 16 half-float bit patterns to monotonic 16-bit keys:
// NaN/Inf collapse to 0x8000, negatives invert, non-negatives gain the
// sign bit, so comparing keys as unsigned integers orders the values.
func toOrdered(dst, src *[16]uint16) {
	for i, v := range src {
		if v&0x7c00 == 0x7c00 {
			dst[i] = 0x8000
		} else if v&0x8000 != 0 {
			dst[i] = ^v
		} else {
			dst[i] = v | 0x8000
		}
	}
}

// signMagConvert inverts one ordered key back to sign-magnitude: a set
// high bit is cleared, otherwise the value is complemented.
func signMagConvert(v uint16) uint16 {
	if v&0x8000 != 0 {
		return v & 0x7fff
	}
	return ^v
}

func findMax16(src *[16]uint16) uint16 {
	m := src[0]
	for _, v := range src[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// shiftAndRound implements the format's rounding-shift formula:
// x' = x<<1; (x' + a + ((x' >> (s+1)) & 1)) >> (s+1), a = (1<<s)-1.
func shiftAndRound(x int, shift uint) uint16 {
	xp := x << 1
	a := (1 << shift) - 1
	return uint16((xp + a + ((xp >> (shift + 1)) & 1)) >> (shift + 1))
}

const b44Bias = 0x20

// packB44 packs 16 ordered-key values into 14 bytes (or 3, for a
// constant flat-field block when flatfields is set). exactmax trades
// a small amount of additional quantization for a decoder anchor
// value consistent with the rest of the block's precision — the
// format applies it to non-linear (already log/exp-remapped) channels.
func packB44(t [16]uint16, b []byte, flatfields, exactmax bool) int {
	tMax := findMax16(&t)

	var d [16]uint16
	var r [15]int
	shift := uint(0)
	for {
		for i, v := range t {
			d[i] = shiftAndRound(int(tMax)-int(v), shift)
		}
		for i, p := range b44DiffPairs {
			r[i] = int(d[p[0]]) - int(d[p[1]]) + b44Bias
		}
		rMin, rMax := r[0], r[0]
		for _, v := range r[1:] {
			if v < rMin {
				rMin = v
			}
			if v > rMax {
				rMax = v
			}
		}
		if rMin >= 0 && rMax <= 0x3f {
			break
		}
		shift++
		if shift > 15 {
			shift = 15
			break
		}
	}

	allBias := true
	for _, v := range r {
		if v != b44Bias {
			allBias = false
			break
		}
	}
	if flatfields && allBias {
		b[0] = byte(t[0] >> 8)
		b[1] = byte(t[0])
		b[2] = 0xFC
		return 3
	}

	t0 := t[0]
	if exactmax {
		t0 = tMax - uint16(uint(d[0])<<shift)
	}

	b[0] = byte(t0 >> 8)
	b[1] = byte(t0)
	b[2] = byte((int(shift) << 2) | (r[0] >> 4))
	b[3] = byte((r[0] << 4) | (r[1] >> 2))
	b[4] = byte((r[1] << 6) | r[2])
	b[5] = byte((r[3] << 2) | (r[4] >> 4))
	b[6] = byte((r[4] << 4) | (r[5] >> 2))
	b[7] = byte((r[5] << 6) | r[6])
	b[8] = byte((r[7] << 2) | (r[8] >> 4))
	b[9] = byte((r[8] << 4) | (r[9] >> 2))
	b[10] = byte((r[9] << 6) | r[10])
	b[11] = byte((r[11] << 2) | (r[12] >> 4))
	b[12] = byte((r[12] << 4) | (r[13] >> 2))
	b[13] = byte((r[13] << 6) | r[14])
	return 14
}

// b44DiffPairs lists, for each of the 15 running-difference codes, the
// (earlier, later) index pair it differences (index = row*4 + col):
// three vertical differences down the first column, followed by the
// horizontal differences between adjacent columns of each of the four
// rows.
var b44DiffPairs = [15][2]int{
	{0, 4}, {4, 8}, {8, 12},
	{0, 1}, {4, 5}, {8, 9}, {12, 13},
	{1, 2}, {5, 6}, {9, 10}, {13, 14},
	{2, 3}, {6, 7}, {10, 11}, {14, 15},
}

func unpack3(b []byte, s *[16]uint16) {
	v := uint16(b[0])<<8 | uint16(b[1])
	v = signMagConvert(v)
	for i := range s {
		s[i] = v
	}
}

// unpack14 inverts packB44's 14-byte form, reconstructing 16
// sign-magnitude half-float values.
func unpack14(b []byte, s *[16]uint16) {
	s[0] = uint16(b[0])<<8 | uint16(b[1])

	shift := uint16(b[2] >> 2)
	bias := uint16(0x20) << shift

	s[4] = s[0] + uint16((((uint32(b[2])<<4)|(uint32(b[3])>>4))&0x3f)<<shift) - bias
	s[8] = s[4] + uint16((((uint32(b[3])<<2)|(uint32(b[4])>>6))&0x3f)<<shift) - bias
	s[12] = s[8] + uint16((uint32(b[4])&0x3f)<<shift) - bias

	s[1] = s[0] + uint16((uint32(b[5])>>2)<<shift) - bias
	s[5] = s[4] + uint16((((uint32(b[5])<<4)|(uint32(b[6])>>4))&0x3f)<<shift) - bias
	s[9] = s[8] + uint16((((uint32(b[6])<<2)|(uint32(b[7])>>6))&0x3f)<<shift) - bias
	s[13] = s[12] + uint16((uint32(b[7])&0x3f)<<shift) - bias

	s[2] = s[1] + uint16((uint32(b[8])>>2)<<shift) - bias
	s[6] = s[5] + uint16((((uint32(b[8])<<4)|(uint32(b[9])>>4))&0x3f)<<shift) - bias
	s[10] = s[9] + uint16((((uint32(b[9])<<2)|(uint32(b[10])>>6))&0x3f)<<shift) - bias
	s[14] = s[13] + uint16((uint32(b[10])&0x3f)<<shift) - bias

	s[3] = s[2] + uint16((uint32(b[11])>>2)<<shift) - bias
	s[7] = s[6] + uint16((((uint32(b[11])<<4)|(uint32(b[12])>>4))&0x3f)<<shift) - bias
	s[11] = s[10] + uint16((((uint32(b[12])<<2)|(uint32(b[13])>>6))&0x3f)<<shift) - bias
	s[15] = s[14] + uint16((uint32(b[13])&0x3f)<<shift) - bias

	for i := range s {
		s[i] = signMagConvert(s[i])
	}
}

const b44MaxPixels = 128 * 1024 * 1024

// halfToFloat32/float32ToHalf support B44's optional perceptual
// log/exp remapping of linear channels before block packing.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := int32((h >> 10) & 0x1f)
	mant := uint32(h & 0x3ff)

	if exp == 0 {
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		exp++
		mant &= 0x3ff
	} else if exp == 31 {
		return math.Float32frombits(sign | 0x7f800000 | (mant << 13))
	}
	exp += 127 - 15
	return math.Float32frombits(sign | uint32(exp)<<23 | (mant << 13))
}

func float32ToHalf(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	rawExp := (bits >> 23) & 0xff
	exp := int32(rawExp) - 127 + 15
	mant := bits & 0x7fffff

	if rawExp == 0xff {
		if mant != 0 {
			return sign | 0x7c00 | uint16(mant>>13)
		}
		return sign | 0x7c00
	}
	if exp <= 0 {
		if exp < -10 {
			return sign
		}
		mant = (mant | 0x800000) >> uint32(1-exp)
		return sign | uint16(mant>>13)
	}
	if exp >= 31 {
		return sign | 0x7c00
	}
	return sign | uint16(exp)<<10 | uint16(mant>>13)
}

var (
	b44ExpTable [65536]uint16
	b44LogTable [65536]uint16
	b44Once     sync.Once
)

// b44InitTables lazily builds the exp(x/8)/8*log(x) lookup tables B44
// uses to perceptually remap linear (non-alpha) channels.
func b44InitTables() {
	b44Once.Do(func() {
		for i := 0; i < 65536; i++ {
			f := halfToFloat32(uint16(i))
			b44ExpTable[i] = float32ToHalf(float32(math.Exp(float64(f) / 8)))
			if f > 0 {
				b44LogTable[i] = float32ToHalf(8 * float32(math.Log(float64(f))))
			}
		}
	})
}

// EncodeB44 compresses desc's channels 4x4 half-float blocks at a
// time; non-half channels are copied verbatim, matching the format's
// "raw-copies U32 and F32" rule.
func EncodeB44(raw []byte, desc BlockDesc, flatfields bool) ([]byte, error) {
	b44InitTables()
	out := make([]byte, 0, len(raw))
	off := 0

	for _, c := range desc.Channels {
		rowBytes := c.Width * c.Class.ByteSize()
		if c.Class != SampleHalf {
			n := rowBytes * c.Height
			out = append(out, raw[off:off+n]...)
			off += n
			continue
		}
		if c.Width*c.Height > b44MaxPixels {
			return nil, ErrImageTooLarge
		}

		cd := make([]uint16, c.Width*c.Height)
		for y := 0; y < c.Height; y++ {
			row := raw[off+y*rowBytes : off+(y+1)*rowBytes]
			for x := 0; x < c.Width; x++ {
				cd[y*c.Width+x] = uint16(row[x*2]) | uint16(row[x*2+1])<<8
			}
		}
		off += rowBytes * c.Height

		var block [14]byte
		for y := 0; y < c.Height; y += 4 {
			for x := 0; x < c.Width; x += 4 {
				var half [16]uint16
				for by := 0; by < 4; by++ {
					srcY := y + by
					if srcY >= c.Height {
						srcY = c.Height - 1
					}
					for bx := 0; bx < 4; bx++ {
						srcX := x + bx
						if srcX >= c.Width {
							srcX = c.Width - 1
						}
						v := cd[srcY*c.Width+srcX]
						if c.Linear {
							v = b44ExpTable[v]
						}
						half[by*4+bx] = v
					}
				}
				var ordered [16]uint16
				toOrdered(&ordered, &half)
				n := packB44(ordered, block[:], flatfields, !c.Linear)
				out = append(out, block[:n]...)
			}
		}
	}
	return out, nil
}

// DecodeB44 inverts EncodeB44.
func DecodeB44(compressed []byte, desc BlockDesc, expectedSize int, flatfields bool) ([]byte, error) {
	b44InitTables()
	out := make([]byte, expectedSize)
	in := 0
	off := 0

	for _, c := range desc.Channels {
		rowBytes := c.Width * c.Class.ByteSize()
		if c.Class != SampleHalf {
			n := rowBytes * c.Height
			if in+n > len(compressed) {
				return nil, ErrCorrupted
			}
			copy(out[off:off+n], compressed[in:in+n])
			in += n
			off += n
			continue
		}

		padW := (c.Width + 3) &^ 3
		padH := (c.Height + 3) &^ 3
		cd := make([]uint16, padW*padH)

		for y := 0; y < c.Height; y += 4 {
			for x := 0; x < c.Width; x += 4 {
				if in+3 > len(compressed) {
					return nil, ErrCorrupted
				}
				var s [16]uint16
				if flatfields && compressed[in+2] == 0xFC {
					unpack3(compressed[in:], &s)
					in += 3
				} else {
					if in+14 > len(compressed) {
						return nil, ErrCorrupted
					}
					unpack14(compressed[in:], &s)
					in += 14
				}
				for by := 0; by < 4 && y+by < c.Height; by++ {
					for bx := 0; bx < 4 && x+bx < c.Width; bx++ {
						v := s[by*4+bx]
						if c.Linear {
							v = b44LogTable[v]
						}
						cd[(y+by)*padW+x+bx] = v
					}
				}
			}
		}

		for y := 0; y < c.Height; y++ {
			row := out[off+y*rowBytes : off+(y+1)*rowBytes]
			for x := 0; x < c.Width; x++ {
				v := cd[y*padW+x]
				row[x*2] = byte(v)
				row[x*2+1] = byte(v >> 8)
			}
		}
		off += rowBytes * c.Height
	}
	return out, nil
}
