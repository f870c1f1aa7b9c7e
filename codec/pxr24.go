package codec

import "math"

// floatToFloat24 truncates a float32's mantissa to 15 bits (24 bits
// total with sign+exponent), rounding to nearest.
func floatToFloat24(f float32) uint32 {
	bits := math.Float32bits(f)
	sign := bits & 0x80000000
	exp := (bits >> 23) & 0xff
	mant := bits & 0x7fffff

	if exp == 0xff {
		// Inf/NaN: preserve, truncate mantissa without rounding.
		return (sign >> 8) | (uint32(0xff) << 15) | (mant >> 8)
	}

	rounded := mant + 0x80
	if rounded&0x800000 != 0 {
		// Mantissa rounded up into the exponent.
		rounded = 0
		exp++
		if exp == 0xff {
			return (sign >> 8) | (uint32(0xff) << 15)
		}
	}
	return (sign >> 8) | (exp << 15) | (rounded >> 8)
}

// float24ToFloat32 expands a 24-bit truncated float back to float32.
func float24ToFloat32(f24 uint32) float32 {
	sign := (f24 >> 23) & 1
	exp := (f24 >> 15) & 0xff
	mant := f24 & 0x7fff
	full := (sign << 31) | (exp << 23) | (mant << 8)
	return math.Float32frombits(full)
}

// pxr24Planes classifies one channel's plane count for PXR24 packing:
// 4 byte planes for Uint, 2 for Half, 3 for Float (after truncation to
// 24 bits).
func pxr24Planes(c SampleClass) int {
	switch c {
	case SampleUint:
		return 4
	case SampleHalf:
		return 2
	default:
		return 3
	}
}

// EncodePXR24 splits every channel's scan-line samples into parallel
// byte planes (4 for Uint, 2 for Half, 3 for truncated-24-bit Float),
// takes the running difference along each plane, then zlib-compresses
// the concatenated planes.
func EncodePXR24(raw []byte, desc BlockDesc) ([]byte, error) {
	planes := pxr24Split(raw, desc)
	for i := range planes {
		predictPlane(planes[i])
	}
	flat := make([]byte, 0, len(raw))
	for _, p := range planes {
		flat = append(flat, p...)
	}
	return zlibCompress(flat)
}

// DecodePXR24 inverts EncodePXR24.
func DecodePXR24(compressed []byte, desc BlockDesc, expectedSize int) ([]byte, error) {
	planeSizes := pxr24PlaneSizes(desc)
	total := 0
	for _, s := range planeSizes {
		total += s
	}
	flat, err := zlibDecompress(compressed, total)
	if err != nil {
		return nil, err
	}
	planes := make([][]byte, len(planeSizes))
	off := 0
	for i, s := range planeSizes {
		planes[i] = flat[off : off+s]
		off += s
		unpredictPlane(planes[i])
	}
	return pxr24Join(planes, desc, expectedSize)
}

func predictPlane(p []byte) {
	prev := byte(0)
	for i := range p {
		cur := p[i]
		p[i] = cur - prev
		prev = cur
	}
}

func unpredictPlane(p []byte) {
	var running byte
	for i := range p {
		running += p[i]
		p[i] = running
	}
}

// pxr24PlaneSizes returns the byte count of every plane, in channel
// order (a plane holds one byte per pixel of its channel over the
// whole block, so each entry is Width*Height).
func pxr24PlaneSizes(desc BlockDesc) []int {
	var sizes []int
	for _, c := range desc.Channels {
		n := pxr24Planes(c.Class)
		for k := 0; k < n; k++ {
			sizes = append(sizes, c.Width*c.Height)
		}
	}
	return sizes
}

// pxr24Split reads raw (channel-interleaved scan lines, native sample
// width) and produces one byte slice per plane, in channel order.
func pxr24Split(raw []byte, desc BlockDesc) [][]byte {
	sizes := pxr24PlaneSizes(desc)
	planes := make([][]byte, len(sizes))
	for i, s := range sizes {
		planes[i] = make([]byte, 0, s)
	}

	off := 0
	planeBase := 0
	for _, c := range desc.Channels {
		nPlanes := pxr24Planes(c.Class)
		rowBytes := c.Width * c.Class.ByteSize()
		for y := 0; y < c.Height; y++ {
			row := raw[off : off+rowBytes]
			off += rowBytes
			switch c.Class {
			case SampleUint:
				for x := 0; x < c.Width; x++ {
					v := row[x*4 : x*4+4]
					planes[planeBase+0] = append(planes[planeBase+0], v[3])
					planes[planeBase+1] = append(planes[planeBase+1], v[2])
					planes[planeBase+2] = append(planes[planeBase+2], v[1])
					planes[planeBase+3] = append(planes[planeBase+3], v[0])
				}
			case SampleHalf:
				for x := 0; x < c.Width; x++ {
					v := row[x*2 : x*2+2]
					planes[planeBase+0] = append(planes[planeBase+0], v[1])
					planes[planeBase+1] = append(planes[planeBase+1], v[0])
				}
			default: // SampleFloat
				for x := 0; x < c.Width; x++ {
					bits := uint32(row[x*4]) | uint32(row[x*4+1])<<8 | uint32(row[x*4+2])<<16 | uint32(row[x*4+3])<<24
					f24 := floatToFloat24(math.Float32frombits(bits))
					planes[planeBase+0] = append(planes[planeBase+0], byte(f24>>16))
					planes[planeBase+1] = append(planes[planeBase+1], byte(f24>>8))
					planes[planeBase+2] = append(planes[planeBase+2], byte(f24))
				}
			}
		}
		planeBase += nPlanes
	}
	return planes
}

// pxr24Join inverts pxr24Split, reassembling the channel-interleaved
// scan-line layout.
func pxr24Join(planes [][]byte, desc BlockDesc, expectedSize int) ([]byte, error) {
	out := make([]byte, expectedSize)
	off := 0
	planeBase := 0
	idx := make([]int, len(planes))
	for _, c := range desc.Channels {
		nPlanes := pxr24Planes(c.Class)
		for y := 0; y < c.Height; y++ {
			for x := 0; x < c.Width; x++ {
				switch c.Class {
				case SampleUint:
					b3 := planes[planeBase+0][idx[planeBase+0]]
					b2 := planes[planeBase+1][idx[planeBase+1]]
					b1 := planes[planeBase+2][idx[planeBase+2]]
					b0 := planes[planeBase+3][idx[planeBase+3]]
					idx[planeBase+0]++
					idx[planeBase+1]++
					idx[planeBase+2]++
					idx[planeBase+3]++
					if off+4 > len(out) {
						return nil, errInvalidf("codec: pxr24 output overrun")
					}
					out[off], out[off+1], out[off+2], out[off+3] = b0, b1, b2, b3
					off += 4
				case SampleHalf:
					b1 := planes[planeBase+0][idx[planeBase+0]]
					b0 := planes[planeBase+1][idx[planeBase+1]]
					idx[planeBase+0]++
					idx[planeBase+1]++
					if off+2 > len(out) {
						return nil, errInvalidf("codec: pxr24 output overrun")
					}
					out[off], out[off+1] = b0, b1
					off += 2
				default:
					b2 := planes[planeBase+0][idx[planeBase+0]]
					b1 := planes[planeBase+1][idx[planeBase+1]]
					b0 := planes[planeBase+2][idx[planeBase+2]]
					idx[planeBase+0]++
					idx[planeBase+1]++
					idx[planeBase+2]++
					f24 := uint32(b2)<<16 | uint32(b1)<<8 | uint32(b0)
					f32 := float24ToFloat32(f24)
					bits := math.Float32bits(f32)
					if off+4 > len(out) {
						return nil, errInvalidf("codec: pxr24 output overrun")
					}
					out[off] = byte(bits)
					out[off+1] = byte(bits >> 8)
					out[off+2] = byte(bits >> 16)
					out[off+3] = byte(bits >> 24)
					off += 4
				}
			}
		}
		planeBase += nPlanes
	}
	return out, nil
}
