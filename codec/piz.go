package codec

import "github.com/mrjoshuak/go-openexr/internal/wire"

// pizBitmapBytes is the byte length of a full bitmap over every
// possible 16-bit value (65536 bits).
const pizBitmapBytes = 1 << 13

// pizPlane is one wavelet-transformable 16-bit plane: a Half channel
// contributes one plane; a Uint or Float channel contributes two (its
// low and high halfwords), matching the format's "pass through the
// wavelet stage as raw 16-bit halves of each word" rule.
type pizPlane struct {
	width, height int
}

func pizPlanes(desc BlockDesc) []pizPlane {
	var planes []pizPlane
	for _, c := range desc.Channels {
		if c.Class == SampleHalf {
			planes = append(planes, pizPlane{c.Width, c.Height})
		} else {
			planes = append(planes, pizPlane{c.Width, c.Height}, pizPlane{c.Width, c.Height})
		}
	}
	return planes
}

// pizExtractHalfwords reads raw's channel-interleaved scan lines into
// one []uint16 per plane (low halfword plane immediately followed by
// high halfword plane for Uint/Float channels).
func pizExtractHalfwords(raw []byte, desc BlockDesc) [][]uint16 {
	planes := make([][]uint16, 0, len(pizPlanes(desc)))
	off := 0
	for _, c := range desc.Channels {
		n := c.Width * c.Height
		switch c.Class {
		case SampleHalf:
			plane := make([]uint16, n)
			for i := 0; i < n; i++ {
				plane[i] = uint16(raw[off]) | uint16(raw[off+1])<<8
				off += 2
			}
			planes = append(planes, plane)
		default:
			lo := make([]uint16, n)
			hi := make([]uint16, n)
			for i := 0; i < n; i++ {
				lo[i] = uint16(raw[off]) | uint16(raw[off+1])<<8
				hi[i] = uint16(raw[off+2]) | uint16(raw[off+3])<<8
				off += 4
			}
			planes = append(planes, lo, hi)
		}
	}
	return planes
}

// pizAssembleHalfwords inverts pizExtractHalfwords.
func pizAssembleHalfwords(planes [][]uint16, desc BlockDesc, expectedSize int) []byte {
	out := make([]byte, expectedSize)
	off := 0
	pi := 0
	for _, c := range desc.Channels {
		n := c.Width * c.Height
		switch c.Class {
		case SampleHalf:
			plane := planes[pi]
			pi++
			for i := 0; i < n; i++ {
				out[off] = byte(plane[i])
				out[off+1] = byte(plane[i] >> 8)
				off += 2
			}
		default:
			lo := planes[pi]
			hi := planes[pi+1]
			pi += 2
			for i := 0; i < n; i++ {
				out[off] = byte(lo[i])
				out[off+1] = byte(lo[i] >> 8)
				out[off+2] = byte(hi[i])
				out[off+3] = byte(hi[i] >> 8)
				off += 4
			}
		}
	}
	return out
}

// EncodePIZ implements the format's PIZ pipeline: build a bitmap of
// which 16-bit values occur anywhere in the block, remap samples
// through the dense lookup table the bitmap implies, apply a 2D Haar
// wavelet transform per plane, then Huffman-compress the concatenated
// result.
func EncodePIZ(raw []byte, desc BlockDesc) ([]byte, error) {
	planes := pizExtractHalfwords(raw, desc)

	var bitmap [pizBitmapBytes]byte
	for _, p := range planes {
		for _, v := range p {
			bitmap[v>>3] |= 1 << (v & 7)
		}
	}

	minByte, maxByte := -1, -1
	for i, b := range bitmap {
		if b != 0 {
			if minByte < 0 {
				minByte = i
			}
			maxByte = i
		}
	}

	lut := make([]uint16, 1<<16)
	numNonzero := 0
	for v := 0; v < 1<<16; v++ {
		if bitmap[v>>3]&(1<<(uint(v)&7)) != 0 {
			lut[v] = uint16(numNonzero)
			numNonzero++
		}
	}
	maxValue := uint16(0)
	if numNonzero > 0 {
		maxValue = uint16(numNonzero - 1)
	}

	for _, p := range planes {
		for i, v := range p {
			p[i] = lut[v]
		}
	}

	pd := pizPlanes(desc)
	for i, p := range planes {
		Wav2DEncode(p, pd[i].width, pd[i].height, maxValue)
	}

	total := 0
	for _, p := range planes {
		total += len(p)
	}
	concat := make([]uint16, 0, total)
	for _, p := range planes {
		concat = append(concat, p...)
	}
	huff := EncodeHuffman16(concat)

	// minByte/maxByte stay at their -1 sentinel (encoded as 0xFFFF) when
	// no plane contains any sample at all; pizBitmapBytes-1 is the
	// largest real index, so 0xFFFF is unambiguous.
	w := wire.NewBufferWriter(16 + pizBitmapBytes + len(huff))
	w.WriteUint16(uint16(minByte))
	w.WriteUint16(uint16(maxByte))
	if minByte >= 0 && maxByte >= minByte {
		w.WriteBytes(bitmap[minByte : maxByte+1])
	}
	w.WriteUint32(uint32(len(huff)))
	w.WriteBytes(huff)
	return w.Bytes(), nil
}

// DecodePIZ inverts EncodePIZ.
func DecodePIZ(compressed []byte, desc BlockDesc, expectedSize int) ([]byte, error) {
	r := wire.NewReader(compressed)
	minByte, err := r.ReadUint16()
	if err != nil {
		return nil, ErrCorrupted
	}
	maxByte, err := r.ReadUint16()
	if err != nil {
		return nil, ErrCorrupted
	}

	var bitmap [pizBitmapBytes]byte
	if minByte != 0xFFFF && int(maxByte) >= int(minByte) {
		n := int(maxByte) - int(minByte) + 1
		raw, err := r.ReadBytes(n)
		if err != nil {
			return nil, ErrCorrupted
		}
		copy(bitmap[minByte:], raw)
	}

	huffLen, err := r.ReadUint32()
	if err != nil {
		return nil, ErrCorrupted
	}
	huffBytes, err := r.ReadBytes(int(huffLen))
	if err != nil {
		return nil, ErrCorrupted
	}

	revLut := make([]uint16, 0, 1<<16)
	for v := 0; v < 1<<16; v++ {
		if bitmap[v>>3]&(1<<(uint(v)&7)) != 0 {
			revLut = append(revLut, uint16(v))
		}
	}
	maxValue := uint16(0)
	if len(revLut) > 0 {
		maxValue = uint16(len(revLut) - 1)
	}

	concat, err := DecodeHuffman16(huffBytes)
	if err != nil {
		return nil, err
	}

	pd := pizPlanes(desc)
	planes := make([][]uint16, len(pd))
	off := 0
	for i, dims := range pd {
		n := dims.width * dims.height
		if off+n > len(concat) {
			return nil, ErrCorrupted
		}
		planes[i] = append([]uint16(nil), concat[off:off+n]...)
		off += n
	}

	for i, p := range planes {
		Wav2DDecode(p, pd[i].width, pd[i].height, maxValue)
		for j, v := range p {
			if int(v) >= len(revLut) {
				return nil, ErrCorrupted
			}
			p[j] = revLut[v]
		}
	}

	return pizAssembleHalfwords(planes, desc, expectedSize), nil
}
