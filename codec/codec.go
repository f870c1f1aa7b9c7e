// Package codec implements the per-block compression algorithms used
// by OpenEXR chunks: None, RLE, ZIP1, ZIP16, PIZ, PXR24, B44, B44A,
// DWAA and DWAB. It has no dependency on the exr package so that exr
// can call into codec without creating an import cycle; callers
// describe the block being encoded or decoded with ChannelDesc/BlockDesc
// rather than passing exr's own Header/Channel types.
package codec

import "errors"

// ErrImageTooLarge is returned by a codec when width*height exceeds an
// internal allocation guard, protecting against decompression bombs
// built from a corrupted or adversarial chunk size field.
var ErrImageTooLarge = errors.New("codec: image dimensions too large")

// ErrCorrupted is returned when a compressed stream's internal
// structure (control bytes, table sizes, bit-length sums) is
// self-inconsistent.
var ErrCorrupted = errors.New("codec: corrupted compressed stream")

// SampleClass classifies a channel's on-disk sample representation.
// The ordinal values match exr.SampleType exactly (Uint=0, Half=1,
// Float=2) so the exr package can convert with a plain cast.
type SampleClass uint8

const (
	SampleUint SampleClass = iota
	SampleHalf
	SampleFloat
)

// ByteSize returns the native wire width of one sample of this class.
func (c SampleClass) ByteSize() int {
	if c == SampleHalf {
		return 2
	}
	return 4
}

// ChannelDesc describes one channel's layout within a single block,
// already clipped to that block's pixel rectangle (i.e. Width/Height
// already account for the channel's x/ySampling).
type ChannelDesc struct {
	Name   string
	Class  SampleClass
	Width  int
	Height int
	// Linear marks a channel as eligible for B44's perceptual log
	// remapping (OpenEXR applies it to every channel but the alpha
	// channel, which callers signal by setting Linear=false on it).
	Linear bool
}

// BlockDesc describes the full set of channels interleaved into one
// block's payload, in on-disk channel order.
type BlockDesc struct {
	Channels []ChannelDesc
}

// RowStride returns the number of bytes one scan line of desc
// occupies in the uncompressed, channel-interleaved layout.
func (d BlockDesc) RowStride() int {
	n := 0
	for _, c := range d.Channels {
		n += c.Width * c.Class.ByteSize()
	}
	return n
}

// Kind identifies a compression algorithm. Ordinal values match
// exr.Compression exactly (None=0 .. DWAB=9).
type Kind uint8

const (
	None Kind = iota
	RLE
	ZIP1
	ZIP16
	PIZ
	PXR24
	B44
	B44A
	DWAA
	DWAB
)

// Encode compresses raw (channel-interleaved, native-endian-on-disk
// i.e. little-endian bytes) using the algorithm named by kind. Per the
// format's fallback rule, callers should prefer the shorter of raw and
// Encode's result; Encode itself never applies the rule, since deep
// codecs and direct codec tests need the raw compressed form.
func Encode(kind Kind, raw []byte, desc BlockDesc) ([]byte, error) {
	switch kind {
	case None:
		return append([]byte(nil), raw...), nil
	case RLE:
		return EncodeRLE(raw), nil
	case ZIP1, ZIP16:
		return EncodeZIP(raw)
	case PIZ:
		return EncodePIZ(raw, desc)
	case PXR24:
		return EncodePXR24(raw, desc)
	case B44:
		return EncodeB44(raw, desc, false)
	case B44A:
		return EncodeB44(raw, desc, true)
	case DWAA, DWAB:
		return EncodeDWA(raw, desc)
	default:
		return nil, errInvalidf("codec: unknown compression kind %d", kind)
	}
}

// Decode expands compressed back into expectedSize bytes of
// channel-interleaved payload as described by desc.
func Decode(kind Kind, compressed []byte, desc BlockDesc, expectedSize int) ([]byte, error) {
	switch kind {
	case None:
		if len(compressed) != expectedSize {
			return nil, errInvalidf("codec: uncompressed payload is %d bytes, want %d", len(compressed), expectedSize)
		}
		return append([]byte(nil), compressed...), nil
	case RLE:
		return DecodeRLE(compressed, expectedSize)
	case ZIP1, ZIP16:
		return DecodeZIP(compressed, expectedSize)
	case PIZ:
		return DecodePIZ(compressed, desc, expectedSize)
	case PXR24:
		return DecodePXR24(compressed, desc, expectedSize)
	case B44:
		return DecodeB44(compressed, desc, expectedSize, false)
	case B44A:
		return DecodeB44(compressed, desc, expectedSize, true)
	case DWAA, DWAB:
		return DecodeDWA(compressed, desc, expectedSize)
	default:
		return nil, errInvalidf("codec: unknown compression kind %d", kind)
	}
}

// EncodeWithFallback applies the format's fallback rule: if Encode's
// result is not strictly smaller than raw, the uncompressed bytes are
// returned instead and ok is false. Kind None is exempt: its output is
// the uncompressed bytes and ok is always true.
func EncodeWithFallback(kind Kind, raw []byte, desc BlockDesc) (out []byte, ok bool, err error) {
	if kind == None {
		out, err = Encode(kind, raw, desc)
		return out, true, err
	}
	out, err = Encode(kind, raw, desc)
	if err != nil {
		return nil, false, err
	}
	if len(out) >= len(raw) {
		return append([]byte(nil), raw...), false, nil
	}
	return out, true, nil
}
