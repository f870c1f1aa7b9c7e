package exr

import "github.com/mrjoshuak/go-openexr/codec"

// codecKind maps a header's Compression to the codec package's own
// Kind enum. The two enums share ordinal values by construction, but
// the explicit switch keeps that coupling visible and safe against
// either enum being reordered independently of the other.
func codecKind(c Compression) codec.Kind {
	switch c {
	case CompressionNone:
		return codec.None
	case CompressionRLE:
		return codec.RLE
	case CompressionZIPS:
		return codec.ZIP1
	case CompressionZIP:
		return codec.ZIP16
	case CompressionPIZ:
		return codec.PIZ
	case CompressionPXR24:
		return codec.PXR24
	case CompressionB44:
		return codec.B44
	case CompressionB44A:
		return codec.B44A
	case CompressionDWAA:
		return codec.DWAA
	case CompressionDWAB:
		return codec.DWAB
	default:
		return codec.None
	}
}

func sampleClass(t SampleType) codec.SampleClass {
	switch t {
	case SampleUint:
		return codec.SampleUint
	case SampleHalf:
		return codec.SampleHalf
	default:
		return codec.SampleFloat
	}
}

// blockDescFor builds the codec package's channel-layout description
// for one block of width x rows pixels: every channel's on-disk
// extent, clipped by its x/ySampling, in header channel order. A
// channel named "A" is never marked Linear, matching the convention
// that alpha carries no perceptual remapping under lossy codecs while
// every other channel does.
func blockDescFor(h *Header, width, rows int) codec.BlockDesc {
	desc := codec.BlockDesc{Channels: make([]codec.ChannelDesc, 0, len(h.Channels))}
	for _, c := range h.Channels {
		desc.Channels = append(desc.Channels, codec.ChannelDesc{
			Name:   c.Name,
			Class:  sampleClass(c.SampleType),
			Width:  width / c.XSampling,
			Height: rows / c.YSampling,
			Linear: c.Name != "A",
		})
	}
	return desc
}

// decodeChunkPayload expands one chunk's raw, possibly-compressed
// payload into the uncompressed channel-interleaved layout described
// in spec §4.6: for every row, for every channel in header order, that
// channel's (possibly subsampled) row of samples. A chunk whose payload
// is already exactly expected bytes long is the format's fallback case
// (encodeChunkPayload wrote it uncompressed because compression did not
// shrink it) and is passed through as-is rather than handed to a codec
// that never produced it.
func decodeChunkPayload(h *Header, raw RawChunk, width, rows int) ([]byte, error) {
	desc := blockDescFor(h, width, rows)
	expected := desc.RowStride() * rows
	kind := codecKind(h.Compression)
	if kind != codec.None && len(raw.Payload) == expected {
		return append([]byte(nil), raw.Payload...), nil
	}
	return codec.Decode(kind, raw.Payload, desc, expected)
}

// encodeChunkPayload compresses one chunk's uncompressed,
// channel-interleaved payload, applying the format's fallback rule:
// if compression does not strictly shrink the data, the uncompressed
// bytes are written instead (spec §4.6: "Fallback rule").
func encodeChunkPayload(h *Header, uncompressed []byte, width, rows int) ([]byte, error) {
	desc := blockDescFor(h, width, rows)
	out, _, err := codec.EncodeWithFallback(codecKind(h.Compression), uncompressed, desc)
	return out, err
}
