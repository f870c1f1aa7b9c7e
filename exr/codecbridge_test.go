package exr

import (
	"bytes"
	"testing"

	"github.com/mrjoshuak/go-openexr/codec"
)

func TestCodecKindMapping(t *testing.T) {
	tests := map[Compression]codec.Kind{
		CompressionNone:  codec.None,
		CompressionRLE:   codec.RLE,
		CompressionZIPS:  codec.ZIP1,
		CompressionZIP:   codec.ZIP16,
		CompressionPIZ:   codec.PIZ,
		CompressionPXR24: codec.PXR24,
		CompressionB44:   codec.B44,
		CompressionB44A:  codec.B44A,
		CompressionDWAA:  codec.DWAA,
		CompressionDWAB:  codec.DWAB,
	}
	for c, want := range tests {
		if got := codecKind(c); got != want {
			t.Errorf("codecKind(%v): got %v, want %v", c, got, want)
		}
	}
}

func TestSampleClassMapping(t *testing.T) {
	tests := map[SampleType]codec.SampleClass{
		SampleUint:  codec.SampleUint,
		SampleHalf:  codec.SampleHalf,
		SampleFloat: codec.SampleFloat,
	}
	for st, want := range tests {
		if got := sampleClass(st); got != want {
			t.Errorf("sampleClass(%v): got %v, want %v", st, got, want)
		}
	}
}

func TestBlockDescForHonorsSubsamplingAndChannelOrder(t *testing.T) {
	h := minimalHeader()
	h.Channels = ChannelList{
		{Name: "A", SampleType: SampleHalf, XSampling: 1, YSampling: 1},
		{Name: "Y", SampleType: SampleHalf, XSampling: 2, YSampling: 2},
	}
	desc := blockDescFor(h, 16, 8)
	if len(desc.Channels) != 2 {
		t.Fatalf("got %d channels, want 2", len(desc.Channels))
	}
	if desc.Channels[0].Name != "A" || desc.Channels[0].Width != 16 || desc.Channels[0].Height != 8 {
		t.Errorf("channel A: got %+v", desc.Channels[0])
	}
	if desc.Channels[1].Name != "Y" || desc.Channels[1].Width != 8 || desc.Channels[1].Height != 4 {
		t.Errorf("channel Y (subsampled): got %+v", desc.Channels[1])
	}
	if desc.Channels[0].Linear {
		t.Error("alpha channel should not be marked Linear")
	}
	if !desc.Channels[1].Linear {
		t.Error("non-alpha channel should be marked Linear")
	}
}

func TestEncodeDecodeChunkPayloadRoundTrip(t *testing.T) {
	h := minimalHeader()
	h.Compression = CompressionZIP
	h.Channels = ChannelList{{Name: "Y", SampleType: SampleHalf, XSampling: 1, YSampling: 1}}

	width, rows := 16, 4
	uncompressed := make([]byte, width*rows*2)
	for i := range uncompressed {
		uncompressed[i] = byte(i * 13)
	}

	compressed, err := encodeChunkPayload(h, uncompressed, width, rows)
	if err != nil {
		t.Fatalf("encodeChunkPayload error: %v", err)
	}

	raw := RawChunk{Payload: compressed}
	decoded, err := decodeChunkPayload(h, raw, width, rows)
	if err != nil {
		t.Fatalf("decodeChunkPayload error: %v", err)
	}
	if !bytes.Equal(decoded, uncompressed) {
		t.Error("chunk payload round-trip mismatch")
	}
}

// TestEncodeDecodeChunkPayloadFallbackRoundTrip exercises a block that
// does not shrink under compression, so encodeChunkPayload falls back
// to writing it uncompressed (codec.EncodeWithFallback). decodeChunkPayload
// must recognize that fallback by size rather than handing the raw
// pixel bytes to the ZIP decoder.
func TestEncodeDecodeChunkPayloadFallbackRoundTrip(t *testing.T) {
	h := minimalHeader()
	h.Compression = CompressionZIP
	h.Channels = ChannelList{{Name: "Y", SampleType: SampleHalf, XSampling: 1, YSampling: 1}}

	width, rows := 4, 2
	uncompressed := make([]byte, width*rows*2)
	for i := range uncompressed {
		uncompressed[i] = byte((i*2654435761 + 17) & 0xff)
	}

	compressed, err := encodeChunkPayload(h, uncompressed, width, rows)
	if err != nil {
		t.Fatalf("encodeChunkPayload error: %v", err)
	}
	if len(compressed) != len(uncompressed) {
		t.Fatalf("expected incompressible block to fall back to %d uncompressed bytes, got %d", len(uncompressed), len(compressed))
	}

	raw := RawChunk{Payload: compressed}
	decoded, err := decodeChunkPayload(h, raw, width, rows)
	if err != nil {
		t.Fatalf("decodeChunkPayload error: %v", err)
	}
	if !bytes.Equal(decoded, uncompressed) {
		t.Error("fallback chunk payload round-trip mismatch")
	}
}
