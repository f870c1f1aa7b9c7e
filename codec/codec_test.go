package codec

import (
	"bytes"
	"testing"
)

func uintDesc(names []string, width, height int) BlockDesc {
	d := BlockDesc{}
	for _, n := range names {
		d.Channels = append(d.Channels, ChannelDesc{Name: n, Class: SampleUint, Width: width, Height: height, Linear: true})
	}
	return d
}

func TestEncodeDecodeRoundTripAllKinds(t *testing.T) {
	width, height := 16, 8
	desc := uintDesc([]string{"A", "B"}, width, height)
	raw := make([]byte, desc.RowStride()*height)
	for i := range raw {
		raw[i] = byte(i * 7)
	}

	for _, kind := range []Kind{None, RLE, ZIP1, ZIP16} {
		compressed, err := Encode(kind, raw, desc)
		if err != nil {
			t.Fatalf("kind %d: Encode error: %v", kind, err)
		}
		decoded, err := Decode(kind, compressed, desc, len(raw))
		if err != nil {
			t.Fatalf("kind %d: Decode error: %v", kind, err)
		}
		if !bytes.Equal(decoded, raw) {
			t.Errorf("kind %d: round-trip mismatch", kind)
		}
	}
}

func TestEncodeWithFallbackUsesUncompressedWhenLarger(t *testing.T) {
	desc := uintDesc([]string{"A"}, 4, 1)
	// Small, high-entropy-looking payload: compressed form (with zlib
	// framing overhead) will not beat the raw bytes.
	raw := []byte{1, 200, 3, 199}

	out, ok, err := EncodeWithFallback(ZIP1, raw, desc)
	if err != nil {
		t.Fatalf("EncodeWithFallback error: %v", err)
	}
	if ok {
		t.Fatalf("expected fallback to uncompressed storage for tiny payload")
	}
	if !bytes.Equal(out, raw) {
		t.Errorf("fallback output mismatch: got %v, want %v", out, raw)
	}
}

func TestEncodeWithFallbackNoneAlwaysOK(t *testing.T) {
	desc := uintDesc([]string{"A"}, 4, 1)
	raw := []byte{1, 2, 3, 4}
	out, ok, err := EncodeWithFallback(None, raw, desc)
	if err != nil {
		t.Fatalf("EncodeWithFallback error: %v", err)
	}
	if !ok {
		t.Error("None should always report ok=true")
	}
	if !bytes.Equal(out, raw) {
		t.Errorf("None output mismatch: got %v, want %v", out, raw)
	}
}

func TestEncodeWithFallbackCompressesLargeRepetitiveData(t *testing.T) {
	desc := uintDesc([]string{"R", "G", "B"}, 64, 32)
	raw := make([]byte, desc.RowStride()*32)
	// Nearly constant data compresses well under ZIP.
	for i := range raw {
		raw[i] = byte(i / 400)
	}

	out, ok, err := EncodeWithFallback(ZIP16, raw, desc)
	if err != nil {
		t.Fatalf("EncodeWithFallback error: %v", err)
	}
	if !ok {
		t.Error("expected compression to win on large repetitive data")
	}
	if len(out) >= len(raw) {
		t.Errorf("expected compressed output smaller than raw: got %d, raw %d", len(out), len(raw))
	}
}

func TestRowStride(t *testing.T) {
	desc := BlockDesc{Channels: []ChannelDesc{
		{Name: "A", Class: SampleHalf, Width: 10, Height: 4},
		{Name: "B", Class: SampleFloat, Width: 10, Height: 4},
	}}
	got := desc.RowStride()
	want := 10*2 + 10*4
	if got != want {
		t.Errorf("RowStride: got %d, want %d", got, want)
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	desc := uintDesc([]string{"A"}, 2, 1)
	if _, err := Decode(Kind(99), nil, desc, 8); err == nil {
		t.Error("expected error for unknown compression kind")
	}
}
