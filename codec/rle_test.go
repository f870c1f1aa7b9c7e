package codec

import (
	"bytes"
	"testing"
)

func TestRleCompressDecompressRoundTrip(t *testing.T) {
	tests := [][]byte{
		{},
		{1},
		{1, 1, 1, 1, 1},
		{1, 2, 3, 4, 5},
		{1, 2, 3, 3, 3, 3, 4, 5, 6},
		bytes.Repeat([]byte{7}, 300),
	}
	for i, original := range tests {
		compressed := rleCompress(original)
		decompressed, err := rleDecompress(compressed, len(original))
		if err != nil {
			t.Fatalf("test %d: decompress error: %v", i, err)
		}
		if !bytes.Equal(decompressed, original) {
			t.Errorf("test %d: round-trip failed:\ngot  %v\nwant %v", i, decompressed, original)
		}
	}
}

func TestRleDecompressWrongSize(t *testing.T) {
	compressed := rleCompress([]byte{1, 2, 3, 4, 5})
	if _, err := rleDecompress(compressed, 3); err != ErrCorrupted {
		t.Errorf("expected ErrCorrupted for wrong expected size, got %v", err)
	}
}

func TestRleDecompressTruncated(t *testing.T) {
	if _, err := rleDecompress([]byte{5}, 6); err != ErrCorrupted {
		t.Errorf("expected ErrCorrupted for truncated literal run, got %v", err)
	}
	if _, err := rleDecompress([]byte{0xFC}, 5); err != ErrCorrupted {
		t.Errorf("expected ErrCorrupted for truncated repeat run, got %v", err)
	}
}

func TestEncodeDecodeRLERoundTrip(t *testing.T) {
	data := make([]byte, 2048)
	for i := range data {
		if i%64 < 16 {
			data[i] = 0
		} else {
			data[i] = byte(i * 31)
		}
	}
	compressed := EncodeRLE(data)
	decompressed, err := DecodeRLE(compressed, len(data))
	if err != nil {
		t.Fatalf("DecodeRLE error: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("EncodeRLE/DecodeRLE round-trip failed")
	}
}

func TestEncodeRLEFlatDataCompresses(t *testing.T) {
	data := bytes.Repeat([]byte{128}, 512)
	compressed := EncodeRLE(data)
	if len(compressed) >= len(data) {
		t.Errorf("expected flat data to compress: got %d bytes from %d", len(compressed), len(data))
	}
}
