package codec

import (
	"bytes"
	"testing"
)

func TestDeepPermittedKinds(t *testing.T) {
	tests := map[Kind]bool{
		None:  true,
		RLE:   true,
		ZIP1:  true,
		ZIP16: true,
		PIZ:   false,
		PXR24: false,
		B44:   false,
		B44A:  false,
		DWAA:  false,
		DWAB:  false,
	}
	for kind, want := range tests {
		if got := DeepPermitted(kind); got != want {
			t.Errorf("DeepPermitted(%d): got %v, want %v", kind, got, want)
		}
	}
}

func TestEncodeDecodeDeepSamplesRoundTrip(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5, 5, 5, 5, 9, 9, 9, 0, 0, 0}
	for _, kind := range []Kind{None, RLE, ZIP1, ZIP16} {
		compressed, err := EncodeDeepSamples(kind, raw)
		if err != nil {
			t.Fatalf("kind %d: EncodeDeepSamples error: %v", kind, err)
		}
		decoded, err := DecodeDeepSamples(kind, compressed, len(raw))
		if err != nil {
			t.Fatalf("kind %d: DecodeDeepSamples error: %v", kind, err)
		}
		if !bytes.Equal(decoded, raw) {
			t.Errorf("kind %d: round-trip mismatch", kind)
		}
	}
}

func TestEncodeDeepSamplesRejectsDisallowedKind(t *testing.T) {
	if _, err := EncodeDeepSamples(PIZ, []byte{1, 2, 3}); err == nil {
		t.Error("expected error encoding deep samples with PIZ")
	}
	if _, err := DecodeDeepSamples(DWAA, []byte{1, 2, 3}, 3); err == nil {
		t.Error("expected error decoding deep samples with DWAA")
	}
}
