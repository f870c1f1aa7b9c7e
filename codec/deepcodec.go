package codec

// DeepPermitted reports whether kind may compress a deep chunk's
// sample payload; the format restricts deep data to the byte-oriented
// codecs (spec §4.6.9).
func DeepPermitted(kind Kind) bool {
	switch kind {
	case None, RLE, ZIP1, ZIP16:
		return true
	default:
		return false
	}
}

// EncodeDeepSamples compresses a deep chunk's interleaved sample
// payload using the same preprocess-plus-zlib/rle pipeline as the
// corresponding flat codec. The pixel-offset table is never passed
// through here; it is always stored raw (spec §4.6.9).
func EncodeDeepSamples(kind Kind, raw []byte) ([]byte, error) {
	if !DeepPermitted(kind) {
		return nil, errInvalidf("codec: compression %d not permitted for deep data", kind)
	}
	switch kind {
	case None:
		return append([]byte(nil), raw...), nil
	case RLE:
		return EncodeRLE(raw), nil
	default: // ZIP1, ZIP16
		return EncodeZIP(raw)
	}
}

// DecodeDeepSamples inverts EncodeDeepSamples.
func DecodeDeepSamples(kind Kind, compressed []byte, expectedSize int) ([]byte, error) {
	if !DeepPermitted(kind) {
		return nil, errInvalidf("codec: compression %d not permitted for deep data", kind)
	}
	switch kind {
	case None:
		if len(compressed) != expectedSize {
			return nil, errInvalidf("codec: deep payload is %d bytes, want %d", len(compressed), expectedSize)
		}
		return append([]byte(nil), compressed...), nil
	case RLE:
		return DecodeRLE(compressed, expectedSize)
	default:
		return DecodeZIP(compressed, expectedSize)
	}
}
