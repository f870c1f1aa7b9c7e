package codec

// Predict applies the classic OpenEXR difference predictor in place:
// every byte after the first becomes its difference from its
// untransformed predecessor, biased by 128 (mod 256). buf[0] is left
// unchanged.
func Predict(buf []byte) {
	if len(buf) == 0 {
		return
	}
	prev := int(buf[0])
	for i := 1; i < len(buf); i++ {
		cur := int(buf[i])
		buf[i] = byte(cur - prev + 128 + 256)
		prev = cur
	}
}

// Unpredict inverts Predict in place.
func Unpredict(buf []byte) {
	for i := 1; i < len(buf); i++ {
		d := int(buf[i]) + int(buf[i-1]) - 128
		buf[i] = byte(d)
	}
}

// Reorder splits buf into two interleaved halves: even-indexed bytes
// first, then odd-indexed bytes, matching the format's "odd/even byte
// interleave" preprocessing step for RLE and ZIP1/ZIP16.
func Reorder(buf []byte) []byte {
	out := make([]byte, len(buf))
	half := (len(buf) + 1) / 2
	for i, b := range buf {
		if i%2 == 0 {
			out[i/2] = b
		} else {
			out[half+i/2] = b
		}
	}
	return out
}

// Unreorder inverts Reorder.
func Unreorder(buf []byte) []byte {
	out := make([]byte, len(buf))
	half := (len(buf) + 1) / 2
	for i := range out {
		if i%2 == 0 {
			out[i] = buf[i/2]
		} else {
			out[i] = buf[half+i/2]
		}
	}
	return out
}
