package codec

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

var zlibWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := zlib.NewWriterLevel(io.Discard, zlib.BestCompression)
		return w
	},
}

// zlibCompress deflates src with zlib framing, pooling the underlying
// writer across calls.
func zlibCompress(src []byte) ([]byte, error) {
	w := zlibWriterPool.Get().(*zlib.Writer)
	defer zlibWriterPool.Put(w)

	var buf bytes.Buffer
	w.Reset(&buf)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// zlibDecompress inflates src, expecting exactly expectedSize bytes.
func zlibDecompress(src []byte, expectedSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, ErrCorrupted
	}
	defer r.Close()

	out := make([]byte, expectedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, ErrCorrupted
	}
	return out, nil
}

// EncodeZIP applies the format's reorder-then-difference preprocessing
// and zlib-compresses the result. The same function serves ZIP1 and
// ZIP16; they differ only in scan_lines_per_block, not algorithm.
func EncodeZIP(raw []byte) ([]byte, error) {
	reordered := Reorder(raw)
	Predict(reordered)
	return zlibCompress(reordered)
}

// DecodeZIP inverts EncodeZIP.
func DecodeZIP(compressed []byte, expectedSize int) ([]byte, error) {
	plain, err := zlibDecompress(compressed, expectedSize)
	if err != nil {
		return nil, err
	}
	Unpredict(plain)
	return Unreorder(plain), nil
}
