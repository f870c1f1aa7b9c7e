package codec

import "github.com/mrjoshuak/go-openexr/internal/wire"

// dwaWriter serializes DWA's per-block plane catalog (name/dimensions/
// group counts) and its compressed DC/AC/non-half byte blobs into one
// self-describing chunk payload.
type dwaWriter struct {
	w *wire.BufferWriter
}

func (w *dwaWriter) ensure() {
	if w.w == nil {
		w.w = wire.NewBufferWriter(256)
	}
}

func (w *dwaWriter) writeUint32(v uint32) { w.ensure(); w.w.WriteUint32(v) }

func (w *dwaWriter) writeString(s string) {
	w.ensure()
	w.w.WriteUint32(uint32(len(s)))
	w.w.WriteBytes([]byte(s))
}

func (w *dwaWriter) writeBlob(b []byte) {
	w.ensure()
	w.w.WriteUint32(uint32(len(b)))
	w.w.WriteBytes(b)
}

func (w *dwaWriter) bytes() []byte {
	w.ensure()
	return w.w.Bytes()
}

type dwaReader struct {
	buf []byte
	pos int
}

func (r *dwaReader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, ErrCorrupted
	}
	v := uint32(r.buf[r.pos]) | uint32(r.buf[r.pos+1])<<8 | uint32(r.buf[r.pos+2])<<16 | uint32(r.buf[r.pos+3])<<24
	r.pos += 4
	return v, nil
}

func (r *dwaReader) readString() (string, error) {
	n, err := r.readUint32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.buf) {
		return "", ErrCorrupted
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *dwaReader) readBlob() ([]byte, error) {
	n, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, ErrCorrupted
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}
