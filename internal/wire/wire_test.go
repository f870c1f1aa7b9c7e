package wire

import (
	"bytes"
	"strings"
	"testing"
)

func TestReaderIntegers(t *testing.T) {
	data := []byte{
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01,
	}
	r := NewReader(data)

	u16, err := r.ReadUint16()
	if err != nil || u16 != 0x1234 {
		t.Fatalf("ReadUint16() = %#x, %v, want 0x1234", u16, err)
	}
	u32, err := r.ReadUint32()
	if err != nil || u32 != 0x12345678 {
		t.Fatalf("ReadUint32() = %#x, %v, want 0x12345678", u32, err)
	}
	u64, err := r.ReadUint64()
	if err != nil || u64 != 0x0123456789ABCDEF {
		t.Fatalf("ReadUint64() = %#x, %v, want 0x0123456789ABCDEF", u64, err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestReaderShortBuffer(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.ReadUint32(); err != ErrShortBuffer {
		t.Fatalf("ReadUint32() error = %v, want ErrShortBuffer", err)
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriter(buf)
	if err := w.WriteUint32(42); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteUint64(0xDEADBEEFCAFEBABE); err != nil {
		t.Fatal(err)
	}

	r := NewReader(buf)
	v32, _ := r.ReadUint32()
	if v32 != 42 {
		t.Errorf("ReadUint32() = %d, want 42", v32)
	}
	v64, _ := r.ReadUint64()
	if v64 != 0xDEADBEEFCAFEBABE {
		t.Errorf("ReadUint64() = %#x, want 0xDEADBEEFCAFEBABE", v64)
	}
}

func TestReaderCString(t *testing.T) {
	r := NewReader([]byte("compression\x00\x01"))
	s, err := r.ReadCString()
	if err != nil || s != "compression" {
		t.Fatalf("ReadCString() = %q, %v", s, err)
	}
	b, _ := r.ReadByte()
	if b != 1 {
		t.Errorf("byte after terminator = %d, want 1", b)
	}
}

func TestReaderCStringUnterminated(t *testing.T) {
	r := NewReader([]byte("no-terminator"))
	if _, err := r.ReadCString(); err != ErrShortBuffer {
		t.Fatalf("ReadCString() error = %v, want ErrShortBuffer", err)
	}
}

func TestBufferWriterRoundTrip(t *testing.T) {
	bw := NewBufferWriter(8)
	bw.WriteInt32(-7)
	bw.WriteFloat32(3.5)
	bw.WriteCString("chlist")

	r := NewReader(bw.Bytes())
	i32, _ := r.ReadInt32()
	if i32 != -7 {
		t.Errorf("ReadInt32() = %d, want -7", i32)
	}
	f32, _ := r.ReadFloat32()
	if f32 != 3.5 {
		t.Errorf("ReadFloat32() = %v, want 3.5", f32)
	}
	s, _ := r.ReadCString()
	if s != "chlist" {
		t.Errorf("ReadCString() = %q, want chlist", s)
	}
}

func TestPeekReaderLookaheadDoesNotConsume(t *testing.T) {
	p := NewPeekReader(strings.NewReader("\x00rest"))
	b, err := p.Peek()
	if err != nil || b != 0 {
		t.Fatalf("Peek() = %d, %v, want 0", b, err)
	}
	// A second Peek must observe the same byte.
	b2, _ := p.Peek()
	if b2 != 0 {
		t.Fatalf("second Peek() = %d, want 0", b2)
	}
	consumed, err := p.ReadByte()
	if err != nil || consumed != 0 {
		t.Fatalf("ReadByte() = %d, %v, want 0", consumed, err)
	}
	rest, err := p.ReadBytes(4)
	if err != nil || string(rest) != "rest" {
		t.Fatalf("ReadBytes() = %q, %v, want rest", rest, err)
	}
}

func TestPeekReaderCStringAfterPeek(t *testing.T) {
	p := NewPeekReader(strings.NewReader("name\x00tail"))
	first, _ := p.Peek()
	if first != 'n' {
		t.Fatalf("Peek() = %q, want 'n'", first)
	}
	s, err := p.ReadCString()
	if err != nil || s != "name" {
		t.Fatalf("ReadCString() = %q, %v, want name", s, err)
	}
}

func TestStreamReaderWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriter(&buf)
	if err := sw.WriteUint32(0x01020304); err != nil {
		t.Fatal(err)
	}
	if err := sw.WriteBytes([]byte{9, 9, 9}); err != nil {
		t.Fatal(err)
	}

	sr := NewStreamReader(&buf)
	v, err := sr.ReadUint32()
	if err != nil || v != 0x01020304 {
		t.Fatalf("ReadUint32() = %#x, %v", v, err)
	}
	tail, err := sr.ReadBytes(3)
	if err != nil || !bytes.Equal(tail, []byte{9, 9, 9}) {
		t.Fatalf("ReadBytes() = %v, %v", tail, err)
	}
}
