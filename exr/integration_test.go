package exr

import (
	"bytes"
	"testing"
)

// memImage is a minimal FrameBuffer backed by a single Half channel
// "Y", used to exercise WriteSequential/ReadSequential end to end
// without any higher-level pixel-access façade.
type memImage struct {
	header *Header
	width  int
	height int
	data   []uint16
}

func newMemImage(width, height int, compression Compression, order LineOrder) *memImage {
	h := minimalHeader()
	h.Compression = compression
	h.LineOrder = order
	h.DataWindow = BoundsFromMinMax(V2i{0, 0}, V2i{int32(width - 1), int32(height - 1)})
	h.DisplayWindow = h.DataWindow
	h.Channels = ChannelList{{Name: "Y", SampleType: SampleHalf, XSampling: 1, YSampling: 1}}
	data := make([]uint16, width*height)
	for i := range data {
		data[i] = uint16((i*37 + 11) & 0xffff)
	}
	return &memImage{header: h, width: width, height: height, data: data}
}

func (m *memImage) InferHeaders() ([]*Header, error) {
	return []*Header{m.header}, nil
}

func (m *memImage) Allocate(headers []*Header) error {
	h := headers[0]
	m.header = h
	m.width = h.DataWindow.Width()
	m.height = h.DataWindow.Height()
	m.data = make([]uint16, m.width*m.height)
	return nil
}

func (m *memImage) Produce(headers []*Header, line LineMut) error {
	y := int(line.Position.Y)
	x0 := int(line.Position.X)
	for i := 0; i < line.SampleCount; i++ {
		v := m.data[y*m.width+x0+i]
		line.Bytes[i*2] = byte(v)
		line.Bytes[i*2+1] = byte(v >> 8)
	}
	return nil
}

func (m *memImage) Visit(headers []*Header, line LineRef) error {
	y := int(line.Position.Y)
	x0 := int(line.Position.X)
	for i := 0; i < line.SampleCount; i++ {
		v := uint16(line.Bytes[i*2]) | uint16(line.Bytes[i*2+1])<<8
		m.data[y*m.width+x0+i] = v
	}
	return nil
}

func TestWriteSequentialReadSequentialRoundTripNone(t *testing.T) {
	src := newMemImage(16, 20, CompressionNone, LineOrderIncreasing)

	var buf bytes.Buffer
	if err := WriteSequential(&buf, src); err != nil {
		t.Fatalf("WriteSequential error: %v", err)
	}

	dst := &memImage{}
	if err := ReadSequential(bytes.NewReader(buf.Bytes()), dst); err != nil {
		t.Fatalf("ReadSequential error: %v", err)
	}

	if dst.width != src.width || dst.height != src.height {
		t.Fatalf("dims: got %dx%d, want %dx%d", dst.width, dst.height, src.width, src.height)
	}
	for i := range src.data {
		if dst.data[i] != src.data[i] {
			t.Fatalf("sample %d: got %d, want %d", i, dst.data[i], src.data[i])
		}
	}
}

func TestWriteSequentialReadSequentialRoundTripZIP(t *testing.T) {
	src := newMemImage(32, 37, CompressionZIP, LineOrderIncreasing)

	var buf bytes.Buffer
	if err := WriteSequential(&buf, src); err != nil {
		t.Fatalf("WriteSequential error: %v", err)
	}

	dst := &memImage{}
	if err := ReadSequential(bytes.NewReader(buf.Bytes()), dst); err != nil {
		t.Fatalf("ReadSequential error: %v", err)
	}
	for i := range src.data {
		if dst.data[i] != src.data[i] {
			t.Fatalf("sample %d: got %d, want %d", i, dst.data[i], src.data[i])
		}
	}
}

func TestWriteSequentialDecreasingLineOrderRoundTrip(t *testing.T) {
	src := newMemImage(8, 24, CompressionRLE, LineOrderDecreasing)

	var buf bytes.Buffer
	if err := WriteSequential(&buf, src); err != nil {
		t.Fatalf("WriteSequential error: %v", err)
	}

	dst := &memImage{}
	if err := ReadSequential(bytes.NewReader(buf.Bytes()), dst); err != nil {
		t.Fatalf("ReadSequential error: %v", err)
	}
	for i := range src.data {
		if dst.data[i] != src.data[i] {
			t.Fatalf("sample %d: got %d, want %d", i, dst.data[i], src.data[i])
		}
	}
}

func TestWriteSequentialRejectsDeepHeader(t *testing.T) {
	src := newMemImage(8, 8, CompressionRLE, LineOrderIncreasing)
	src.header.Name = "main"
	src.header.Type = BlockDeepScanLine

	var buf bytes.Buffer
	if err := WriteSequential(&buf, src); err == nil {
		t.Error("expected WriteSequential to reject a deep header")
	}
}
