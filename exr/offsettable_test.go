package exr

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/mrjoshuak/go-openexr/internal/wire"
)

func TestWriteReadOffsetTableRoundTrip(t *testing.T) {
	table := OffsetTable{100, 200, 300, 123456789}

	bw := &testStreamBuf{}
	sw := wire.NewStreamWriter(bw)
	if err := WriteOffsetTable(sw, table); err != nil {
		t.Fatalf("WriteOffsetTable error: %v", err)
	}

	sr := wire.NewStreamReader(bytes.NewReader(bw.data))
	got, err := ReadOffsetTable(sr, len(table))
	if err != nil {
		t.Fatalf("ReadOffsetTable error: %v", err)
	}
	if !reflect.DeepEqual(got, table) {
		t.Errorf("round-trip: got %v, want %v", got, table)
	}
}

func TestOffsetTablePlaceholder(t *testing.T) {
	p := OffsetTablePlaceholder(5)
	if len(p) != 5 {
		t.Fatalf("length: got %d, want 5", len(p))
	}
	for i, v := range p {
		if v != 0 {
			t.Errorf("entry %d: got %d, want 0", i, v)
		}
	}
}

// testStreamBuf is a minimal io.Writer collecting bytes for
// wire.NewStreamWriter, mirroring writer.go's bufferStreamWriter.
type testStreamBuf struct {
	data []byte
}

func (b *testStreamBuf) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
