package exr

// LineRef identifies one decoded scan line (or one row of a tile) as
// the block layer hands it to a reading collaborator. Bytes holds
// SampleCount samples of the channel's native sample type, little-endian.
type LineRef struct {
	Layer       int
	Channel     string
	LevelX      int
	LevelY      int
	Position    V2i
	SampleCount int
	Bytes       []byte
}

// LineMut identifies one scan line (or tile row) a writing collaborator
// must fill before the block layer compresses and emits it.
type LineMut struct {
	Layer       int
	Channel     string
	LevelX      int
	LevelY      int
	Position    V2i
	SampleCount int
	Bytes       []byte
}

// LineVisitor receives decoded lines during a read. Implementations
// are expected to be commutative: the block layer may call Visit from
// multiple goroutines or in any order when parallel decoding is in
// use (spec §5), so a visitor must not assume calls arrive in
// raster order and must write only to the disjoint rectangle each
// LineRef names.
type LineVisitor interface {
	Visit(headers []*Header, line LineRef) error
}

// LineProducer supplies pixel bytes during a write. Produce is called
// once per line the block layer needs; it must fill line.Bytes
// in place.
type LineProducer interface {
	Produce(headers []*Header, line LineMut) error
}

// Allocator is called once per read, after headers are parsed, so a
// high-level façade can size its pixel storage before any chunk
// arrives.
type Allocator interface {
	Allocate(headers []*Header) error
}

// HeaderInferrer is called once per write, before any header is
// serialized, so a high-level façade can derive headers from whatever
// in-memory image representation it owns.
type HeaderInferrer interface {
	InferHeaders() ([]*Header, error)
}

// FrameBuffer is the minimal read/write collaborator this package
// depends on directly; it composes the four roles above. A full
// pixel-access façade (typed channel views, crop/filter, progress
// reporting) is an external concern layered on top of FrameBuffer, not
// part of this package.
type FrameBuffer interface {
	Allocator
	HeaderInferrer
	LineVisitor
	LineProducer
}
