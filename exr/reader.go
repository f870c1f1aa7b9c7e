package exr

import (
	"io"

	"github.com/mrjoshuak/go-openexr/internal/wire"
)

// File is a parsed file prologue: the decoded requirements word and
// every part's header, read but not yet joined to any pixel data.
type File struct {
	Requirements Requirements
	Headers      []*Header
}

// ReadFilePrologue reads the magic bytes, requirements word and every
// header from data, a fully buffered file, stopping just before the
// offset tables; the returned int is the offset where they begin.
func ReadFilePrologue(data []byte) (*File, int, error) {
	r := wire.NewReader(data)
	req, err := ReadMagicAndRequirements(r)
	if err != nil {
		return nil, 0, err
	}
	headers, err := ReadHeaders(r, req)
	if err != nil {
		return nil, 0, err
	}
	return &File{Requirements: req, Headers: headers}, r.Pos(), nil
}

// ReadOffsetTables reads one offset table per header immediately
// following the prologue, advancing r past all of them.
func ReadOffsetTables(r *wire.Reader, f *File) ([]OffsetTable, error) {
	tables := make([]OffsetTable, len(f.Headers))
	for i, h := range f.Headers {
		count := ChunkCount(h)
		table := make(OffsetTable, count)
		for j := range table {
			v, err := r.ReadUint64()
			if err != nil {
				return nil, ioErr("offset table: entry", err)
			}
			table[j] = v
		}
		tables[i] = table
	}
	return tables, nil
}

// partBlockType returns the chunk shape governing part i: for a
// single-part file this is implied by whether the header carries
// tiles/deep attributes; for multi-part it is the header's own Type.
func partBlockType(f *File, h *Header) BlockType {
	if f.Requirements.HasMultipleParts {
		return h.Type
	}
	switch {
	case h.IsDeep() && h.IsTiled():
		return BlockDeepTile
	case h.IsDeep():
		return BlockDeepScanLine
	case h.IsTiled():
		return BlockTile
	default:
		return BlockScanLine
	}
}

// ReadSequential streams every chunk of every part, in stored file
// order, handing each to fb.Visit as a LineRef (spec §5: "for a
// sequential reader, blocks are delivered in stored order"). It does
// not consult the offset tables at all, matching §4.5's "for
// sequential full-file reads this is ignored".
func ReadSequential(rs io.Reader, fb FrameBuffer) error {
	br, err := io.ReadAll(rs)
	if err != nil {
		return ioErr("read: buffering input", err)
	}
	f, prologueEnd, err := ReadFilePrologue(br)
	if err != nil {
		return err
	}
	if err := fb.Allocate(f.Headers); err != nil {
		return err
	}

	pos := prologueEnd
	r := wire.NewReader(br)
	if err := r.SetPos(pos); err != nil {
		return ioErr("read: seek past prologue", err)
	}
	tables, err := ReadOffsetTables(r, f)
	if err != nil {
		return err
	}
	_ = tables // sequential reads do not need the table itself

	sr := wire.NewStreamReader(&sliceReader{data: br, pos: r.Pos()})
	for partIdx, h := range f.Headers {
		bt := partBlockType(f, h)
		count := ChunkCount(h)
		for chunkIdx := 0; chunkIdx < count; chunkIdx++ {
			raw, err := ReadRawChunk(sr, f.Requirements.HasMultipleParts, bt)
			if err != nil {
				return err
			}
			if err := dispatchChunk(f.Headers, partIdx, h, raw, fb); err != nil {
				return err
			}
		}
	}
	return nil
}

// sliceReader adapts a byte slice plus a running position to io.Reader,
// so wire.StreamReader (built for arbitrary io.Reader streams) can
// continue reading from the same backing buffer ReadFilePrologue used.
type sliceReader struct {
	data []byte
	pos  int
}

func (s *sliceReader) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

// dispatchChunk decompresses one raw chunk (via decodeChunkPayload and
// the codec package) and hands each resulting scan line to fb.Visit.
func dispatchChunk(headers []*Header, partIdx int, h *Header, raw RawChunk, fb FrameBuffer) error {
	idx := blockIndexFromRaw(h, raw)
	rowsPerBlock := h.Compression.ScanLinesPerChunk()
	rows := idx.PixelSize.H
	width := idx.PixelSize.W

	decoded, err := decodeChunkPayload(h, raw, width, rows)
	if err != nil {
		return err
	}

	rowStride := 0
	for _, c := range h.Channels {
		rowStride += (width / c.XSampling) * c.SampleType.ByteSize()
	}
	if rowStride == 0 {
		return nil
	}

	offset := 0
	for row := 0; row < rows; row++ {
		y := idx.PixelPosition.Y + int32(row)
		for _, c := range h.Channels {
			n := (width / c.XSampling) * c.SampleType.ByteSize()
			if offset+n > len(decoded) {
				return invalidf("chunk: decoded payload shorter than channel layout implies")
			}
			line := LineRef{
				Layer:       partIdx,
				Channel:     c.Name,
				LevelX:      idx.LevelX,
				LevelY:      idx.LevelY,
				Position:    V2i{X: idx.PixelPosition.X, Y: y},
				SampleCount: width / c.XSampling,
				Bytes:       decoded[offset : offset+n],
			}
			if err := fb.Visit(headers, line); err != nil {
				return err
			}
			offset += n
		}
	}
	_ = rowsPerBlock
	return nil
}

func blockIndexFromRaw(h *Header, raw RawChunk) BlockIndex {
	if !h.IsTiled() {
		return BlockIndex{
			PixelPosition: V2i{X: h.DataWindow.Min().X, Y: raw.Y},
			PixelSize:     blockSizeScanLine(h, raw.Y),
		}
	}
	tw, th := int(h.Tiles.XSize), int(h.Tiles.YSize)
	lvls := levels(h)
	for _, lv := range lvls {
		if lv.LevelX == int(raw.LevelX) && lv.LevelY == int(raw.LevelY) {
			x := h.DataWindow.Min().X + raw.TileX*int32(tw)
			y := h.DataWindow.Min().Y + raw.TileY*int32(th)
			w := minInt(tw, lv.W-int(raw.TileX)*tw)
			hh := minInt(th, lv.H-int(raw.TileY)*th)
			return BlockIndex{
				PixelPosition: V2i{X: x, Y: y},
				PixelSize:     Size{W: w, H: hh},
				LevelX:        int(raw.LevelX),
				LevelY:        int(raw.LevelY),
			}
		}
	}
	return BlockIndex{}
}
