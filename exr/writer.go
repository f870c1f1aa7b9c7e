package exr

import (
	"encoding/binary"
	"io"

	"github.com/mrjoshuak/go-openexr/internal/wire"
)

// maxShortName is the name length a file may use without setting
// has_long_names (spec §3: "≤31 bytes if unset, ≤255 if set").
const maxShortName = 31

// InferRequirements derives the file-level requirements word from a
// set of headers, rather than requiring a caller to track the flags
// by hand: has_multiple_parts from len(headers) > 1, has_deep_data
// from any header being deep, is_single_tile from a lone tiled,
// non-deep header, and has_long_names from any attribute or channel
// name exceeding maxShortName bytes.
func InferRequirements(headers []*Header) (Requirements, error) {
	if len(headers) == 0 {
		return Requirements{}, invalidf("header list: no headers")
	}
	req := Requirements{Version: 1}
	if len(headers) > 1 {
		req.HasMultipleParts = true
	}
	for _, h := range headers {
		if h.IsDeep() {
			req.HasDeepData = true
		}
		if longNameIn(h) {
			req.HasLongNames = true
		}
	}
	if !req.HasMultipleParts && !req.HasDeepData && headers[0].IsTiled() {
		req.IsSingleTile = true
	}
	if req.HasDeepData || req.HasMultipleParts {
		req.Version = 2
	}
	return req, nil
}

func longNameIn(h *Header) bool {
	if len(h.Name) > maxShortName {
		return true
	}
	for _, c := range h.Channels {
		if len(c.Name) > maxShortName {
			return true
		}
	}
	for name := range h.Extra {
		if len(name) > maxShortName {
			return true
		}
	}
	return false
}

// WriteFilePrologue appends the magic bytes, requirements word and
// every header in headers to w, inferring the requirements word from
// the headers themselves.
func WriteFilePrologue(w *wire.BufferWriter, headers []*Header) (Requirements, error) {
	req, err := InferRequirements(headers)
	if err != nil {
		return req, err
	}
	WriteMagicAndRequirements(w, req)
	if err := WriteHeaders(w, headers); err != nil {
		return req, err
	}
	return req, nil
}

// WriteSequential renders a complete file from fb's headers and pixel
// data to ws, writing chunks in the line order each header declares
// and back-patching every header's offset table once its chunks have
// been written (spec §4.5: "writers seek back to patch them"). Deep
// parts are not produced by this entry point; FrameBuffer's Produce
// contract only covers flat lines.
func WriteSequential(ws io.Writer, fb FrameBuffer) error {
	headers, err := fb.InferHeaders()
	if err != nil {
		return err
	}
	for _, h := range headers {
		if h.IsDeep() {
			return unsupportedf("write: deep parts are not supported by WriteSequential")
		}
	}

	buf := wire.NewBufferWriter(1 << 16)
	if _, err := WriteFilePrologue(buf, headers); err != nil {
		return err
	}

	tableOffsets := make([]int, len(headers))
	counts := make([]int, len(headers))
	for i, h := range headers {
		counts[i] = ChunkCount(h)
		tableOffsets[i] = buf.Len()
		for j := 0; j < counts[i]; j++ {
			buf.WriteUint64(0)
		}
	}

	tables := make([]OffsetTable, len(headers))
	for i := range tables {
		tables[i] = make(OffsetTable, counts[i])
	}

	multipart := len(headers) > 1
	fileForBlockType := &File{Requirements: Requirements{HasMultipleParts: multipart}, Headers: headers}
	for partIdx, h := range headers {
		bt := partBlockType(fileForBlockType, h)

		payloads, err := ParallelChunkProcess(counts[partIdx], func(chunkIdx int) ([]byte, error) {
			return renderChunkPayload(headers, partIdx, h, chunkIdx, fb)
		})
		if err != nil {
			return err
		}

		for _, chunkIdx := range chunkWriteOrder(h, counts[partIdx]) {
			idx := BlockPosition(h, partIdx, chunkIdx)
			raw := RawChunk{
				PartNumber: int32(partIdx),
				Y:          idx.PixelPosition.Y,
				TileX:      int32(0),
				TileY:      int32(0),
				LevelX:     int32(idx.LevelX),
				LevelY:     int32(idx.LevelY),
				Payload:    payloads[chunkIdx],
			}
			if h.IsTiled() {
				tw, th := int(h.Tiles.XSize), int(h.Tiles.YSize)
				raw.TileX = int32((int(idx.PixelPosition.X) - int(h.DataWindow.Min().X)) / tw)
				raw.TileY = int32((int(idx.PixelPosition.Y) - int(h.DataWindow.Min().Y)) / th)
			}

			tables[partIdx][chunkIdx] = uint64(buf.Len())
			sw := &bufferStreamWriter{buf: buf}
			if err := WriteRawChunk(wire.NewStreamWriter(sw), multipart, bt, raw); err != nil {
				return err
			}
		}
	}

	out := buf.Bytes()
	for i, table := range tables {
		off := tableOffsets[i]
		for j, v := range table {
			binary.LittleEndian.PutUint64(out[off+j*8:off+j*8+8], v)
		}
	}

	_, err = ws.Write(out)
	return err
}

// chunkWriteOrder returns the sequence of canonical chunk indices to
// store a part's chunks in, honoring its LineOrder attribute (spec
// §4.3): increasing and random both store canonical order (random's
// contract only promises the offset table remains accurate, not any
// particular file layout); decreasing reverses it. Tiled parts always
// store in the canonical level/tile order BlockPosition defines,
// since decreasing order there only ever applied to scan-line parts
// in practice.
func chunkWriteOrder(h *Header, count int) []int {
	order := make([]int, count)
	for i := range order {
		order[i] = i
	}
	if !h.IsTiled() && h.LineOrder == LineOrderDecreasing {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	return order
}

// renderChunkPayload asks fb to fill every channel's row bytes for one
// chunk, assembling them into the channel-interleaved layout
// encodeChunkPayload expects, then compresses the result.
func renderChunkPayload(headers []*Header, partIdx int, h *Header, chunkIdx int, fb FrameBuffer) ([]byte, error) {
	idx := BlockPosition(h, partIdx, chunkIdx)
	width, rows := idx.PixelSize.W, idx.PixelSize.H

	rowStride := 0
	for _, c := range h.Channels {
		rowStride += (width / c.XSampling) * c.SampleType.ByteSize()
	}
	if rowStride == 0 || rows == 0 {
		return nil, nil
	}

	uncompressed := GetBuffer(rowStride * rows)
	defer PutBuffer(uncompressed)
	offset := 0
	for row := 0; row < rows; row++ {
		y := idx.PixelPosition.Y + int32(row)
		for _, c := range h.Channels {
			n := (width / c.XSampling) * c.SampleType.ByteSize()
			line := LineMut{
				Layer:       partIdx,
				Channel:     c.Name,
				LevelX:      idx.LevelX,
				LevelY:      idx.LevelY,
				Position:    V2i{X: idx.PixelPosition.X, Y: y},
				SampleCount: width / c.XSampling,
				Bytes:       uncompressed[offset : offset+n],
			}
			if err := fb.Produce(headers, line); err != nil {
				return nil, err
			}
			offset += n
		}
	}

	return encodeChunkPayload(h, uncompressed, width, rows)
}

// bufferStreamWriter adapts a wire.BufferWriter (append-only) to
// io.Writer, so wire.NewStreamWriter can append chunk bytes to the
// same growing buffer WriteFilePrologue started.
type bufferStreamWriter struct {
	buf *wire.BufferWriter
}

func (s *bufferStreamWriter) Write(p []byte) (int, error) {
	s.buf.WriteBytes(p)
	return len(p), nil
}
