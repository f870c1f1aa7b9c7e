package exr

import (
	"github.com/mrjoshuak/go-openexr/internal/wire"
)

// RawChunk is one chunk's framing plus its still-compressed payload,
// exactly as it appears on disk (spec §6 file layout). Turning Payload
// into pixel bytes is the codec package's job.
type RawChunk struct {
	PartNumber int32 // only meaningful when the file has multiple parts
	Y          int32 // scan-line chunks
	TileX      int32 // tile chunks
	TileY      int32
	LevelX     int32
	LevelY     int32
	// Payload is the compressed chunk bytes. For deep chunks this is
	// preceded on disk by the pixel-offset-table and sample-data sizes,
	// which ReadRawChunk/WriteRawChunk fold into PixelOffsetTableSize
	// and SampleDataSize instead.
	Payload               []byte
	PixelOffsetTableSize  int64 // deep chunks only
	SampleDataSize        int64 // deep chunks only
	PixelOffsetTable      []byte
}

// ReadRawChunk reads one chunk's framing and payload from r at its
// current position. multipart selects whether a leading part_number
// is present; bt selects the chunk's positional header shape.
func ReadRawChunk(r *wire.StreamReader, multipart bool, bt BlockType) (RawChunk, error) {
	var c RawChunk
	if multipart {
		p, err := r.ReadInt32()
		if err != nil {
			return c, ioErr("chunk: part number", err)
		}
		c.PartNumber = p
	}

	switch bt {
	case BlockScanLine:
		y, err := r.ReadInt32()
		if err != nil {
			return c, ioErr("chunk: y", err)
		}
		c.Y = y
		return c, readFlatPayload(r, &c)
	case BlockTile:
		var err error
		if c.TileX, err = r.ReadInt32(); err != nil {
			return c, ioErr("chunk: tile x", err)
		}
		if c.TileY, err = r.ReadInt32(); err != nil {
			return c, ioErr("chunk: tile y", err)
		}
		if c.LevelX, err = r.ReadInt32(); err != nil {
			return c, ioErr("chunk: level x", err)
		}
		if c.LevelY, err = r.ReadInt32(); err != nil {
			return c, ioErr("chunk: level y", err)
		}
		return c, readFlatPayload(r, &c)
	case BlockDeepScanLine:
		y, err := r.ReadInt32()
		if err != nil {
			return c, ioErr("chunk: y", err)
		}
		c.Y = y
		return c, readDeepPayload(r, &c)
	case BlockDeepTile:
		var err error
		if c.TileX, err = r.ReadInt32(); err != nil {
			return c, ioErr("chunk: tile x", err)
		}
		if c.TileY, err = r.ReadInt32(); err != nil {
			return c, ioErr("chunk: tile y", err)
		}
		if c.LevelX, err = r.ReadInt32(); err != nil {
			return c, ioErr("chunk: level x", err)
		}
		if c.LevelY, err = r.ReadInt32(); err != nil {
			return c, ioErr("chunk: level y", err)
		}
		return c, readDeepPayload(r, &c)
	default:
		return c, invalidf("chunk: unknown block type")
	}
}

func readFlatPayload(r *wire.StreamReader, c *RawChunk) error {
	size, err := r.ReadInt32()
	if err != nil {
		return ioErr("chunk: size", err)
	}
	if size < 0 {
		return invalidf("chunk: negative payload size")
	}
	payload, err := r.ReadBytes(int(size))
	if err != nil {
		return invalidf("chunk: payload shorter than declared size")
	}
	c.Payload = payload
	return nil
}

func readDeepPayload(r *wire.StreamReader, c *RawChunk) error {
	potSize, err := r.ReadUint64()
	if err != nil {
		return ioErr("chunk: pixel offset table size", err)
	}
	sampleSize, err := r.ReadUint64()
	if err != nil {
		return ioErr("chunk: sample data size", err)
	}
	packedSize, err := r.ReadUint64()
	if err != nil {
		return ioErr("chunk: packed data size", err)
	}
	c.PixelOffsetTableSize = int64(potSize)
	c.SampleDataSize = int64(sampleSize)

	pot, err := r.ReadBytes(int(potSize))
	if err != nil {
		return invalidf("chunk: pixel offset table shorter than declared size")
	}
	c.PixelOffsetTable = pot

	payload, err := r.ReadBytes(int(packedSize))
	if err != nil {
		return invalidf("chunk: payload shorter than declared size")
	}
	c.Payload = payload
	return nil
}

// WriteRawChunk writes c's framing and payload to w in the shape bt
// and multipart dictate.
func WriteRawChunk(w *wire.StreamWriter, multipart bool, bt BlockType, c RawChunk) error {
	if multipart {
		if err := w.WriteInt32(c.PartNumber); err != nil {
			return ioErr("chunk: part number", err)
		}
	}
	switch bt {
	case BlockScanLine:
		if err := w.WriteInt32(c.Y); err != nil {
			return ioErr("chunk: y", err)
		}
		return writeFlatPayload(w, c)
	case BlockTile:
		for _, v := range []int32{c.TileX, c.TileY, c.LevelX, c.LevelY} {
			if err := w.WriteInt32(v); err != nil {
				return ioErr("chunk: tile header", err)
			}
		}
		return writeFlatPayload(w, c)
	case BlockDeepScanLine:
		if err := w.WriteInt32(c.Y); err != nil {
			return ioErr("chunk: y", err)
		}
		return writeDeepPayload(w, c)
	case BlockDeepTile:
		for _, v := range []int32{c.TileX, c.TileY, c.LevelX, c.LevelY} {
			if err := w.WriteInt32(v); err != nil {
				return ioErr("chunk: tile header", err)
			}
		}
		return writeDeepPayload(w, c)
	default:
		return invalidf("chunk: unknown block type")
	}
}

func writeFlatPayload(w *wire.StreamWriter, c RawChunk) error {
	if err := w.WriteInt32(int32(len(c.Payload))); err != nil {
		return ioErr("chunk: size", err)
	}
	if err := w.WriteBytes(c.Payload); err != nil {
		return ioErr("chunk: payload", err)
	}
	return nil
}

func writeDeepPayload(w *wire.StreamWriter, c RawChunk) error {
	if err := w.WriteUint64(uint64(len(c.PixelOffsetTable))); err != nil {
		return ioErr("chunk: pixel offset table size", err)
	}
	if err := w.WriteUint64(uint64(c.SampleDataSize)); err != nil {
		return ioErr("chunk: sample data size", err)
	}
	if err := w.WriteUint64(uint64(len(c.Payload))); err != nil {
		return ioErr("chunk: packed data size", err)
	}
	if err := w.WriteBytes(c.PixelOffsetTable); err != nil {
		return ioErr("chunk: pixel offset table", err)
	}
	if err := w.WriteBytes(c.Payload); err != nil {
		return ioErr("chunk: payload", err)
	}
	return nil
}
