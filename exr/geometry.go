package exr

// ceilDiv divides a by b, rounding up; b must be positive.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func log2RoundDown(n int) int {
	if n <= 1 {
		return 0
	}
	l := 0
	for (1 << uint(l+1)) <= n {
		l++
	}
	return l
}

func log2RoundUp(n int) int {
	if n <= 1 {
		return 0
	}
	l := log2RoundDown(n)
	if 1<<uint(l) < n {
		l++
	}
	return l
}

// levelCountForAxis returns the number of mip/rip-map levels along one axis,
// per spec §4.4.
func levelCountForAxis(size int, rounding LevelRoundingMode) int {
	if rounding == RoundUp {
		return log2RoundUp(size) + 1
	}
	return log2RoundDown(size) + 1
}

// levelSize returns the pixel size of a single axis at pyramid level i,
// per spec §4.4: max(1, round(full / 2^i)).
func levelSize(full int, i int, rounding LevelRoundingMode) int {
	divided := full >> uint(i)
	if full%(1<<uint(i)) != 0 {
		if rounding == RoundUp {
			divided++
		}
	}
	if divided < 1 {
		divided = 1
	}
	return divided
}

// levelDims is the (width, height) pixel extent of one mip/rip level.
type levelDims struct {
	W, H int
	// LevelX, LevelY are the pyramid indices this size corresponds to.
	LevelX, LevelY int
}

// levels enumerates every resolution level a tiled header's
// TileDescription produces, in the canonical order block indexing
// walks them: for RipMap, Y-major then X-minor.
func levels(h *Header) []levelDims {
	w, hh := h.DataWindow.Width(), h.DataWindow.Height()
	td := h.Tiles

	switch td.Mode {
	case LevelSingular:
		return []levelDims{{W: w, H: hh, LevelX: 0, LevelY: 0}}
	case LevelMipmap:
		n := levelCountForAxis(maxInt(w, hh), td.Rounding)
		out := make([]levelDims, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, levelDims{
				W:      levelSize(w, i, td.Rounding),
				H:      levelSize(hh, i, td.Rounding),
				LevelX: i,
				LevelY: i,
			})
		}
		return out
	case LevelRipmap:
		nx := levelCountForAxis(w, td.Rounding)
		ny := levelCountForAxis(hh, td.Rounding)
		out := make([]levelDims, 0, nx*ny)
		for ly := 0; ly < ny; ly++ {
			for lx := 0; lx < nx; lx++ {
				out = append(out, levelDims{
					W:      levelSize(w, lx, td.Rounding),
					H:      levelSize(hh, ly, td.Rounding),
					LevelX: lx,
					LevelY: ly,
				})
			}
		}
		return out
	default:
		return nil
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ChunkCount returns the number of chunks header h's pixel data occupies,
// per spec §4.4: the header's own chunkCount attribute if present,
// otherwise derived from line order/compression/tiles/data window.
func ChunkCount(h *Header) int {
	if h.HasChunkCount {
		return int(h.ChunkCount)
	}
	if !h.IsTiled() {
		rows := h.DataWindow.Height()
		return ceilDiv(rows, h.Compression.ScanLinesPerChunk())
	}
	total := 0
	tw, th := int(h.Tiles.XSize), int(h.Tiles.YSize)
	for _, lv := range levels(h) {
		total += ceilDiv(lv.W, tw) * ceilDiv(lv.H, th)
	}
	return total
}

// BlockIndex locates one chunk's data within a part's pixel space.
type BlockIndex struct {
	Layer         int
	PixelPosition V2i
	PixelSize     Size
	LevelX        int
	LevelY        int
}

// BlockPosition returns the BlockIndex for chunkIndex within header h,
// per spec §4.4. It does not validate chunkIndex against ChunkCount(h).
func BlockPosition(h *Header, layer int, chunkIndex int) BlockIndex {
	if !h.IsTiled() {
		rowsPerBlock := h.Compression.ScanLinesPerChunk()
		y := h.DataWindow.Min().Y + int32(chunkIndex*rowsPerBlock)
		return BlockIndex{
			Layer:         layer,
			PixelPosition: V2i{X: h.DataWindow.Min().X, Y: y},
			PixelSize:     blockSizeScanLine(h, y),
		}
	}

	tw, th := int(h.Tiles.XSize), int(h.Tiles.YSize)
	remaining := chunkIndex
	for _, lv := range levels(h) {
		tilesX := ceilDiv(lv.W, tw)
		tilesY := ceilDiv(lv.H, th)
		count := tilesX * tilesY
		if remaining < count {
			ty := remaining / tilesX
			tx := remaining % tilesX
			x := h.DataWindow.Min().X + int32(tx*tw)
			y := h.DataWindow.Min().Y + int32(ty*th)
			w := minInt(tw, lv.W-tx*tw)
			hh := minInt(th, lv.H-ty*th)
			return BlockIndex{
				Layer:         layer,
				PixelPosition: V2i{X: x, Y: y},
				PixelSize:     Size{W: w, H: hh},
				LevelX:        lv.LevelX,
				LevelY:        lv.LevelY,
			}
		}
		remaining -= count
	}
	return BlockIndex{}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// blockSizeScanLine clips a scan-line block starting at row y to the
// data window, per spec §4.4.
func blockSizeScanLine(h *Header, y int32) Size {
	rowsPerBlock := h.Compression.ScanLinesPerChunk()
	maxY := h.DataWindow.Max().Y
	rows := rowsPerBlock
	if int(y)+rows-1 > int(maxY) {
		rows = int(maxY) - int(y) + 1
	}
	if rows < 0 {
		rows = 0
	}
	return Size{W: h.DataWindow.Width(), H: rows}
}

// BlockSize returns the pixel extent of the block at idx, clipped to
// the data window (for scan-line blocks) or the owning level (for
// tiles); BlockPosition already computes this, so BlockSize simply
// exposes it for callers that only have an index in hand.
func BlockSize(h *Header, idx BlockIndex) Size {
	return idx.PixelSize
}
