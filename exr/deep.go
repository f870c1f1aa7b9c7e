package exr

import "github.com/mrjoshuak/go-openexr/internal/wire"

// DeepSampleCounts holds the per-pixel sample count for one row of a
// deep scan-line block (or one column-major row of a deep tile),
// width entries long.
type DeepSampleCounts []uint32

// EncodePixelOffsetTable turns per-pixel sample counts into the
// cumulative table stored on disk: entry i is the total sample count
// for pixels [0, i], matching the classic OpenEXR convention of
// 8-byte (uint64) cumulative entries (spec §4.6.9: "pixel-offset
// table (cumulative sample count per column of the block)").
func EncodePixelOffsetTable(counts DeepSampleCounts) []byte {
	w := wire.NewBufferWriter(len(counts) * 8)
	var running uint64
	for _, c := range counts {
		running += uint64(c)
		w.WriteUint64(running)
	}
	return w.Bytes()
}

// DecodePixelOffsetTable inverts EncodePixelOffsetTable, recovering
// per-pixel sample counts from the cumulative table.
func DecodePixelOffsetTable(raw []byte) (DeepSampleCounts, error) {
	if len(raw)%8 != 0 {
		return nil, invalidf("deep: pixel offset table size not a multiple of 8")
	}
	n := len(raw) / 8
	counts := make(DeepSampleCounts, n)
	r := wire.NewReader(raw)
	var prev uint64
	for i := 0; i < n; i++ {
		cum, err := r.ReadUint64()
		if err != nil {
			return nil, ioErr("deep: pixel offset table entry", err)
		}
		if cum < prev {
			return nil, invalidf("deep: pixel offset table is not non-decreasing")
		}
		counts[i] = uint32(cum - prev)
		prev = cum
	}
	return counts, nil
}

// TotalSamples returns the total sample count across every pixel in
// counts, i.e. the final cumulative offset table entry.
func (counts DeepSampleCounts) TotalSamples() int {
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	return total
}
