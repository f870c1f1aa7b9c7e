package exr

import (
	"github.com/mrjoshuak/go-openexr/internal/wire"
)

// OffsetTable is one header's chunk index: OffsetTable[i] is the
// absolute file offset of chunk i's first byte (spec §4.5).
type OffsetTable []uint64

// ReadOffsetTable reads count entries from r.
func ReadOffsetTable(r *wire.StreamReader, count int) (OffsetTable, error) {
	table := make(OffsetTable, count)
	for i := range table {
		v, err := r.ReadUint64()
		if err != nil {
			return nil, ioErr("offset table: entry", err)
		}
		table[i] = v
	}
	return table, nil
}

// WriteOffsetTable appends table's entries to w.
func WriteOffsetTable(w *wire.StreamWriter, table OffsetTable) error {
	for _, v := range table {
		if err := w.WriteUint64(v); err != nil {
			return ioErr("offset table: entry", err)
		}
	}
	return nil
}

// OffsetTablePlaceholder returns count zeroed entries, the shape a
// writer emits before any chunk lands so it can seek back and
// back-patch real offsets once every chunk has been written (spec
// §4.5: "writers seek back to patch them").
func OffsetTablePlaceholder(count int) OffsetTable {
	return make(OffsetTable, count)
}
