package codec

import (
	"container/heap"
	"sort"

	"github.com/mrjoshuak/go-openexr/internal/wire"
)

// huffNode is one node of the Huffman tree built over 16-bit symbols.
type huffNode struct {
	freq        int
	symbol      uint16
	leaf        bool
	left, right *huffNode
}

type huffHeap []*huffNode

func (h huffHeap) Len() int { return len(h) }
func (h huffHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].symbol < h[j].symbol
}
func (h huffHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *huffHeap) Push(x interface{}) { *h = append(*h, x.(*huffNode)) }
func (h *huffHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// buildCodeLengths returns, for every distinct symbol in freq, the
// Huffman code length a canonical code would assign it.
func buildCodeLengths(freq map[uint16]int) map[uint16]int {
	lengths := make(map[uint16]int, len(freq))
	if len(freq) == 1 {
		for s := range freq {
			lengths[s] = 1
		}
		return lengths
	}

	h := make(huffHeap, 0, len(freq))
	for s, f := range freq {
		h = append(h, &huffNode{freq: f, symbol: s, leaf: true})
	}
	heap.Init(&h)

	for h.Len() > 1 {
		a := heap.Pop(&h).(*huffNode)
		b := heap.Pop(&h).(*huffNode)
		heap.Push(&h, &huffNode{freq: a.freq + b.freq, left: a, right: b})
	}
	if h.Len() == 1 {
		var walk func(n *huffNode, depth int)
		walk = func(n *huffNode, depth int) {
			if n.leaf {
				if depth == 0 {
					depth = 1
				}
				lengths[n.symbol] = depth
				return
			}
			walk(n.left, depth+1)
			walk(n.right, depth+1)
		}
		walk(h[0], 0)
	}
	return lengths
}

// canonicalCodes assigns canonical Huffman codes from a code-length
// table: symbols are sorted by (length, symbol value) and codes are
// consecutive integers, left-shifted as length increases.
func canonicalCodes(lengths map[uint16]int) (map[uint16]uint32, int) {
	syms := make([]uint16, 0, len(lengths))
	for s := range lengths {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool {
		if lengths[syms[i]] != lengths[syms[j]] {
			return lengths[syms[i]] < lengths[syms[j]]
		}
		return syms[i] < syms[j]
	})

	codes := make(map[uint16]uint32, len(syms))
	code := uint32(0)
	prevLen := 0
	maxLen := 0
	for _, s := range syms {
		l := lengths[s]
		code <<= uint(l - prevLen)
		codes[s] = code
		code++
		prevLen = l
		if l > maxLen {
			maxLen = l
		}
	}
	return codes, maxLen
}

type bitWriter struct {
	buf  []byte
	cur  byte
	nbit uint
}

func (w *bitWriter) writeBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		w.cur = (w.cur << 1) | bit
		w.nbit++
		if w.nbit == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur = 0
			w.nbit = 0
		}
	}
}

func (w *bitWriter) bytes() []byte {
	if w.nbit > 0 {
		w.buf = append(w.buf, w.cur<<(8-w.nbit))
		w.cur = 0
		w.nbit = 0
	}
	return w.buf
}

type bitReader struct {
	buf  []byte
	pos  int
	cur  byte
	nbit uint
}

func (r *bitReader) readBit() (byte, bool) {
	if r.nbit == 0 {
		if r.pos >= len(r.buf) {
			return 0, false
		}
		r.cur = r.buf[r.pos]
		r.pos++
		r.nbit = 8
	}
	bit := (r.cur >> 7) & 1
	r.cur <<= 1
	r.nbit--
	return bit, true
}

// EncodeHuffman16 Huffman-compresses a sequence of 16-bit symbols,
// writing a canonical code-length table followed by the packed
// bitstream (spec §4.6.4/§4.6.7: "Huffman-compress each stream").
func EncodeHuffman16(symbols []uint16) []byte {
	w := wire.NewBufferWriter(len(symbols)*2 + 64)
	w.WriteUint32(uint32(len(symbols)))
	if len(symbols) == 0 {
		return w.Bytes()
	}

	freq := make(map[uint16]int)
	for _, s := range symbols {
		freq[s]++
	}
	lengths := buildCodeLengths(freq)
	codes, _ := canonicalCodes(lengths)

	syms := make([]uint16, 0, len(lengths))
	for s := range lengths {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	w.WriteUint32(uint32(len(syms)))
	for _, s := range syms {
		w.WriteUint16(s)
		w.WriteUint8(uint8(lengths[s]))
	}

	bw := &bitWriter{}
	for _, s := range symbols {
		bw.writeBits(codes[s], lengths[s])
	}
	w.WriteBytes(bw.bytes())
	return w.Bytes()
}

// DecodeHuffman16 inverts EncodeHuffman16.
func DecodeHuffman16(data []byte) ([]uint16, error) {
	r := wire.NewReader(data)
	n, err := r.ReadUint32()
	if err != nil {
		return nil, ErrCorrupted
	}
	if n == 0 {
		return nil, nil
	}
	nsym, err := r.ReadUint32()
	if err != nil {
		return nil, ErrCorrupted
	}

	lengths := make(map[uint16]int, nsym)
	for i := uint32(0); i < nsym; i++ {
		s, err := r.ReadUint16()
		if err != nil {
			return nil, ErrCorrupted
		}
		l, err := r.ReadUint8()
		if err != nil {
			return nil, ErrCorrupted
		}
		lengths[s] = int(l)
	}
	codes, maxLen := canonicalCodes(lengths)

	// Invert codes -> symbol for decoding, keyed by (length, code).
	type key struct {
		length int
		code   uint32
	}
	byCode := make(map[key]uint16, len(codes))
	for s, c := range codes {
		byCode[key{lengths[s], c}] = s
	}

	rest := data[r.Pos():]
	br := &bitReader{buf: rest}
	out := make([]uint16, 0, n)
	for uint32(len(out)) < n {
		var code uint32
		matched := false
		for l := 1; l <= maxLen; l++ {
			bit, ok := br.readBit()
			if !ok {
				return nil, ErrCorrupted
			}
			code = (code << 1) | uint32(bit)
			if s, found := byCode[key{l, code}]; found {
				out = append(out, s)
				matched = true
				break
			}
		}
		if !matched {
			return nil, ErrCorrupted
		}
	}
	return out, nil
}
