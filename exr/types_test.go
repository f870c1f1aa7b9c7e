package exr

import "testing"

func TestBoundsFromMinMaxRoundTrip(t *testing.T) {
	min := V2i{X: -10, Y: 5}
	max := V2i{X: 20, Y: 30}
	b := BoundsFromMinMax(min, max)
	if b.Min() != min {
		t.Errorf("Min(): got %v, want %v", b.Min(), min)
	}
	if b.Max() != max {
		t.Errorf("Max(): got %v, want %v", b.Max(), max)
	}
	if b.Width() != 31 || b.Height() != 26 {
		t.Errorf("size: got %dx%d, want 31x26", b.Width(), b.Height())
	}
}

func TestBoundsIsEmpty(t *testing.T) {
	empty := Bounds{Position: V2i{0, 0}, Size: Size{W: 0, H: 5}}
	if !empty.IsEmpty() {
		t.Error("expected zero-width bounds to be empty")
	}
	full := Bounds{Position: V2i{0, 0}, Size: Size{W: 4, H: 4}}
	if full.IsEmpty() {
		t.Error("expected positive-size bounds to be non-empty")
	}
}

func TestBoundsValidateRejectsOutOfRange(t *testing.T) {
	b := Bounds{Position: V2i{X: -maxCoord - 1, Y: 0}, Size: Size{W: 10, H: 10}}
	if err := b.Validate(); err == nil {
		t.Error("expected Validate to reject out-of-range coordinate")
	}

	ok := Bounds{Position: V2i{X: 0, Y: 0}, Size: Size{W: 100, H: 100}}
	if err := ok.Validate(); err != nil {
		t.Errorf("expected in-range bounds to validate, got %v", err)
	}
}

func TestBoundsContains(t *testing.T) {
	b := BoundsFromMinMax(V2i{X: 0, Y: 0}, V2i{X: 9, Y: 9})
	if !b.Contains(5, 5) {
		t.Error("expected (5,5) to be contained")
	}
	if b.Contains(10, 5) {
		t.Error("expected (10,5) to be outside")
	}
	if b.Contains(-1, 0) {
		t.Error("expected (-1,0) to be outside")
	}
}

func TestIntersect(t *testing.T) {
	a := BoundsFromMinMax(V2i{X: 0, Y: 0}, V2i{X: 9, Y: 9})
	b := BoundsFromMinMax(V2i{X: 5, Y: 5}, V2i{X: 14, Y: 14})
	got := Intersect(a, b)
	want := BoundsFromMinMax(V2i{X: 5, Y: 5}, V2i{X: 9, Y: 9})
	if got != want {
		t.Errorf("Intersect: got %+v, want %+v", got, want)
	}

	disjointA := BoundsFromMinMax(V2i{X: 0, Y: 0}, V2i{X: 1, Y: 1})
	disjointB := BoundsFromMinMax(V2i{X: 10, Y: 10}, V2i{X: 11, Y: 11})
	if !Intersect(disjointA, disjointB).IsEmpty() {
		t.Error("expected disjoint bounds to intersect empty")
	}
}

func TestBlockTypeStringRoundTrip(t *testing.T) {
	tests := []BlockType{BlockScanLine, BlockTile, BlockDeepScanLine, BlockDeepTile}
	for _, bt := range tests {
		s := bt.String()
		got, ok := blockTypeFromString(s)
		if !ok {
			t.Errorf("blockTypeFromString(%q): not recognized", s)
		}
		if got != bt {
			t.Errorf("blockTypeFromString(%q): got %v, want %v", s, got, bt)
		}
	}
}

func TestBlockTypeIsTiledIsDeep(t *testing.T) {
	if !BlockTile.IsTiled() || BlockTile.IsDeep() {
		t.Error("BlockTile should be tiled, not deep")
	}
	if !BlockDeepTile.IsTiled() || !BlockDeepTile.IsDeep() {
		t.Error("BlockDeepTile should be both tiled and deep")
	}
	if BlockScanLine.IsTiled() || BlockScanLine.IsDeep() {
		t.Error("BlockScanLine should be neither tiled nor deep")
	}
	if BlockDeepScanLine.IsTiled() != false || !BlockDeepScanLine.IsDeep() {
		t.Error("BlockDeepScanLine should be deep but not tiled")
	}
}

func TestCompressionScanLinesPerChunk(t *testing.T) {
	tests := map[Compression]int{
		CompressionNone:  1,
		CompressionRLE:   1,
		CompressionZIPS:  1,
		CompressionZIP:   16,
		CompressionPXR24: 16,
		CompressionPIZ:   32,
		CompressionB44:   32,
		CompressionB44A:  32,
		CompressionDWAA:  32,
		CompressionDWAB:  256,
	}
	for c, want := range tests {
		if got := c.ScanLinesPerChunk(); got != want {
			t.Errorf("%v.ScanLinesPerChunk(): got %d, want %d", c, got, want)
		}
	}
}

func TestCompressionIsLossy(t *testing.T) {
	lossy := map[Compression]bool{
		CompressionNone:  false,
		CompressionRLE:   false,
		CompressionZIPS:  false,
		CompressionZIP:   false,
		CompressionPIZ:   false,
		CompressionPXR24: true,
		CompressionB44:   true,
		CompressionB44A:  true,
		CompressionDWAA:  true,
		CompressionDWAB:  true,
	}
	for c, want := range lossy {
		if got := c.IsLossy(); got != want {
			t.Errorf("%v.IsLossy(): got %v, want %v", c, got, want)
		}
	}
}

func TestCompressionSupportsDeepData(t *testing.T) {
	deep := map[Compression]bool{
		CompressionNone:  true,
		CompressionRLE:   true,
		CompressionZIPS:  true,
		CompressionZIP:   true,
		CompressionPIZ:   false,
		CompressionPXR24: false,
		CompressionB44:   false,
		CompressionB44A:  false,
		CompressionDWAA:  false,
		CompressionDWAB:  false,
	}
	for c, want := range deep {
		if got := c.SupportsDeepData(); got != want {
			t.Errorf("%v.SupportsDeepData(): got %v, want %v", c, got, want)
		}
	}
}

func TestCompressionStringIsUnique(t *testing.T) {
	seen := map[string]Compression{}
	all := []Compression{
		CompressionNone, CompressionRLE, CompressionZIPS, CompressionZIP,
		CompressionPIZ, CompressionPXR24, CompressionB44, CompressionB44A,
		CompressionDWAA, CompressionDWAB,
	}
	for _, c := range all {
		s := c.String()
		if s == "unknown" {
			t.Errorf("%d: unexpected unknown string", c)
		}
		if prev, dup := seen[s]; dup {
			t.Errorf("duplicate string %q for %v and %v", s, prev, c)
		}
		seen[s] = c
	}
}

func TestSampleTypeByteSize(t *testing.T) {
	tests := map[SampleType]int{
		SampleUint:  4,
		SampleHalf:  2,
		SampleFloat: 4,
	}
	for st, want := range tests {
		if got := st.ByteSize(); got != want {
			t.Errorf("%v.ByteSize(): got %d, want %d", st, got, want)
		}
	}
}

func TestLineOrderString(t *testing.T) {
	tests := map[LineOrder]string{
		LineOrderIncreasing: "increasing_y",
		LineOrderDecreasing: "decreasing_y",
		LineOrderRandom:     "random_y",
	}
	for lo, want := range tests {
		if got := lo.String(); got != want {
			t.Errorf("%v.String(): got %q, want %q", lo, got, want)
		}
	}
}
