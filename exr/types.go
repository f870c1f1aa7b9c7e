// Package exr implements the OpenEXR metadata model and block/chunk layer:
// headers and their typed attributes, the little-endian wire format for
// both, and the chunk indexing, offset-table, and parallel orchestration
// machinery that sits between a file's bytes and its compressed pixel
// blocks. Turning chunk bytes into and out of pixel samples is the
// codec package's job; turning typed pixel buffers into and out of
// application images is left to a higher-level caller (see FrameBuffer,
// LineVisitor and LineProducer for that boundary).
package exr

// V2i is a 2D signed integer vector.
type V2i struct{ X, Y int32 }

// V2f is a 2D single-precision vector.
type V2f struct{ X, Y float32 }

// V2d is a 2D double-precision vector.
type V2d struct{ X, Y float64 }

// V3i is a 3D signed integer vector.
type V3i struct{ X, Y, Z int32 }

// V3f is a 3D single-precision vector.
type V3f struct{ X, Y, Z float32 }

// V3d is a 3D double-precision vector.
type V3d struct{ X, Y, Z float64 }

// M33f is a row-major 3x3 single-precision matrix.
type M33f [9]float32

// M44f is a row-major 4x4 single-precision matrix.
type M44f [16]float32

// M33d is a row-major 3x3 double-precision matrix.
type M33d [9]float64

// M44d is a row-major 4x4 double-precision matrix.
type M44d [16]float64

// maxCoord is the largest magnitude a Bounds position or a position+size
// may reach; half of int32's range, minus one, so size arithmetic never
// overflows an int32.
const maxCoord = 1<<30 - 1

// Size is a 2D non-negative extent.
type Size struct{ W, H int }

// Bounds is an axis-aligned rectangle of pixels: an inclusive-min,
// exclusive-max region addressed by its top-left position and its size.
// This is the in-memory shape; the wire format stores the equivalent
// (min, max-inclusive) pair (see ReadBounds/WriteBounds).
type Bounds struct {
	Position V2i
	Size     Size
}

// Min returns the inclusive minimum corner, as encoded on the wire.
func (b Bounds) Min() V2i { return b.Position }

// Max returns the inclusive maximum corner, as encoded on the wire.
// A zero-size Bounds has Max < Min; see IsEmpty.
func (b Bounds) Max() V2i {
	return V2i{
		X: b.Position.X + int32(b.Size.W) - 1,
		Y: b.Position.Y + int32(b.Size.H) - 1,
	}
}

// BoundsFromMinMax builds a Bounds from the wire's inclusive (min, max)
// corner pair.
func BoundsFromMinMax(min, max V2i) Bounds {
	w := int(max.X) - int(min.X) + 1
	h := int(max.Y) - int(min.Y) + 1
	return Bounds{Position: min, Size: Size{W: w, H: h}}
}

// IsEmpty reports whether b has zero or negative area.
func (b Bounds) IsEmpty() bool { return b.Size.W <= 0 || b.Size.H <= 0 }

// Width is the number of pixel columns covered by b.
func (b Bounds) Width() int { return b.Size.W }

// Height is the number of pixel rows covered by b.
func (b Bounds) Height() int { return b.Size.H }

// Validate checks the coordinate-overflow precondition every Bounds on
// the wire must satisfy: |min|, |max| < 2^30.
func (b Bounds) Validate() error {
	min, max := b.Min(), b.Max()
	for _, c := range []int32{min.X, min.Y, max.X, max.Y} {
		if c > maxCoord || c < -maxCoord {
			return &Error{Kind: Invalid, Context: "bounds: coordinate out of range"}
		}
	}
	return nil
}

// Contains reports whether (x, y) lies within b.
func (b Bounds) Contains(x, y int32) bool {
	min, max := b.Min(), b.Max()
	return x >= min.X && x <= max.X && y >= min.Y && y <= max.Y
}

// Intersect returns the largest Bounds contained in both a and b. The
// result may be empty (IsEmpty() == true) if a and b do not overlap.
func Intersect(a, b Bounds) Bounds {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()
	min := V2i{X: maxI32(aMin.X, bMin.X), Y: maxI32(aMin.Y, bMin.Y)}
	max := V2i{X: minI32(aMax.X, bMax.X), Y: minI32(aMax.Y, bMax.Y)}
	if max.X < min.X || max.Y < min.Y {
		return Bounds{Position: min, Size: Size{}}
	}
	return BoundsFromMinMax(min, max)
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// FloatBounds is a floating-point axis-aligned rectangle, used by a few
// attributes (display window variants in derived tools) that need
// sub-pixel precision; stored as its wire (min, max) corners directly
// since no integer Size would be meaningful.
type FloatBounds struct {
	Min, Max V2f
}

// Rational is a ratio of a signed numerator to an unsigned denominator,
// the value of the "rational" attribute type.
type Rational struct {
	Numerator   int32
	Denominator uint32
}

// TimeCode is an SMPTE time-and-control-code attribute value.
type TimeCode struct {
	TimeAndFlags uint32
	UserData     uint32
}

// KeyCode identifies a piece of film stock and the exposed frame range.
type KeyCode struct {
	FilmMfcCode    int32
	FilmType       int32
	Prefix         int32
	Count          int32
	PerfOffset     int32
	PerfsPerFrame  int32
	PerfsPerCount  int32
}

// Chromaticities gives the CIE xy chromaticity coordinates of the red,
// green, blue primaries and the white point used to interpret a file's
// colour channels.
type Chromaticities struct {
	Red, Green, Blue, White V2f
}

// Preview is a small 8-bit RGBA thumbnail embedded in a header.
type Preview struct {
	Width, Height uint32
	// Pixels holds Width*Height*4 interleaved RGBA bytes.
	Pixels []byte
}

// EnvironmentMap selects how a layer's pixels map onto a sphere or cube.
type EnvironmentMap uint8

const (
	EnvMapLatLong EnvironmentMap = 0
	EnvMapCube    EnvironmentMap = 1
)

func (e EnvironmentMap) String() string {
	if e == EnvMapCube {
		return "cube"
	}
	return "latlong"
}

// BlockType names a part's chunk shape; only meaningful (and only
// required on the wire) for multi-part and deep files.
type BlockType uint8

const (
	BlockScanLine BlockType = iota
	BlockTile
	BlockDeepScanLine
	BlockDeepTile
)

func (t BlockType) String() string {
	switch t {
	case BlockScanLine:
		return "scanlineimage"
	case BlockTile:
		return "tiledimage"
	case BlockDeepScanLine:
		return "deepscanline"
	case BlockDeepTile:
		return "deeptile"
	default:
		return "unknown"
	}
}

func blockTypeFromString(s string) (BlockType, bool) {
	switch s {
	case "scanlineimage":
		return BlockScanLine, true
	case "tiledimage":
		return BlockTile, true
	case "deepscanline":
		return BlockDeepScanLine, true
	case "deeptile":
		return BlockDeepTile, true
	default:
		return 0, false
	}
}

// IsTiled reports whether t addresses tiles rather than scan lines.
func (t BlockType) IsTiled() bool { return t == BlockTile || t == BlockDeepTile }

// IsDeep reports whether t carries multi-sample-per-pixel deep data.
func (t BlockType) IsDeep() bool { return t == BlockDeepScanLine || t == BlockDeepTile }

// LevelMode selects how a tiled part's multi-resolution pyramid is built.
type LevelMode uint8

const (
	LevelSingular LevelMode = 0
	LevelMipmap   LevelMode = 1
	LevelRipmap   LevelMode = 2
)

// LevelRoundingMode selects how non-power-of-two level sizes round.
type LevelRoundingMode uint8

const (
	RoundDown LevelRoundingMode = 0
	RoundUp   LevelRoundingMode = 1
)

// TileDescription gives a tiled part's tile size and pyramid shape.
type TileDescription struct {
	XSize, YSize uint32
	Mode         LevelMode
	Rounding     LevelRoundingMode
}

// LineOrder selects the order scan lines (or tiles) are stored in.
type LineOrder uint8

const (
	LineOrderIncreasing LineOrder = 0
	LineOrderDecreasing LineOrder = 1
	LineOrderRandom     LineOrder = 2
)

func (lo LineOrder) String() string {
	switch lo {
	case LineOrderIncreasing:
		return "increasing_y"
	case LineOrderDecreasing:
		return "decreasing_y"
	case LineOrderRandom:
		return "random_y"
	default:
		return "unknown"
	}
}

// Compression names one of the codecs of the codec package's Kind
// enum (see codecKind).
type Compression uint8

const (
	CompressionNone   Compression = 0
	CompressionRLE    Compression = 1
	CompressionZIPS   Compression = 2 // one scan line per chunk ("ZIP1" in spec terms)
	CompressionZIP    Compression = 3 // 16 scan lines per chunk ("ZIP16")
	CompressionPIZ    Compression = 4
	CompressionPXR24  Compression = 5
	CompressionB44    Compression = 6
	CompressionB44A   Compression = 7
	CompressionDWAA   Compression = 8
	CompressionDWAB   Compression = 9
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionRLE:
		return "rle"
	case CompressionZIPS:
		return "zips"
	case CompressionZIP:
		return "zip"
	case CompressionPIZ:
		return "piz"
	case CompressionPXR24:
		return "pxr24"
	case CompressionB44:
		return "b44"
	case CompressionB44A:
		return "b44a"
	case CompressionDWAA:
		return "dwaa"
	case CompressionDWAB:
		return "dwab"
	default:
		return "unknown"
	}
}

// ScanLinesPerChunk is the number of scan lines each chunk groups
// together under this compression, per spec §4.4.
func (c Compression) ScanLinesPerChunk() int {
	switch c {
	case CompressionNone, CompressionRLE, CompressionZIPS:
		return 1
	case CompressionZIP, CompressionPXR24:
		return 16
	case CompressionPIZ, CompressionB44, CompressionB44A, CompressionDWAA:
		return 32
	case CompressionDWAB:
		return 256
	default:
		return 1
	}
}

// IsLossy reports whether the codec discards information.
func (c Compression) IsLossy() bool {
	switch c {
	case CompressionPXR24, CompressionB44, CompressionB44A, CompressionDWAA, CompressionDWAB:
		return true
	default:
		return false
	}
}

// SupportsDeepData reports whether c may compress a deep part's sample
// payload; only the byte-oriented codecs qualify (spec §4.3).
func (c Compression) SupportsDeepData() bool {
	switch c {
	case CompressionNone, CompressionRLE, CompressionZIPS, CompressionZIP:
		return true
	default:
		return false
	}
}

// SampleType is a channel's per-sample storage type.
type SampleType uint8

const (
	SampleUint  SampleType = 0
	SampleHalf  SampleType = 1
	SampleFloat SampleType = 2
)

// ByteSize is the on-disk size of one sample of this type.
func (s SampleType) ByteSize() int {
	switch s {
	case SampleUint, SampleFloat:
		return 4
	case SampleHalf:
		return 2
	default:
		return 0
	}
}

func (s SampleType) String() string {
	switch s {
	case SampleUint:
		return "uint"
	case SampleHalf:
		return "half"
	case SampleFloat:
		return "float"
	default:
		return "unknown"
	}
}
