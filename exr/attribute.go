package exr

import (
	"github.com/mrjoshuak/go-openexr/internal/wire"
)

// AttributeType names the wire type tag preceding an attribute's value.
// The set is closed except for Custom, which preserves any type this
// package does not itself interpret so a file can be read and
// rewritten without losing attributes it does not understand.
type AttributeType string

const (
	AttrTypeBox2i          AttributeType = "box2i"
	AttrTypeBox2f          AttributeType = "box2f"
	AttrTypeChlist         AttributeType = "chlist"
	AttrTypeChromaticities AttributeType = "chromaticities"
	AttrTypeCompression    AttributeType = "compression"
	AttrTypeDouble         AttributeType = "double"
	AttrTypeEnvmap         AttributeType = "envmap"
	AttrTypeFloat          AttributeType = "float"
	AttrTypeInt            AttributeType = "int"
	AttrTypeKeycode        AttributeType = "keycode"
	AttrTypeLineOrder      AttributeType = "lineOrder"
	AttrTypeM33f           AttributeType = "m33f"
	AttrTypeM44f           AttributeType = "m44f"
	AttrTypeM33d           AttributeType = "m33d"
	AttrTypeM44d           AttributeType = "m44d"
	AttrTypePreview        AttributeType = "preview"
	AttrTypeRational       AttributeType = "rational"
	AttrTypeString         AttributeType = "string"
	AttrTypeStringVector   AttributeType = "stringvector"
	AttrTypeTileDesc       AttributeType = "tiledesc"
	AttrTypeTimecode       AttributeType = "timecode"
	AttrTypeV2i            AttributeType = "v2i"
	AttrTypeV2f            AttributeType = "v2f"
	AttrTypeV2d            AttributeType = "v2d"
	AttrTypeV3i            AttributeType = "v3i"
	AttrTypeV3f            AttributeType = "v3f"
	AttrTypeV3d            AttributeType = "v3d"
)

// Custom holds an attribute whose type tag is not one of the standard
// ones above. Its bytes are kept verbatim so a header can round-trip
// through read-and-rewrite without loss.
type Custom struct {
	TypeName string
	Bytes    []byte
}

// Attribute is one name/value pair in a header. Value holds a Go type
// appropriate to Type: int32 for AttrTypeInt, ChannelList for
// AttrTypeChlist, Custom for any non-standard type, and so on; see
// ReadAttribute for the exhaustive mapping.
type Attribute struct {
	Name  string
	Type  AttributeType
	Value interface{}
}

// ReadAttribute parses one attribute record: name\0 type\0 size(i32)
// value[size]. It returns ok=false without error when name is empty,
// which marks the end of a header's attribute list (callers typically
// detect this earlier with a wire.PeekReader before ever calling
// ReadAttribute, since the terminator byte is shared between this
// format and the channel list's own terminator).
func ReadAttribute(r *wire.Reader) (attr Attribute, ok bool, err error) {
	name, err := r.ReadCString()
	if err != nil {
		return Attribute{}, false, ioErr("attribute: name", err)
	}
	if name == "" {
		return Attribute{}, false, nil
	}
	typeName, err := r.ReadCString()
	if err != nil {
		return Attribute{}, false, ioErr("attribute: type", err)
	}
	size, err := r.ReadInt32()
	if err != nil {
		return Attribute{}, false, ioErr("attribute: size", err)
	}
	if size < 0 {
		return Attribute{}, false, invalidf("attribute %q: negative size %d", name, size)
	}

	end := r.Pos() + int(size)
	attr = Attribute{Name: name, Type: AttributeType(typeName)}

	switch attr.Type {
	case AttrTypeBox2i:
		attr.Value, err = readBounds(r)
	case AttrTypeBox2f:
		attr.Value, err = readFloatBounds(r)
	case AttrTypeChlist:
		attr.Value, err = ReadChannelList(r)
	case AttrTypeChromaticities:
		attr.Value, err = readChromaticities(r)
	case AttrTypeCompression:
		var b byte
		b, err = r.ReadByte()
		attr.Value = Compression(b)
	case AttrTypeDouble:
		attr.Value, err = r.ReadFloat64()
	case AttrTypeEnvmap:
		var b byte
		b, err = r.ReadByte()
		attr.Value = EnvironmentMap(b)
	case AttrTypeFloat:
		attr.Value, err = r.ReadFloat32()
	case AttrTypeInt:
		attr.Value, err = r.ReadInt32()
	case AttrTypeKeycode:
		attr.Value, err = readKeyCode(r)
	case AttrTypeLineOrder:
		var b byte
		b, err = r.ReadByte()
		attr.Value = LineOrder(b)
	case AttrTypeM33f:
		attr.Value, err = readM33f(r)
	case AttrTypeM44f:
		attr.Value, err = readM44f(r)
	case AttrTypeM33d:
		attr.Value, err = readM33d(r)
	case AttrTypeM44d:
		attr.Value, err = readM44d(r)
	case AttrTypePreview:
		attr.Value, err = readPreview(r)
	case AttrTypeRational:
		attr.Value, err = readRational(r)
	case AttrTypeString:
		var b []byte
		b, err = r.ReadBytes(int(size))
		attr.Value = string(b)
	case AttrTypeStringVector:
		attr.Value, err = readStringVector(r, int(size))
	case AttrTypeTileDesc:
		attr.Value, err = readTileDescription(r)
	case AttrTypeTimecode:
		attr.Value, err = readTimeCode(r)
	case AttrTypeV2i:
		attr.Value, err = readV2i(r)
	case AttrTypeV2f:
		attr.Value, err = readV2f(r)
	case AttrTypeV2d:
		attr.Value, err = readV2d(r)
	case AttrTypeV3i:
		attr.Value, err = readV3i(r)
	case AttrTypeV3f:
		attr.Value, err = readV3f(r)
	case AttrTypeV3d:
		attr.Value, err = readV3d(r)
	default:
		var raw []byte
		raw, err = r.ReadBytes(int(size))
		attr.Value = Custom{TypeName: typeName, Bytes: raw}
	}
	if err != nil {
		return Attribute{}, false, err
	}

	// A reader tolerates a value that consumed fewer bytes than the
	// declared size (some writers pad), but never more: that would mean
	// a structural mismatch between the size prefix and the codec,
	// which is always invalid.
	if r.Pos() > end {
		return Attribute{}, false, invalidf("attribute %q: value overran declared size", name)
	}
	if r.Pos() < end {
		if err := r.Skip(end - r.Pos()); err != nil {
			return Attribute{}, false, ioErr("attribute: skip padding", err)
		}
	}

	return attr, true, nil
}

// WriteAttribute appends attr's full wire encoding (name, type, size,
// value) to w.
func WriteAttribute(w *wire.BufferWriter, attr Attribute) error {
	w.WriteCString(attr.Name)
	w.WriteCString(string(attr.Type))

	valueBuf := wire.NewBufferWriter(64)
	if err := writeAttributeValue(valueBuf, attr); err != nil {
		return err
	}
	w.WriteInt32(int32(valueBuf.Len()))
	w.WriteBytes(valueBuf.Bytes())
	return nil
}

func writeAttributeValue(w *wire.BufferWriter, attr Attribute) error {
	switch attr.Type {
	case AttrTypeBox2i:
		writeBounds(w, attr.Value.(Bounds))
	case AttrTypeBox2f:
		writeFloatBounds(w, attr.Value.(FloatBounds))
	case AttrTypeChlist:
		WriteChannelList(w, attr.Value.(ChannelList))
	case AttrTypeChromaticities:
		writeChromaticities(w, attr.Value.(Chromaticities))
	case AttrTypeCompression:
		w.WriteUint8(uint8(attr.Value.(Compression)))
	case AttrTypeDouble:
		w.WriteFloat64(attr.Value.(float64))
	case AttrTypeEnvmap:
		w.WriteUint8(uint8(attr.Value.(EnvironmentMap)))
	case AttrTypeFloat:
		w.WriteFloat32(attr.Value.(float32))
	case AttrTypeInt:
		w.WriteInt32(attr.Value.(int32))
	case AttrTypeKeycode:
		writeKeyCode(w, attr.Value.(KeyCode))
	case AttrTypeLineOrder:
		w.WriteUint8(uint8(attr.Value.(LineOrder)))
	case AttrTypeM33f:
		writeM33f(w, attr.Value.(M33f))
	case AttrTypeM44f:
		writeM44f(w, attr.Value.(M44f))
	case AttrTypeM33d:
		writeM33d(w, attr.Value.(M33d))
	case AttrTypeM44d:
		writeM44d(w, attr.Value.(M44d))
	case AttrTypePreview:
		writePreview(w, attr.Value.(Preview))
	case AttrTypeRational:
		writeRational(w, attr.Value.(Rational))
	case AttrTypeString:
		w.WriteBytes([]byte(attr.Value.(string)))
	case AttrTypeStringVector:
		writeStringVector(w, attr.Value.([]string))
	case AttrTypeTileDesc:
		writeTileDescription(w, attr.Value.(TileDescription))
	case AttrTypeTimecode:
		writeTimeCode(w, attr.Value.(TimeCode))
	case AttrTypeV2i:
		writeV2i(w, attr.Value.(V2i))
	case AttrTypeV2f:
		writeV2f(w, attr.Value.(V2f))
	case AttrTypeV2d:
		writeV2d(w, attr.Value.(V2d))
	case AttrTypeV3i:
		writeV3i(w, attr.Value.(V3i))
	case AttrTypeV3f:
		writeV3f(w, attr.Value.(V3f))
	case AttrTypeV3d:
		writeV3d(w, attr.Value.(V3d))
	default:
		custom, ok := attr.Value.(Custom)
		if !ok {
			return invalidf("attribute %q: unrecognized type %q has non-Custom value", attr.Name, attr.Type)
		}
		w.WriteBytes(custom.Bytes)
	}
	return nil
}

func readBounds(r *wire.Reader) (Bounds, error) {
	min, err := readV2i(r)
	if err != nil {
		return Bounds{}, err
	}
	max, err := readV2i(r)
	if err != nil {
		return Bounds{}, err
	}
	b := BoundsFromMinMax(min, max)
	return b, b.Validate()
}

func writeBounds(w *wire.BufferWriter, b Bounds) {
	writeV2i(w, b.Min())
	writeV2i(w, b.Max())
}

func readFloatBounds(r *wire.Reader) (FloatBounds, error) {
	min, err := readV2f(r)
	if err != nil {
		return FloatBounds{}, err
	}
	max, err := readV2f(r)
	if err != nil {
		return FloatBounds{}, err
	}
	return FloatBounds{Min: min, Max: max}, nil
}

func writeFloatBounds(w *wire.BufferWriter, b FloatBounds) {
	writeV2f(w, b.Min)
	writeV2f(w, b.Max)
}

func readV2i(r *wire.Reader) (V2i, error) {
	x, err := r.ReadInt32()
	if err != nil {
		return V2i{}, err
	}
	y, err := r.ReadInt32()
	return V2i{X: x, Y: y}, err
}
func writeV2i(w *wire.BufferWriter, v V2i) { w.WriteInt32(v.X); w.WriteInt32(v.Y) }

func readV2f(r *wire.Reader) (V2f, error) {
	x, err := r.ReadFloat32()
	if err != nil {
		return V2f{}, err
	}
	y, err := r.ReadFloat32()
	return V2f{X: x, Y: y}, err
}
func writeV2f(w *wire.BufferWriter, v V2f) { w.WriteFloat32(v.X); w.WriteFloat32(v.Y) }

func readV2d(r *wire.Reader) (V2d, error) {
	x, err := r.ReadFloat64()
	if err != nil {
		return V2d{}, err
	}
	y, err := r.ReadFloat64()
	return V2d{X: x, Y: y}, err
}
func writeV2d(w *wire.BufferWriter, v V2d) { w.WriteFloat64(v.X); w.WriteFloat64(v.Y) }

func readV3i(r *wire.Reader) (V3i, error) {
	x, err := r.ReadInt32()
	if err != nil {
		return V3i{}, err
	}
	y, err := r.ReadInt32()
	if err != nil {
		return V3i{}, err
	}
	z, err := r.ReadInt32()
	return V3i{X: x, Y: y, Z: z}, err
}
func writeV3i(w *wire.BufferWriter, v V3i) { w.WriteInt32(v.X); w.WriteInt32(v.Y); w.WriteInt32(v.Z) }

func readV3f(r *wire.Reader) (V3f, error) {
	x, err := r.ReadFloat32()
	if err != nil {
		return V3f{}, err
	}
	y, err := r.ReadFloat32()
	if err != nil {
		return V3f{}, err
	}
	z, err := r.ReadFloat32()
	return V3f{X: x, Y: y, Z: z}, err
}
func writeV3f(w *wire.BufferWriter, v V3f) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
}

func readV3d(r *wire.Reader) (V3d, error) {
	x, err := r.ReadFloat64()
	if err != nil {
		return V3d{}, err
	}
	y, err := r.ReadFloat64()
	if err != nil {
		return V3d{}, err
	}
	z, err := r.ReadFloat64()
	return V3d{X: x, Y: y, Z: z}, err
}
func writeV3d(w *wire.BufferWriter, v V3d) {
	w.WriteFloat64(v.X)
	w.WriteFloat64(v.Y)
	w.WriteFloat64(v.Z)
}

func readM33f(r *wire.Reader) (M33f, error) {
	var m M33f
	for i := range m {
		v, err := r.ReadFloat32()
		if err != nil {
			return m, err
		}
		m[i] = v
	}
	return m, nil
}
func writeM33f(w *wire.BufferWriter, m M33f) {
	for _, v := range m {
		w.WriteFloat32(v)
	}
}

func readM44f(r *wire.Reader) (M44f, error) {
	var m M44f
	for i := range m {
		v, err := r.ReadFloat32()
		if err != nil {
			return m, err
		}
		m[i] = v
	}
	return m, nil
}
func writeM44f(w *wire.BufferWriter, m M44f) {
	for _, v := range m {
		w.WriteFloat32(v)
	}
}

func readM33d(r *wire.Reader) (M33d, error) {
	var m M33d
	for i := range m {
		v, err := r.ReadFloat64()
		if err != nil {
			return m, err
		}
		m[i] = v
	}
	return m, nil
}
func writeM33d(w *wire.BufferWriter, m M33d) {
	for _, v := range m {
		w.WriteFloat64(v)
	}
}

func readM44d(r *wire.Reader) (M44d, error) {
	var m M44d
	for i := range m {
		v, err := r.ReadFloat64()
		if err != nil {
			return m, err
		}
		m[i] = v
	}
	return m, nil
}
func writeM44d(w *wire.BufferWriter, m M44d) {
	for _, v := range m {
		w.WriteFloat64(v)
	}
}

func readRational(r *wire.Reader) (Rational, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return Rational{}, err
	}
	d, err := r.ReadUint32()
	return Rational{Numerator: n, Denominator: d}, err
}
func writeRational(w *wire.BufferWriter, v Rational) {
	w.WriteInt32(v.Numerator)
	w.WriteUint32(v.Denominator)
}

func readTimeCode(r *wire.Reader) (TimeCode, error) {
	taf, err := r.ReadUint32()
	if err != nil {
		return TimeCode{}, err
	}
	ud, err := r.ReadUint32()
	return TimeCode{TimeAndFlags: taf, UserData: ud}, err
}
func writeTimeCode(w *wire.BufferWriter, v TimeCode) {
	w.WriteUint32(v.TimeAndFlags)
	w.WriteUint32(v.UserData)
}

func readKeyCode(r *wire.Reader) (KeyCode, error) {
	fields := make([]int32, 7)
	for i := range fields {
		v, err := r.ReadInt32()
		if err != nil {
			return KeyCode{}, err
		}
		fields[i] = v
	}
	return KeyCode{
		FilmMfcCode:   fields[0],
		FilmType:      fields[1],
		Prefix:        fields[2],
		Count:         fields[3],
		PerfOffset:    fields[4],
		PerfsPerFrame: fields[5],
		PerfsPerCount: fields[6],
	}, nil
}
func writeKeyCode(w *wire.BufferWriter, v KeyCode) {
	w.WriteInt32(v.FilmMfcCode)
	w.WriteInt32(v.FilmType)
	w.WriteInt32(v.Prefix)
	w.WriteInt32(v.Count)
	w.WriteInt32(v.PerfOffset)
	w.WriteInt32(v.PerfsPerFrame)
	w.WriteInt32(v.PerfsPerCount)
}

func readChromaticities(r *wire.Reader) (Chromaticities, error) {
	var c Chromaticities
	var err error
	if c.Red, err = readV2f(r); err != nil {
		return c, err
	}
	if c.Green, err = readV2f(r); err != nil {
		return c, err
	}
	if c.Blue, err = readV2f(r); err != nil {
		return c, err
	}
	c.White, err = readV2f(r)
	return c, err
}
func writeChromaticities(w *wire.BufferWriter, c Chromaticities) {
	writeV2f(w, c.Red)
	writeV2f(w, c.Green)
	writeV2f(w, c.Blue)
	writeV2f(w, c.White)
}

func readPreview(r *wire.Reader) (Preview, error) {
	width, err := r.ReadUint32()
	if err != nil {
		return Preview{}, err
	}
	height, err := r.ReadUint32()
	if err != nil {
		return Preview{}, err
	}
	n := int(width) * int(height) * 4
	pixels, err := r.ReadBytes(n)
	if err != nil {
		return Preview{}, err
	}
	return Preview{Width: width, Height: height, Pixels: pixels}, nil
}
func writePreview(w *wire.BufferWriter, p Preview) {
	w.WriteUint32(p.Width)
	w.WriteUint32(p.Height)
	w.WriteBytes(p.Pixels)
}

func readTileDescription(r *wire.Reader) (TileDescription, error) {
	var td TileDescription
	var err error
	if td.XSize, err = r.ReadUint32(); err != nil {
		return td, err
	}
	if td.YSize, err = r.ReadUint32(); err != nil {
		return td, err
	}
	mode, err := r.ReadByte()
	if err != nil {
		return td, err
	}
	td.Mode = LevelMode(mode & 0x0F)
	td.Rounding = LevelRoundingMode((mode >> 4) & 0x0F)
	return td, nil
}
func writeTileDescription(w *wire.BufferWriter, td TileDescription) {
	w.WriteUint32(td.XSize)
	w.WriteUint32(td.YSize)
	w.WriteUint8(byte(td.Mode) | byte(td.Rounding)<<4)
}

// readStringVector parses a stringvector attribute: a packed sequence
// of (length i32, bytes) pairs filling the declared size exactly.
func readStringVector(r *wire.Reader, size int) ([]string, error) {
	end := r.Pos() + size
	var out []string
	for r.Pos() < end {
		n, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 || r.Pos()+int(n) > end {
			return nil, invalidf("stringvector: entry length overruns attribute size")
		}
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		out = append(out, string(b))
	}
	return out, nil
}

func writeStringVector(w *wire.BufferWriter, ss []string) {
	for _, s := range ss {
		w.WriteInt32(int32(len(s)))
		w.WriteBytes([]byte(s))
	}
}
