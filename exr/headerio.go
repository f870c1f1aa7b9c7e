package exr

import (
	"github.com/mrjoshuak/go-openexr/internal/wire"
)

// wellKnownAttributeNames are the attribute names header fields bind
// to directly; everything else lands in Header.Extra.
const (
	attrNameChannels           = "channels"
	attrNameCompression        = "compression"
	attrNameDataWindow         = "dataWindow"
	attrNameDisplayWindow      = "displayWindow"
	attrNameLineOrder          = "lineOrder"
	attrNamePixelAspectRatio   = "pixelAspectRatio"
	attrNameScreenWindowCenter = "screenWindowCenter"
	attrNameScreenWindowWidth  = "screenWindowWidth"
	attrNameTiles              = "tiles"
	attrNameName               = "name"
	attrNameType               = "type"
	attrNameChunkCount         = "chunkCount"
	attrNameVersion            = "version"
	attrNameMaxSamplesPerPixel = "maxSamplesPerPixel"
)

// ReadHeader parses one header's attribute list, consuming through (and
// including) the terminating empty-name byte. req is the file's
// requirements word; attribute and channel name lengths are not
// checked against has_long_names or against any other limit.
func ReadHeader(r *wire.Reader, req Requirements) (*Header, error) {
	h := &Header{}
	var sawChannels, sawCompression, sawDataWindow, sawDisplayWindow bool
	var sawLineOrder, sawPAR, sawSWCenter, sawSWWidth bool

	for {
		attr, ok, err := ReadAttribute(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch attr.Name {
		case attrNameChannels:
			cl, ok := attr.Value.(ChannelList)
			if !ok {
				return nil, invalidf("header: channels attribute has wrong type")
			}
			h.Channels = cl
			sawChannels = true
		case attrNameCompression:
			c, ok := attr.Value.(Compression)
			if !ok {
				return nil, invalidf("header: compression attribute has wrong type")
			}
			h.Compression = c
			sawCompression = true
		case attrNameDataWindow:
			b, ok := attr.Value.(Bounds)
			if !ok {
				return nil, invalidf("header: dataWindow attribute has wrong type")
			}
			h.DataWindow = b
			sawDataWindow = true
		case attrNameDisplayWindow:
			b, ok := attr.Value.(Bounds)
			if !ok {
				return nil, invalidf("header: displayWindow attribute has wrong type")
			}
			h.DisplayWindow = b
			sawDisplayWindow = true
		case attrNameLineOrder:
			lo, ok := attr.Value.(LineOrder)
			if !ok {
				return nil, invalidf("header: lineOrder attribute has wrong type")
			}
			h.LineOrder = lo
			sawLineOrder = true
		case attrNamePixelAspectRatio:
			f, ok := attr.Value.(float32)
			if !ok {
				return nil, invalidf("header: pixelAspectRatio attribute has wrong type")
			}
			h.PixelAspectRatio = f
			sawPAR = true
		case attrNameScreenWindowCenter:
			v, ok := attr.Value.(V2f)
			if !ok {
				return nil, invalidf("header: screenWindowCenter attribute has wrong type")
			}
			h.ScreenWindowCenter = v
			sawSWCenter = true
		case attrNameScreenWindowWidth:
			f, ok := attr.Value.(float32)
			if !ok {
				return nil, invalidf("header: screenWindowWidth attribute has wrong type")
			}
			h.ScreenWindowWidth = f
			sawSWWidth = true
		case attrNameTiles:
			td, ok := attr.Value.(TileDescription)
			if !ok {
				return nil, invalidf("header: tiles attribute has wrong type")
			}
			h.Tiles = &td
		case attrNameName:
			s, ok := attr.Value.(string)
			if !ok {
				return nil, invalidf("header: name attribute has wrong type")
			}
			h.Name = s
		case attrNameType:
			s, ok := attr.Value.(string)
			if !ok {
				return nil, invalidf("header: type attribute has wrong type")
			}
			bt, ok := blockTypeFromString(s)
			if !ok {
				return nil, invalidf("header: unknown part type %q", s)
			}
			h.Type = bt
		case attrNameChunkCount:
			n, ok := attr.Value.(int32)
			if !ok {
				return nil, invalidf("header: chunkCount attribute has wrong type")
			}
			h.ChunkCount = n
			h.HasChunkCount = true
		case attrNameVersion:
			n, ok := attr.Value.(int32)
			if !ok {
				return nil, invalidf("header: version attribute has wrong type")
			}
			h.Version = n
		case attrNameMaxSamplesPerPixel:
			n, ok := attr.Value.(int32)
			if !ok {
				return nil, invalidf("header: maxSamplesPerPixel attribute has wrong type")
			}
			h.MaxSamplesPerPixel = n
		default:
			h.Set(attr.Name, attr)
		}
	}

	if !sawChannels {
		return nil, invalidf("header: missing required attribute %q", attrNameChannels)
	}
	if !sawCompression {
		return nil, invalidf("header: missing required attribute %q", attrNameCompression)
	}
	if !sawDataWindow {
		return nil, invalidf("header: missing required attribute %q", attrNameDataWindow)
	}
	if !sawDisplayWindow {
		return nil, invalidf("header: missing required attribute %q", attrNameDisplayWindow)
	}
	if !sawLineOrder {
		return nil, invalidf("header: missing required attribute %q", attrNameLineOrder)
	}
	if !sawPAR {
		return nil, invalidf("header: missing required attribute %q", attrNamePixelAspectRatio)
	}
	if !sawSWCenter {
		return nil, invalidf("header: missing required attribute %q", attrNameScreenWindowCenter)
	}
	if !sawSWWidth {
		return nil, invalidf("header: missing required attribute %q", attrNameScreenWindowWidth)
	}
	if req.IsSingleTile && h.Tiles == nil {
		return nil, invalidf("header: single-tile file missing %q attribute", attrNameTiles)
	}
	if (req.HasMultipleParts || req.HasDeepData) && h.Name == "" {
		return nil, invalidf("header: multipart/deep file missing %q attribute", attrNameName)
	}
	if req.HasDeepData && h.IsDeep() && h.Version == 0 {
		return nil, invalidf("header: deep part missing %q attribute", attrNameVersion)
	}
	if req.HasDeepData && h.IsDeep() && h.Version > 1 {
		return nil, unsupportedf("header: deep data version %d not supported", h.Version)
	}

	return h, h.Validate(false)
}

// WriteHeader appends h's full attribute list, including the
// terminating empty-name byte, to w.
func WriteHeader(w *wire.BufferWriter, h *Header) error {
	h.Channels.Sort()
	if err := h.Validate(true); err != nil {
		return err
	}

	attrs := []Attribute{
		{Name: attrNameChannels, Type: AttrTypeChlist, Value: h.Channels},
		{Name: attrNameCompression, Type: AttrTypeCompression, Value: h.Compression},
		{Name: attrNameDataWindow, Type: AttrTypeBox2i, Value: h.DataWindow},
		{Name: attrNameDisplayWindow, Type: AttrTypeBox2i, Value: h.DisplayWindow},
		{Name: attrNameLineOrder, Type: AttrTypeLineOrder, Value: h.LineOrder},
		{Name: attrNamePixelAspectRatio, Type: AttrTypeFloat, Value: h.PixelAspectRatio},
		{Name: attrNameScreenWindowCenter, Type: AttrTypeV2f, Value: h.ScreenWindowCenter},
		{Name: attrNameScreenWindowWidth, Type: AttrTypeFloat, Value: h.ScreenWindowWidth},
	}
	if h.Tiles != nil {
		attrs = append(attrs, Attribute{Name: attrNameTiles, Type: AttrTypeTileDesc, Value: *h.Tiles})
	}
	if h.Name != "" {
		attrs = append(attrs, Attribute{Name: attrNameName, Type: AttrTypeString, Value: h.Name})
		attrs = append(attrs, Attribute{Name: attrNameType, Type: AttrTypeString, Value: h.Type.String()})
	}
	if h.HasChunkCount {
		attrs = append(attrs, Attribute{Name: attrNameChunkCount, Type: AttrTypeInt, Value: h.ChunkCount})
	}
	if h.IsDeep() {
		attrs = append(attrs, Attribute{Name: attrNameVersion, Type: AttrTypeInt, Value: h.Version})
		attrs = append(attrs, Attribute{Name: attrNameMaxSamplesPerPixel, Type: AttrTypeInt, Value: h.MaxSamplesPerPixel})
	}
	for _, a := range h.Extra {
		attrs = append(attrs, a)
	}

	for _, a := range attrs {
		if err := WriteAttribute(w, a); err != nil {
			return err
		}
	}
	w.WriteCString("")
	return nil
}
