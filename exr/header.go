package exr

import (
	"github.com/mrjoshuak/go-openexr/internal/wire"
)

const magicSize = 4

var magicBytes = [magicSize]byte{0x76, 0x2F, 0x31, 0x01}

// requirement flag bits within the requirements word, per byte 4 of
// the file: low 8 bits are the version, bits 9-12 are these flags.
const (
	reqTileBit       = 1 << 9
	reqLongNamesBit  = 1 << 10
	reqDeepBit       = 1 << 11
	reqMultiPartBit  = 1 << 12
	reqKnownBitsMask = 0xFF | reqTileBit | reqLongNamesBit | reqDeepBit | reqMultiPartBit
)

// Requirements is the decoded form of the file-level requirements word.
type Requirements struct {
	Version          uint8
	IsSingleTile     bool
	HasLongNames     bool
	HasDeepData      bool
	HasMultipleParts bool
}

func (r Requirements) encode() uint32 {
	v := uint32(r.Version)
	if r.IsSingleTile {
		v |= reqTileBit
	}
	if r.HasLongNames {
		v |= reqLongNamesBit
	}
	if r.HasDeepData {
		v |= reqDeepBit
	}
	if r.HasMultipleParts {
		v |= reqMultiPartBit
	}
	return v
}

func decodeRequirements(v uint32) (Requirements, error) {
	if v&^uint32(reqKnownBitsMask) != 0 {
		return Requirements{}, unsupportedf("requirements word: unknown flag bits set")
	}
	r := Requirements{
		Version:          uint8(v & 0xFF),
		IsSingleTile:     v&reqTileBit != 0,
		HasLongNames:     v&reqLongNamesBit != 0,
		HasDeepData:      v&reqDeepBit != 0,
		HasMultipleParts: v&reqMultiPartBit != 0,
	}
	if r.Version < 1 || r.Version > 2 {
		return Requirements{}, unsupportedf("requirements word: version %d out of range", r.Version)
	}
	if r.IsSingleTile && (r.HasMultipleParts || r.HasDeepData) {
		return Requirements{}, invalidf("requirements word: single-tile flag combined with multipart/deep")
	}
	if (r.HasDeepData || r.HasMultipleParts) && r.Version != 2 {
		return Requirements{}, invalidf("requirements word: deep/multipart data requires version 2")
	}
	return r, nil
}

// ReadMagicAndRequirements reads and validates the 8-byte file prologue.
func ReadMagicAndRequirements(r *wire.Reader) (Requirements, error) {
	magic, err := r.ReadBytes(magicSize)
	if err != nil {
		return Requirements{}, ioErr("magic", err)
	}
	for i, b := range magic {
		if b != magicBytes[i] {
			return Requirements{}, &Error{Kind: NotExr, Context: "magic bytes do not match"}
		}
	}
	word, err := r.ReadUint32()
	if err != nil {
		return Requirements{}, ioErr("requirements word", err)
	}
	return decodeRequirements(word)
}

// WriteMagicAndRequirements appends the 8-byte file prologue to w.
func WriteMagicAndRequirements(w *wire.BufferWriter, req Requirements) {
	w.WriteBytes(magicBytes[:])
	w.WriteUint32(req.encode())
}

// Header is one part's full metadata: the fields every part must carry,
// the fields required only for tiled/multi-part/deep parts, and a
// free-form map for everything else. The wire format has no dedicated
// "required field" marker; this type exists because callers need typed
// access to the fields the rest of this package depends on (data
// window, channel list, compression, ...), something the teacher
// repo's header-less attribute list never gave a name.
type Header struct {
	// Required for every part.
	Channels           ChannelList
	Compression        Compression
	DataWindow         Bounds
	DisplayWindow      Bounds
	LineOrder          LineOrder
	PixelAspectRatio   float32
	ScreenWindowCenter V2f
	ScreenWindowWidth  float32

	// Required only for tiled parts.
	Tiles *TileDescription

	// Required only for multi-part and deep parts.
	Name       string
	Type       BlockType
	ChunkCount int32
	HasChunkCount bool

	// Required only for deep parts.
	Version            int32
	MaxSamplesPerPixel int32

	// Extra holds every attribute not named above, keyed by attribute
	// name, preserving its wire type tag for round-trip fidelity.
	Extra map[string]Attribute
}

// IsTiled reports whether h describes a tiled (as opposed to
// scan-line) part.
func (h *Header) IsTiled() bool { return h.Tiles != nil }

// IsDeep reports whether h describes a deep part.
func (h *Header) IsDeep() bool { return h.Type == BlockDeepScanLine || h.Type == BlockDeepTile }

// Get returns a named extra attribute and whether it was present.
func (h *Header) Get(name string) (Attribute, bool) {
	a, ok := h.Extra[name]
	return a, ok
}

// Set stores a named extra attribute, overwriting any existing value.
func (h *Header) Set(name string, attr Attribute) {
	if h.Extra == nil {
		h.Extra = make(map[string]Attribute)
	}
	attr.Name = name
	h.Extra[name] = attr
}

// sharedAttributeNames lists the attributes that must be identical
// across every header of a multi-part file (spec §3, §8 property 6).
var sharedAttributeNames = []string{"displayWindow", "pixelAspectRatio", "timeCode", "chromaticities"}

// sharedFingerprint captures the values of the cross-part-consistent
// fields of h, for comparison against the rest of a multi-part file's
// headers.
type sharedFingerprint struct {
	displayWindow    Bounds
	pixelAspectRatio float32
	timeCode         *TimeCode
	chromaticities   *Chromaticities
}

func (h *Header) fingerprint() sharedFingerprint {
	fp := sharedFingerprint{
		displayWindow:    h.DisplayWindow,
		pixelAspectRatio: h.PixelAspectRatio,
	}
	if a, ok := h.Get("timeCode"); ok {
		if tc, ok := a.Value.(TimeCode); ok {
			fp.timeCode = &tc
		}
	}
	if a, ok := h.Get("chromaticities"); ok {
		if c, ok := a.Value.(Chromaticities); ok {
			fp.chromaticities = &c
		}
	}
	return fp
}

func (a sharedFingerprint) equal(b sharedFingerprint) bool {
	if a.displayWindow != b.displayWindow || a.pixelAspectRatio != b.pixelAspectRatio {
		return false
	}
	if (a.timeCode == nil) != (b.timeCode == nil) {
		return false
	}
	if a.timeCode != nil && *a.timeCode != *b.timeCode {
		return false
	}
	if (a.chromaticities == nil) != (b.chromaticities == nil) {
		return false
	}
	if a.chromaticities != nil && *a.chromaticities != *b.chromaticities {
		return false
	}
	return true
}

// Validate checks the rules in spec §4.3 that apply to a single
// header in isolation (cross-header rules live in ValidateParts).
func (h *Header) Validate(strict bool) error {
	if err := h.DataWindow.Validate(); err != nil {
		return err
	}
	if err := h.DisplayWindow.Validate(); err != nil {
		return err
	}
	if len(h.Channels) == 0 {
		return invalidf("channels: channel list is empty")
	}
	if err := h.Channels.Validate(strict); err != nil {
		return err
	}
	for i := 1; i < len(h.Channels); i++ {
		if h.Channels[i-1].Name > h.Channels[i].Name {
			return invalidf("channels: channel list is not sorted")
		}
	}
	if h.IsDeep() && !h.Compression.SupportsDeepData() {
		return invalidf("compression: %s does not support deep data", h.Compression)
	}
	hasSubsampling := false
	for _, c := range h.Channels {
		if c.XSampling != 1 || c.YSampling != 1 {
			hasSubsampling = true
		}
		if (c.XSampling != 1 || c.YSampling != 1) && (h.IsTiled() || h.IsDeep()) {
			return unsupportedf("channel %q: subsampling not permitted with tiled or deep data", c.Name)
		}
	}
	if hasSubsampling {
		w, hh := h.DataWindow.Width(), h.DataWindow.Height()
		for _, c := range h.Channels {
			if w%c.XSampling != 0 || hh%c.YSampling != 0 {
				return invalidf("channel %q: data window not divisible by sampling factors", c.Name)
			}
		}
	}
	return nil
}

// ValidateParts checks the cross-header consistency rule: every part
// in a multi-part file must share the same display window, pixel
// aspect ratio, time code and chromaticities (spec §8 property 6).
func ValidateParts(headers []*Header) error {
	if len(headers) == 0 {
		return invalidf("header list: no headers")
	}
	first := headers[0].fingerprint()
	for _, h := range headers[1:] {
		if !first.equal(h.fingerprint()) {
			return invalidf("headers: shared attributes differ across parts")
		}
	}
	return nil
}
