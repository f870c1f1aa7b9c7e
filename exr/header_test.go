package exr

import (
	"testing"

	"github.com/mrjoshuak/go-openexr/internal/wire"
)

func minimalHeader() *Header {
	return &Header{
		Channels:      ChannelList{{Name: "Y", SampleType: SampleHalf, XSampling: 1, YSampling: 1}},
		Compression:   CompressionNone,
		DataWindow:    BoundsFromMinMax(V2i{0, 0}, V2i{15, 15}),
		DisplayWindow: BoundsFromMinMax(V2i{0, 0}, V2i{15, 15}),
		LineOrder:     LineOrderIncreasing,
	}
}

func TestMagicAndRequirementsRoundTrip(t *testing.T) {
	tests := []Requirements{
		{Version: 1},
		{Version: 1, IsSingleTile: true},
		{Version: 2, HasDeepData: true},
		{Version: 2, HasMultipleParts: true, HasLongNames: true},
	}
	for _, req := range tests {
		w := wire.NewBufferWriter(16)
		WriteMagicAndRequirements(w, req)

		r := wire.NewReader(w.Bytes())
		got, err := ReadMagicAndRequirements(r)
		if err != nil {
			t.Fatalf("ReadMagicAndRequirements(%+v) error: %v", req, err)
		}
		if got != req {
			t.Errorf("round-trip: got %+v, want %+v", got, req)
		}
	}
}

func TestReadMagicRejectsWrongBytes(t *testing.T) {
	garbage := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	r := wire.NewReader(garbage)
	if _, err := ReadMagicAndRequirements(r); err == nil {
		t.Error("expected error for non-EXR magic bytes")
	}
}

func TestDecodeRequirementsRejectsUnknownBits(t *testing.T) {
	w := wire.NewBufferWriter(16)
	w.WriteBytes(magicBytes[:])
	w.WriteUint32(1 | (1 << 20))
	r := wire.NewReader(w.Bytes())
	if _, err := ReadMagicAndRequirements(r); err == nil {
		t.Error("expected error for unknown requirement flag bits")
	}
}

func TestDecodeRequirementsRejectsSingleTileWithMultipart(t *testing.T) {
	w := wire.NewBufferWriter(16)
	w.WriteBytes(magicBytes[:])
	w.WriteUint32(2 | reqTileBit | reqMultiPartBit)
	r := wire.NewReader(w.Bytes())
	if _, err := ReadMagicAndRequirements(r); err == nil {
		t.Error("expected error for single-tile combined with multipart")
	}
}

func TestHeaderValidateAcceptsMinimal(t *testing.T) {
	h := minimalHeader()
	if err := h.Validate(true); err != nil {
		t.Errorf("expected minimal header to validate, got %v", err)
	}
}

func TestHeaderValidateRejectsEmptyChannels(t *testing.T) {
	h := minimalHeader()
	h.Channels = nil
	if err := h.Validate(true); err == nil {
		t.Error("expected error for empty channel list")
	}
}

func TestHeaderValidateRejectsUnsortedChannels(t *testing.T) {
	h := minimalHeader()
	h.Channels = ChannelList{
		{Name: "R", XSampling: 1, YSampling: 1},
		{Name: "A", XSampling: 1, YSampling: 1},
	}
	if err := h.Validate(true); err == nil {
		t.Error("expected error for unsorted channel list")
	}
}

func TestHeaderValidateRejectsDeepWithUnsupportedCompression(t *testing.T) {
	h := minimalHeader()
	h.Type = BlockDeepScanLine
	h.Compression = CompressionPIZ
	if err := h.Validate(true); err == nil {
		t.Error("expected error for deep part with compression that does not support deep data")
	}
}

func TestHeaderValidateRejectsSubsamplingWithTiled(t *testing.T) {
	h := minimalHeader()
	h.Tiles = &TileDescription{XSize: 32, YSize: 32}
	h.Channels = ChannelList{{Name: "Y", XSampling: 2, YSampling: 1}}
	if err := h.Validate(true); err == nil {
		t.Error("expected error for subsampled channel in tiled part")
	}
}

func TestHeaderValidateRejectsDataWindowNotDivisible(t *testing.T) {
	h := minimalHeader()
	h.DataWindow = BoundsFromMinMax(V2i{0, 0}, V2i{14, 15})
	h.Channels = ChannelList{{Name: "Y", XSampling: 2, YSampling: 1}}
	if err := h.Validate(true); err == nil {
		t.Error("expected error for data window not divisible by sampling factor")
	}
}

func TestHeaderIsTiledIsDeep(t *testing.T) {
	h := minimalHeader()
	if h.IsTiled() || h.IsDeep() {
		t.Error("minimal header should be neither tiled nor deep")
	}
	h.Tiles = &TileDescription{XSize: 64, YSize: 64}
	if !h.IsTiled() {
		t.Error("expected header with Tiles set to be tiled")
	}
	h.Type = BlockDeepTile
	if !h.IsDeep() {
		t.Error("expected BlockDeepTile header to be deep")
	}
}

func TestHeaderGetSet(t *testing.T) {
	h := minimalHeader()
	h.Set("owner", Attribute{Value: "studio"})
	a, ok := h.Get("owner")
	if !ok {
		t.Fatal("expected owner attribute to be present")
	}
	if a.Name != "owner" || a.Value != "studio" {
		t.Errorf("got %+v", a)
	}
	if _, ok := h.Get("missing"); ok {
		t.Error("expected missing attribute to be absent")
	}
}

func TestValidatePartsRejectsMismatchedDisplayWindow(t *testing.T) {
	a := minimalHeader()
	a.Name = "left"
	b := minimalHeader()
	b.Name = "right"
	b.DisplayWindow = BoundsFromMinMax(V2i{0, 0}, V2i{31, 31})

	if err := ValidateParts([]*Header{a, b}); err == nil {
		t.Error("expected error for mismatched display windows across parts")
	}
}

func TestValidatePartsAcceptsConsistentParts(t *testing.T) {
	a := minimalHeader()
	a.Name = "left"
	b := minimalHeader()
	b.Name = "right"

	if err := ValidateParts([]*Header{a, b}); err != nil {
		t.Errorf("expected consistent parts to validate, got %v", err)
	}
}

func TestValidatePartsRejectsEmptyList(t *testing.T) {
	if err := ValidateParts(nil); err == nil {
		t.Error("expected error for empty header list")
	}
}
