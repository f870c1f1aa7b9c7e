package exr

import (
	"sort"

	"github.com/mrjoshuak/go-openexr/internal/wire"
)

// Channel describes one named image channel: its sample storage type,
// the hint to quantize linearly rather than perceptually when a lossy
// codec needs to throw bits away, and its subsampling factors relative
// to the part's full-resolution grid.
type Channel struct {
	Name             string
	SampleType       SampleType
	QuantizeLinearly bool
	XSampling        int
	YSampling        int
}

// ChannelList is a header's chlist attribute value: the set of channels
// in a part, always stored and serialized in ascending name order.
type ChannelList []Channel

// Len implements sort.Interface.
func (cl ChannelList) Len() int { return len(cl) }

// Less implements sort.Interface.
func (cl ChannelList) Less(i, j int) bool { return cl[i].Name < cl[j].Name }

// Swap implements sort.Interface.
func (cl ChannelList) Swap(i, j int) { cl[i], cl[j] = cl[j], cl[i] }

// Sort reorders cl into the ascending-name order the wire format
// requires.
func (cl ChannelList) Sort() { sort.Sort(cl) }

// Find returns the channel named name and true, or a zero Channel and
// false if no such channel exists.
func (cl ChannelList) Find(name string) (Channel, bool) {
	for _, c := range cl {
		if c.Name == name {
			return c, true
		}
	}
	return Channel{}, false
}

// Validate checks the structural rules a channel list must satisfy
// before it can be serialized: every channel has a non-empty name and
// positive sampling factors, and (in strict mode) no two channels
// share a name. Files with duplicate channel names do exist in the
// wild; ReadHeader validates with strict=false, so such a list is
// accepted and every duplicate entry is kept as read.
func (cl ChannelList) Validate(strict bool) error {
	seen := make(map[string]bool, len(cl))
	for _, c := range cl {
		if c.Name == "" {
			return invalidf("channel list: empty channel name")
		}
		if c.XSampling <= 0 || c.YSampling <= 0 {
			return invalidf("channel %q: sampling factors must be positive", c.Name)
		}
		if strict && seen[c.Name] {
			return invalidf("channel list: duplicate channel name %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// ReadChannelList parses a chlist attribute value: a sequence of
// per-channel records terminated by an empty name, per the wire
// layout name\0 pixelType(i32) pLinear(u8) reserved[3] xSampling(i32)
// ySampling(i32).
func ReadChannelList(r *wire.Reader) (ChannelList, error) {
	var list ChannelList
	for {
		name, err := r.ReadCString()
		if err != nil {
			return nil, ioErr("channel list: name", err)
		}
		if name == "" {
			return list, nil
		}
		pixelType, err := r.ReadInt32()
		if err != nil {
			return nil, ioErr("channel list: pixel type", err)
		}
		pLinear, err := r.ReadUint8()
		if err != nil {
			return nil, ioErr("channel list: pLinear", err)
		}
		if err := r.Skip(3); err != nil {
			return nil, ioErr("channel list: reserved", err)
		}
		xSampling, err := r.ReadInt32()
		if err != nil {
			return nil, ioErr("channel list: xSampling", err)
		}
		ySampling, err := r.ReadInt32()
		if err != nil {
			return nil, ioErr("channel list: ySampling", err)
		}
		if pixelType < 0 || pixelType > 2 {
			return nil, invalidf("channel %q: unknown pixel type %d", name, pixelType)
		}
		list = append(list, Channel{
			Name:             name,
			SampleType:       SampleType(pixelType),
			QuantizeLinearly: pLinear != 0,
			XSampling:        int(xSampling),
			YSampling:        int(ySampling),
		})
	}
}

// WriteChannelList appends cl's wire encoding to w, including the
// empty-name terminator. cl must already be sorted (ChannelList.Sort).
func WriteChannelList(w *wire.BufferWriter, cl ChannelList) {
	for _, c := range cl {
		w.WriteCString(c.Name)
		w.WriteInt32(int32(c.SampleType))
		if c.QuantizeLinearly {
			w.WriteUint8(1)
		} else {
			w.WriteUint8(0)
		}
		w.WriteBytes([]byte{0, 0, 0})
		w.WriteInt32(int32(c.XSampling))
		w.WriteInt32(int32(c.YSampling))
	}
	w.WriteCString("")
}
