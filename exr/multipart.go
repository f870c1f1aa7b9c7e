package exr

import (
	"github.com/mrjoshuak/go-openexr/internal/wire"
)

// ReadHeaders reads every part's header. A single-part file has
// exactly one header, itself terminated by the usual empty-name byte.
// A multi-part file (req.HasMultipleParts) is a sequence of headers,
// each self-terminated, followed by one extra empty-name byte that
// terminates the header list (spec §4.3, scenario S4).
func ReadHeaders(r *wire.Reader, req Requirements) ([]*Header, error) {
	if !req.HasMultipleParts {
		h, err := ReadHeader(r, req)
		if err != nil {
			return nil, err
		}
		return []*Header{h}, nil
	}

	var headers []*Header
	for {
		b, err := r.PeekBytes(1)
		if err != nil {
			return nil, ioErr("header list: peek", err)
		}
		if b[0] == 0 {
			if err := r.Skip(1); err != nil {
				return nil, ioErr("header list: terminator", err)
			}
			break
		}
		h, err := ReadHeader(r, req)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}

	if len(headers) == 0 {
		return nil, invalidf("header list: multipart file with zero headers")
	}
	return headers, ValidateParts(headers)
}

// WriteHeaders appends every header in headers, inferring
// req.HasMultipleParts from len(headers) > 1. Each header is
// self-terminated; a multi-part file gets one additional terminator
// byte for the list itself.
func WriteHeaders(w *wire.BufferWriter, headers []*Header) error {
	if len(headers) == 0 {
		return invalidf("header list: no headers to write")
	}
	if len(headers) > 1 {
		if err := ValidateParts(headers); err != nil {
			return err
		}
	}
	for _, h := range headers {
		if err := WriteHeader(w, h); err != nil {
			return err
		}
	}
	if len(headers) > 1 {
		w.WriteCString("")
	}
	return nil
}
