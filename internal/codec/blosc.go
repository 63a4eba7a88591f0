package codec

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Stored-form marker byte for the blosc codec.
const (
	bloscRaw        = 0 // payload stored verbatim
	bloscCompressed = 1 // payload is an LZ4 block
)

// bloscCodec implements blosc-style LZ4 block compression. The stored
// form is a one-byte marker followed by either the raw payload or an
// LZ4 block, so incompressible payloads never grow past rawSize+1.
type bloscCodec struct {
	compressor lz4.Compressor
}

func newBlosc() *bloscCodec {
	return &bloscCodec{}
}

func (c *bloscCodec) ID() ID {
	return Blosc
}

func (c *bloscCodec) Encode(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return []byte{bloscRaw}, nil
	}

	dst := make([]byte, 1+lz4.CompressBlockBound(len(raw)))
	n, err := c.compressor.CompressBlock(raw, dst[1:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 || n >= len(raw) {
		// Incompressible; store verbatim.
		out := make([]byte, 1+len(raw))
		out[0] = bloscRaw
		copy(out[1:], raw)
		return out, nil
	}
	dst[0] = bloscCompressed
	return dst[:1+n], nil
}

func (c *bloscCodec) Decode(stored []byte, rawSize int) ([]byte, error) {
	if len(stored) == 0 {
		return nil, fmt.Errorf("blosc codec: empty stored payload")
	}
	marker, block := stored[0], stored[1:]

	switch marker {
	case bloscRaw:
		if len(block) != rawSize {
			return nil, fmt.Errorf("blosc codec: raw payload is %d bytes, expected %d", len(block), rawSize)
		}
		out := make([]byte, rawSize)
		copy(out, block)
		return out, nil
	case bloscCompressed:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(block, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != rawSize {
			return nil, fmt.Errorf("blosc codec: decompressed %d bytes, expected %d", n, rawSize)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("blosc codec: unknown payload marker %d", marker)
	}
}
