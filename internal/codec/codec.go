// Package codec implements the compression codecs applied to grid
// payloads in the compact container format.
//
// A codec transforms a raw payload into its stored form on encode and
// back on decode. The codec identifier is recorded in the segment
// header, so a reader always knows which decoder to apply.
//
// # Supported codecs
//
//   - None (ID 0): payload stored verbatim.
//
//   - Zip (ID 1): byte shuffle followed by zlib compression. Shuffling
//     groups the bytes of each 32-bit word together (all low bytes, then
//     all second bytes, etc.), which helps zlib on voxel data where
//     neighboring values share high bytes.
//
//   - Blosc (ID 2): LZ4 block compression. Faster than Zip with a lower
//     compression ratio.
package codec

import (
	"fmt"
)

// ID identifies a codec in segment headers.
type ID uint8

// Codec identifiers. The values are part of the on-disk format.
const (
	None  ID = 0
	Zip   ID = 1
	Blosc ID = 2
)

// String returns the codec name as used on the command line.
func (id ID) String() string {
	switch id {
	case None:
		return "none"
	case Zip:
		return "zip"
	case Blosc:
		return "blosc"
	default:
		return fmt.Sprintf("codec(%d)", uint8(id))
	}
}

// Codec is the interface implemented by all payload codecs.
type Codec interface {
	// ID returns the codec identifier.
	ID() ID

	// Encode transforms a raw payload into its stored form.
	Encode(raw []byte) ([]byte, error)

	// Decode transforms a stored payload back to its raw form.
	// rawSize is the expected decoded size from the segment header.
	Decode(stored []byte, rawSize int) ([]byte, error)
}

// registry maps codec IDs to constructors.
var registry = map[ID]func() Codec{
	None:  func() Codec { return identity{} },
	Zip:   func() Codec { return newZip() },
	Blosc: func() Codec { return newBlosc() },
}

// New creates the codec for the given identifier.
func New(id ID) (Codec, error) {
	constructor, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unsupported codec ID: %d", uint8(id))
	}
	return constructor(), nil
}

// identity is the no-op codec.
type identity struct{}

func (identity) ID() ID {
	return None
}

func (identity) Encode(raw []byte) ([]byte, error) {
	return raw, nil
}

func (identity) Decode(stored []byte, rawSize int) ([]byte, error) {
	if len(stored) != rawSize {
		return nil, fmt.Errorf("identity codec: stored size %d does not match raw size %d", len(stored), rawSize)
	}
	return stored, nil
}
