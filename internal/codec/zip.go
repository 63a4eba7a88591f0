package codec

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// zipCodec implements the zip codec: byte shuffle followed by zlib.
type zipCodec struct {
	level int
}

func newZip() *zipCodec {
	return &zipCodec{level: zlib.DefaultCompression}
}

func (c *zipCodec) ID() ID {
	return Zip
}

func (c *zipCodec) Encode(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := zw.Write(shuffle(raw)); err != nil {
		zw.Close()
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib close: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *zipCodec) Decode(stored []byte, rawSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(stored))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer zr.Close()

	shuffled, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	if len(shuffled) != rawSize {
		return nil, fmt.Errorf("zip codec: decompressed %d bytes, expected %d", len(shuffled), rawSize)
	}
	return unshuffle(shuffled), nil
}
