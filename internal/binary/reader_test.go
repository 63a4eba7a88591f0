package binary

import (
	"bytes"
	"testing"
)

func TestReaderReadUint8(t *testing.T) {
	data := bytes.NewReader([]byte{0x42, 0xFF, 0x00})
	r := NewReader(data)

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0xFF {
		t.Errorf("expected 0xFF, got 0x%02x", v)
	}
}

func TestReaderLittleEndian(t *testing.T) {
	// 0x0102 stored as [0x02, 0x01], etc.
	data := bytes.NewReader([]byte{
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	})
	r := NewReader(data)

	v16, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v16 != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v16)
	}

	v32, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v32 != 0x01020304 {
		t.Errorf("expected 0x01020304, got 0x%08x", v32)
	}

	v64, err := r.ReadUint64()
	if err != nil {
		t.Fatalf("ReadUint64 failed: %v", err)
	}
	if v64 != 0x0102030405060708 {
		t.Errorf("expected 0x0102030405060708, got 0x%016x", v64)
	}
}

func TestReaderReadInt32Negative(t *testing.T) {
	// -8 as little-endian two's complement
	data := bytes.NewReader([]byte{0xF8, 0xFF, 0xFF, 0xFF})
	r := NewReader(data)

	v, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if v != -8 {
		t.Errorf("expected -8, got %d", v)
	}
}

func TestReaderReadString(t *testing.T) {
	data := bytes.NewReader([]byte{0x05, 0x00, 'h', 'e', 'l', 'l', 'o'})
	r := NewReader(data)

	s, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString failed: %v", err)
	}
	if s != "hello" {
		t.Errorf("expected %q, got %q", "hello", s)
	}
}

func TestReaderAt(t *testing.T) {
	data := bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x42})
	r := NewReader(data)

	v, err := r.At(3).ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	// The original reader's position is unaffected.
	if r.Pos() != 0 {
		t.Errorf("expected position 0, got %d", r.Pos())
	}
}

func TestReaderSkip(t *testing.T) {
	data := bytes.NewReader([]byte{0x00, 0x00, 0x42})
	r := NewReader(data)

	r.Skip(2)
	if r.Pos() != 2 {
		t.Errorf("expected position 2, got %d", r.Pos())
	}

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}
}

func TestReaderPastEnd(t *testing.T) {
	data := bytes.NewReader([]byte{0x01})
	r := NewReader(data)

	if _, err := r.ReadUint32(); err == nil {
		t.Error("expected error reading past end of data")
	}
}
