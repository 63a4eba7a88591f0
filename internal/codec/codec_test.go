package codec

import (
	"bytes"
	"math"
	"testing"
)

// samplePayload builds a payload resembling real leaf data: long runs of
// float32 values with shared high bytes, so the codecs have something to
// compress.
func samplePayload(n int) []byte {
	data := make([]byte, n)
	for i := 0; i+4 <= n; i += 4 {
		bits := math.Float32bits(float32(i) * 0.001)
		data[i] = byte(bits)
		data[i+1] = byte(bits >> 8)
		data[i+2] = byte(bits >> 16)
		data[i+3] = byte(bits >> 24)
	}
	return data
}

func TestCodecRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":       {},
		"tiny":        {0x01, 0x02, 0x03},
		"compressible": samplePayload(4096),
		"incompressible": func() []byte {
			data := make([]byte, 1024)
			state := uint32(0x9E3779B9)
			for i := range data {
				state = state*1664525 + 1013904223
				data[i] = byte(state >> 24)
			}
			return data
		}(),
	}

	for _, id := range []ID{None, Zip, Blosc} {
		for name, payload := range payloads {
			t.Run(id.String()+"/"+name, func(t *testing.T) {
				c, err := New(id)
				if err != nil {
					t.Fatalf("New(%v) failed: %v", id, err)
				}

				stored, err := c.Encode(payload)
				if err != nil {
					t.Fatalf("Encode failed: %v", err)
				}
				decoded, err := c.Decode(stored, len(payload))
				if err != nil {
					t.Fatalf("Decode failed: %v", err)
				}
				if !bytes.Equal(decoded, payload) {
					t.Errorf("round trip mismatch: got %d bytes, want %d", len(decoded), len(payload))
				}
			})
		}
	}
}

func TestCodecCompresses(t *testing.T) {
	payload := samplePayload(16384)

	for _, id := range []ID{Zip, Blosc} {
		t.Run(id.String(), func(t *testing.T) {
			c, err := New(id)
			if err != nil {
				t.Fatalf("New(%v) failed: %v", id, err)
			}
			stored, err := c.Encode(payload)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if len(stored) >= len(payload) {
				t.Errorf("%s did not compress: %d -> %d bytes", id, len(payload), len(stored))
			}
		})
	}
}

func TestUnknownCodecID(t *testing.T) {
	if _, err := New(ID(99)); err == nil {
		t.Error("expected error for unknown codec ID")
	}
}

func TestIdentitySizeMismatch(t *testing.T) {
	c, err := New(None)
	if err != nil {
		t.Fatalf("New(None) failed: %v", err)
	}
	if _, err := c.Decode([]byte{1, 2, 3}, 4); err == nil {
		t.Error("expected error for stored/raw size mismatch")
	}
}

func TestShuffleInverse(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"shorter than element", []byte{1, 2, 3}},
		{"exact multiple", []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"with tail", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := unshuffle(shuffle(tt.input))
			if !bytes.Equal(out, tt.input) {
				t.Errorf("unshuffle(shuffle(x)) != x: got % x, want % x", out, tt.input)
			}
		})
	}
}

func TestShuffleGroupsBytes(t *testing.T) {
	input := []byte{0xA0, 0xA1, 0xA2, 0xA3, 0xB0, 0xB1, 0xB2, 0xB3}
	want := []byte{0xA0, 0xB0, 0xA1, 0xB1, 0xA2, 0xB2, 0xA3, 0xB3}

	got := shuffle(input)
	if !bytes.Equal(got, want) {
		t.Errorf("shuffle: got % x, want % x", got, want)
	}
}
