// This file contains tests for the embed and extract paths
package steg

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
)

// fillGrid gives every sample a deterministic non-trivial value so tests can
// detect any byte the codec was not supposed to touch.
func fillGrid(g *PixelGrid, seed int) {
	for i := range g.Pix {
		g.Pix[i] = uint8((i*31 + seed*7 + 5) & 0xff)
	}
}

// TestEmbedExtractRoundTrip tests that extract returns exactly what embed hid
func TestEmbedExtractRoundTrip(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "codec_test",
		Level: hclog.Trace,
	})

	allBytes := make([]byte, 256)
	for i := range allBytes {
		allBytes[i] = uint8(i)
	}

	testCases := []struct {
		name     string
		width    int
		height   int
		channels int
		filename string
		payload  []byte
	}{
		{
			// The worked example: capacity 600 bits, bitstream 120 bits.
			name:     "10x10 rgb a.txt hi",
			width:    10,
			height:   10,
			channels: 3,
			filename: "a.txt",
			payload:  []byte("hi"),
		},
		{
			name:     "rgba grid",
			width:    12,
			height:   7,
			channels: 4,
			filename: "notes.md",
			payload:  []byte("alpha is skipped entirely"),
		},
		{
			name:     "empty payload",
			width:    5,
			height:   5,
			channels: 3,
			filename: "empty.bin",
			payload:  nil,
		},
		{
			name:     "empty filename",
			width:    5,
			height:   5,
			channels: 3,
			filename: "",
			payload:  []byte{0xde, 0xad, 0xbe, 0xef},
		},
		{
			name:     "every byte value",
			width:    20,
			height:   20,
			channels: 4,
			filename: "bytes.bin",
			payload:  allBytes,
		},
		{
			name:     "exact capacity fit",
			width:    10,
			height:   10,
			channels: 3,
			filename: "a.txt", // 8 + 5 + 62 = 75 bytes = 600 bits = capacity
			payload:  bytes.Repeat([]byte{0xa5}, 62),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info("🧪 Testing round trip",
				"test", tc.name,
				"grid", fmt.Sprintf("%dx%dx%d", tc.width, tc.height, tc.channels),
				"payload_bytes", len(tc.payload),
			)

			grid := NewPixelGrid(tc.width, tc.height, tc.channels)
			fillGrid(grid, 1)

			codec := NewCodecWithLogger(logger)
			if err := codec.Embed(grid, tc.filename, tc.payload); err != nil {
				t.Fatalf("Embed: %v", err)
			}

			filename, payload, err := codec.Extract(grid)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if filename != tc.filename {
				t.Errorf("filename = %q, want %q", filename, tc.filename)
			}
			if !bytes.Equal(payload, tc.payload) {
				t.Errorf("payload = %x, want %x", payload, tc.payload)
			}

			logger.Info("✅ Test passed", "test", tc.name)
		})
	}
}

// TestCapacityBoundary tests the overflow check at its exact edge
func TestCapacityBoundary(t *testing.T) {
	// 10x10 grid: capacity 600 bits = 75 bytes, signature overhead
	// 8 + len("a.txt") = 13 bytes.
	testCases := []struct {
		name          string
		payloadBytes  int
		wantErr       bool
		wantRequired  int
		wantAvailable int
	}{
		{name: "exactly full", payloadBytes: 62},
		{name: "one byte over", payloadBytes: 63, wantErr: true, wantRequired: 76, wantAvailable: 75},
		// Second worked example: 8 + 5 + 70 = 83 bytes vs 75.
		{name: "well over", payloadBytes: 70, wantErr: true, wantRequired: 83, wantAvailable: 75},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			grid := NewPixelGrid(10, 10, 3)
			fillGrid(grid, 2)
			before := grid.Clone()

			payload := bytes.Repeat([]byte{0x5a}, tc.payloadBytes)
			err := Embed(grid, "a.txt", payload)

			if !tc.wantErr {
				if err != nil {
					t.Fatalf("Embed: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrCapacityExceeded) {
				t.Fatalf("Embed error = %v, want ErrCapacityExceeded", err)
			}
			var capErr *CapacityError
			if !errors.As(err, &capErr) {
				t.Fatalf("Embed error %T does not unwrap to *CapacityError", err)
			}
			if capErr.RequiredBytes != tc.wantRequired || capErr.AvailableBytes != tc.wantAvailable {
				t.Errorf("reported %d/%d bytes, want %d/%d",
					capErr.RequiredBytes, capErr.AvailableBytes, tc.wantRequired, tc.wantAvailable)
			}
			if !bytes.Equal(grid.Pix, before.Pix) {
				t.Error("grid was mutated by a failed embed")
			}
		})
	}
}

// TestEmbedPreservation tests which bits of the grid an embed may touch:
// the low 2 bits of addressed samples and nothing else.
func TestEmbedPreservation(t *testing.T) {
	for _, channels := range []int{3, 4} {
		t.Run(fmt.Sprintf("%d channels", channels), func(t *testing.T) {
			grid := NewPixelGrid(9, 6, channels)
			fillGrid(grid, 3)
			before := grid.Clone()

			filename := "p.bin"
			payload := bytes.Repeat([]byte{0xff}, 10)
			if err := Embed(grid, filename, payload); err != nil {
				t.Fatalf("Embed: %v", err)
			}

			usedSlots := (SigBaseBytes + len(filename) + len(payload)) * ChunksPerByte
			touched := make(map[int]bool, usedSlots)
			for slot := 0; slot < usedSlots; slot++ {
				row, col, channel := Locate(slot, grid.Width)
				touched[(row*grid.Width+col)*channels+channel] = true
			}

			for i := range grid.Pix {
				if touched[i] {
					if grid.Pix[i]>>2 != before.Pix[i]>>2 {
						t.Fatalf("sample %d: high bits changed %02x -> %02x", i, before.Pix[i], grid.Pix[i])
					}
					continue
				}
				// Alpha samples and the tail past the bitstream must be
				// bit-identical.
				if grid.Pix[i] != before.Pix[i] {
					t.Fatalf("untouched sample %d changed %02x -> %02x", i, before.Pix[i], grid.Pix[i])
				}
			}
		})
	}
}

// TestEmbedWireFormat pins exact chunk placement. For a 3-channel grid, slot
// n lands on Pix[n], so the expected samples can be written out by hand.
func TestEmbedWireFormat(t *testing.T) {
	grid := NewPixelGrid(10, 10, 3)

	// Signature for filename "A", no payload:
	// 00 00 00 01 | 00 00 00 00 | 0x41
	if err := Embed(grid, "A", nil); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	want := make([]uint8, len(grid.Pix))
	want[15] = 0x01 // low pair of filename length
	want[32] = 0x01 // 0x41 = 01 00 00 01 as chunks
	want[35] = 0x01

	if !bytes.Equal(grid.Pix, want) {
		for i := range want {
			if grid.Pix[i] != want[i] {
				t.Errorf("Pix[%d] = %#02x, want %#02x", i, grid.Pix[i], want[i])
			}
		}
	}
}

// TestExtractTruncated tests rejection of signatures that overrun the grid
func TestExtractTruncated(t *testing.T) {
	t.Run("grid smaller than header", func(t *testing.T) {
		// Valid grids whose capacity is below the 64-bit signature
		// header. Extract must fail cleanly, not run off the samples.
		for _, grid := range []*PixelGrid{
			NewPixelGrid(1, 1, 3),
			NewPixelGrid(3, 3, 3), // 54-bit capacity
			NewPixelGrid(2, 5, 4), // 60-bit capacity
		} {
			fillGrid(grid, 4)
			_, _, err := Extract(grid)
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("Extract(%dx%dx%d) error = %v, want ErrTruncated",
					grid.Width, grid.Height, grid.Channels, err)
			}
		}
	})

	t.Run("random noise", func(t *testing.T) {
		grid := NewPixelGrid(10, 10, 3)
		for i := range grid.Pix {
			grid.Pix[i] = 0xff // every chunk reads 0b11
		}
		_, _, err := Extract(grid)
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("Extract error = %v, want ErrTruncated", err)
		}
	})

	t.Run("length just past capacity", func(t *testing.T) {
		// Header claiming 0 filename bytes and 68 payload bytes:
		// 8 + 68 = 76 bytes > 75-byte capacity.
		grid := NewPixelGrid(10, 10, 3)
		sig, err := NewSignature("", 68)
		if err != nil {
			t.Fatalf("NewSignature: %v", err)
		}
		w := chunkWriter{grid: grid}
		w.write(sig.Pack())

		_, _, err = Extract(grid)
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("Extract error = %v, want ErrTruncated", err)
		}
	})

	t.Run("length exactly at capacity is readable", func(t *testing.T) {
		grid := NewPixelGrid(10, 10, 3)
		sig, err := NewSignature("", 67)
		if err != nil {
			t.Fatalf("NewSignature: %v", err)
		}
		w := chunkWriter{grid: grid}
		w.write(sig.Pack())

		_, payload, err := Extract(grid)
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if len(payload) != 67 {
			t.Errorf("payload length = %d, want 67", len(payload))
		}
	})
}

// TestGridValidation tests that malformed grids are rejected by both paths
func TestGridValidation(t *testing.T) {
	testCases := []struct {
		name string
		grid *PixelGrid
	}{
		{name: "two channels", grid: NewPixelGrid(4, 4, 2)},
		{name: "five channels", grid: NewPixelGrid(4, 4, 5)},
		{name: "zero width", grid: NewPixelGrid(0, 4, 3)},
		{name: "pix length mismatch", grid: &PixelGrid{Width: 4, Height: 4, Channels: 3, Pix: make([]uint8, 10)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Embed(tc.grid, "x", []byte{1}); !errors.Is(err, ErrUnsupportedGrid) {
				t.Errorf("Embed error = %v, want ErrUnsupportedGrid", err)
			}
			if _, _, err := Extract(tc.grid); !errors.Is(err, ErrUnsupportedGrid) {
				t.Errorf("Extract error = %v, want ErrUnsupportedGrid", err)
			}
		})
	}
}
