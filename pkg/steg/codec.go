// Package steg embeds a file, framed by a self-describing signature, into
// the two least-significant bits of an image's color channels, and recovers
// it exactly. The image container itself is somebody else's problem: the
// codec consumes and produces a PixelGrid.
package steg

import (
	"encoding/binary"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Codec performs embed and extract operations against pixel grids.
type Codec struct {
	logger hclog.Logger
}

// NewCodec creates a codec with no logging.
func NewCodec() *Codec {
	return NewCodecWithLogger(hclog.NewNullLogger())
}

// NewCodecWithLogger creates a codec with a custom logger.
func NewCodecWithLogger(logger hclog.Logger) *Codec {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Codec{logger: logger}
}

// Embed stamps filename and payload into the grid in place. The capacity
// check runs before the first write, so on any error the grid is untouched.
func (c *Codec) Embed(grid *PixelGrid, filename string, payload []byte) error {
	if err := grid.Validate(); err != nil {
		return err
	}

	sig, err := NewSignature(filename, len(payload))
	if err != nil {
		return err
	}
	sigBytes := sig.Pack()

	requiredBits := (len(sigBytes) + len(payload)) * 8
	capacityBits := grid.CapacityBits()

	c.logger.Debug("📦 Embedding payload",
		"filename", filename,
		"payload_bytes", len(payload),
		"signature_bytes", len(sigBytes),
		"required_bits", requiredBits,
		"capacity_bits", capacityBits,
	)

	if requiredBits > capacityBits {
		c.logger.Error("❌ Payload too large for grid",
			"required_bytes", requiredBits/8,
			"available_bytes", capacityBits/8,
		)
		return &CapacityError{
			RequiredBytes:  requiredBits / 8,
			AvailableBytes: capacityBits / 8,
		}
	}

	w := chunkWriter{grid: grid}
	w.write(sigBytes)
	w.write(payload)

	c.logger.Debug("✅ Embedded payload", "slots_used", w.slot)
	return nil
}

// Extract recovers the filename and payload embedded in the grid. It fails
// with ErrTruncated when the decoded signature lengths do not fit the grid,
// which is what reading an image that never went through Embed looks like.
func (c *Codec) Extract(grid *PixelGrid) (string, []byte, error) {
	if err := grid.Validate(); err != nil {
		return "", nil, err
	}

	// A grid too small to hold the two length fields cannot contain a
	// signature at all; reading the header would run off the end of it.
	if grid.CapacityBits() < 2*SigFieldBits {
		c.logger.Error("❌ Grid cannot hold a signature header",
			"capacity_bits", grid.CapacityBits(),
			"header_bits", 2*SigFieldBits,
		)
		return "", nil, fmt.Errorf("%w: %d-bit grid cannot hold a %d-bit signature header",
			ErrTruncated, grid.CapacityBits(), 2*SigFieldBits)
	}

	r := chunkReader{grid: grid}
	filenameLen := binary.BigEndian.Uint32(r.read(SigFieldBytes))
	payloadLen := binary.BigEndian.Uint32(r.read(SigFieldBytes))

	c.logger.Debug("📂 Decoded signature",
		"filename_bytes", filenameLen,
		"payload_bytes", payloadLen,
	)

	// Lengths are attacker-controlled as far as the codec is concerned;
	// sum in 64 bits so a huge pair cannot wrap the bounds check.
	bodyBits := (uint64(filenameLen) + uint64(payloadLen)) * 8
	headerBits := uint64(2 * SigFieldBits)
	if headerBits+bodyBits > uint64(grid.CapacityBits()) {
		c.logger.Error("❌ Signature lengths exceed grid capacity",
			"filename_bytes", filenameLen,
			"payload_bytes", payloadLen,
			"capacity_bytes", grid.CapacityBytes(),
		)
		return "", nil, fmt.Errorf("%w: header claims %d bytes, capacity is %d bytes",
			ErrTruncated, uint64(filenameLen)+uint64(payloadLen)+SigBaseBytes, grid.CapacityBytes())
	}

	filename := string(r.read(int(filenameLen)))
	payload := r.read(int(payloadLen))

	c.logger.Debug("✅ Extracted payload",
		"filename", filename,
		"payload_bytes", len(payload),
	)
	return filename, payload, nil
}

// Embed is a convenience wrapper around a silent Codec.
func Embed(grid *PixelGrid, filename string, payload []byte) error {
	return NewCodec().Embed(grid, filename, payload)
}

// Extract is a convenience wrapper around a silent Codec.
func Extract(grid *PixelGrid) (string, []byte, error) {
	return NewCodec().Extract(grid)
}
