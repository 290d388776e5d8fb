package steg

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Signature is the fixed header prefixed to every embedded payload. It makes
// the bitstream self-describing on read-back: two big-endian 32-bit lengths
// followed by the raw filename bytes.
//
// Binary layout: filename_length u32 BE | payload_length u32 BE | filename
type Signature struct {
	Filename    string
	PayloadSize uint32
}

// NewSignature builds the signature for one embed operation.
func NewSignature(filename string, payloadSize int) (*Signature, error) {
	if uint64(len(filename)) > math.MaxUint32 {
		return nil, fmt.Errorf("filename too long: %d bytes", len(filename))
	}
	if payloadSize < 0 || uint64(payloadSize) > math.MaxUint32 {
		return nil, fmt.Errorf("payload size out of range: %d bytes", payloadSize)
	}
	return &Signature{
		Filename:    filename,
		PayloadSize: uint32(payloadSize),
	}, nil
}

// Size is the serialized signature size in bytes.
func (s *Signature) Size() int {
	return SigBaseBytes + len(s.Filename)
}

// Pack serializes the signature.
func (s *Signature) Pack() []byte {
	buf := make([]byte, s.Size())
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(s.Filename)))
	binary.BigEndian.PutUint32(buf[4:8], s.PayloadSize)
	copy(buf[SigBaseBytes:], s.Filename)
	return buf
}
