package steg

import (
	"errors"
	"fmt"
)

var (
	// Capacity errors 📦
	ErrCapacityExceeded = errors.New("❌ payload does not fit in image")

	// Extraction errors 📂
	ErrTruncated = errors.New("❌ embedded data is truncated or corrupt")

	// Grid errors 🖼️
	ErrUnsupportedGrid = errors.New("❌ unsupported pixel grid")
)

// CapacityError reports an embed attempt that would overflow the grid.
// It wraps ErrCapacityExceeded so callers can match with errors.Is.
type CapacityError struct {
	// RequiredBytes is the full size of the bitstream: signature plus payload
	RequiredBytes int
	// AvailableBytes is the grid capacity
	AvailableBytes int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: %d bytes required / %d bytes free",
		ErrCapacityExceeded, e.RequiredBytes, e.AvailableBytes)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
