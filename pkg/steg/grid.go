package steg

import "fmt"

// PixelGrid is a mutable raster of 8-bit channel samples in row-major order.
// An image collaborator produces it from a decoded file and turns it back
// into a file afterwards; the codec only reads and writes samples in place.
//
// Channels is 3 (RGB) or 4 (RGBA). For a 4-channel grid, channel 3 is alpha
// and is never read or written by the codec.
type PixelGrid struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewPixelGrid allocates a zeroed grid with the given dimensions.
func NewPixelGrid(width, height, channels int) *PixelGrid {
	return &PixelGrid{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Validate checks the structural invariants the codec relies on.
// Grids that fail validation never reach the addressing code.
func (g *PixelGrid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrUnsupportedGrid)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrUnsupportedGrid, g.Width, g.Height)
	}
	if g.Channels != 3 && g.Channels != 4 {
		return fmt.Errorf("%w: %d channels (want 3 or 4)", ErrUnsupportedGrid, g.Channels)
	}
	if len(g.Pix) != g.Width*g.Height*g.Channels {
		return fmt.Errorf("%w: %d samples for %dx%dx%d grid",
			ErrUnsupportedGrid, len(g.Pix), g.Width, g.Height, g.Channels)
	}
	return nil
}

// SampleAt returns the sample at (row, col, channel).
func (g *PixelGrid) SampleAt(row, col, channel int) uint8 {
	return g.Pix[g.sampleIndex(row, col, channel)]
}

// SetSample stores a sample at (row, col, channel).
func (g *PixelGrid) SetSample(row, col, channel int, v uint8) {
	g.Pix[g.sampleIndex(row, col, channel)] = v
}

// CapacityBits is the number of embeddable bits: width * height * 6.
// Alpha contributes nothing, so the capacity is the same for 3- and
// 4-channel grids.
func (g *PixelGrid) CapacityBits() int {
	return g.Width * g.Height * BitsPerPixel
}

// CapacityBytes is CapacityBits expressed in whole bytes.
func (g *PixelGrid) CapacityBytes() int {
	return g.CapacityBits() / 8
}

// Clone returns a deep copy of the grid.
func (g *PixelGrid) Clone() *PixelGrid {
	pix := make([]uint8, len(g.Pix))
	copy(pix, g.Pix)
	return &PixelGrid{
		Width:    g.Width,
		Height:   g.Height,
		Channels: g.Channels,
		Pix:      pix,
	}
}

func (g *PixelGrid) sampleIndex(row, col, channel int) int {
	return (row*g.Width+col)*g.Channels + channel
}
