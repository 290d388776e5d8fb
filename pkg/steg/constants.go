package steg

// Core format constants that never change.
// The embedded bitstream layout is shared with the original C implementation
// of csteg; changing any of these breaks interoperability with images it
// produced.

const (
	// SigFieldBits is the width of each signature length field
	SigFieldBits = 32

	// SigFieldBytes is the byte width of each signature length field
	SigFieldBytes = SigFieldBits / 8

	// SigBaseBytes is the size of the fixed part of the signature:
	// filename length + payload length
	SigBaseBytes = 2 * SigFieldBytes

	// BitsPerChunk is the number of bits stamped into one channel sample
	BitsPerChunk = 2

	// ChunksPerByte is how many chunks one payload byte occupies
	ChunksPerByte = 8 / BitsPerChunk

	// UsableChannels is the number of channels per pixel that carry data.
	// Alpha, when present, is channel 3 and is never part of the address
	// space.
	UsableChannels = 3

	// BitsPerPixel is the embeddable bits per pixel
	BitsPerPixel = UsableChannels * BitsPerChunk

	// chunkMask selects the two low-order bits of a sample
	chunkMask = 0x03
)
