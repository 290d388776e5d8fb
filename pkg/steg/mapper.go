package steg

// Locate maps a 2-bit slot index onto a (row, col, channel) address inside a
// grid of the given width. Slot n is the n-th chunk of the bitstream; each
// slot lands on exactly one usable channel, alpha excluded from the address
// space entirely.
//
// Because a byte spans 4 consecutive slots but a pixel offers only 3 usable
// channels, bytes routinely straddle pixel boundaries. That is part of the
// wire format: an implementation that aligns bytes to pixels produces
// incompatible images.
//
// Locate is total over any non-negative slot; bounds checking against the
// grid capacity is the caller's job.
func Locate(slot, width int) (row, col, channel int) {
	pixel := slot / UsableChannels
	channel = slot % UsableChannels
	row = pixel / width
	col = pixel % width
	return
}
