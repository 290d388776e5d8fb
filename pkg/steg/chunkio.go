package steg

// chunkWriter stamps a bitstream into a grid, one 2-bit chunk per usable
// channel sample, walking the address space with Locate. Only the two
// low-order bits of a touched sample change; the top six are preserved.
type chunkWriter struct {
	grid *PixelGrid
	slot int
}

func (w *chunkWriter) writeByte(b uint8) {
	// Most-significant pair first: bits 7-6, 5-4, 3-2, 1-0.
	for shift := 8 - BitsPerChunk; shift >= 0; shift -= BitsPerChunk {
		chunk := (b >> shift) & chunkMask
		row, col, channel := Locate(w.slot, w.grid.Width)
		i := w.grid.sampleIndex(row, col, channel)
		w.grid.Pix[i] = (w.grid.Pix[i] &^ chunkMask) | chunk
		w.slot++
	}
}

func (w *chunkWriter) write(p []byte) {
	for _, b := range p {
		w.writeByte(b)
	}
}

// chunkReader is the mirror of chunkWriter: it reassembles bytes from
// consecutive 2-bit chunks. The same routine recovers signature fields,
// filename bytes and payload bytes; the chunk order makes a big-endian
// multi-byte field come back bit-for-bit.
type chunkReader struct {
	grid *PixelGrid
	slot int
}

func (r *chunkReader) readByte() uint8 {
	var b uint8
	for shift := 8 - BitsPerChunk; shift >= 0; shift -= BitsPerChunk {
		row, col, channel := Locate(r.slot, r.grid.Width)
		b |= (r.grid.SampleAt(row, col, channel) & chunkMask) << shift
		r.slot++
	}
	return b
}

func (r *chunkReader) read(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = r.readByte()
	}
	return p
}
