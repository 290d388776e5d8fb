package logging

import (
	"bytes"
	"io"
)

// PrefixWriter wraps an io.Writer and adds a prefix to each line. Partial
// lines are held back until their newline arrives.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	pending bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements io.Writer. It reports the full input length as consumed;
// buffered tail bytes are flushed on a later call once their line completes.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	rest := p
	for {
		nl := bytes.IndexByte(rest, '\n')
		if nl < 0 {
			pw.pending.Write(rest)
			return len(p), nil
		}

		if _, err := pw.writer.Write(pw.prefix); err != nil {
			return 0, err
		}
		if pw.pending.Len() > 0 {
			if _, err := pw.pending.WriteTo(pw.writer); err != nil {
				return 0, err
			}
			pw.pending.Reset()
		}
		if _, err := pw.writer.Write(rest[:nl+1]); err != nil {
			return 0, err
		}
		rest = rest[nl+1:]
	}
}
