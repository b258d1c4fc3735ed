package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans each write out to all of its writers. Used to send
// logs both to the rotated log file and to stdout.
type CombinedWriter struct {
	Writers []io.Writer
}

var _ io.Writer = (*CombinedWriter)(nil)

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w != nil {
			cw.Writers = append(cw.Writers, w)
		}
	}
	return cw
}

// Write returns the total number of bytes written across all writers,
// together with every writer error combined.
func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		n += written
		err = multierr.Append(err, werr)
	}
	return n, err
}
