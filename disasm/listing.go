package disasm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/sim8086/config"
)

// annotationColumn is where trailing offset/byte comments start.
const annotationColumn = 28

type listingWriter struct {
	w      *bufio.Writer
	config *config.Config
}

func newListingWriter(w io.Writer, c *config.Config) *listingWriter {
	return &listingWriter{w: bufio.NewWriter(w), config: c}
}

func (lw *listingWriter) header() {
	if lw.config.Header {
		_, _ = lw.w.WriteString("bits 16\n\n")
	}
}

func (lw *listingWriter) comment(text string) {
	_, _ = fmt.Fprintf(lw.w, "; %s\n", text)
}

func (lw *listingWriter) line(l Line) {
	_, _ = lw.w.WriteString(FormatLine(l, lw.config))
	_ = lw.w.WriteByte('\n')
}

func (lw *listingWriter) fail(err error) {
	lw.comment("error: " + err.Error())
}

func (lw *listingWriter) flush() error {
	return lw.w.Flush()
}

// FormatLine renders a listing line. Offsets and bytes, when enabled, go
// into a trailing comment so the listing still assembles.
func FormatLine(l Line, c *config.Config) string {
	if !c.ShowOffsets && !c.ShowBytes {
		return l.Text
	}

	var sb strings.Builder
	sb.WriteString(l.Text)
	sb.WriteByte(' ')
	for sb.Len() < annotationColumn {
		sb.WriteByte(' ')
	}
	sb.WriteByte(';')

	if c.ShowOffsets {
		fmt.Fprintf(&sb, " %04x", l.Offset)
		if c.ShowBytes {
			sb.WriteByte(':')
		}
	}
	if c.ShowBytes {
		fmt.Fprintf(&sb, " % x", l.Bytes)
	}

	return sb.String()
}

// WriteListing disassembles code and writes it to w, one instruction per
// line. A decode error is written as a final "; error:" line and
// returned.
func (d *Disassembler) WriteListing(w io.Writer, code []byte) error {
	lw := newListingWriter(w, d.config)
	lw.header()

	count := 0
	for line, err := range d.Lines(code) {
		if err != nil {
			d.logger.Error(err, "decoding stopped", "offset", line.Offset)
			lw.fail(err)
			if ferr := lw.flush(); ferr != nil {
				return fmt.Errorf("failed to write listing: %w", ferr)
			}
			return err
		}

		lw.line(line)
		count++
	}

	d.logger.V(1).Info("disassembled", "instructions", count, "bytes", len(code))

	if err := lw.flush(); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return nil
}

// WriteResult writes the listing of an already disassembled program,
// headed by its name when named is true.
func (d *Disassembler) WriteResult(w io.Writer, res Result, named bool) error {
	lw := newListingWriter(w, d.config)
	if named {
		lw.comment(res.Program.Name)
	}
	lw.header()

	for _, line := range res.Lines {
		lw.line(line)
	}
	if res.Err != nil {
		lw.fail(res.Err)
	}

	if err := lw.flush(); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return res.Err
}
