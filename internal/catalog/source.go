package catalog

// source.go reads the tabular input. The first row is consumed as the
// header; the rest are handed out one at a time so memory use does not
// grow with the file.

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SourceOptions configures how the input is parsed.
type SourceOptions struct {
	// Delimiter separates fields (default ',').
	Delimiter rune

	// Normalizer is applied to every header and row field.
	Normalizer *Normalizer
}

// Source yields rows from a delimited file. It is not restartable.
type Source struct {
	closer  io.Closer
	reader  *csv.Reader
	counter *lineCounter
	norm    *Normalizer
	header  []string

	// lastLine is the last physical line consumed by a record or
	// reported as blank.
	lastLine int

	// next holds a record read ahead while the blank lines before it
	// are handed out.
	next *pendingRecord
}

type pendingRecord struct {
	row   []string
	start int
	end   int
	err   error
}

// OpenSource opens path and reads its header row. Open failures wrap
// ErrSourceUnavailable.
func OpenSource(path string, opts SourceOptions) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	src, err := NewSource(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// NewSource wraps r and reads its header row.
func NewSource(r io.Reader, opts SourceOptions) (*Source, error) {
	if opts.Normalizer == nil {
		opts.Normalizer, _ = NewNormalizer(EncodingAuto)
	}

	counter := &lineCounter{r: NewBOMSkippingReader(r)}
	cr := csv.NewReader(counter)
	cr.FieldsPerRecord = -1 // shape is checked per row by MapRow
	cr.LazyQuotes = true
	cr.ReuseRecord = false
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySource
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	return &Source{
		reader:   cr,
		counter:  counter,
		norm:     opts.Normalizer,
		header:   opts.Normalizer.Row(header),
		lastLine: recordEnd(cr, header),
	}, nil
}

// Header returns the normalized header row.
func (s *Source) Header() []string {
	return s.header
}

// Next returns the next normalized row and its line number in the file.
// It returns io.EOF after the last row. A *csv.ParseError means the row
// could not be split into fields; reading may continue after it.
//
// encoding/csv drops empty lines, so each one the parser stepped over is
// reported as ErrBlankLine with its line number before the record that
// follows it. Blank lines at the end of the file are reported before
// io.EOF.
func (s *Source) Next() ([]string, int, error) {
	if s.next == nil {
		s.next = s.read()
	}

	if s.lastLine+1 < s.next.start {
		s.lastLine++
		return nil, s.lastLine, ErrBlankLine
	}

	rec := s.next
	s.next = nil
	if rec.end > s.lastLine {
		s.lastLine = rec.end
	}
	if rec.err != nil {
		return nil, rec.start, rec.err
	}
	return s.norm.Row(rec.row), rec.start, nil
}

// read pulls one record and the physical lines it spans.
func (s *Source) read() *pendingRecord {
	row, err := s.reader.Read()
	if err != nil {
		var pe *csv.ParseError
		switch {
		case errors.Is(err, io.EOF):
			end := s.counter.total()
			return &pendingRecord{start: end + 1, end: end, err: err}
		case errors.As(err, &pe):
			return &pendingRecord{start: pe.StartLine, end: max(pe.Line, pe.StartLine), err: err}
		default:
			return &pendingRecord{start: s.lastLine + 1, end: s.lastLine, err: err}
		}
	}

	start, _ := s.reader.FieldPos(0)
	return &pendingRecord{row: row, start: start, end: recordEnd(s.reader, row)}
}

// recordEnd returns the physical line on which the record just read ends.
// Only the last field can run past its own start line, via quoted newlines.
func recordEnd(cr *csv.Reader, row []string) int {
	last := len(row) - 1
	line, _ := cr.FieldPos(last)
	return line + strings.Count(row[last], "\n")
}

// lineCounter counts the physical lines passed to the CSV parser.
type lineCounter struct {
	r        io.Reader
	newlines int
	read     int64
	last     byte
}

func (c *lineCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.newlines += bytes.Count(p[:n], []byte{'\n'})
		c.read += int64(n)
		c.last = p[n-1]
	}
	return n, err
}

// total returns the number of lines read so far, counting an
// unterminated final line.
func (c *lineCounter) total() int {
	if c.read > 0 && c.last != '\n' {
		return c.newlines + 1
	}
	return c.newlines
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// BOMSkippingReader drops a leading UTF-8 byte order mark, which Excel
// writes in front of "CSV UTF-8" exports and which would otherwise end up
// glued to the first header name.
type BOMSkippingReader struct {
	reader  *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		head, err := r.reader.Peek(len(utf8BOM))
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := r.reader.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.reader.Read(p)
}
