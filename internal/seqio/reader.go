package seqio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aria-lang/barcode-trimmer/internal/sequence"
)

// maxLineSize bounds a single physical line; long-read sequence lines can
// run to several megabases.
const maxLineSize = 64 << 20

// ErrInvalidEncoding is returned when the input is not valid UTF-8 text.
var ErrInvalidEncoding = errors.New("input is not valid UTF-8 text")

// ParseError describes a structural problem in the input.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader yields records one at a time from an underlying stream.
type Reader struct {
	sc     *bufio.Scanner
	format Format
	line   int
	err    error

	// FASTA lookahead: the header that terminated the previous record.
	pending    string
	hasPending bool
}

// NewReader returns a lazy record reader over r.
func NewReader(r io.Reader, f Format) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{sc: sc, format: f}
}

// Format returns the format the reader was created with.
func (r *Reader) Format() Format {
	return r.format
}

// Next returns the next record, or io.EOF once the stream is exhausted.
// Any other error is sticky: subsequent calls return it again.
func (r *Reader) Next() (*sequence.Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	var rec *sequence.Record
	var err error
	if r.format == FASTA {
		rec, err = r.nextFASTA()
	} else {
		rec, err = r.nextFASTQ()
	}
	if err != nil {
		r.err = err
		return nil, err
	}
	return rec, nil
}

// scan advances one physical line. ok is false at end of input.
func (r *Reader) scan() (string, bool, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", false, fmt.Errorf("reading input: %w", err)
		}
		return "", false, nil
	}
	r.line++
	text := r.sc.Text()
	if !utf8.ValidString(text) {
		return "", false, &ParseError{Line: r.line, Msg: "decoding", Err: ErrInvalidEncoding}
	}
	return strings.TrimRight(text, " \t\r"), true, nil
}

func (r *Reader) nextFASTQ() (*sequence.Record, error) {
	// Blank lines between records and at the end of input are ignored.
	var header string
	for {
		line, ok, err := r.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, io.EOF
		}
		if line != "" {
			header = line
			break
		}
	}
	headerLine := r.line

	var body [3]string
	for i := range body {
		line, ok, err := r.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			// Truncated trailing group: dropped.
			return nil, io.EOF
		}
		body[i] = line
	}

	if header[0] != '@' {
		return nil, &ParseError{Line: headerLine, Msg: "expected FASTQ header starting with '@'"}
	}
	if !strings.HasPrefix(body[1], "+") {
		return nil, &ParseError{Line: headerLine + 2, Msg: "expected '+' separator line"}
	}

	rec := sequence.NewRecord(header[1:], body[0], body[2])
	if len(rec.Qual) != len(rec.Seq) {
		return nil, &ParseError{Line: headerLine + 3, Msg: "invalid record", Err: rec.Validate()}
	}
	return rec, nil
}

func (r *Reader) nextFASTA() (*sequence.Record, error) {
	for {
		header, ok, err := r.nextHeader()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, io.EOF
		}

		var body strings.Builder
		for {
			line, ok, err := r.scan()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line[0] == '>' {
				r.pending, r.hasPending = line, true
				break
			}
			body.WriteString(line)
		}

		// Headers without a body are dropped.
		if body.Len() == 0 {
			continue
		}
		return sequence.NewRecord(header[1:], body.String(), ""), nil
	}
}

// nextHeader returns the next '>' line, skipping anything before it.
func (r *Reader) nextHeader() (string, bool, error) {
	if r.hasPending {
		r.hasPending = false
		return r.pending, true, nil
	}
	for {
		line, ok, err := r.scan()
		if err != nil || !ok {
			return "", false, err
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, ">") {
			return line, true, nil
		}
	}
}

// ReadAll drains r into a slice. On error no records are returned.
func ReadAll(r *Reader) ([]*sequence.Record, error) {
	records := make([]*sequence.Record, 0)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// Parse parses text in the given format.
func Parse(text string, f Format) ([]*sequence.Record, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidEncoding
	}
	return ReadAll(NewReader(strings.NewReader(text), f))
}
