package args

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	heredocStart = "<<"
	heredocEnd   = "."
)

// ErrUnterminatedText is returned when a "<<" text block reaches end of file.
var ErrUnterminatedText = errors.New("unterminated text block")

// Reader yields the command lines of a skin file, skipping blank and comment
// lines, and keeps the physical line number for error reporting.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{sc: sc}
}

// Next returns the next command line. ok is false at end of input.
func (r *Reader) Next() (line string, ok bool, err error) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimSpace(r.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		return text, true, nil
	}
	return "", false, r.sc.Err()
}

// Line is the physical line number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// Text consumes the remaining fields of a as a text argument. A lone "<<"
// continues the text on following physical lines up to a line holding only
// ".". The returned text may be empty.
func (r *Reader) Text(a *Args) (string, error) {
	rest := a.Rest()
	if len(rest) != 1 || rest[0] != heredocStart {
		return strings.Join(rest, " "), nil
	}
	var lines []string
	for r.sc.Scan() {
		r.line++
		text := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(text) == heredocEnd {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, text)
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", ErrUnterminatedText
}
