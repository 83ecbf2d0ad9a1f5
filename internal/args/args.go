// Package args splits skin file lines into fields and hands them out one at
// a time to command handlers.
package args

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingArgument is returned when a handler asks for a field the line does not have.
	ErrMissingArgument = errors.New("missing argument")
	// ErrExcessArguments is returned when fields remain after a command was handled.
	ErrExcessArguments = errors.New("excess arguments")
	// ErrUnterminatedQuote is returned by Split for a quoted field without closing quote.
	ErrUnterminatedQuote = errors.New("unterminated quote")
)

// Args is a cursor over the fields of one line.
type Args struct {
	fields []string
	pos    int
}

// New returns an Args over already split fields.
func New(fields ...string) *Args {
	return &Args{fields: fields}
}

// Parse splits line and returns an Args over the fields.
func Parse(line string) (*Args, error) {
	fields, err := Split(line)
	if err != nil {
		return nil, err
	}
	return New(fields...), nil
}

// Get returns the next field.
func (a *Args) Get() (string, error) {
	if a.pos >= len(a.fields) {
		return "", ErrMissingArgument
	}
	s := a.fields[a.pos]
	a.pos++
	return s, nil
}

// Prev returns the field most recently returned by Get, or "" if none was.
func (a *Args) Prev() string {
	if a.pos == 0 {
		return ""
	}
	return a.fields[a.pos-1]
}

// HasMore reports whether unconsumed fields remain.
func (a *Args) HasMore() bool {
	return a.pos < len(a.fields)
}

// Rest consumes and returns every remaining field.
func (a *Args) Rest() []string {
	rest := a.fields[a.pos:]
	a.pos = len(a.fields)
	return rest
}

// Len is the total number of fields on the line.
func (a *Args) Len() int {
	return len(a.fields)
}

// End fails if any field was left unconsumed.
func (a *Args) End() error {
	if a.HasMore() {
		return fmt.Errorf("%w: '%s'", ErrExcessArguments, a.fields[a.pos])
	}
	return nil
}

// Split breaks line into whitespace separated fields. A field starting with
// a double quote runs to the matching quote and may contain whitespace; \"
// and \\ escape inside quotes.
func Split(line string) ([]string, error) {
	var fields []string
	i := 0
	for i < len(line) {
		c := line[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			i++
			continue
		}
		if c == '"' {
			var b strings.Builder
			j := i + 1
			closed := false
			for j < len(line) {
				ch := line[j]
				if ch == '\\' && j+1 < len(line) && (line[j+1] == '"' || line[j+1] == '\\') {
					b.WriteByte(line[j+1])
					j += 2
					continue
				}
				if ch == '"' {
					closed = true
					j++
					break
				}
				b.WriteByte(ch)
				j++
			}
			if !closed {
				return nil, fmt.Errorf("%w: %s", ErrUnterminatedQuote, line[i:])
			}
			fields = append(fields, b.String())
			i = j
			continue
		}
		j := i
		for j < len(line) && line[j] != ' ' && line[j] != '\t' && line[j] != '\r' && line[j] != '\n' {
			j++
		}
		fields = append(fields, line[i:j])
		i = j
	}
	return fields, nil
}
