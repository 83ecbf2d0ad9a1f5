package skin

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKeyword is returned for a line starting with an unknown command.
	ErrUnknownKeyword = errors.New("unknown keyword")
	// ErrMissingDef is returned when a command needs a "def" line that was
	// not given.
	ErrMissingDef = errors.New("missing 'def' command")
)

// LoadError locates a failure to load a skin: the file and, when the error
// is tied to a command, its line.
type LoadError struct {
	URI  string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.URI, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.URI, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func unknownKeyword(kw string) error {
	return fmt.Errorf("%w '%s'", ErrUnknownKeyword, kw)
}

// missingDef reports the absent "def <kind>" line while still matching
// ErrMissingDef.
type missingDef string

func (m missingDef) Error() string {
	return fmt.Sprintf("missing 'def %s' command", string(m))
}

func (m missingDef) Is(target error) bool {
	return target == ErrMissingDef
}
