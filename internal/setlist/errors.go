package setlist

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad is returned when the source cannot be parsed into rows
	// with Date, Venue and Song fields.
	//
	// This typically occurs when:
	//   - The source is empty or not valid CSV
	//   - A required column is missing from the header
	//   - A record has a different number of fields than the header
	ErrLoad = errors.New("cannot load setlist source")

	// ErrDateParse is returned when a Date value matches none of the
	// accepted layouts.
	ErrDateParse = errors.New("unparseable date")

	// ErrInvalidArgument is returned when a query parameter is out of
	// its domain, such as a non-positive song count.
	ErrInvalidArgument = errors.New("invalid argument")
)

// LoadError describes why a source could not be loaded.
//
// LoadError matches ErrLoad with errors.Is, as well as the underlying
// cause (for example a *csv.ParseError) when there is one.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrLoad, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrLoad, e.Reason)
}

func (e *LoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrLoad, e.Err}
	}
	return []error{ErrLoad}
}

// DateParseError reports a date value that could not be parsed.
//
// Line is the 1-based line of the source; it is 0 when the value did not
// come from a source file (for example a query argument).
type DateParseError struct {
	Line  int
	Value string
}

func (e *DateParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s %q on line %d", ErrDateParse, e.Value, e.Line)
	}
	return fmt.Sprintf("%s %q", ErrDateParse, e.Value)
}

func (e *DateParseError) Unwrap() error {
	return ErrDateParse
}
