package setlist

import (
	"fmt"
	"strings"
	"time"
)

// CountMode selects what a song's play count measures.
type CountMode int

const (
	// CountShows counts the distinct shows at which a song was played.
	// A song played twice in one show counts once, so the percentage
	// of shows never exceeds 100.
	CountShows CountMode = iota

	// CountRows counts every performance row, repeats included.
	CountRows
)

// String returns the config name of the mode ("shows" or "rows").
func (m CountMode) String() string {
	switch m {
	case CountRows:
		return "rows"
	default:
		return "shows"
	}
}

// ParseCountMode converts a config name into a CountMode.
// The empty string selects CountShows.
func ParseCountMode(s string) (CountMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shows":
		return CountShows, nil
	case "rows":
		return CountRows, nil
	default:
		return CountShows, fmt.Errorf("%w: unknown count mode %q", ErrInvalidArgument, s)
	}
}

// DefaultDateLayouts are tried in order for every Date value.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Option configures a Table via functional options.
type Option func(*options)

type options struct {
	countMode   CountMode
	dateLayouts []string
}

// WithCountMode sets how TopSongs counts plays.
func WithCountMode(mode CountMode) Option {
	return func(o *options) {
		o.countMode = mode
	}
}

// WithDateLayouts replaces DefaultDateLayouts. Layouts use the time
// package reference date.
func WithDateLayouts(layouts ...string) Option {
	return func(o *options) {
		if len(layouts) > 0 {
			o.dateLayouts = layouts
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		countMode:   CountShows,
		dateLayouts: DefaultDateLayouts,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// parseDate tries each layout in turn and returns the calendar date.
func parseDate(value string, layouts []string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
