package model

import "time"

// DateFormat is the layout used whenever a show date is rendered as text.
const DateFormat = "2006-01-02"

// Row represents one song performed at one show.
//
// Row carries the three source columns and the fields derived from them:
//   - CleanSong for counting (annotations removed)
//   - IsCover when the raw title mentions a cover
//   - IsSpecial when the raw title matches one of the special keywords
//
// Derived fields are computed when creating a row via NewRow and never
// change afterwards.
//
// Example:
//
//	row := NewRow(date, "Ryman Auditorium", "Cover Me Up (with Sadler)")
//	// row.CleanSong = "Cover Me Up"
//	// row.IsSpecial = true
type Row struct {
	// Date is the calendar date of the show.
	Date time.Time

	// Venue is the venue name as it appears in the source.
	Venue string

	// Song is the raw song text, including any "(...)" annotations.
	Song string

	// CleanSong is Song with every parenthetical group removed and trimmed.
	CleanSong string

	// IsCover reports whether Song contains "cover" in any case.
	IsCover bool

	// IsSpecial reports whether Song contains any of SpecialKeywords in any case.
	IsSpecial bool
}

// NewRow creates a Row and computes its derived fields.
//
// The date is truncated to midnight UTC so that rows from the same show
// compare equal regardless of how the source encoded the time of day.
func NewRow(date time.Time, venue, song string) Row {
	return Row{
		Date:      Day(date),
		Venue:     venue,
		Song:      song,
		CleanSong: CleanSong(song),
		IsCover:   IsCover(song),
		IsSpecial: IsSpecial(song),
	}
}

// DateString returns the row's date formatted as YYYY-MM-DD.
func (r Row) DateString() string {
	return r.Date.Format(DateFormat)
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
