package setlist

import (
	"fmt"
	"sort"
	"time"

	"github.com/handiism/setlist-stats/internal/model"
)

// DefaultTopSongs is the ranking length used when the caller has no preference.
const DefaultTopSongs = 10

// Table holds a normalized, immutable setlist dataset and answers
// aggregate queries over it.
//
// A Table is built once by Load, Open or New and never modified
// afterwards, so it is safe for concurrent use by multiple goroutines.
// Every query is computed from the rows on demand.
//
// Example:
//
//	table, err := setlist.Open("data/setlists.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stats := table.Stats()
//	fmt.Printf("%d shows, %d songs\n", stats.TotalShows, stats.TotalSongs)
//
//	top, _ := table.TopSongs(5)
//	for _, s := range top {
//	    fmt.Printf("%s: %d shows (%.1f%%)\n", s.CleanSong, s.PlayCount, s.Percentage)
//	}
type Table struct {
	rows        []model.Row
	countMode   CountMode
	dateLayouts []string
}

// New creates a Table from rows already in memory.
//
// Derived fields are recomputed from each row's Date, Venue and Song,
// so callers only need to fill in those three.
func New(rows []model.Row, opts ...Option) *Table {
	normalized := make([]model.Row, len(rows))
	for i, r := range rows {
		normalized[i] = model.NewRow(r.Date, r.Venue, r.Song)
	}
	return newTable(normalized, applyOptions(opts))
}

func newTable(rows []model.Row, o *options) *Table {
	return &Table{
		rows:        rows,
		countMode:   o.countMode,
		dateLayouts: o.dateLayouts,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// CountMode returns how TopSongs counts plays for this table.
func (t *Table) CountMode() CountMode {
	return t.countMode
}

// Rows returns a copy of the rows in source order.
func (t *Table) Rows() []model.Row {
	out := make([]model.Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Stats returns the overall summary.
//
// An empty table yields zero counts and a nil DateRange.
func (t *Table) Stats() model.Stats {
	dates := make(map[time.Time]struct{})
	songs := make(map[string]struct{})
	venues := make(map[string]struct{})

	var stats model.Stats
	var first, last time.Time
	for i, r := range t.rows {
		dates[r.Date] = struct{}{}
		songs[r.CleanSong] = struct{}{}
		venues[r.Venue] = struct{}{}
		if r.IsCover {
			stats.Covers++
		}
		if r.IsSpecial {
			stats.SpecialPerformances++
		}
		if i == 0 || r.Date.Before(first) {
			first = r.Date
		}
		if i == 0 || r.Date.After(last) {
			last = r.Date
		}
	}

	stats.TotalShows = len(dates)
	stats.TotalSongs = len(t.rows)
	stats.UniqueSongs = len(songs)
	stats.TotalVenues = len(venues)
	if len(t.rows) > 0 {
		stats.DateRange = &model.DateRange{
			FirstShow: first.Format(model.DateFormat),
			LastShow:  last.Format(model.DateFormat),
		}
	}
	return stats
}

// songTally accumulates plays of one clean song.
type songTally struct {
	song  string
	rows  int
	shows map[time.Time]struct{}
}

// TopSongs returns the n most played songs.
//
// PlayCount follows the table's CountMode (distinct shows by default).
// Percentage is PlayCount divided by the number of shows, times 100,
// rounded to one decimal. Songs are sorted by PlayCount descending; ties
// keep the order in which the songs first appear in the source.
//
// Returns ErrInvalidArgument if n is not positive.
func (t *Table) TopSongs(n int) ([]model.SongFrequency, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: song count must be positive, got %d", ErrInvalidArgument, n)
	}

	var order []*songTally
	bySong := make(map[string]*songTally)
	shows := make(map[time.Time]struct{})
	for _, r := range t.rows {
		shows[r.Date] = struct{}{}
		tally, ok := bySong[r.CleanSong]
		if !ok {
			tally = &songTally{song: r.CleanSong, shows: make(map[time.Time]struct{})}
			bySong[r.CleanSong] = tally
			order = append(order, tally)
		}
		tally.rows++
		tally.shows[r.Date] = struct{}{}
	}

	out := make([]model.SongFrequency, len(order))
	for i, tally := range order {
		count := len(tally.shows)
		if t.countMode == CountRows {
			count = tally.rows
		}
		var pct float64
		if len(shows) > 0 {
			pct = model.Round1(float64(count) / float64(len(shows)) * 100)
		}
		out[i] = model.SongFrequency{CleanSong: tally.song, PlayCount: count, Percentage: pct}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayCount > out[j].PlayCount
	})

	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// ShowSetlist returns the raw songs played on date, in source order.
//
// Only the calendar date of the argument is compared. An unknown date
// yields an empty slice.
func (t *Table) ShowSetlist(date time.Time) []string {
	date = model.Day(date)
	songs := make([]string, 0)
	for _, r := range t.rows {
		if r.Date.Equal(date) {
			songs = append(songs, r.Song)
		}
	}
	return songs
}

// ShowSetlistString is ShowSetlist for a textual date, parsed with the
// table's date layouts.
//
// Returns a *DateParseError if the value cannot be parsed.
func (t *Table) ShowSetlistString(date string) ([]string, error) {
	d, ok := parseDate(date, t.dateLayouts)
	if !ok {
		return nil, &DateParseError{Value: date}
	}
	return t.ShowSetlist(d), nil
}

// ParseDate parses a textual date with the table's date layouts.
func (t *Table) ParseDate(value string) (time.Time, error) {
	d, ok := parseDate(value, t.dateLayouts)
	if !ok {
		return time.Time{}, &DateParseError{Value: value}
	}
	return model.Day(d), nil
}

// RareSongs returns the raw song strings whose clean song occurs in
// exactly one row, in source order.
func (t *Table) RareSongs() []string {
	counts := make(map[string]int)
	for _, r := range t.rows {
		counts[r.CleanSong]++
	}

	rare := make([]string, 0)
	for _, r := range t.rows {
		if counts[r.CleanSong] == 1 {
			rare = append(rare, r.Song)
		}
	}
	return rare
}

// venueTally accumulates rows played at one venue.
type venueTally struct {
	venue string
	rows  int
	shows map[time.Time]struct{}
}

// VenueStats returns per-venue show and song counts.
//
// Venues are sorted by number of shows descending, then by name.
// AvgSongsPerShow is rounded to one decimal.
func (t *Table) VenueStats() []model.VenueStats {
	var order []*venueTally
	byVenue := make(map[string]*venueTally)
	for _, r := range t.rows {
		tally, ok := byVenue[r.Venue]
		if !ok {
			tally = &venueTally{venue: r.Venue, shows: make(map[time.Time]struct{})}
			byVenue[r.Venue] = tally
			order = append(order, tally)
		}
		tally.rows++
		tally.shows[r.Date] = struct{}{}
	}

	out := make([]model.VenueStats, len(order))
	for i, tally := range order {
		shows := len(tally.shows)
		out[i] = model.VenueStats{
			Venue:           tally.venue,
			Shows:           shows,
			TotalSongs:      tally.rows,
			AvgSongsPerShow: model.Round1(float64(tally.rows) / float64(shows)),
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Shows != out[j].Shows {
			return out[i].Shows > out[j].Shows
		}
		return out[i].Venue < out[j].Venue
	})
	return out
}

// FindSongAppearances returns every row whose clean song contains
// substring, ignoring case, sorted by date ascending.
//
// Rows sharing a date keep source order. An empty substring matches
// every row.
func (t *Table) FindSongAppearances(substring string) []model.Appearance {
	var matches []model.Row
	for _, r := range t.rows {
		if model.ContainsFold(r.CleanSong, substring) {
			matches = append(matches, r)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})

	out := make([]model.Appearance, len(matches))
	for i, r := range matches {
		out[i] = model.Appearance{Date: r.DateString(), Venue: r.Venue, Song: r.Song}
	}
	return out
}

// Shows groups rows by date, in the order dates first appear.
//
// Each show's venue is the venue of its first row.
func (t *Table) Shows() []model.Show {
	var order []time.Time
	byDate := make(map[time.Time]*model.Show)
	for _, r := range t.rows {
		show, ok := byDate[r.Date]
		if !ok {
			show = &model.Show{Date: r.DateString(), Venue: r.Venue, Songs: make([]string, 0)}
			byDate[r.Date] = show
			order = append(order, r.Date)
		}
		show.Songs = append(show.Songs, r.Song)
		show.SongCount++
	}

	out := make([]model.Show, len(order))
	for i, d := range order {
		out[i] = *byDate[d]
	}
	return out
}
