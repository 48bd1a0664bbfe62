// Package setlist loads concert setlists into an immutable in-memory
// table and answers grouping and aggregation queries over it.
//
// # Loading
//
// A table is built from CSV with Date, Venue and Song columns (extra
// columns are ignored):
//
//	table, err := setlist.Open("data/setlists.csv")
//	// or
//	table, err := setlist.Load(reader, setlist.WithCountMode(setlist.CountRows))
//
// # Queries
//
//	table.Stats()                    // shows, songs, venues, date range
//	table.TopSongs(10)               // most played songs
//	table.ShowSetlist(date)          // raw songs of one show
//	table.RareSongs()                // songs played exactly once
//	table.VenueStats()               // per-venue counts
//	table.FindSongAppearances("ele") // rows whose clean song matches
//
// # Errors
//
// Loading fails with ErrLoad or ErrDateParse; queries only fail with
// ErrInvalidArgument. Use errors.Is to test for them, or errors.As with
// *LoadError and *DateParseError for details.
package setlist
