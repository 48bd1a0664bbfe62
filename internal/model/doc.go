// Package model defines the core data structures used throughout
// setlist-stats.
//
// # Row
//
// Row represents one song at one show, with normalized fields computed
// at creation time:
//
//	row := model.NewRow(date, "The Anthem", "Danko/Manuel (cover)")
//	fmt.Println(row.CleanSong) // "Danko/Manuel"
//	fmt.Println(row.IsCover)   // true
//
// # Song Normalization
//
// CleanSong, IsCover and IsSpecial are exported so that other packages
// (search, library matching) normalize titles the same way rows do.
//
// # Result Records
//
// Stats, SongFrequency, VenueStats, Appearance and Show are the values
// returned by table queries. Their JSON tags are the key names of the
// exported summary document.
package model
