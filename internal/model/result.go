package model

import "math"

// Stats is the overall summary of a dataset.
type Stats struct {
	TotalShows          int        `json:"total_shows" yaml:"total_shows"`
	TotalSongs          int        `json:"total_songs" yaml:"total_songs"`
	UniqueSongs         int        `json:"unique_songs" yaml:"unique_songs"`
	TotalVenues         int        `json:"total_venues" yaml:"total_venues"`
	DateRange           *DateRange `json:"date_range" yaml:"date_range"` // nil for an empty dataset
	Covers              int        `json:"covers" yaml:"covers"`
	SpecialPerformances int        `json:"special_performances" yaml:"special_performances"`
}

// DateRange holds the first and last show dates as YYYY-MM-DD.
type DateRange struct {
	FirstShow string `json:"first_show" yaml:"first_show"`
	LastShow  string `json:"last_show" yaml:"last_show"`
}

// SongFrequency is one entry of the top-songs ranking.
type SongFrequency struct {
	CleanSong  string  `json:"clean_song"`
	PlayCount  int     `json:"play_count"`
	Percentage float64 `json:"percentage"`
}

// VenueStats aggregates the shows played at one venue.
type VenueStats struct {
	Venue           string  `json:"venue"`
	Shows           int     `json:"shows"`
	TotalSongs      int     `json:"total_songs"`
	AvgSongsPerShow float64 `json:"avg_songs_per_show"`
}

// Appearance is one performance of a song.
type Appearance struct {
	Date  string `json:"date"`
	Venue string `json:"venue"`
	Song  string `json:"song"`
}

// Show is every row sharing one date.
//
// Venue is taken from the first row of the date; Songs are raw song
// strings in source order.
type Show struct {
	Date      string   `json:"date"`
	Venue     string   `json:"venue"`
	Songs     []string `json:"songs"`
	SongCount int      `json:"song_count"`
}

// Round1 rounds v to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
