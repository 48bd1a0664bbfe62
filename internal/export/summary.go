package export

import (
	"github.com/handiism/setlist-stats/internal/model"
	"github.com/handiism/setlist-stats/internal/setlist"
)

// SummaryTopSongs is the length of the song_frequency list.
const SummaryTopSongs = 20

// Document is the composite summary handed to visualization tools.
//
// Marshalled as JSON it has the top-level keys shows, song_frequency,
// venue_stats, rare_songs and stats.
type Document struct {
	Shows         []model.Show            `json:"shows"`
	SongFrequency []model.SongFrequency   `json:"song_frequency"`
	VenueStats    map[string]VenueSummary `json:"venue_stats"`
	RareSongs     []string                `json:"rare_songs"`
	Stats         model.Stats             `json:"stats"`

	// Venues is VenueStats in ranking order, for formats that need a
	// stable row order.
	Venues []model.VenueStats `json:"-"`
}

// VenueSummary is a venue_stats entry; the venue name is the map key.
type VenueSummary struct {
	Shows           int     `json:"shows"`
	TotalSongs      int     `json:"total_songs"`
	AvgSongsPerShow float64 `json:"avg_songs_per_show"`
}

// Summary composes the export document from a table.
//
// Summary only reads the table and has no side effects. Writing the
// document somewhere is the job of Encode and Writer.
//
// Example:
//
//	doc := export.Summary(table)
//	data, _ := export.Encode(doc, export.FormatJSON)
func Summary(t *setlist.Table) *Document {
	// SummaryTopSongs is positive, so TopSongs cannot fail
	top, _ := t.TopSongs(SummaryTopSongs)

	venues := t.VenueStats()
	byVenue := make(map[string]VenueSummary, len(venues))
	for _, v := range venues {
		byVenue[v.Venue] = VenueSummary{
			Shows:           v.Shows,
			TotalSongs:      v.TotalSongs,
			AvgSongsPerShow: v.AvgSongsPerShow,
		}
	}

	return &Document{
		Shows:         t.Shows(),
		SongFrequency: top,
		VenueStats:    byVenue,
		RareSongs:     t.RareSongs(),
		Stats:         t.Stats(),
		Venues:        venues,
	}
}
