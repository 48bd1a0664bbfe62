package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/handiism/setlist-stats/internal/setlist"
)

const testCSV = `Date,Venue,Song
2023-01-01,VenueA,Song1
2023-01-01,VenueA,Song2 (cover)
2023-06-01,VenueB,Song1
2023-06-01,VenueB,Song3 (first time)
`

func testTable(t *testing.T, data string) *setlist.Table {
	t.Helper()
	table, err := setlist.Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return table
}

func TestSummary(t *testing.T) {
	table := testTable(t, testCSV)
	doc := Summary(table)

	if len(doc.Shows) != 2 {
		t.Fatalf("got %d shows, want 2", len(doc.Shows))
	}
	first := doc.Shows[0]
	if first.Date != "2023-01-01" || first.Venue != "VenueA" || first.SongCount != 2 {
		t.Errorf("first show = %+v", first)
	}
	if !reflect.DeepEqual(first.Songs, []string{"Song1", "Song2 (cover)"}) {
		t.Errorf("first show songs = %v", first.Songs)
	}

	if doc.SongFrequency[0].CleanSong != "Song1" || doc.SongFrequency[0].PlayCount != 2 {
		t.Errorf("top song = %+v", doc.SongFrequency[0])
	}

	wantVenue := VenueSummary{Shows: 1, TotalSongs: 2, AvgSongsPerShow: 2.0}
	if doc.VenueStats["VenueA"] != wantVenue {
		t.Errorf("VenueA = %+v, want %+v", doc.VenueStats["VenueA"], wantVenue)
	}

	if !reflect.DeepEqual(doc.RareSongs, []string{"Song2 (cover)", "Song3 (first time)"}) {
		t.Errorf("RareSongs = %v", doc.RareSongs)
	}
	if !reflect.DeepEqual(doc.Stats, table.Stats()) {
		t.Errorf("Stats = %+v, want %+v", doc.Stats, table.Stats())
	}
}

func TestSummary_RoundTrip(t *testing.T) {
	table := testTable(t, testCSV)

	data, err := Encode(Summary(table), FormatJSON)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded struct {
		Shows []struct {
			Date      string   `json:"date"`
			Songs     []string `json:"songs"`
			SongCount int      `json:"song_count"`
		} `json:"shows"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	dates := make(map[string]bool)
	songs := 0
	for _, show := range decoded.Shows {
		dates[show.Date] = true
		songs += show.SongCount
		if show.SongCount != len(show.Songs) {
			t.Errorf("show %s song_count %d != len(songs) %d", show.Date, show.SongCount, len(show.Songs))
		}
	}

	stats := table.Stats()
	if len(dates) != stats.TotalShows {
		t.Errorf("re-aggregated shows = %d, want %d", len(dates), stats.TotalShows)
	}
	if songs != stats.TotalSongs {
		t.Errorf("re-aggregated songs = %d, want %d", songs, stats.TotalSongs)
	}
}

func TestEncode_JSONKeys(t *testing.T) {
	data, err := Encode(Summary(testTable(t, testCSV)), FormatJSON)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"shows", "song_frequency", "venue_stats", "rare_songs", "stats"} {
		if _, ok := top[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
	if len(top) != 5 {
		t.Errorf("got %d top-level keys, want 5", len(top))
	}
	if !bytes.Contains(data, []byte(`"first_show": "2023-01-01"`)) {
		t.Error("stats should include the date range")
	}
}

func TestEncode_EmptyTable(t *testing.T) {
	data, err := Encode(Summary(testTable(t, "Date,Venue,Song\n")), FormatJSON)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	for _, want := range []string{`"shows": []`, `"song_frequency": []`, `"venue_stats": {}`, `"rare_songs": []`, `"date_range": null`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("empty export should contain %s, got:\n%s", want, data)
		}
	}
}

func TestEncode_CSV(t *testing.T) {
	data, err := Encode(Summary(testTable(t, testCSV)), FormatCSV)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "clean_song,play_count,percentage\n") {
		t.Errorf("CSV should start with the song frequency header, got:\n%s", content)
	}
	if !strings.Contains(content, "Song1,2,100.0\n") {
		t.Error("CSV should contain Song1 row")
	}
	if !strings.Contains(content, "\n\nvenue,shows,total_songs,avg_songs_per_show\n") {
		t.Error("CSV should contain the venue section after a blank line")
	}
	if !strings.Contains(content, "VenueA,1,2,2.0\n") {
		t.Error("CSV should contain VenueA row")
	}
}

func TestEncode_PDF(t *testing.T) {
	data, err := Encode(Summary(testTable(t, testCSV)), FormatPDF)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("PDF should start with %%PDF-, got %q", data[:8])
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats([]string{"json", " PDF ", "json", "csv"})
	if err != nil {
		t.Fatalf("ParseFormats failed: %v", err)
	}
	want := []Format{FormatJSON, FormatPDF, FormatCSV}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFormats() = %v, want %v", got, want)
	}

	if _, err := ParseFormats([]string{"xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriter_WriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	w := NewWriter(dir, "")

	formats := []Format{FormatJSON, FormatCSV, FormatPDF}
	paths, err := w.WriteAll(context.Background(), Summary(testTable(t, testCSV)), formats)
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "concert_data.json"),
		filepath.Join(dir, "concert_data.csv"),
		filepath.Join(dir, "concert_data.pdf"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	for _, p := range paths {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s should exist and be non-empty", p)
		}
	}
}

func TestWriter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(t.TempDir(), "summary")
	if _, err := w.WriteAll(ctx, Summary(testTable(t, testCSV)), []Format{FormatJSON}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
