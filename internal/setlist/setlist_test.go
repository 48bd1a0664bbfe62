package setlist

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/handiism/setlist-stats/internal/model"
)

const exampleCSV = `Date,Venue,Song
2023-01-01,VenueA,Song1
2023-01-01,VenueA,Song2 (cover)
2023-06-01,VenueB,Song1
`

func loadString(t *testing.T, data string, opts ...Option) *Table {
	t.Helper()
	table, err := Load(strings.NewReader(data), opts...)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return table
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "empty source",
			data:    "",
			wantErr: ErrLoad,
		},
		{
			name:    "missing song column",
			data:    "Date,Venue\n2023-01-01,VenueA\n",
			wantErr: ErrLoad,
		},
		{
			name:    "ragged record",
			data:    "Date,Venue,Song\n2023-01-01,VenueA\n",
			wantErr: ErrLoad,
		},
		{
			name:    "bad quoting",
			data:    "Date,Venue,Song\n2023-01-01,\"VenueA,Song\n",
			wantErr: ErrLoad,
		},
		{
			name:    "unparseable date",
			data:    "Date,Venue,Song\n2023-01-01,VenueA,Song1\nnot a date,VenueB,Song2\n",
			wantErr: ErrDateParse,
		},
		{
			name:    "empty date",
			data:    "Date,Venue,Song\n,VenueA,Song1\n",
			wantErr: ErrDateParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if table != nil {
				t.Error("no table should be returned on failure")
			}
		})
	}
}

func TestLoad_DateParseErrorLine(t *testing.T) {
	_, err := Load(strings.NewReader("Date,Venue,Song\n2023-01-01,A,S\n2023-13-45,B,T\n"))

	var dpe *DateParseError
	if !errors.As(err, &dpe) {
		t.Fatalf("expected *DateParseError, got %v", err)
	}
	if dpe.Line != 3 {
		t.Errorf("Line = %d, want 3", dpe.Line)
	}
	if dpe.Value != "2023-13-45" {
		t.Errorf("Value = %q, want %q", dpe.Value, "2023-13-45")
	}
}

func TestLoad_HeaderVariants(t *testing.T) {
	data := "\ufeffsong, DATE ,Extra,venue\nElephant,6/1/2023,x,The Anthem\n"
	table := loadString(t, data)

	rows := table.Rows()
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	if !rows[0].Date.Equal(want) {
		t.Errorf("Date = %v, want %v", rows[0].Date, want)
	}
	if rows[0].Venue != "The Anthem" || rows[0].Song != "Elephant" {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestLoad_DateLayouts(t *testing.T) {
	tests := []string{
		"2023-06-01",
		"2023-06-01 20:00:00",
		"2023-06-01T20:00:00Z",
		"2023/06/01",
		"6/1/2023",
		"06/01/2023",
		"6/1/23",
		"1 Jun 2023",
		"June 1, 2023",
		"Jun 1, 2023",
	}

	want := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			data := "Date,Venue,Song\n\"" + value + "\",V,S\n"
			rows := loadString(t, data).Rows()
			if !rows[0].Date.Equal(want) {
				t.Errorf("Date = %v, want %v", rows[0].Date, want)
			}
		})
	}
}

func TestLoad_CustomDateLayouts(t *testing.T) {
	data := "Date,Venue,Song\n01.06.2023,V,S\n"

	if _, err := Load(strings.NewReader(data)); !errors.Is(err, ErrDateParse) {
		t.Fatalf("default layouts should reject %q, got %v", "01.06.2023", err)
	}

	table := loadString(t, data, WithDateLayouts("02.01.2006"))
	if got := table.Rows()[0].DateString(); got != "2023-06-01" {
		t.Errorf("DateString() = %q, want %q", got, "2023-06-01")
	}
}

func TestTable_Stats(t *testing.T) {
	table := loadString(t, exampleCSV)
	got := table.Stats()

	want := model.Stats{
		TotalShows:          2,
		TotalSongs:          3,
		UniqueSongs:         2,
		TotalVenues:         2,
		DateRange:           &model.DateRange{FirstShow: "2023-01-01", LastShow: "2023-06-01"},
		Covers:              1,
		SpecialPerformances: 0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestTable_StatsEmpty(t *testing.T) {
	table := loadString(t, "Date,Venue,Song\n")
	got := table.Stats()

	if got != (model.Stats{}) {
		t.Errorf("Stats() = %+v, want zero value", got)
	}
	if got.DateRange != nil {
		t.Error("DateRange should be nil for an empty table")
	}
}

func TestTable_StatsDateRangeOutOfOrder(t *testing.T) {
	table := loadString(t, "Date,Venue,Song\n2024-03-01,A,S\n2022-05-01,B,T\n2025-01-01,C,U (first time)\n")
	got := table.Stats()

	if got.DateRange.FirstShow != "2022-05-01" || got.DateRange.LastShow != "2025-01-01" {
		t.Errorf("DateRange = %+v", got.DateRange)
	}
	if got.SpecialPerformances != 1 {
		t.Errorf("SpecialPerformances = %d, want 1", got.SpecialPerformances)
	}
}

func TestTable_TopSongs(t *testing.T) {
	table := loadString(t, exampleCSV)

	got, err := table.TopSongs(1)
	if err != nil {
		t.Fatalf("TopSongs failed: %v", err)
	}
	want := []model.SongFrequency{{CleanSong: "Song1", PlayCount: 2, Percentage: 100}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopSongs(1) = %+v, want %+v", got, want)
	}

	all, err := table.TopSongs(DefaultTopSongs)
	if err != nil {
		t.Fatalf("TopSongs failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d songs, want 2", len(all))
	}
}

func TestTable_TopSongsInvalidN(t *testing.T) {
	table := loadString(t, exampleCSV)

	for _, n := range []int{0, -1} {
		if _, err := table.TopSongs(n); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("TopSongs(%d) error = %v, want ErrInvalidArgument", n, err)
		}
	}
}

func TestTable_TopSongsCountModes(t *testing.T) {
	data := `Date,Venue,Song
2023-01-01,A,Repeat
2023-01-01,A,Repeat (reprise)
2023-01-01,A,Other
2023-02-01,B,Other
2023-02-01,B,Third
`
	tests := []struct {
		name string
		mode CountMode
		want []model.SongFrequency
	}{
		{
			name: "distinct shows",
			mode: CountShows,
			want: []model.SongFrequency{
				{CleanSong: "Other", PlayCount: 2, Percentage: 100},
				{CleanSong: "Repeat", PlayCount: 1, Percentage: 50},
				{CleanSong: "Third", PlayCount: 1, Percentage: 50},
			},
		},
		{
			name: "rows",
			mode: CountRows,
			want: []model.SongFrequency{
				{CleanSong: "Repeat", PlayCount: 2, Percentage: 100},
				{CleanSong: "Other", PlayCount: 2, Percentage: 100},
				{CleanSong: "Third", PlayCount: 1, Percentage: 50},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := loadString(t, data, WithCountMode(tt.mode))
			got, err := table.TopSongs(10)
			if err != nil {
				t.Fatalf("TopSongs failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopSongs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTable_TopSongsConsistentWithTotals(t *testing.T) {
	data := `Date,Venue,Song
2023-01-01,A,One
2023-01-01,A,Two
2023-01-01,A,One (again)
2023-02-01,B,Two
2023-03-01,C,Three
`
	rows := loadString(t, data, WithCountMode(CountRows))
	top, _ := rows.TopSongs(100)
	sum := 0
	for _, s := range top {
		sum += s.PlayCount
	}
	if sum != rows.Stats().TotalSongs {
		t.Errorf("row-mode play counts sum to %d, want total_songs %d", sum, rows.Stats().TotalSongs)
	}

	shows := loadString(t, data)
	top, _ = shows.TopSongs(100)
	for _, s := range top {
		if s.PlayCount > shows.Stats().TotalShows {
			t.Errorf("%s played at %d shows, more than total_shows %d", s.CleanSong, s.PlayCount, shows.Stats().TotalShows)
		}
		if s.Percentage > 100 {
			t.Errorf("%s percentage %.1f exceeds 100", s.CleanSong, s.Percentage)
		}
	}
}

func TestTable_ShowSetlist(t *testing.T) {
	table := loadString(t, exampleCSV)

	got := table.ShowSetlist(time.Date(2023, 1, 1, 21, 0, 0, 0, time.UTC))
	want := []string{"Song1", "Song2 (cover)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ShowSetlist() = %v, want %v", got, want)
	}

	empty := table.ShowSetlist(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))
	if empty == nil || len(empty) != 0 {
		t.Errorf("unknown date should give an empty slice, got %#v", empty)
	}
}

func TestTable_ShowSetlistString(t *testing.T) {
	table := loadString(t, exampleCSV)

	got, err := table.ShowSetlistString("2023-06-01")
	if err != nil {
		t.Fatalf("ShowSetlistString failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Song1"}) {
		t.Errorf("ShowSetlistString() = %v", got)
	}

	if _, err := table.ShowSetlistString("yesterday"); !errors.Is(err, ErrDateParse) {
		t.Errorf("error = %v, want ErrDateParse", err)
	}
}

func TestTable_RareSongs(t *testing.T) {
	table := loadString(t, exampleCSV)

	got := table.RareSongs()
	want := []string{"Song2 (cover)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RareSongs() = %v, want %v", got, want)
	}
}

func TestTable_RareSongsAnnotationVariants(t *testing.T) {
	data := `Date,Venue,Song
2023-01-01,A,Alpha (acoustic)
2023-02-01,B,Alpha (electric)
2023-02-01,B,Beta
2023-03-01,C,Gamma (first time)
`
	got := loadString(t, data).RareSongs()
	want := []string{"Beta", "Gamma (first time)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RareSongs() = %v, want %v", got, want)
	}
}

func TestTable_VenueStats(t *testing.T) {
	table := loadString(t, exampleCSV)

	got := table.VenueStats()
	want := []model.VenueStats{
		{Venue: "VenueA", Shows: 1, TotalSongs: 2, AvgSongsPerShow: 2.0},
		{Venue: "VenueB", Shows: 1, TotalSongs: 1, AvgSongsPerShow: 1.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VenueStats() = %+v, want %+v", got, want)
	}
}

func TestTable_VenueStatsOrdering(t *testing.T) {
	data := `Date,Venue,Song
2023-01-01,Zeta Hall,A
2023-02-01,Alpha Club,A
2023-03-01,Ryman,A
2023-03-01,Ryman,B
2023-03-02,Ryman,C
`
	got := loadString(t, data).VenueStats()

	names := make([]string, len(got))
	for i, v := range got {
		names[i] = v.Venue
	}
	want := []string{"Ryman", "Alpha Club", "Zeta Hall"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("venue order = %v, want %v", names, want)
	}
	if got[0].AvgSongsPerShow != 1.5 {
		t.Errorf("Ryman AvgSongsPerShow = %v, want 1.5", got[0].AvgSongsPerShow)
	}
}

func TestTable_FindSongAppearances(t *testing.T) {
	data := `Date,Venue,Song
2023-06-01,VenueB,Elephant
2023-01-01,VenueA,Cover Me Up
2023-01-01,VenueA,elephant (solo)
2022-01-01,VenueC,Last of My Kind
`
	table := loadString(t, data)

	got := table.FindSongAppearances("ELEPH")
	want := []model.Appearance{
		{Date: "2023-01-01", Venue: "VenueA", Song: "elephant (solo)"},
		{Date: "2023-06-01", Venue: "VenueB", Song: "Elephant"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindSongAppearances() = %+v, want %+v", got, want)
	}

	// annotations are not searched
	if got := table.FindSongAppearances("solo"); len(got) != 0 {
		t.Errorf("annotation text should not match, got %+v", got)
	}

	all := table.FindSongAppearances("")
	if len(all) != table.Len() {
		t.Fatalf("empty substring matched %d rows, want %d", len(all), table.Len())
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Date > all[i].Date {
			t.Errorf("results not sorted by date: %v before %v", all[i-1].Date, all[i].Date)
		}
	}
	if all[1].Song != "Cover Me Up" || all[2].Song != "elephant (solo)" {
		t.Errorf("rows sharing a date should keep source order, got %+v", all)
	}
}

func TestTable_Shows(t *testing.T) {
	data := `Date,Venue,Song
2023-06-01,VenueB,Song1
2023-01-01,VenueA,Song1
2023-06-01,VenueB2,Song3
`
	got := loadString(t, data).Shows()
	want := []model.Show{
		{Date: "2023-06-01", Venue: "VenueB", Songs: []string{"Song1", "Song3"}, SongCount: 2},
		{Date: "2023-01-01", Venue: "VenueA", Songs: []string{"Song1"}, SongCount: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shows() = %+v, want %+v", got, want)
	}
}

func TestNew_RecomputesDerivedFields(t *testing.T) {
	date := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	table := New([]model.Row{{Date: date, Venue: "A", Song: "Song (cover)", CleanSong: "wrong"}})

	row := table.Rows()[0]
	if row.CleanSong != "Song" || !row.IsCover {
		t.Errorf("derived fields not recomputed: %+v", row)
	}
}

func TestParseCountMode(t *testing.T) {
	tests := []struct {
		input   string
		want    CountMode
		wantErr bool
	}{
		{"", CountShows, false},
		{"shows", CountShows, false},
		{"ROWS", CountRows, false},
		{"plays", CountShows, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCountMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("error = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCountMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
