package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Format represents a supported export file format.
type Format int

const (
	// FormatJSON writes the full document as indented JSON.
	FormatJSON Format = iota

	// FormatCSV writes the song frequency and venue tables.
	FormatCSV

	// FormatPDF writes a printable report.
	FormatPDF
)

// String returns the config name of the format.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatPDF:
		return "pdf"
	default:
		return "json"
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// ParseFormat converts a config name ("json", "csv", "pdf") into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return FormatJSON, fmt.Errorf("unknown export format %q", s)
	}
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool)
	var formats []Format
	for _, name := range names {
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// Encode serializes the document in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return encodeJSON(doc)
	case FormatCSV:
		return encodeCSV(doc)
	case FormatPDF:
		return encodePDF(doc)
	default:
		return nil, fmt.Errorf("unknown export format %d", format)
	}
}

func encodeJSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// encodeCSV writes two tables separated by a blank line:
//
//	clean_song,play_count,percentage
//	Cover Me Up,8,100.0
//
//	venue,shows,total_songs,avg_songs_per_show
//	Ryman Auditorium,3,57,19.0
func encodeCSV(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"clean_song", "play_count", "percentage"})
	for _, s := range doc.SongFrequency {
		_ = w.Write([]string{s.CleanSong, strconv.Itoa(s.PlayCount), formatFloat(s.Percentage)})
	}
	w.Flush()
	buf.WriteString("\n")

	_ = w.Write([]string{"venue", "shows", "total_songs", "avg_songs_per_show"})
	for _, v := range doc.Venues {
		_ = w.Write([]string{v.Venue, strconv.Itoa(v.Shows), strconv.Itoa(v.TotalSongs), formatFloat(v.AvgSongsPerShow)})
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodePDF(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Concert Setlist Summary")
	pdf.Ln(12)

	st := doc.Stats
	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Shows: %d", st.TotalShows),
		fmt.Sprintf("Songs performed: %d (%d unique)", st.TotalSongs, st.UniqueSongs),
		fmt.Sprintf("Venues: %d", st.TotalVenues),
		fmt.Sprintf("Covers: %d   Special performances: %d", st.Covers, st.SpecialPerformances),
	}
	if st.DateRange != nil {
		lines = append(lines, fmt.Sprintf("Dates: %s to %s", st.DateRange.FirstShow, st.DateRange.LastShow))
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}

	section := func(title string) {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
	}

	section("Most Played Songs")
	for i, s := range doc.SongFrequency {
		pdf.CellFormat(10, 6, strconv.Itoa(i+1)+".", "", 0, "R", false, 0, "")
		pdf.CellFormat(110, 6, tr(s.CleanSong), "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(s.PlayCount), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, formatFloat(s.Percentage)+"%", "", 1, "R", false, 0, "")
	}

	section("Venues")
	for _, v := range doc.Venues {
		line := fmt.Sprintf("%s: %d show(s), %d songs, %s per show", v.Venue, v.Shows, v.TotalSongs, formatFloat(v.AvgSongsPerShow))
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}

	section("Setlists")
	for _, show := range doc.Shows {
		pdf.SetFont("Arial", "B", 10)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s - %s (%d songs)", show.Date, show.Venue, show.SongCount)), "0", "L", false)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, tr(strings.Join(show.Songs, " / ")), "0", "L", false)
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
