package setlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/handiism/setlist-stats/internal/model"
)

// Required column names, matched case-insensitively against the header.
const (
	ColumnDate  = "Date"
	ColumnVenue = "Venue"
	ColumnSong  = "Song"
)

// Open loads a table from the CSV file at path.
//
// The path is required; there is no default location.
//
// Example:
//
//	table, err := setlist.Open("data/setlists.csv")
//	if errors.Is(err, setlist.ErrLoad) {
//	    log.Fatal("not a setlist CSV: ", err)
//	}
func Open(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Reason: "failed to open " + path, Err: err}
	}
	defer f.Close()

	return Load(f, opts...)
}

// Load reads a CSV source with a header row into a Table.
//
// This method performs the following steps:
//  1. Reads the header and locates the Date, Venue and Song columns
//  2. Reads every record, ignoring extra columns
//  3. Parses each Date value into a calendar date
//  4. Computes the derived song fields for every row
//
// Returns a *LoadError (matching ErrLoad) if the source is empty, is not
// valid CSV, or lacks a required column. Returns a *DateParseError
// (matching ErrDateParse) on the first Date value that cannot be parsed.
// No partial table is returned on failure.
func Load(r io.Reader, opts ...Option) (*Table, error) {
	o := applyOptions(opts)

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, &LoadError{Reason: "source is empty"}
	}
	if err != nil {
		return nil, &LoadError{Reason: "failed to read CSV header", Err: err}
	}

	cols, err := locateColumns(headers)
	if err != nil {
		return nil, err
	}

	var rows []model.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Reason: "failed to read CSV record", Err: err}
		}

		value := record[cols.date]
		date, ok := parseDate(value, o.dateLayouts)
		if !ok {
			line, _ := reader.FieldPos(cols.date)
			return nil, &DateParseError{Line: line, Value: value}
		}

		rows = append(rows, model.NewRow(date, strings.TrimSpace(record[cols.venue]), strings.TrimSpace(record[cols.song])))
	}

	return newTable(rows, o), nil
}

type columns struct {
	date, venue, song int
}

// locateColumns maps the required column names to header positions.
func locateColumns(headers []string) (columns, error) {
	cols := columns{date: -1, venue: -1, song: -1}
	for i, h := range headers {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(name, ColumnDate) && cols.date < 0:
			cols.date = i
		case strings.EqualFold(name, ColumnVenue) && cols.venue < 0:
			cols.venue = i
		case strings.EqualFold(name, ColumnSong) && cols.song < 0:
			cols.song = i
		}
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, ColumnDate)
	}
	if cols.venue < 0 {
		missing = append(missing, ColumnVenue)
	}
	if cols.song < 0 {
		missing = append(missing, ColumnSong)
	}
	if len(missing) > 0 {
		return cols, &LoadError{
			Reason: fmt.Sprintf("missing required column(s) %s in header %q", strings.Join(missing, ", "), headers),
		}
	}
	return cols, nil
}
