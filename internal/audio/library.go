package audio

import (
	"context"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/setlist-stats/internal/model"
	"golang.org/x/sync/errgroup"
)

// Track is an MP3 file known to the library.
type Track struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration float64 // seconds, from the TLEN frame; 0 when absent
}

// Library maps song titles to MP3 files so that setlists can be turned
// into playable playlists.
//
// Titles are matched the way rows are counted: annotations are stripped
// with model.CleanSong and case is ignored, so a file titled
// "Cover Me Up (Live)" plays for the setlist entry "Cover Me Up (with Sadler)".
type Library struct {
	tracks  []Track
	byTitle map[string][]int

	// Skipped lists files whose tags could not be read.
	Skipped []string
}

// leading track number in file names like "01 Song.mp3" or "01 - Song.mp3"
var trackNumberPrefix = regexp.MustCompile(`^\d+\s*[-.]?\s*`)

// NewLibrary creates a Library from known tracks.
//
// Tracks are ordered by path, and the first track with a given title
// wins a lookup.
func NewLibrary(tracks []Track) *Library {
	sorted := make([]Track, len(tracks))
	copy(sorted, tracks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	lib := &Library{tracks: sorted, byTitle: make(map[string][]int)}
	for i, t := range sorted {
		key := titleKey(t.Title)
		lib.byTitle[key] = append(lib.byTitle[key], i)
	}
	return lib
}

// ScanLibrary walks root and reads the ID3 tags of every .mp3 file.
//
// Up to limit files are read concurrently (limit <= 0 means 1). Files
// whose tags cannot be parsed are listed in Library.Skipped rather than
// failing the scan. A file without a title tag is indexed under its
// file name, minus any leading track number.
//
// Returns an error if root cannot be walked or ctx is cancelled.
func ScanLibrary(ctx context.Context, root string, limit int) (*Library, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".mp3") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 1
	}

	tracks := make([]*Track, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			track, err := readTrack(path)
			if err != nil {
				return nil // recorded as skipped below
			}
			tracks[i] = track
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var found []Track
	var skipped []string
	for i, t := range tracks {
		if t == nil {
			skipped = append(skipped, paths[i])
			continue
		}
		found = append(found, *t)
	}

	lib := NewLibrary(found)
	lib.Skipped = skipped
	return lib, nil
}

func readTrack(path string) (*Track, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer tag.Close()

	track := &Track{
		Path:   path,
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
		Album:  strings.TrimSpace(tag.Album()),
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(tag.GetTextFrame("TLEN").Text)); err == nil && ms > 0 {
		track.Duration = float64(ms) / 1000
	}
	if track.Title == "" {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		track.Title = trackNumberPrefix.ReplaceAllString(name, "")
	}
	return track, nil
}

// Len returns the number of indexed tracks.
func (l *Library) Len() int {
	return len(l.tracks)
}

// Lookup finds the track for a raw or clean song title.
func (l *Library) Lookup(song string) (Track, bool) {
	idx, ok := l.byTitle[titleKey(song)]
	if !ok || len(idx) == 0 {
		return Track{}, false
	}
	return l.tracks[idx[0]], true
}

// Resolve builds the playlist for a show.
//
// Every setlist entry becomes a playlist entry; entries whose song is not
// in the library have an empty Path and are also returned in missing, in
// setlist order. artist is used for entries whose track has no artist tag.
func (l *Library) Resolve(show model.Show, artist string) (pl *Playlist, missing []string) {
	pl = &Playlist{Title: show.Date + " " + show.Venue}
	for _, song := range show.Songs {
		entry := Entry{Title: model.CleanSong(song), Artist: artist}
		if track, ok := l.Lookup(song); ok {
			entry.Path = track.Path
			entry.Duration = track.Duration
			if track.Artist != "" {
				entry.Artist = track.Artist
			}
		} else {
			missing = append(missing, song)
		}
		pl.Entries = append(pl.Entries, entry)
	}
	return pl, missing
}

func titleKey(title string) string {
	return strings.ToLower(model.CleanSong(title))
}
