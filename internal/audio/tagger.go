package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/setlist-stats/internal/model"
)

// ErrTrackCountMismatch is returned by TagShow when the number of
// recordings in a directory differs from the length of the setlist.
var ErrTrackCountMismatch = errors.New("recording count does not match setlist")

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the setlist.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Artist:      TagModify,      // Set the performing artist
//	    Album:       TagModify,      // "Live at <venue> (<date>)"
//	    TrackTitle:  TagModify,      // Clean song title
//	    TrackNumber: TagModify,      // Setlist position
//	    Date:        TagModify,      // Show date
//	    Comments:    TagModify,      // Raw setlist text with annotations
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no tags are modified.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// Date controls the TDRC (Recording time) frame.
	Date TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration, which sets
// every supported frame from the setlist.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		Album:       TagModify,
		TrackTitle:  TagModify,
		TrackNumber: TagModify,
		Date:        TagModify,
		Comments:    TagModify,
	}
}

// Recording describes one live recording to tag.
type Recording struct {
	Path   string
	Artist string
	Show   model.Show
	Number int    // 1-based setlist position
	Song   string // raw setlist text
}

// Tagger writes setlist metadata into the ID3 tags of live recordings.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	paths, err := tagger.TagShow(ctx, "/recordings/2023-06-01", show, "Jason Isbell")
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// AlbumTitle returns the album name used for a show's recordings.
func AlbumTitle(show model.Show) string {
	return fmt.Sprintf("Live at %s (%s)", show.Venue, show.Date)
}

// TagShow tags the .mp3 files of dir with the setlist of show.
//
// Files are paired with songs in file name order, so recordings are
// expected to be named with their setlist position ("01 ...", "02 ...").
// Returns ErrTrackCountMismatch, without touching any file, if the file
// count differs from the song count. Returns the tagged paths.
func (t *Tagger) TagShow(ctx context.Context, dir string, show model.Show, artist string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".mp3") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) != len(show.Songs) {
		return nil, fmt.Errorf("%w: %d file(s) in %s, %d song(s) on %s", ErrTrackCountMismatch, len(paths), dir, len(show.Songs), show.Date)
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return paths[:i], err
		}
		rec := Recording{Path: path, Artist: artist, Show: show, Number: i + 1, Song: show.Songs[i]}
		if err := t.SaveTags(rec); err != nil {
			return paths[:i], fmt.Errorf("failed to tag %s: %w", path, err)
		}
	}
	return paths, nil
}

// SaveTags writes ID3 tags to one recording.
//
// This method:
//  1. Opens the existing MP3 file (or creates empty tags if none exist)
//  2. Updates tags based on TagConfig settings
//  3. Saves the modified tags to the file
func (t *Tagger) SaveTags(rec Recording) error {
	tag, err := id3v2.Open(rec.Path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if !t.config.ModifyTags {
		return nil
	}

	t.updateTags(tag, rec)
	return tag.Save()
}

// updateTags updates ID3 frames based on configuration.
func (t *Tagger) updateTags(tag *id3v2.Tag, rec Recording) {
	// Artist (TPE1)
	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(rec.Artist)
	}

	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(AlbumTitle(rec.Show))
	}

	// Track Title (TIT2)
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(model.CleanSong(rec.Song))
	}

	// Track Number (TRCK) as "n/total"
	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d/%d", rec.Number, rec.Show.SongCount))
	}

	// Date (TDRC)
	switch t.config.Date {
	case TagEmpty:
		tag.DeleteFrames("TDRC")
	case TagModify:
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, rec.Show.Date)
	}

	// Comments (COMM) keep the raw setlist text when it carries annotations
	switch t.config.Comments {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		tag.DeleteFrames(tag.CommonID("Comments"))
		if model.CleanSong(rec.Song) != strings.TrimSpace(rec.Song) {
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: "setlist",
				Text:        rec.Song,
			})
		}
	}
}
