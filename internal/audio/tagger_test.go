package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/handiism/setlist-stats/internal/model"
)

func testShow() model.Show {
	return model.Show{
		Date:      "2023-06-01",
		Venue:     "Red Rocks",
		Songs:     []string{"Song1", "Song2 (cover)"},
		SongCount: 2,
	}
}

func TestTagger_TagShow(t *testing.T) {
	dir := t.TempDir()
	writeMP3(t, filepath.Join(dir, "02.mp3"), nil)
	writeMP3(t, filepath.Join(dir, "01.mp3"), nil)

	tagger := NewTagger(nil)
	paths, err := tagger.TagShow(context.Background(), dir, testShow(), "Test Artist")
	if err != nil {
		t.Fatalf("TagShow failed: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "01.mp3" {
		t.Fatalf("paths = %v", paths)
	}

	tests := []struct {
		file    string
		title   string
		track   string
		comment string
	}{
		{"01.mp3", "Song1", "1/2", ""},
		{"02.mp3", "Song2", "2/2", "Song2 (cover)"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			tag, err := id3v2.Open(filepath.Join(dir, tt.file), id3v2.Options{Parse: true})
			if err != nil {
				t.Fatalf("failed to open: %v", err)
			}
			defer tag.Close()

			if got := tag.Title(); got != tt.title {
				t.Errorf("Title = %q, want %q", got, tt.title)
			}
			if got := tag.Artist(); got != "Test Artist" {
				t.Errorf("Artist = %q", got)
			}
			if got := tag.Album(); got != "Live at Red Rocks (2023-06-01)" {
				t.Errorf("Album = %q", got)
			}
			if got := tag.GetTextFrame("TRCK").Text; got != tt.track {
				t.Errorf("TRCK = %q, want %q", got, tt.track)
			}
			if got := tag.GetTextFrame("TDRC").Text; got != "2023-06-01" {
				t.Errorf("TDRC = %q", got)
			}

			comments := tag.GetFrames(tag.CommonID("Comments"))
			if tt.comment == "" {
				if len(comments) != 0 {
					t.Errorf("expected no comment, got %d", len(comments))
				}
				return
			}
			if len(comments) != 1 {
				t.Fatalf("expected 1 comment, got %d", len(comments))
			}
			cf, ok := comments[0].(id3v2.CommentFrame)
			if !ok || cf.Text != tt.comment {
				t.Errorf("comment = %+v, want %q", comments[0], tt.comment)
			}
		})
	}
}

func TestTagger_CountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeMP3(t, filepath.Join(dir, "01.mp3"), nil)

	_, err := NewTagger(nil).TagShow(context.Background(), dir, testShow(), "Test Artist")
	if !errors.Is(err, ErrTrackCountMismatch) {
		t.Fatalf("expected ErrTrackCountMismatch, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "01.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "not really mpeg audio data" {
		t.Error("file should not be modified on mismatch")
	}
}

func TestTagger_DoNotModify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "01.mp3")
	writeMP3(t, path, map[string]string{"TIT2": "Original", "TPE1": "Original Artist"})

	cfg := DefaultTagConfig()
	cfg.TrackTitle = TagDoNotModify
	cfg.Artist = TagEmpty

	rec := Recording{Path: path, Artist: "New Artist", Show: testShow(), Number: 1, Song: "Song1"}
	if err := NewTagger(cfg).SaveTags(rec); err != nil {
		t.Fatalf("SaveTags failed: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()
	if tag.Title() != "Original" {
		t.Errorf("Title = %q, want unchanged", tag.Title())
	}
	if tag.Artist() != "" {
		t.Errorf("Artist = %q, want empty", tag.Artist())
	}
}
