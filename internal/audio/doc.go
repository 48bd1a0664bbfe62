// Package audio connects setlists to audio files: it indexes a library
// of MP3s by their ID3 titles, builds per-show playlists from it, and
// writes setlist metadata into the tags of live recordings.
//
// # Library
//
// Scan a directory tree of MP3 files:
//
//	lib, err := audio.ScanLibrary(ctx, "/music/Jason Isbell", 8)
//	track, ok := lib.Lookup("Cover Me Up (with Amanda)")
//
// Titles are matched after annotations are stripped, ignoring case.
//
// # Playlist Generation
//
// Turn a show into a playlist and render it:
//
//	playlist, missing := lib.Resolve(show, "Jason Isbell")
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(playlist.RelativeTo(outputDir))
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
//
// # ID3 Tagging
//
// Tag a directory of recordings, one file per setlist entry:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	paths, err := tagger.TagShow(ctx, "/recordings/2023-06-01", show, "Jason Isbell")
//
// The tagger supports:
//   - Artist
//   - Album ("Live at <venue> (<date>)"), Track Title
//   - Track Number, Recording Date
//   - Comments holding the annotated setlist entry
package audio
