// Package ioutils provides the file helpers used by exporters and
// playlist writers.
//
// # File Operations
//
//	// Ensure the export directory exists
//	err := ioutils.EnsureDir("/exports")
//
//	// Write a file atomically
//	err := ioutils.WriteFile(ctx, "/exports/concert_data.json", data)
//
// # Filename Sanitization
//
// Show playlists are named after date and venue, which may contain
// characters that are not valid in file names:
//
//	safe := ioutils.SanitizeFileName("2023-06-01 AC/DC Tribute") // "2023-06-01 AC_DC Tribute"
package ioutils
