// Package config provides configuration management for setlist-stats.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to table options, export formats and playlist formats
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/setlist.yaml")
//	if err != nil {
//	    // The file exists but could not be parsed
//	}
//
// A missing file yields DefaultSettings. The input source has no default
// and must be set in the file or on the command line; Validate reports
// ErrNoInput otherwise.
//
// # Example YAML
//
//	input_path: data/setlists.csv
//	play_count: shows
//	output_dir: exports
//	export_formats: [json, pdf]
//	create_playlists: true
//	playlist_format: m3u
//	library_path: ~/Music/Live
package config
