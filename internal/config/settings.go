package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/setlist-stats/internal/audio"
	"github.com/handiism/setlist-stats/internal/export"
	"github.com/handiism/setlist-stats/internal/setlist"
	"gopkg.in/yaml.v3"
)

// ErrNoInput is returned by Validate when no input source is configured.
var ErrNoInput = errors.New("no input source configured")

// Settings holds all configuration options.
type Settings struct {
	// Input settings
	InputPath   string   `json:"input_path" yaml:"input_path"` // file path or http(s) URL
	DateLayouts []string `json:"date_layouts" yaml:"date_layouts"`
	PlayCount   string   `json:"play_count" yaml:"play_count"` // shows, rows

	// Query settings
	TopSongs int `json:"top_songs" yaml:"top_songs"`

	// Export settings
	OutputDir      string   `json:"output_dir" yaml:"output_dir"`
	ExportBaseName string   `json:"export_base_name" yaml:"export_base_name"`
	ExportFormats  []string `json:"export_formats" yaml:"export_formats"` // json, csv, pdf

	// Playlist settings
	CreatePlaylists    bool   `json:"create_playlists" yaml:"create_playlists"`
	PlaylistFormat     string `json:"playlist_format" yaml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended        bool   `json:"m3u_extended" yaml:"m3u_extended"`
	LibraryPath        string `json:"library_path" yaml:"library_path"`
	MaxConcurrentScans int    `json:"max_concurrent_scans" yaml:"max_concurrent_scans"`

	// Tag settings
	Artist     string `json:"artist" yaml:"artist"`
	ModifyTags bool   `json:"modify_tags" yaml:"modify_tags"`

	// Network settings
	FetchTimeoutSeconds float64 `json:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds"`
	ListenAddress       string  `json:"listen_address" yaml:"listen_address"`
}

// DefaultSettings returns settings with default values.
//
// InputPath has no default; it must come from a config file or flag.
func DefaultSettings() *Settings {
	return &Settings{
		PlayCount: "shows",
		TopSongs:  setlist.DefaultTopSongs,

		OutputDir:      ".",
		ExportBaseName: export.DefaultBaseName,
		ExportFormats:  []string{"json"},

		CreatePlaylists:    false,
		PlaylistFormat:     "m3u",
		M3UExtended:        true,
		MaxConcurrentScans: 8,

		ModifyTags: true,

		FetchTimeoutSeconds: 60,
		ListenAddress:       ":8080",
	}
}

// Load reads settings from a JSON or YAML file.
//
// The format is chosen by extension: .yaml and .yml are YAML, anything
// else is JSON. Fields absent from the file keep their default values.
// A missing file yields DefaultSettings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that settings can drive a run.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.InputPath) == "" {
		return ErrNoInput
	}
	if s.TopSongs <= 0 {
		return fmt.Errorf("%w: top_songs must be positive, got %d", setlist.ErrInvalidArgument, s.TopSongs)
	}
	if _, err := setlist.ParseCountMode(s.PlayCount); err != nil {
		return err
	}
	if _, err := s.ToExportFormats(); err != nil {
		return err
	}
	return nil
}

// ToTableOptions converts settings to setlist table options.
func (s *Settings) ToTableOptions() ([]setlist.Option, error) {
	mode, err := setlist.ParseCountMode(s.PlayCount)
	if err != nil {
		return nil, err
	}

	opts := []setlist.Option{setlist.WithCountMode(mode)}
	if len(s.DateLayouts) > 0 {
		opts = append(opts, setlist.WithDateLayouts(s.DateLayouts...))
	}
	return opts, nil
}

// ToExportFormats converts the configured format names.
// An empty list selects JSON only.
func (s *Settings) ToExportFormats() ([]export.Format, error) {
	if len(s.ExportFormats) == 0 {
		return []export.Format{export.FormatJSON}, nil
	}
	return export.ParseFormats(s.ExportFormats)
}

// ToPlaylistFormat converts the configured playlist format name.
// Unknown names select M3U.
func (s *Settings) ToPlaylistFormat() audio.PlaylistFormat {
	switch strings.ToLower(s.PlaylistFormat) {
	case "pls":
		return audio.FormatPLS
	case "wpl":
		return audio.FormatWPL
	case "zpl":
		return audio.FormatZPL
	default:
		return audio.FormatM3U
	}
}

// ToTagConfig converts settings to a recording tag configuration.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.ModifyTags = s.ModifyTags
	return cfg
}

// FetchTimeout returns the remote input timeout, or zero when unset (the
// HTTP client then applies its default).
func (s *Settings) FetchTimeout() time.Duration {
	if s.FetchTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.FetchTimeoutSeconds * float64(time.Second))
}

// IsRemoteInput reports whether InputPath is an http(s) URL.
func (s *Settings) IsRemoteInput() bool {
	return strings.HasPrefix(s.InputPath, "http://") || strings.HasPrefix(s.InputPath, "https://")
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
