package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/handiism/setlist-stats/internal/audio"
	"github.com/handiism/setlist-stats/internal/config"
	"github.com/handiism/setlist-stats/internal/export"
	"github.com/handiism/setlist-stats/internal/http"
	ioutils "github.com/handiism/setlist-stats/internal/io"
	"github.com/handiism/setlist-stats/internal/model"
	"github.com/handiism/setlist-stats/internal/setlist"
	"golang.org/x/sync/errgroup"
)

// PlaylistDir is the sub-directory of the output directory that
// receives show playlists.
const PlaylistDir = "playlists"

var (
	// ErrNotLoaded is returned by operations that need a table before Load succeeded.
	ErrNotLoaded = errors.New("setlist data not loaded")

	// ErrNoLibrary is returned by CreatePlaylists when no library path is configured.
	ErrNoLibrary = errors.New("no music library configured")

	// ErrShowNotFound is returned by TagShow when no show has the requested date.
	ErrShowNotFound = errors.New("show not found")
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates loading a setlist table and producing its outputs.
type Manager struct {
	settings   *config.Settings
	httpClient *http.Client
	writer     *export.Writer
	tagger     *audio.Tagger
	playlist   *audio.PlaylistCreator

	table   *setlist.Table
	library *audio.Library

	totalPlaylists   int32
	writtenPlaylists int32

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		httpClient: http.NewClient(settings.FetchTimeout()),
		writer:     export.NewWriter(settings.OutputDir, settings.ExportBaseName),
		tagger:     audio.NewTagger(settings.ToTagConfig()),
		playlist:   audio.NewPlaylistCreator(settings.ToPlaylistFormat(), settings.M3UExtended),
		onProgress: onProgress,
	}
}

// Load reads the configured input, a local path or an http(s) URL,
// into a table.
func (m *Manager) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts, err := m.settings.ToTableOptions()
	if err != nil {
		return err
	}

	input := m.settings.InputPath
	var table *setlist.Table
	if m.settings.IsRemoteInput() {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching %s", input), Level: LevelVerbose})
		data, err := m.httpClient.Fetch(ctx, input, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", input, err)
		}
		table, err = setlist.Load(bytes.NewReader(data), opts...)
		if err != nil {
			return err
		}
	} else {
		table, err = setlist.Open(input, opts...)
		if err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.table = table
	m.mu.Unlock()

	stats := table.Stats()
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Loaded %d performances of %d songs across %d shows", stats.TotalSongs, stats.UniqueSongs, stats.TotalShows),
		Level:   LevelInfo,
	})
	return nil
}

// Table returns the loaded table, or nil before Load succeeds.
func (m *Manager) Table() *setlist.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table
}

// Run exports the summary and, when enabled, writes show playlists.
func (m *Manager) Run(ctx context.Context) error {
	if _, err := m.Export(ctx); err != nil {
		return err
	}
	if m.settings.CreatePlaylists {
		if _, err := m.CreatePlaylists(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Export writes the summary document in every configured format.
func (m *Manager) Export(ctx context.Context) ([]string, error) {
	table := m.Table()
	if table == nil {
		return nil, ErrNotLoaded
	}

	formats, err := m.settings.ToExportFormats()
	if err != nil {
		return nil, err
	}

	paths, err := m.writer.WriteAll(ctx, export.Summary(table), formats)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error exporting: %v", err), Level: LevelError})
		return nil, err
	}
	for _, p := range paths {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Exported %s", p), Level: LevelSuccess})
	}
	return paths, nil
}

// CreatePlaylists scans the music library and writes one playlist per
// show into the playlists directory. Shows with no song in the library
// are skipped. Returns the written paths in show order.
func (m *Manager) CreatePlaylists(ctx context.Context) ([]string, error) {
	table := m.Table()
	if table == nil {
		return nil, ErrNotLoaded
	}

	library, err := m.Library(ctx)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(m.settings.OutputDir, PlaylistDir)
	if err := ioutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create playlist directory: %w", err)
	}

	shows := table.Shows()
	atomic.StoreInt32(&m.totalPlaylists, int32(len(shows)))
	atomic.StoreInt32(&m.writtenPlaylists, 0)

	paths := make([]string, len(shows))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency())
	for i, show := range shows {
		g.Go(func() error {
			defer atomic.AddInt32(&m.writtenPlaylists, 1)

			pl, missing := library.Resolve(show, m.settings.Artist)
			if len(missing) == len(show.Songs) {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: no songs in library", show.Date), Level: LevelVerbose})
				return nil
			}
			for _, song := range missing {
				m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %q not in library", show.Date, song), Level: LevelVerbose})
			}

			path := filepath.Join(dir, audio.PlaylistFileName(show, m.playlist.Format()))
			content := m.playlist.CreatePlaylist(pl.RelativeTo(dir))
			if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
				return fmt.Errorf("failed to write playlist %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlists: %v", err), Level: LevelError})
		return nil, err
	}

	var written []string
	for _, p := range paths {
		if p != "" {
			written = append(written, p)
		}
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created %d of %d playlists", len(written), len(shows)), Level: LevelSuccess})
	return written, nil
}

// Library returns the scanned music library, scanning it on first use.
func (m *Manager) Library(ctx context.Context) (*audio.Library, error) {
	m.mu.RLock()
	library := m.library
	m.mu.RUnlock()
	if library != nil {
		return library, nil
	}

	if m.settings.LibraryPath == "" {
		return nil, ErrNoLibrary
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Scanning library %s", m.settings.LibraryPath), Level: LevelInfo})
	library, err := audio.ScanLibrary(ctx, m.settings.LibraryPath, m.concurrency())
	if err != nil {
		return nil, fmt.Errorf("failed to scan library: %w", err)
	}
	for _, p := range library.Skipped {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Unreadable tags: %s", p), Level: LevelWarning})
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Indexed %d tracks", library.Len()), Level: LevelInfo})

	m.mu.Lock()
	m.library = library
	m.mu.Unlock()
	return library, nil
}

// TagShow writes the setlist of the show on date into the recordings in dir.
func (m *Manager) TagShow(ctx context.Context, dir, date string) ([]string, error) {
	table := m.Table()
	if table == nil {
		return nil, ErrNotLoaded
	}

	day, err := table.ParseDate(date)
	if err != nil {
		return nil, err
	}
	show, ok := findShow(table.Shows(), day.Format(model.DateFormat))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShowNotFound, date)
	}

	paths, err := m.tagger.TagShow(ctx, dir, show, m.settings.Artist)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", dir, err), Level: LevelError})
		return paths, err
	}
	for _, p := range paths {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged: %s", filepath.Base(p)), Level: LevelVerbose})
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged %d recordings of %s", len(paths), audio.AlbumTitle(show)), Level: LevelSuccess})
	return paths, nil
}

// GetProgress returns playlist writing progress.
func (m *Manager) GetProgress() (written, total int32) {
	return atomic.LoadInt32(&m.writtenPlaylists), atomic.LoadInt32(&m.totalPlaylists)
}

func (m *Manager) concurrency() int {
	if m.settings.MaxConcurrentScans > 0 {
		return m.settings.MaxConcurrentScans
	}
	return 1
}

func findShow(shows []model.Show, date string) (model.Show, bool) {
	for _, s := range shows {
		if s.Date == date {
			return s, true
		}
	}
	return model.Show{}, false
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
