package audio

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ioutils "github.com/handiism/setlist-stats/internal/io"
	"github.com/handiism/setlist-stats/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// Entry is one playable item of a playlist.
type Entry struct {
	Title    string
	Artist   string
	Path     string
	Duration float64 // seconds; 0 when unknown
}

// Playlist is the ordered list of files for one show.
type Playlist struct {
	Title   string
	Entries []Entry
}

// PlaylistFileName returns the sanitized file name for a show's playlist,
// such as "2023-06-01 Red Rocks Amphitheatre.m3u".
func PlaylistFileName(show model.Show, format PlaylistFormat) string {
	return ioutils.SanitizeFileName(show.Date+" "+show.Venue) + format.Extension()
}

// RelativeTo returns a copy of the playlist whose entry paths are
// relative to dir, where the playlist file will be saved. Paths that
// cannot be made relative are kept as they are.
func (p *Playlist) RelativeTo(dir string) *Playlist {
	out := &Playlist{Title: p.Title, Entries: make([]Entry, len(p.Entries))}
	for i, e := range p.Entries {
		if rel, err := filepath.Rel(dir, e.Path); err == nil {
			e.Path = filepath.ToSlash(rel)
		}
		out.Entries[i] = e
	}
	return out
}

// PlaylistCreator generates playlist files in various formats.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	playlist, missing := library.Resolve(show, "Jason Isbell")
//	content := creator.CreatePlaylist(playlist.RelativeTo(outputDir))
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:312,Jason Isbell - Cover Me Up
//	// ../Live/2023-06-01/01 Cover Me Up.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content.
//
// Entries without a path are skipped. Returns the playlist as a string,
// ready to be written to a file.
func (p *PlaylistCreator) CreatePlaylist(pl *Playlist) string {
	playable := &Playlist{Title: pl.Title}
	for _, e := range pl.Entries {
		if e.Path != "" {
			playable.Entries = append(playable.Entries, e)
		}
	}

	switch p.format {
	case FormatPLS:
		return p.createPLS(playable)
	case FormatWPL:
		return p.createWPL(playable)
	case FormatZPL:
		return p.createZPL(playable)
	default:
		return p.createM3U(playable)
	}
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#PLAYLIST:2023-06-01 Red Rocks
//	#EXTINF:180,Artist - Title
//	path/to/file1.mp3
func (p *PlaylistCreator) createM3U(pl *Playlist) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
		if pl.Title != "" {
			sb.WriteString(fmt.Sprintf("#PLAYLIST:%s\n", pl.Title))
		}
	}

	for _, e := range pl.Entries {
		if p.extended {
			duration := int(e.Duration)
			if duration == 0 {
				duration = -1
			}
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", duration, displayTitle(e)))
		}
		sb.WriteString(e.Path + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=path/to/file1.mp3
//	Title1=Song Title
//	Length1=180
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(pl *Playlist) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range pl.Entries {
		idx := i + 1
		length := int(e.Duration)
		if length == 0 {
			length = -1
		}
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, e.Path))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, displayTitle(e)))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, length))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(pl.Entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
func (p *PlaylistCreator) createWPL(pl *Playlist) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(pl.Title)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range pl.Entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(e.Path)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL generates a Zune/Groove Music playlist.
//
// ZPL is similar to WPL but carries per-entry title, artist and duration.
func (p *PlaylistCreator) createZPL(pl *Playlist) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(pl.Title)))
	sb.WriteString("    <meta name=\"Generator\" content=\"setlist-stats\"/>\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(pl.Entries)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range pl.Entries {
		duration := time.Duration(e.Duration * float64(time.Second))
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\" albumTitle=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\" duration=\"%d\"/>\n",
			escapeXML(e.Path),
			escapeXML(pl.Title),
			escapeXML(e.Title),
			escapeXML(e.Artist),
			duration.Milliseconds()))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func displayTitle(e Entry) string {
	if e.Artist == "" {
		return e.Title
	}
	return e.Artist + " - " + e.Title
}

// escapeXML escapes special XML characters in a string.
//
// Replaces: & < > " '
// With:     &amp; &lt; &gt; &quot; &apos;
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
