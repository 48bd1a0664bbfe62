package export

import (
	"context"
	"fmt"
	"path/filepath"

	ioutils "github.com/handiism/setlist-stats/internal/io"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseName is the file name (without extension) of written exports.
const DefaultBaseName = "concert_data"

// Writer encodes a document in several formats and writes the files
// concurrently.
//
// Example:
//
//	w := export.NewWriter("/exports", "")
//	paths, err := w.WriteAll(ctx, doc, []export.Format{export.FormatJSON, export.FormatPDF})
//	// paths = ["/exports/concert_data.json", "/exports/concert_data.pdf"]
type Writer struct {
	dir      string
	baseName string
}

// NewWriter creates a Writer for dir. An empty baseName selects DefaultBaseName.
func NewWriter(dir, baseName string) *Writer {
	if baseName == "" {
		baseName = DefaultBaseName
	}
	return &Writer{dir: dir, baseName: ioutils.SanitizeFileName(baseName)}
}

// Path returns the file path used for format.
func (w *Writer) Path(format Format) string {
	return filepath.Join(w.dir, w.baseName+format.Extension())
}

// WriteAll writes one file per format and returns their paths in the
// order of formats.
//
// The directory is created if needed. Encoding and writing run in
// parallel; the first error cancels the remaining writes.
func (w *Writer) WriteAll(ctx context.Context, doc *Document, formats []Format) ([]string, error) {
	if err := ioutils.EnsureDir(w.dir); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	paths := make([]string, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			data, err := Encode(doc, format)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", format, err)
			}
			path := w.Path(format)
			if err := ioutils.WriteFile(ctx, path, data); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
