// Package export turns a setlist table into a summary document for
// visualization tools and writes it to disk.
//
// # Summary Document
//
//	doc := export.Summary(table)
//
// The document holds every show with its setlist, the top 20 songs,
// venue statistics keyed by venue, the rare songs and the overall stats.
//
// # Formats
//
//   - JSON: the full document, as consumed by charting tools
//   - CSV: song frequency and venue tables
//   - PDF: a printable report
//
// # Writing Files
//
//	w := export.NewWriter(outputDir, "concert_data")
//	paths, err := w.WriteAll(ctx, doc, []export.Format{export.FormatJSON, export.FormatCSV})
package export
