// Package analysis provides the orchestration logic that turns a
// configured input into exports, playlists and tagged recordings.
//
// # Manager
//
// The Manager coordinates the whole run:
//
//  1. Load the setlist CSV from a local path or URL
//  2. Export the summary document (JSON, CSV, PDF)
//  3. Scan the music library and write show playlists (optional)
//  4. Tag a directory of live recordings with a show's setlist (on request)
//
// # Basic Usage
//
//	manager := analysis.NewManager(settings, func(event analysis.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := manager.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Library scanning and playlist writing run in parallel, limited by
// settings.MaxConcurrentScans. The progress callback may be called from
// several goroutines at once.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package analysis
