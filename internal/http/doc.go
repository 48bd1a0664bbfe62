// Package http provides the HTTP client used to fetch setlist exports
// published at a URL.
//
// The Client in this package handles:
//   - User-Agent and Accept headers
//   - Download progress tracking
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(30 * time.Second)
//
//	data, err := client.Fetch(ctx, "https://example.com/setlists.csv", func(read, total int64) {
//	    fmt.Printf("%d bytes\n", read)
//	})
//
// A non-200 response is reported as a *StatusError.
package http
