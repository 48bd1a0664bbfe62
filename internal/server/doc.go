// Package server exposes a loaded setlist table as a JSON HTTP API.
//
//	GET /healthz
//	GET /api/stats
//	GET /api/summary
//	GET /api/venues
//	GET /api/songs/top?n=10
//	GET /api/songs/rare
//	GET /api/songs/search?q=cover
//	GET /api/shows
//	GET /api/shows/{date}
//
// Invalid query values answer 400 with {"error": "..."}.
package server
