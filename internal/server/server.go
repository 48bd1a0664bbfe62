package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/handiism/setlist-stats/internal/export"
	"github.com/handiism/setlist-stats/internal/model"
	"github.com/handiism/setlist-stats/internal/setlist"
)

// Service serves read-only queries over one loaded table.
//
// The table is never modified, so handlers share it without locking.
type Service struct {
	table    *setlist.Table
	logger   *slog.Logger
	topSongs int

	summaryOnce sync.Once
	summary     *export.Document
}

// New creates a Service. topSongs is the default for /api/songs/top
// when n is not given; values <= 0 select setlist.DefaultTopSongs.
func New(table *setlist.Table, logger *slog.Logger, topSongs int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if topSongs <= 0 {
		topSongs = setlist.DefaultTopSongs
	}
	return &Service{table: table, logger: logger, topSongs: topSongs}
}

// Router returns a chi router with the service endpoints and the
// standard middleware stack.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP registers the endpoints on a chi router.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/summary", s.handleSummary)
		r.Get("/venues", s.handleVenues)

		r.Route("/songs", func(r chi.Router) {
			r.Get("/top", s.handleTopSongs)
			r.Get("/rare", s.handleRareSongs)
			r.Get("/search", s.handleSearch)
		})

		r.Route("/shows", func(r chi.Router) {
			r.Get("/", s.handleShows)
			r.Get("/{date}", s.handleShow)
		})
	})
}

// GET /api/stats
func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.table.Stats())
}

// GET /api/summary
func (s *Service) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.summaryOnce.Do(func() {
		s.summary = export.Summary(s.table)
	})
	writeJSON(w, http.StatusOK, s.summary)
}

// GET /api/venues
func (s *Service) handleVenues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.table.VenueStats())
}

// GET /api/songs/top?n=10
func (s *Service) handleTopSongs(w http.ResponseWriter, r *http.Request) {
	n := s.topSongs
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid n %q", raw))
			return
		}
		n = v
	}

	songs, err := s.table.TopSongs(n)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// GET /api/songs/rare
func (s *Service) handleRareSongs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.table.RareSongs())
}

// GET /api/songs/search?q=cover
func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.table.FindSongAppearances(r.URL.Query().Get("q")))
}

// GET /api/shows
func (s *Service) handleShows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.table.Shows())
}

// GET /api/shows/{date}
func (s *Service) handleShow(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")
	day, err := s.table.ParseDate(raw)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Date  string   `json:"date"`
		Songs []string `json:"songs"`
	}{
		Date:  day.Format(model.DateFormat),
		Songs: s.table.ShowSetlist(day),
	})
}

func (s *Service) writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, setlist.ErrInvalidArgument) || errors.Is(err, setlist.ErrDateParse) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.logger.Error("query failed", "error", err)
	writeError(w, http.StatusInternalServerError, err)
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
