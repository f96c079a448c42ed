package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"secretsource/internal/app/artists"
	"secretsource/internal/catalog"
	"secretsource/internal/logging"
)

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	names := s.artists.DatasetNames(r.Context())
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": names})
}

func (s *Server) handleArtists(w http.ResponseWriter, r *http.Request) {
	list, err := s.artists.List(r.Context(), parseFilter(r.URL.Query()))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if list == nil {
		list = []catalog.Artist{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"artists": list})
}

func (s *Server) handleRandomArtist(w http.ResponseWriter, r *http.Request) {
	discovery, err := s.artists.Random(r.Context(), parseFilter(r.URL.Query()))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, discovery)
}

func (s *Server) handleArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.artists.Get(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.artists.Stats(r.Context(), parseFilter(r.URL.Query()))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, artists.ErrNotFound), errors.Is(err, artists.ErrNoArtists):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		logging.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseFilter reads repeated or comma separated dataset and linkType
// parameters. An absent linkType disables the link filter; a present but
// empty one selects no link types.
func parseFilter(q url.Values) catalog.Filter {
	return catalog.Filter{
		Datasets:  parseList(q, "dataset"),
		LinkTypes: parseList(q, "linkType"),
	}
}

func parseList(q url.Values, key string) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	out := []string{}
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
