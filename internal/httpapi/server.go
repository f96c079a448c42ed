package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"secretsource/internal/app/artists"
	"secretsource/internal/catalog"
)

// ArtistService describes artist catalogue workflows.
type ArtistService interface {
	List(ctx context.Context, filter catalog.Filter) ([]catalog.Artist, error)
	DatasetNames(ctx context.Context) []string
	Get(ctx context.Context, name string) (catalog.Artist, error)
	Stats(ctx context.Context, filter catalog.Filter) (catalog.Stats, error)
	Random(ctx context.Context, filter catalog.Filter) (artists.Discovery, error)
}

const apiPrefix = "/api/v1"

// Server wires HTTP handlers to the underlying services.
type Server struct {
	artists ArtistService
}

// New configures a Server around the artist service.
func New(artists ArtistService) *Server {
	return &Server{artists: artists}
}

// Routes exposes the HTTP handlers for discovery and statistics.
func (s *Server) Routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	// Registered on the root router so a wrong method answers 405.
	router.HandleFunc(apiPrefix+"/datasets", s.handleDatasets).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/artists", s.handleArtists).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/artists/random", s.handleRandomArtist).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/artists/{name}", s.handleArtist).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/stats", s.handleStats).Methods(http.MethodGet)

	return router
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
