package musicapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secretsource/internal/catalog"
)

func newSpotifyServer(t *testing.T, searchBody string, tokenCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "artist", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testSpotifyClient(srv *httptest.Server) *SpotifyClient {
	c := NewSpotifyClient("id", "secret", nil)
	c.authURL = srv.URL + "/api/token"
	c.apiURL = srv.URL + "/v1/"
	return c
}

func TestSpotifyFindLinksExactMatch(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newSpotifyServer(t, `{"artists":{"items":[
		{"id":"1","name":"Leaf Collective","external_urls":{"spotify":"https://open.spotify.com/artist/1"}},
		{"id":"2","name":"leaf","external_urls":{"spotify":"https://open.spotify.com/artist/2"}}
	]}}`, &tokenCalls)
	c := testSpotifyClient(srv)

	links, err := c.FindLinks(context.Background(), "Leaf")
	require.NoError(t, err)
	assert.Equal(t, "https://open.spotify.com/artist/2", links.Get(catalog.Spotify))

	_, err = c.FindLinks(context.Background(), "Leaf")
	require.NoError(t, err)
	assert.Equal(t, int32(1), tokenCalls.Load(), "token should be reused")
}

func TestSpotifyFindLinksNoMatch(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newSpotifyServer(t, `{"artists":{"items":[{"id":"1","name":"Someone Else","external_urls":{"spotify":"x"}}]}}`, &tokenCalls)

	_, err := testSpotifyClient(srv).FindLinks(context.Background(), "Triviul")
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestSpotifyAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_client", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testSpotifyClient(srv).FindLinks(context.Background(), "Leaf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spotify auth failed")
}
