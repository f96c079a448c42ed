package musicapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"secretsource/internal/catalog"
)

const (
	spotifyAuthURL = "https://accounts.spotify.com/api/token"
	spotifyAPIURL  = "https://api.spotify.com/v1/"
)

// SpotifyClient finds Spotify artist pages using client credentials.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	limiters     *RateLimiters
	authURL      string
	apiURL       string

	mu          sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

// NewSpotifyClient creates a new Spotify API client. limiters may be nil.
func NewSpotifyClient(clientID, clientSecret string, limiters *RateLimiters) *SpotifyClient {
	return &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiters: limiters,
		authURL:  spotifyAuthURL,
		apiURL:   spotifyAPIURL,
	}
}

type spotifySearchResponse struct {
	Artists *spotifyArtistsPage `json:"artists,omitempty"`
}

type spotifyArtistsPage struct {
	Items []spotifyArtist `json:"items"`
}

type spotifyArtist struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Genres       []string            `json:"genres"`
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// authenticate obtains an access token from Spotify
func (c *SpotifyClient) authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	authString := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create auth request: %w", err)
	}

	req.Header.Set("Authorization", "Basic "+authString)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify auth failed: %s - %s", resp.Status, string(body))
	}

	var tokenResp spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return nil
}

// doRequest performs an authenticated request to Spotify API
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if err := c.limiters.Wait(ctx, ProviderSpotify); err != nil {
		return err
	}
	if err := c.authenticate(ctx); err != nil {
		return err
	}

	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()

	apiURL := c.apiURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// FindLinks returns the Spotify page of the artist whose name matches
// artistName exactly, ignoring case. Fuzzy matches are not trusted.
func (c *SpotifyClient) FindLinks(ctx context.Context, artistName string) (catalog.Links, error) {
	params := url.Values{
		"q":     []string{artistName},
		"type":  []string{"artist"},
		"limit": []string{"10"},
	}

	var result spotifySearchResponse
	if err := c.doRequest(ctx, "search", params, &result); err != nil {
		return catalog.Links{}, err
	}

	if result.Artists != nil {
		for _, sa := range result.Artists.Items {
			if strings.EqualFold(strings.TrimSpace(sa.Name), strings.TrimSpace(artistName)) && sa.ExternalURLs.Spotify != "" {
				var links catalog.Links
				links.Set(catalog.Spotify, sa.ExternalURLs.Spotify)
				return links, nil
			}
		}
	}

	return catalog.Links{}, fmt.Errorf("spotify %q: %w", artistName, ErrNoMatch)
}
