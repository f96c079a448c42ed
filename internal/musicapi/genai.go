package musicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"secretsource/internal/catalog"
)

const bioPrompt = `You are a music journalist who writes short bios for artists.

Given the artist's name and genre, write a one-sentence bio. Reply with the sentence only.

Artist Name: %s
Genre: %s`

const linksPrompt = `You are a music research assistant. Your task is to find official web pages for a given artist.

Prioritize finding a Bandcamp page. Also look for Spotify and YouTube pages. Only return high-confidence, official links. Do not return links to fan pages, social media profiles (like Twitter or Facebook), or music databases like Discogs.

Artist Name: %s

Return a JSON object with the optional string fields "bandcampUrl", "spotifyUrl", "youtubeUrl" and the optional string array "otherLinks". If you cannot find a link for a specific platform, omit the field.`

// GenerativeClient calls a generateContent style text generation API.
type GenerativeClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiters   *RateLimiters
}

// NewGenerativeClient creates a client for model served under baseURL.
// limiters may be nil.
func NewGenerativeClient(apiKey, model, baseURL string, limiters *RateLimiters) *GenerativeClient {
	return &GenerativeClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiters: limiters,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type suggestedLinks struct {
	BandcampURL string   `json:"bandcampUrl"`
	SpotifyURL  string   `json:"spotifyUrl"`
	YouTubeURL  string   `json:"youtubeUrl"`
	OtherLinks  []string `json:"otherLinks"`
}

// GenerateBio asks for a one-sentence bio.
func (c *GenerativeClient) GenerateBio(ctx context.Context, artistName, genre string) (string, error) {
	if genre == "" {
		genre = "Unknown"
	}
	text, err := c.generate(ctx, fmt.Sprintf(bioPrompt, artistName, genre), "")
	if err != nil {
		return "", fmt.Errorf("generate bio for %q: %w", artistName, err)
	}
	bio := strings.TrimSpace(text)
	if bio == "" {
		return "", fmt.Errorf("generate bio for %q: empty answer", artistName)
	}
	return bio, nil
}

// FindLinks asks for official links. Anything that is not an absolute
// http(s) URL is dropped.
func (c *GenerativeClient) FindLinks(ctx context.Context, artistName string) (catalog.Links, error) {
	text, err := c.generate(ctx, fmt.Sprintf(linksPrompt, artistName), "application/json")
	if err != nil {
		return catalog.Links{}, fmt.Errorf("find links for %q: %w", artistName, err)
	}

	var suggested suggestedLinks
	if err := json.Unmarshal([]byte(stripFence(text)), &suggested); err != nil {
		return catalog.Links{}, fmt.Errorf("decode links for %q: %w", artistName, err)
	}

	var links catalog.Links
	links.Set(catalog.Bandcamp, webURL(suggested.BandcampURL))
	links.Set(catalog.Spotify, webURL(suggested.SpotifyURL))
	links.Set(catalog.YouTube, webURL(suggested.YouTubeURL))
	for _, other := range suggested.OtherLinks {
		if u := webURL(other); u != "" {
			links.Other = append(links.Other, u)
		}
	}

	if links.Empty() {
		return catalog.Links{}, fmt.Errorf("genai %q: %w", artistName, ErrNoMatch)
	}
	return links, nil
}

func (c *GenerativeClient) generate(ctx context.Context, prompt, mimeType string) (string, error) {
	if err := c.limiters.Wait(ctx, ProviderGenAI); err != nil {
		return "", err
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if mimeType != "" {
		body.GenerationConfig = &generationConfig{ResponseMIMEType: mimeType}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("genai api error: %s - %s", resp.Status, string(msg))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("genai api returned no candidates")
	}

	var b strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// stripFence removes a surrounding ``` code fence.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func webURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return raw
}
