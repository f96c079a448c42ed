package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"secretsource/internal/app/artists"
	"secretsource/internal/config"
	"secretsource/internal/httpapi"
	"secretsource/internal/middleware"
	"secretsource/internal/musicapi"
)

func newHTTPHandler(cfg *config.Config, svc artists.Service) http.Handler {
	var handler http.Handler = httpapi.New(svc).Routes()
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	return middleware.Recovery()(handler)
}

// newEnrichment builds the optional collaborators used for random artists.
// Missing credentials leave the corresponding collaborator disabled.
func newEnrichment(cfg *config.Config) artists.Options {
	opts := artists.Options{EnrichTimeout: cfg.Enrichment.Timeout}
	limiters := musicapi.NewRateLimiters()
	for provider, rps := range cfg.Enrichment.RateLimits {
		limiters.Set(musicapi.Provider(provider), rate.Limit(rps), 1)
	}

	var finders musicapi.Chain
	if cfg.Spotify.ClientID != "" {
		finders = append(finders, musicapi.NewSpotifyClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, limiters))
		log.Info().Msg("Spotify link lookup enabled")
	} else {
		log.Info().Msg("Spotify credentials not provided, Spotify link lookup disabled")
	}

	if cfg.GenAI.APIKey != "" {
		genai := musicapi.NewGenerativeClient(cfg.GenAI.APIKey, cfg.GenAI.Model, cfg.GenAI.BaseURL, limiters)
		finders = append(finders, genai)
		opts.Bios = genai
		log.Info().Str("model", cfg.GenAI.Model).Msg("generative bios and link lookup enabled")
	} else {
		log.Info().Msg("GENAI_API_KEY not provided, bios disabled")
	}

	if len(finders) > 0 {
		opts.Links = finders
	}
	return opts
}
