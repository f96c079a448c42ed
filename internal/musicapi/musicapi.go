// Package musicapi talks to the external services used to enrich a
// discovered artist: Spotify for links and a generative text service for
// bios and link suggestions.
package musicapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"secretsource/internal/catalog"
)

// ErrNoMatch is returned when a service has nothing for the artist.
var ErrNoMatch = errors.New("no matching artist")

// LinkFinder looks up links for an artist by name.
type LinkFinder interface {
	FindLinks(ctx context.Context, artistName string) (catalog.Links, error)
}

// Chain asks each finder in order and merges what they return. Earlier
// finders win for any platform both know about. It fails only when every
// finder fails.
type Chain []LinkFinder

// FindLinks implements LinkFinder.
func (c Chain) FindLinks(ctx context.Context, artistName string) (catalog.Links, error) {
	var (
		merged catalog.Links
		errs   []error
	)
	for i, finder := range c {
		links, err := finder.FindLinks(ctx, artistName)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return merged, ctxErr
			}
			log.Debug().Err(err).Int("finder", i).Str("artist", artistName).Msg("link finder failed")
			errs = append(errs, err)
			continue
		}
		merged.Merge(links)
	}

	if len(c) > 0 && len(errs) == len(c) {
		return catalog.Links{}, fmt.Errorf("find links for %q: %w", artistName, errors.Join(errs...))
	}
	return merged, nil
}
