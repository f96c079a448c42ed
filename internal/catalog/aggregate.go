package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/rs/zerolog/log"
)

// Dataset is a named source of parsed records.
type Dataset interface {
	Name() string
	Records(ctx context.Context) ([]Record, error)
}

// Aggregator builds the artist list from datasets. Datasets are walked in
// the order given, which is also the precedence order for first-seen-wins
// link and genre copying.
type Aggregator struct {
	datasets []Dataset
}

// NewAggregator constructs an Aggregator over the supplied datasets.
func NewAggregator(datasets ...Dataset) *Aggregator {
	return &Aggregator{datasets: datasets}
}

// Load reads every dataset and groups the records by artist name. A dataset
// that cannot be read is logged and skipped. Artists appear in first-seen
// order and tracks keep ingestion order; repeated rows are kept.
func (a *Aggregator) Load(ctx context.Context) ([]Artist, error) {
	var (
		artists []*Artist
		index   = make(map[string]int)
	)

	for _, ds := range a.datasets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load datasets: %w", err)
		}

		records, err := ds.Records(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("load dataset %q: %w", ds.Name(), err)
			}
			log.Warn().Err(err).Str("dataset", ds.Name()).Msg("skipping unreadable dataset")
			continue
		}

		for _, rec := range records {
			if rec.Title == "" || rec.ArtistName == "" {
				continue
			}

			idx, ok := index[rec.ArtistName]
			if !ok {
				artists = append(artists, &Artist{Name: rec.ArtistName})
				idx = len(artists) - 1
				index[rec.ArtistName] = idx
			}
			artist := artists[idx]

			track := Track{
				Title:   rec.Title,
				Dataset: ds.Name(),
				Source:  rec.Source,
				Genre:   rec.Genre,
				Links:   rec.Links.Clone(),
			}
			artist.Tracks = append(artist.Tracks, track)
			inferArtistFields(artist, track)
		}

		log.Debug().Str("dataset", ds.Name()).Int("records", len(records)).Msg("dataset loaded")
	}

	out := make([]Artist, 0, len(artists))
	for _, artist := range artists {
		out = append(out, *artist)
	}
	return out, nil
}

// inferArtistFields copies track-level data up to the artist. Values already
// present on the artist are never overwritten.
func inferArtistFields(artist *Artist, track Track) {
	if u := track.Links.Get(Bandcamp); u != "" && !artist.Links.Has(Bandcamp) {
		root, err := bandcampRoot(u)
		if err != nil {
			log.Warn().Err(err).Str("artist", artist.Name).Str("url", u).
				Msg("could not derive bandcamp artist page, using track url")
		}
		artist.Links.Set(Bandcamp, root)
	}

	for _, p := range platforms {
		if p == Bandcamp || artist.Links.Has(p) {
			continue
		}
		artist.Links.Set(p, track.Links.Get(p))
	}

	if len(artist.Links.Other) == 0 && len(track.Links.Other) > 0 {
		artist.Links.Other = slices.Clone(track.Links.Other)
	}

	if artist.Genre == "" {
		artist.Genre = track.Genre
	}
}

// bandcampRoot strips a Bandcamp track or album URL down to scheme://host,
// where the artist page lives. On failure the raw URL is returned with the
// error.
func bandcampRoot(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, err
	}
	if u.Scheme == "" || u.Host == "" {
		return raw, fmt.Errorf("parse %q: missing scheme or host", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
