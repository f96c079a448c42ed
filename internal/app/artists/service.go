package artists

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"secretsource/internal/catalog"
)

var (
	// ErrNotFound is returned when no artist has the requested name.
	ErrNotFound = errors.New("artist not found")
	// ErrNoArtists is returned by Random when the filter leaves nothing to pick.
	ErrNoArtists = errors.New("no artists match the filter")
)

const defaultEnrichTimeout = 8 * time.Second

// ArtistSource exposes the canonical artist list.
type ArtistSource interface {
	Artists(ctx context.Context) ([]catalog.Artist, error)
}

// DatasetLister exposes the registered dataset names in order.
type DatasetLister interface {
	Names() []string
}

// BioGenerator writes a short bio for an artist.
type BioGenerator interface {
	GenerateBio(ctx context.Context, artistName, genre string) (string, error)
}

// LinkFinder looks up links for an artist without any.
type LinkFinder interface {
	FindLinks(ctx context.Context, artistName string) (catalog.Links, error)
}

// Discovery is a randomly picked artist with its optional bio.
type Discovery struct {
	Artist catalog.Artist `json:"artist"`
	Bio    string         `json:"bio,omitempty"`
}

// Options configures the optional collaborators of the Service.
type Options struct {
	Bios          BioGenerator
	Links         LinkFinder
	Rand          *rand.Rand
	EnrichTimeout time.Duration
}

// Service provides artist-centric operations.
type Service interface {
	List(ctx context.Context, filter catalog.Filter) ([]catalog.Artist, error)
	DatasetNames(ctx context.Context) []string
	Get(ctx context.Context, name string) (catalog.Artist, error)
	Stats(ctx context.Context, filter catalog.Filter) (catalog.Stats, error)
	Random(ctx context.Context, filter catalog.Filter) (Discovery, error)
}

type service struct {
	source   ArtistSource
	datasets DatasetLister
	bios     BioGenerator
	links    LinkFinder
	timeout  time.Duration

	randMu sync.Mutex
	rand   *rand.Rand
}

// New constructs an artist Service over the cached catalog.
func New(source ArtistSource, datasets DatasetLister, opts Options) Service {
	timeout := opts.EnrichTimeout
	if timeout <= 0 {
		timeout = defaultEnrichTimeout
	}
	return &service{
		source:   source,
		datasets: datasets,
		bios:     opts.Bios,
		links:    opts.Links,
		timeout:  timeout,
		rand:     opts.Rand,
	}
}

func (s *service) List(ctx context.Context, filter catalog.Filter) ([]catalog.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := s.source.Artists(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Apply(all, s.datasets.Names(), filter), nil
}

func (s *service) DatasetNames(context.Context) []string {
	return s.datasets.Names()
}

func (s *service) Get(ctx context.Context, name string) (catalog.Artist, error) {
	target := strings.TrimSpace(name)
	if target == "" {
		return catalog.Artist{}, ErrNotFound
	}

	all, err := s.source.Artists(ctx)
	if err != nil {
		return catalog.Artist{}, err
	}
	// Names are case-sensitive keys; case is only ignored when nothing
	// matches exactly.
	if a, ok := lo.Find(all, func(a catalog.Artist) bool { return a.Name == target }); ok {
		return a.Clone(), nil
	}
	if a, ok := lo.Find(all, func(a catalog.Artist) bool { return strings.EqualFold(a.Name, target) }); ok {
		return a.Clone(), nil
	}
	return catalog.Artist{}, ErrNotFound
}

func (s *service) Stats(ctx context.Context, filter catalog.Filter) (catalog.Stats, error) {
	all, err := s.source.Artists(ctx)
	if err != nil {
		return catalog.Stats{}, err
	}
	names := s.datasets.Names()
	return catalog.ComputeStats(catalog.Apply(all, names, filter), all, names), nil
}

// Random picks an artist uniformly from the filtered set. Artists without
// links are looked up through the LinkFinder; found links never overwrite
// existing ones. Collaborator failures only drop the bio or the extra links.
func (s *service) Random(ctx context.Context, filter catalog.Filter) (Discovery, error) {
	candidates, err := s.List(ctx, filter)
	if err != nil {
		return Discovery{}, err
	}
	if len(candidates) == 0 {
		return Discovery{}, ErrNoArtists
	}

	pick := candidates[s.intN(len(candidates))]

	enrichCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		g     errgroup.Group
		bio   string
		found catalog.Links
	)

	if s.links != nil && !pick.HasLinks() {
		g.Go(func() error {
			links, err := s.links.FindLinks(enrichCtx, pick.Name)
			if err != nil {
				log.Warn().Err(err).Str("artist", pick.Name).Msg("link lookup failed")
				return nil
			}
			found = links
			return nil
		})
	}

	if s.bios != nil {
		g.Go(func() error {
			text, err := s.bios.GenerateBio(enrichCtx, pick.Name, pick.Genre)
			if err != nil {
				log.Warn().Err(err).Str("artist", pick.Name).Msg("bio generation failed")
				return nil
			}
			bio = text
			return nil
		})
	}

	_ = g.Wait()

	pick.Links.Merge(found)
	return Discovery{Artist: pick, Bio: bio}, nil
}

func (s *service) intN(n int) int {
	if s.rand == nil {
		return rand.IntN(n)
	}
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rand.IntN(n)
}
