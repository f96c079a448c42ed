package catalog

import (
	"slices"
	"strings"
)

// Platform identifies a known link platform by its wire field name.
type Platform string

const (
	Bandcamp    Platform = "bandcampUrl"
	Spotify     Platform = "spotifyUrl"
	AppleMusic  Platform = "appleMusicUrl"
	Discogs     Platform = "discogsUrl"
	YouTube     Platform = "youtubeUrl"
	SoundCloud  Platform = "soundcloudUrl"
	Weathervane Platform = "weathervaneUrl"
	MixRescue   Platform = "mixRescueUrl"
)

// OtherLinksField is the wire name of the free-form link list.
const OtherLinksField = "otherLinks"

var platforms = []Platform{
	Bandcamp,
	Spotify,
	AppleMusic,
	Discogs,
	YouTube,
	SoundCloud,
	Weathervane,
	MixRescue,
}

// ParsePlatform resolves a camelCase field name to a known platform.
func ParsePlatform(field string) (Platform, bool) {
	for _, p := range platforms {
		if strings.EqualFold(string(p), field) {
			return p, true
		}
	}
	return "", false
}

// Category returns the support category the platform belongs to.
func (p Platform) Category() Category {
	switch p {
	case Bandcamp, Discogs:
		return CategoryDirect
	case Spotify, AppleMusic:
		return CategoryDefinitelyMonetized
	case YouTube, SoundCloud:
		return CategoryPotentiallyMonetized
	default:
		return CategoryOther
	}
}

// Links holds the platform URLs and free-form links of a track or artist.
type Links struct {
	URLs  map[Platform]string
	Other []string
}

// Get returns the URL stored for p, or "".
func (l Links) Get(p Platform) string {
	return l.URLs[p]
}

// Has reports whether a non-empty URL is stored for p.
func (l Links) Has(p Platform) bool {
	return l.URLs[p] != ""
}

// Set stores url for p. Empty values are ignored.
func (l *Links) Set(p Platform, url string) {
	if url == "" {
		return
	}
	if l.URLs == nil {
		l.URLs = make(map[Platform]string)
	}
	l.URLs[p] = url
}

// Empty reports whether no link of any kind is present.
func (l Links) Empty() bool {
	for _, u := range l.URLs {
		if u != "" {
			return false
		}
	}
	return len(l.Other) == 0
}

// Clone returns a deep copy.
func (l Links) Clone() Links {
	out := Links{Other: slices.Clone(l.Other)}
	for p, u := range l.URLs {
		out.Set(p, u)
	}
	return out
}

// Merge copies every link from other that l does not already have.
// Existing values always win.
func (l *Links) Merge(other Links) {
	for _, p := range platforms {
		if !l.Has(p) {
			l.Set(p, other.Get(p))
		}
	}
	if len(l.Other) == 0 && len(other.Other) > 0 {
		l.Other = slices.Clone(other.Other)
	}
}

// Category classifies the links by precedence: direct, then definitely
// monetized, then potentially monetized, then other.
func (l Links) Category() Category {
	best := CategoryNone
	for p, u := range l.URLs {
		if u == "" {
			continue
		}
		if c := p.Category(); c.rank() < best.rank() {
			best = c
		}
	}
	if best == CategoryNone && len(l.Other) > 0 {
		return CategoryOther
	}
	return best
}

func (l Links) fields(dst map[string]any) {
	for _, p := range platforms {
		if u := l.Get(p); u != "" {
			dst[string(p)] = u
		}
	}
	if len(l.Other) > 0 {
		dst[OtherLinksField] = l.Other
	}
}
