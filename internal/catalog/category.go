package catalog

import "strings"

// Category groups links by how directly they support an artist.
type Category string

const (
	CategoryDirect               Category = "direct"
	CategoryDefinitelyMonetized  Category = "definitelyMonetized"
	CategoryPotentiallyMonetized Category = "potentiallyMonetized"
	CategoryOther                Category = "other"
	CategoryNone                 Category = "none"
)

// Categories lists the link categories in precedence order.
var Categories = []Category{
	CategoryDirect,
	CategoryDefinitelyMonetized,
	CategoryPotentiallyMonetized,
	CategoryOther,
}

func (c Category) rank() int {
	switch c {
	case CategoryDirect:
		return 0
	case CategoryDefinitelyMonetized:
		return 1
	case CategoryPotentiallyMonetized:
		return 2
	case CategoryOther:
		return 3
	default:
		return 4
	}
}

// matchesLinkType reports whether links expose anything selected by
// selector. A selector is either a category name ("direct", "streaming",
// "definitelyMonetized", "potentiallyMonetized", "other") or a single
// field name such as "bandcampUrl" or "otherLinks".
func matchesLinkType(l Links, selector string) bool {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "direct":
		return l.Has(Bandcamp) || l.Has(Discogs)
	case "streaming", "definitelymonetized":
		return l.Has(Spotify) || l.Has(AppleMusic)
	case "potentiallymonetized", "other":
		return l.Has(YouTube) || l.Has(SoundCloud) ||
			l.Has(Weathervane) || l.Has(MixRescue) ||
			len(l.Other) > 0
	case strings.ToLower(OtherLinksField):
		return len(l.Other) > 0
	}
	if p, ok := ParsePlatform(strings.TrimSpace(selector)); ok {
		return l.Has(p)
	}
	return false
}
