package catalog

import (
	"github.com/samber/lo"
)

// Filter narrows an artist list.
//
// Datasets keeps only tracks from the named datasets; empty, or naming every
// registered dataset, means no dataset filter.
//
// LinkTypes keeps artists that expose at least one matching link on the
// artist or any remaining track. A nil slice disables the link filter, while
// a non-nil empty slice selects nothing and yields an empty result.
type Filter struct {
	Datasets  []string
	LinkTypes []string
}

// Apply returns the artists that pass f. registered is the full ordered set
// of dataset names. The result is made of copies; artists are never
// modified.
func Apply(artists []Artist, registered []string, f Filter) []Artist {
	out := FilterDatasets(artists, registered, f.Datasets)

	if f.LinkTypes == nil {
		return out
	}
	if len(f.LinkTypes) == 0 {
		return []Artist{}
	}

	return lo.Filter(out, func(a Artist, _ int) bool {
		return hasLinkType(a, f.LinkTypes)
	})
}

// FilterDatasets trims each artist's tracks to the selected datasets and
// drops artists left without tracks.
func FilterDatasets(artists []Artist, registered, selected []string) []Artist {
	if !restrictsDatasets(registered, selected) {
		return lo.Map(artists, func(a Artist, _ int) Artist {
			return a.Clone()
		})
	}

	return lo.FilterMap(artists, func(a Artist, _ int) (Artist, bool) {
		tracks := lo.FilterMap(a.Tracks, func(t Track, _ int) (Track, bool) {
			if !lo.Contains(selected, t.Dataset) {
				return Track{}, false
			}
			return t.Clone(), true
		})
		if len(tracks) == 0 {
			return Artist{}, false
		}
		out := a
		out.Links = a.Links.Clone()
		out.Tracks = tracks
		return out, true
	})
}

func restrictsDatasets(registered, selected []string) bool {
	if len(selected) == 0 {
		return false
	}
	return !lo.Every(selected, registered)
}

func hasLinkType(a Artist, selectors []string) bool {
	return lo.SomeBy(selectors, func(sel string) bool {
		if matchesLinkType(a.Links, sel) {
			return true
		}
		return lo.SomeBy(a.Tracks, func(t Track) bool {
			return matchesLinkType(t.Links, sel)
		})
	})
}
