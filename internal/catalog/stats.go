package catalog

import (
	"math"

	"github.com/samber/lo"
)

// CategoryCount is the number and rounded share of entities in a category.
type CategoryCount struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// DatasetCount is the number of artists and tracks a dataset contributes.
type DatasetCount struct {
	Artists int `json:"artists"`
	Tracks  int `json:"tracks"`
}

// Stats summarises an artist list for display.
type Stats struct {
	ArtistCount   int                        `json:"artistCount"`
	TrackCount    int                        `json:"trackCount"`
	Artists       map[Category]CategoryCount `json:"artists"`
	Tracks        map[Category]CategoryCount `json:"tracks"`
	DatasetCounts map[string]DatasetCount    `json:"datasetCounts"`
}

// ComputeStats classifies every artist and track of filtered into exactly
// one category. Dataset counts are always computed over all, so they do not
// change with the selection.
func ComputeStats(filtered, all []Artist, datasetNames []string) Stats {
	tracks := lo.FlatMap(filtered, func(a Artist, _ int) []Track {
		return a.Tracks
	})

	stats := Stats{
		ArtistCount:   len(filtered),
		TrackCount:    len(tracks),
		Artists:       make(map[Category]CategoryCount, len(Categories)),
		Tracks:        make(map[Category]CategoryCount, len(Categories)),
		DatasetCounts: make(map[string]DatasetCount, len(datasetNames)),
	}

	for _, c := range Categories {
		artists := lo.CountBy(filtered, func(a Artist) bool { return a.Category() == c })
		stats.Artists[c] = CategoryCount{Count: artists, Percentage: percentage(artists, stats.ArtistCount)}

		tracked := lo.CountBy(tracks, func(t Track) bool { return t.Links.Category() == c })
		stats.Tracks[c] = CategoryCount{Count: tracked, Percentage: percentage(tracked, stats.TrackCount)}
	}

	for _, name := range datasetNames {
		var count DatasetCount
		for _, a := range all {
			n := lo.CountBy(a.Tracks, func(t Track) bool { return t.Dataset == name })
			if n > 0 {
				count.Artists++
				count.Tracks += n
			}
		}
		stats.DatasetCounts[name] = count
	}

	return stats
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
