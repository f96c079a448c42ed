// Package catalog aggregates dataset rows into artists and serves filtered
// views and statistics over the result.
package catalog

import (
	"encoding/json"
)

// Record is one parsed dataset row.
type Record struct {
	Title      string
	ArtistName string
	Source     string
	Genre      string
	Links      Links
}

// Track is a single dataset row attached to its artist.
type Track struct {
	Title   string
	Dataset string
	Source  string
	Genre   string
	Links   Links
}

// MarshalJSON flattens the link fields onto the track object.
func (t Track) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"title":   t.Title,
		"dataset": t.Dataset,
	}
	if t.Source != "" {
		m["source"] = t.Source
	}
	if t.Genre != "" {
		m["genre"] = t.Genre
	}
	t.Links.fields(m)
	return json.Marshal(m)
}

// Clone returns a copy whose links can be modified without touching the
// original.
func (t Track) Clone() Track {
	out := t
	out.Links = t.Links.Clone()
	return out
}

// Artist is the unit of discovery: a unique name, its tracks in ingestion
// order and the links inferred from them.
type Artist struct {
	Name   string
	Genre  string
	Tracks []Track
	Links  Links
}

// MarshalJSON flattens the link fields onto the artist object.
func (a Artist) MarshalJSON() ([]byte, error) {
	tracks := a.Tracks
	if tracks == nil {
		tracks = []Track{}
	}
	m := map[string]any{
		"artistName": a.Name,
		"tracks":     tracks,
	}
	if a.Genre != "" {
		m["genre"] = a.Genre
	}
	a.Links.fields(m)
	return json.Marshal(m)
}

// Category returns the artist-level category, falling back to the best
// category among its tracks.
func (a Artist) Category() Category {
	if c := a.Links.Category(); c != CategoryNone {
		return c
	}
	best := CategoryNone
	for _, t := range a.Tracks {
		if c := t.Links.Category(); c.rank() < best.rank() {
			best = c
		}
	}
	return best
}

// HasLinks reports whether the artist itself carries any link.
func (a Artist) HasLinks() bool {
	return !a.Links.Empty()
}

// Clone returns a deep copy: the track slice, every track's links and the
// artist links can be modified without touching the original.
func (a Artist) Clone() Artist {
	out := a
	out.Links = a.Links.Clone()
	out.Tracks = cloneTracks(a.Tracks)
	return out
}

func cloneTracks(tracks []Track) []Track {
	if tracks == nil {
		return nil
	}
	out := make([]Track, len(tracks))
	for i, t := range tracks {
		out[i] = t.Clone()
	}
	return out
}
