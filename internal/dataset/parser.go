// Package dataset reads the configured track datasets and turns their rows
// into catalog records.
package dataset

import (
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"secretsource/internal/catalog"
)

const (
	colTitle      = "track_title"
	colArtist     = "artist_name"
	colSource     = "source"
	colGenre      = "genre"
	colOtherLinks = "other_links"

	urlSuffix = "_url"
)

// Parser converts one row into a record. columns is the header order of
// the dataset. ok is false when the row should be skipped.
type Parser func(columns []string, row map[string]string) (rec catalog.Record, ok bool)

// ParseRow is the default Parser. Column names are matched
// case-insensitively. Every column ending in _url becomes a link: known
// platforms by their camelCase name, anything else appended to the
// other-links list in column order. An other_links column holds further
// links separated by ";". Without columns, link columns are taken in
// name order.
func ParseRow(columns []string, row map[string]string) (catalog.Record, bool) {
	cols := normalize(row)

	rec := catalog.Record{
		Title:      cols[colTitle],
		ArtistName: cols[colArtist],
		Source:     cols[colSource],
		Genre:      cols[colGenre],
	}
	if rec.Title == "" || rec.ArtistName == "" {
		log.Debug().Interface("row", row).Msg("skipping row without title or artist")
		return catalog.Record{}, false
	}

	for _, k := range linkColumns(columns, cols) {
		v := cols[k]
		if v == "" {
			continue
		}
		if p, ok := catalog.ParsePlatform(camelCase(k)); ok {
			rec.Links.Set(p, v)
			continue
		}
		rec.Links.Other = append(rec.Links.Other, v)
	}

	for _, link := range strings.Split(cols[colOtherLinks], ";") {
		if link = strings.TrimSpace(link); link != "" {
			rec.Links.Other = append(rec.Links.Other, link)
		}
	}

	return rec, true
}

// linkColumns returns the normalised *_url column names present in cols,
// each once, in header order. Columns missing from the header follow in
// name order.
func linkColumns(columns []string, cols map[string]string) []string {
	seen := make(map[string]bool, len(cols))
	var keys []string
	for _, c := range columns {
		k := strings.ToLower(strings.TrimSpace(c))
		if _, ok := cols[k]; !ok || seen[k] || !strings.HasSuffix(k, urlSuffix) {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}

	var rest []string
	for k := range cols {
		if !seen[k] && strings.HasSuffix(k, urlSuffix) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func normalize(row map[string]string) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return out
}

// camelCase turns a snake_case column name into its camelCase field name,
// e.g. bandcamp_url into bandcampUrl.
func camelCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.Grow(len(s))
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
