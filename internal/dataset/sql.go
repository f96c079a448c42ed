package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

const communityTracksQuery = `
	SELECT track_title, artist_name, COALESCE(source, ''), COALESCE(genre, ''), links
	FROM community_tracks
	ORDER BY id
`

// SQLSource reads submitted tracks from the community_tracks table. The
// links column is a JSON object keyed by column name (bandcamp_url, ...),
// so rows come out shaped like CSV rows.
type SQLSource struct {
	db *sql.DB
}

// NewSQLSource constructs a SQLSource over db.
func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Rows queries every submitted track in insertion order. jsonb keeps no key
// order, so link columns are listed by name after the fixed columns.
func (s *SQLSource) Rows(ctx context.Context) (Table, error) {
	rows, err := s.db.QueryContext(ctx, communityTracksQuery)
	if err != nil {
		return Table{}, fmt.Errorf("query community tracks: %w", err)
	}
	defer rows.Close()

	fixed := []string{colTitle, colArtist, colSource, colGenre}
	linkCols := make(map[string]struct{})

	var out []map[string]string
	for rows.Next() {
		var (
			title, artist, source, genre string
			rawLinks                     []byte
		)
		if err := rows.Scan(&title, &artist, &source, &genre, &rawLinks); err != nil {
			return Table{}, fmt.Errorf("scan community track: %w", err)
		}

		row := map[string]string{
			colTitle:  title,
			colArtist: artist,
			colSource: source,
			colGenre:  genre,
		}
		if len(rawLinks) > 0 {
			var links map[string]string
			if err := json.Unmarshal(rawLinks, &links); err != nil {
				return Table{}, fmt.Errorf("decode links for %q: %w", title, err)
			}
			for k, v := range links {
				if _, reserved := row[k]; !reserved {
					row[k] = v
					linkCols[k] = struct{}{}
				}
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("iterate community tracks: %w", err)
	}

	names := lo.Keys(linkCols)
	slices.Sort(names)
	return Table{Columns: append(fixed, names...), Rows: out}, nil
}
