package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secretsource/internal/catalog"
)

const shippedData = "../../data"

type staticSource struct {
	table Table
	err   error
}

func (s staticSource) Rows(context.Context) (Table, error) {
	return s.table, s.err
}

func TestDefaultRegistryNames(t *testing.T) {
	assert.Equal(t, []string{MUSDB18, Community}, Default(shippedData, nil).Names())

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, []string{MUSDB18, Community, CommunitySubmissions}, Default(shippedData, db).Names())
}

func TestDescriptorRecordsSkipsInvalidRows(t *testing.T) {
	d := NewDescriptor("test", staticSource{table: Table{
		Columns: []string{"track_title", "artist_name"},
		Rows: []map[string]string{
			{"track_title": "Run", "artist_name": "Arise"},
			{"track_title": "", "artist_name": "Nobody"},
		},
	}}, nil)

	records, err := d.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Arise", records[0].ArtistName)
}

func TestDescriptorRecordsKeepsColumnOrder(t *testing.T) {
	d := NewDescriptor("test", staticSource{table: Table{
		Columns: []string{"track_title", "artist_name", "zeta_url", "alpha_url"},
		Rows: []map[string]string{{
			"track_title": "Run",
			"artist_name": "Arise",
			"zeta_url":    "https://z.example",
			"alpha_url":   "https://a.example",
		}},
	}}, nil)

	records, err := d.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"https://z.example", "https://a.example"}, records[0].Links.Other)
}

func TestDescriptorRecordsWrapsSourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewDescriptor("test", staticSource{err: boom}, nil).Records(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"test"`)
}

func TestShippedDatasets(t *testing.T) {
	reg := Default(shippedData, nil)

	artists, err := catalog.NewAggregator(reg.Datasets()...).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, artists, 14)

	ross := artists[0]
	assert.Equal(t, "Alexander Ross", ross.Name)
	assert.Equal(t, "https://alexanderross.bandcamp.com", ross.Links.Get(catalog.Bandcamp))
	require.Len(t, ross.Tracks, 1)
	assert.Equal(t, "Goodbye Bolero", ross.Tracks[0].Title)
	assert.Equal(t, MUSDB18, ross.Tracks[0].Dataset)
	assert.Equal(t, "https://alexanderross.bandcamp.com/track/goodbye-bolero", ross.Tracks[0].Links.Get(catalog.Bandcamp))

	musdb := catalog.Apply(artists, reg.Names(), catalog.Filter{Datasets: []string{MUSDB18}})
	assert.Len(t, musdb, 12)
	for _, a := range musdb {
		for _, tr := range a.Tracks {
			assert.Equal(t, MUSDB18, tr.Dataset)
		}
	}

	savant := artists[12]
	assert.Equal(t, "Synth-Savant", savant.Name)
	assert.Equal(t, "https://synthsavant.bandcamp.com", savant.Links.Get(catalog.Bandcamp))
	assert.Len(t, savant.Tracks, 2)
}

func TestMissingDatasetIsSkipped(t *testing.T) {
	reg := Default(t.TempDir(), nil)

	artists, err := catalog.NewAggregator(reg.Datasets()...).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, artists)
}
