package dataset

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSQLSourceRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(communityTracksQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"track_title", "artist_name", "source", "genre", "links"}).
			AddRow("Midnight Drive", "Synth-Savant", "FMA", "Darksynth", []byte(`{"bandcamp_url":"https://synthsavant.bandcamp.com/track/midnight-drive","track_title":"ignored"}`)).
			AddRow("Whispering Pines", "Acoustic-Echoes", "", "Folk", nil))

	table, err := NewSQLSource(db).Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows returned error: %v", err)
	}
	rows := table.Rows
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["bandcamp_url"] != "https://synthsavant.bandcamp.com/track/midnight-drive" {
		t.Fatalf("unexpected bandcamp_url: %q", rows[0]["bandcamp_url"])
	}
	if rows[0]["track_title"] != "Midnight Drive" {
		t.Fatalf("links must not override columns, got %q", rows[0]["track_title"])
	}
	if rows[1]["genre"] != "Folk" {
		t.Fatalf("unexpected genre: %q", rows[1]["genre"])
	}
	wantColumns := []string{"track_title", "artist_name", "source", "genre", "bandcamp_url"}
	if !reflect.DeepEqual(table.Columns, wantColumns) {
		t.Fatalf("expected columns %v, got %v", wantColumns, table.Columns)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLSourceQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	boom := errors.New("relation does not exist")
	mock.ExpectQuery(regexp.QuoteMeta(communityTracksQuery)).WillReturnError(boom)

	if _, err := NewSQLSource(db).Rows(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
}

func TestSQLSourceBadLinks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(communityTracksQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"track_title", "artist_name", "source", "genre", "links"}).
			AddRow("Neon Grid", "Synth-Savant", "", "", []byte(`not json`)))

	if _, err := NewSQLSource(db).Rows(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
