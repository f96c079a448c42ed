package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"secretsource/internal/catalog"
)

// Default dataset names.
const (
	MUSDB18              = "MUSDB-18"
	Community            = "Community"
	CommunitySubmissions = "Community Submissions"
)

// Table is the raw content of a dataset: the column names in header order
// and one column-keyed map per line.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Source yields the raw rows of a dataset.
type Source interface {
	Rows(ctx context.Context) (Table, error)
}

// Descriptor couples a dataset name with where its rows come from and how
// they are parsed. It implements catalog.Dataset.
type Descriptor struct {
	name   string
	source Source
	parse  Parser
}

// NewDescriptor builds a Descriptor. A nil parser means ParseRow.
func NewDescriptor(name string, source Source, parse Parser) Descriptor {
	if parse == nil {
		parse = ParseRow
	}
	return Descriptor{name: name, source: source, parse: parse}
}

// Name returns the dataset name.
func (d Descriptor) Name() string {
	return d.name
}

// Records reads the source and returns the rows that parse.
func (d Descriptor) Records(ctx context.Context) ([]catalog.Record, error) {
	table, err := d.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", d.name, err)
	}

	records := make([]catalog.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		if rec, ok := d.parse(table.Columns, row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Registry is the fixed, ordered list of datasets. Registration order is the
// precedence order used when artist links and genres are inferred.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry constructs a Registry in the given order.
func NewRegistry(descriptors ...Descriptor) *Registry {
	return &Registry{descriptors: descriptors}
}

// Default returns the shipped datasets rooted at dataDir. The community
// submissions table is registered only when db is non-nil.
func Default(dataDir string, db *sql.DB) *Registry {
	descriptors := []Descriptor{
		NewDescriptor(MUSDB18, CSVFile{Path: filepath.Join(dataDir, "musdb-18.csv")}, nil),
		NewDescriptor(Community, CSVFile{Path: filepath.Join(dataDir, "community.csv")}, nil),
	}
	if db != nil {
		descriptors = append(descriptors, NewDescriptor(CommunitySubmissions, NewSQLSource(db), nil))
	}
	return NewRegistry(descriptors...)
}

// Names returns the dataset names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		names = append(names, d.name)
	}
	return names
}

// Datasets returns the datasets in registration order.
func (r *Registry) Datasets() []catalog.Dataset {
	out := make([]catalog.Dataset, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	return out
}
