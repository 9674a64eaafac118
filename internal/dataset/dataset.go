package dataset

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/turbolytics/lightcurves/internal/parquet"
	"github.com/turbolytics/lightcurves/internal/source"
	"github.com/turbolytics/lightcurves/internal/taxonomy"
)

var (
	// ErrEmpty is returned when a question about the records is asked of a
	// dataset without rows.
	ErrEmpty = errors.New("dataset is empty")
)

// Table is row addressable tabular data.
type Table interface {
	NumRows() int
	Row(i int) (source.Row, error)
}

type Option func(*Dataset)

func WithLogger(l *zap.Logger) Option {
	return func(d *Dataset) {
		d.logger = l
	}
}

func WithTaxonomy(m taxonomy.Mapper) Option {
	return func(d *Dataset) {
		d.taxonomy = m
	}
}

// Dataset indexes a loaded table by row. Sources are built on every access
// and never cached.
type Dataset struct {
	logger   *zap.Logger
	taxonomy taxonomy.Mapper

	table   Table
	rows    int
	release func()
}

func newDataset(opts []Option) *Dataset {
	d := &Dataset{
		logger:   zap.NewNop(),
		taxonomy: taxonomy.Elasticc,
		release:  func() {},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// New wraps an already loaded table.
func New(table Table, opts ...Option) *Dataset {
	d := newDataset(opts)
	d.table = table
	d.rows = table.NumRows()
	return d
}

// Open loads the columnar file at path in full.
func Open(ctx context.Context, path string, opts ...Option) (*Dataset, error) {
	d := newDataset(opts)

	tbl, err := parquet.Load(ctx, path, parquet.WithLogger(d.logger))
	if err != nil {
		return nil, err
	}

	d.table = tbl
	d.rows = tbl.NumRows()
	d.release = tbl.Release

	d.logger.Info("opened dataset",
		zap.String("path", path),
		zap.Int("rows", d.rows),
	)
	return d, nil
}

// Close releases the memory of a table loaded by Open.
func (d *Dataset) Close() error {
	d.release()
	return nil
}

// Len returns the number of rows, fixed at load time.
func (d *Dataset) Len() int {
	return d.rows
}

// Get builds the source at row i.
func (d *Dataset) Get(i int) (*source.Source, error) {
	row, err := d.table.Row(i)
	if err != nil {
		return nil, fmt.Errorf("dataset index %d: %w", i, err)
	}
	s, err := source.New(row, d.taxonomy)
	if err != nil {
		return nil, fmt.Errorf("dataset index %d: %w", i, err)
	}
	return s, nil
}

// Dimensions returns the number of time-series and static features carried
// by the records, read off the first one.
func (d *Dataset) Dimensions() (timeSeries int, static int, err error) {
	if d.rows == 0 {
		return 0, 0, ErrEmpty
	}
	s, err := d.Get(0)
	if err != nil {
		return 0, 0, err
	}
	return len(s.TimeSeriesFeatures()), len(s.StaticFeatures()), nil
}

// Labels returns the coarse class of every row in table order.
func (d *Dataset) Labels() ([]string, error) {
	labels := make([]string, d.rows)
	for i := range labels {
		row, err := d.table.Row(i)
		if err != nil {
			return nil, fmt.Errorf("dataset index %d: %w", i, err)
		}
		fine, err := source.FineClass(row)
		if err != nil {
			return nil, fmt.Errorf("dataset index %d: %w", i, err)
		}
		labels[i], err = d.taxonomy.Map(fine)
		if err != nil {
			return nil, fmt.Errorf("dataset index %d: %w", i, err)
		}
	}
	return labels, nil
}
