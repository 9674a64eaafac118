package archiver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/turbolytics/lightcurves/internal"
	"github.com/turbolytics/lightcurves/internal/catalog"
	"github.com/turbolytics/lightcurves/internal/parquet"
	"github.com/turbolytics/lightcurves/internal/source"
)

var ErrNotConfigured = errors.New("archiver requires a dataset and a repository")

// Dataset is the indexed collection of sources being archived.
type Dataset interface {
	Len() int
	Get(i int) (*source.Source, error)
}

type Option func(*Archiver)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Archiver) {
		a.logger = logger
	}
}

func WithDataset(d Dataset) Option {
	return func(a *Archiver) {
		a.dataset = d
	}
}

func WithRepository(r internal.Repository) Option {
	return func(a *Archiver) {
		a.repository = r
	}
}

// WithName sets the dataset name recorded in the catalog, usually its path.
func WithName(name string) Option {
	return func(a *Archiver) {
		a.name = name
	}
}

func WithPlotFormat(format string) Option {
	return func(a *Archiver) {
		a.plotFormat = format
	}
}

func WithPlotSize(width, height vg.Length) Option {
	return func(a *Archiver) {
		a.plotWidth = width
		a.plotHeight = height
	}
}

// Archiver exports every source of a dataset as an event table and a flux
// plot, then writes a catalog of what was exported.
type Archiver struct {
	logger     *zap.Logger
	dataset    Dataset
	repository internal.Repository
	mem        memory.Allocator
	name       string

	plotFormat string
	plotWidth  vg.Length
	plotHeight vg.Length
}

func New(opts ...Option) *Archiver {
	a := &Archiver{
		logger:     zap.NewNop(),
		mem:        memory.NewGoAllocator(),
		plotFormat: "png",
		plotWidth:  20 * vg.Centimeter,
		plotHeight: 12 * vg.Centimeter,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot archives the dataset under the given id. Sources that cannot be
// built or tabulated are recorded as failed in the catalog; storage errors
// abort the snapshot.
func (a *Archiver) Snapshot(ctx context.Context, id uuid.UUID) (*catalog.Catalog, error) {
	if a.dataset == nil || a.repository == nil {
		return nil, ErrNotConfigured
	}

	l := a.logger.With(zap.String("snapshot_id", id.String()))

	c := catalog.New(id.String(), a.name)
	c.NumSourceRecords = a.dataset.Len()
	l.Info("starting snapshot", zap.Int("num_source_records", c.NumSourceRecords))

	dirs := map[string]bool{}
	for i := 0; i < c.NumSourceRecords; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := a.archive(ctx, i, dirs)
		if err != nil {
			return nil, err
		}
		if entry.Error != "" {
			l.Warn("source not archived",
				zap.Int("index", i),
				zap.String("snid", entry.SNID),
				zap.String("error", entry.Error),
			)
		}
		c.Add(entry)
	}

	c.Complete()

	bs, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := a.repository.Write(ctx, "catalog.json", bytes.NewReader(bs)); err != nil {
		return nil, err
	}

	l.Info("snapshot complete",
		zap.Int("num_records_processed", c.NumRecordsProcessed),
		zap.Int("num_records_failed", c.NumRecordsFailed),
		zap.Bool("success", c.Success),
	)
	return c, nil
}

func (a *Archiver) archive(ctx context.Context, i int, dirs map[string]bool) (catalog.Entry, error) {
	entry := catalog.Entry{Index: i}

	s, err := a.dataset.Get(i)
	if err != nil {
		entry.Error = err.Error()
		return entry, nil
	}
	entry.SNID = s.ID
	entry.Class = s.Class
	entry.AstroClass = s.AstroClass
	entry.NumObservations = s.NumObservations()

	tbl, err := s.EventTable(a.mem)
	if err != nil {
		entry.Error = err.Error()
		return entry, nil
	}

	var events bytes.Buffer
	err = parquet.WriteTable(&events, tbl)
	tbl.Release()
	if err != nil {
		entry.Error = err.Error()
		return entry, nil
	}

	var img bytes.Buffer
	if err := s.PlotFluxCurve(&img,
		source.WithFormat(a.plotFormat),
		source.WithSize(a.plotWidth, a.plotHeight),
	); err != nil {
		entry.Error = err.Error()
		return entry, nil
	}

	dir := artifactDir(s.ID, i, dirs)
	for _, artifact := range []struct {
		name string
		body *bytes.Buffer
	}{
		{"events.parquet", &events},
		{"flux." + a.plotFormat, &img},
	} {
		key := path.Join(dir, artifact.name)
		if err := a.repository.Write(ctx, key, artifact.body); err != nil {
			return entry, err
		}
		entry.Artifacts = append(entry.Artifacts, key)
	}

	return entry, nil
}

// artifactDir returns the directory holding the artifacts of a source. It
// is the SNID restricted to a safe alphabet, suffixed with the row index
// when empty or already taken.
func artifactDir(snid string, i int, taken map[string]bool) string {
	dir := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, snid)
	if dir == "" {
		dir = fmt.Sprintf("row-%d", i)
	}
	for taken[dir] {
		dir = fmt.Sprintf("%s-%d", dir, i)
	}
	taken[dir] = true
	return dir
}
