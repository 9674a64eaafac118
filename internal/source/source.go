package source

import (
	"errors"
	"fmt"

	"github.com/turbolytics/lightcurves/internal/taxonomy"
)

var (
	// ErrMissingColumn is returned when a row lacks the identity or class column.
	ErrMissingColumn = errors.New("missing column")

	// ErrShape is returned when a column value does not have the expected
	// scalar or sequence shape.
	ErrShape = errors.New("unexpected value shape")

	// ErrTimeArrayMismatch is returned when the time-series of a source do
	// not share the length of its time array.
	ErrTimeArrayMismatch = errors.New("time array length mismatch")
)

// Row is a single row of a loaded table with named column access.
type Row interface {
	Columns() []string
	Scalar(column string) (any, error)
	Sequence(column string) ([]any, error)
}

// Source is one transient event: its light curve and static attributes.
// It is built once from a row and never modified afterwards.
type Source struct {
	ID         string
	Class      string
	AstroClass string

	MJD        []float64
	Band       []string
	PhotFlag   []int64
	FluxCal    []float64
	FluxCalErr []float64

	Static Static

	series []string
	static []string
}

// New builds a Source from row. Recognized columns are copied, everything
// else is ignored. Time-series lengths are not cross-checked here.
func New(row Row, mapper taxonomy.Mapper) (*Source, error) {
	present := make(map[string]struct{})
	for _, c := range row.Columns() {
		present[c] = struct{}{}
	}

	for _, c := range []string{ColumnID, ColumnClass} {
		if _, ok := present[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	s := &Source{}

	id, err := scalarString(row, ColumnID)
	if err != nil {
		return nil, err
	}
	s.ID = id

	class, err := FineClass(row)
	if err != nil {
		return nil, err
	}
	s.Class = class

	for _, f := range staticFeatures {
		if _, ok := present[f.name]; !ok {
			continue
		}
		v, err := row.Scalar(f.name)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.name, err)
		}
		x, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.name, err)
		}
		*f.field(&s.Static) = x
		s.static = append(s.static, f.name)
	}

	for _, f := range seriesFeatures {
		if _, ok := present[f.name]; !ok {
			continue
		}
		vs, err := row.Sequence(f.name)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.name, err)
		}
		if err := f.set(s, vs); err != nil {
			return nil, fmt.Errorf("column %s: %w", f.name, err)
		}
		s.series = append(s.series, f.name)
	}

	s.AstroClass, err = mapper.Map(s.Class)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.ID, err)
	}

	return s, nil
}

// FineClass reads the simulation class of a row.
func FineClass(row Row) (string, error) {
	return scalarString(row, ColumnClass)
}

func scalarString(row Row, column string) (string, error) {
	v, err := row.Scalar(column)
	if err != nil {
		return "", fmt.Errorf("column %s: %w", column, err)
	}
	str, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("column %s: %w", column, err)
	}
	return str, nil
}

// NumObservations is the number of time points of the source.
func (s *Source) NumObservations() int {
	return len(s.MJD)
}

// TimeSeriesFeatures lists the time-series columns the source was built with.
func (s *Source) TimeSeriesFeatures() []string {
	return append([]string(nil), s.series...)
}

// StaticFeatures lists the static columns the source was built with.
func (s *Source) StaticFeatures() []string {
	return append([]string(nil), s.static...)
}

// StaticValue returns the stored value of a static column.
func (s *Source) StaticValue(column string) (float64, bool) {
	for _, name := range s.static {
		if name != column {
			continue
		}
		for _, f := range staticFeatures {
			if f.name == column {
				return *f.field(&s.Static), true
			}
		}
	}
	return 0, false
}

// StaticMap returns every stored static attribute keyed by column name.
func (s *Source) StaticMap() map[string]float64 {
	m := make(map[string]float64, len(s.static))
	for _, name := range s.static {
		v, _ := s.StaticValue(name)
		m[name] = v
	}
	return m
}

// IsDetection reports whether observation i carries the detection bit.
func (s *Source) IsDetection(i int) bool {
	return s.PhotFlag[i]&DetectionBit != 0
}

// aligned verifies every time series has one entry per time point.
func (s *Source) aligned() error {
	n := len(s.MJD)
	for _, f := range seriesFeatures {
		if l := f.len(s); l != n {
			return fmt.Errorf("%w: %s has %d values, %s has %d",
				ErrTimeArrayMismatch, f.name, l, ColumnMJD, n)
		}
	}
	return nil
}
