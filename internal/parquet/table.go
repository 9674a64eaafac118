package parquet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	pq "github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/metadata"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/turbolytics/lightcurves/internal/source"
)

var (
	ErrRowOutOfRange   = errors.New("row index out of range")
	ErrNoSuchColumn    = errors.New("no such column")
	ErrNotScalar       = errors.New("column is not scalar")
	ErrNotSequence     = errors.New("column is not a sequence")
	ErrUnsupportedType = errors.New("unsupported column type")
	ErrUnknownFormat   = errors.New("unknown file format")
)

const pqarrowSchemaKey = "ARROW:schema"

// Format is an on-disk columnar layout.
type Format int

const (
	FormatUnknown Format = iota
	FormatParquet
	FormatArrow
)

// DetectFormat determines the format of a file from its extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return FormatParquet
	case ".arrow", ".feather", ".ipc":
		return FormatArrow
	default:
		return FormatUnknown
	}
}

type Option func(*Table)

func WithLogger(l *zap.Logger) Option {
	return func(t *Table) {
		t.logger = l
	}
}

func WithAllocator(mem memory.Allocator) Option {
	return func(t *Table) {
		t.mem = mem
	}
}

// Table is a fully loaded columnar file. Every column is held as one
// contiguous arrow array so rows can be addressed directly.
type Table struct {
	logger *zap.Logger
	mem    memory.Allocator

	schema  *arrow.Schema
	names   []string
	index   map[string]int
	columns []arrow.Array
	rows    int
}

// Load reads the whole file at path into memory.
func Load(ctx context.Context, path string, opts ...Option) (*Table, error) {
	t := &Table{
		logger: zap.NewNop(),
		mem:    memory.NewGoAllocator(),
	}
	for _, opt := range opts {
		opt(t)
	}

	var (
		tbl arrow.Table
		err error
	)
	switch DetectFormat(path) {
	case FormatParquet:
		tbl, err = readParquet(ctx, path, t.mem)
	case FormatArrow:
		tbl, err = readArrow(path, t.mem)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, err
	}
	defer tbl.Release()

	if err := t.setTable(tbl); err != nil {
		t.Release()
		return nil, err
	}

	t.logger.Info("loaded table",
		zap.String("path", path),
		zap.Int("rows", t.rows),
		zap.Int("columns", len(t.names)),
	)
	return t, nil
}

// NewTable wraps an arrow table that is already in memory. The table is
// retained; the caller keeps its own reference.
func NewTable(tbl arrow.Table, opts ...Option) (*Table, error) {
	t := &Table{
		logger: zap.NewNop(),
		mem:    memory.NewGoAllocator(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.setTable(tbl); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func readParquet(ctx context.Context, path string, mem memory.Allocator) (arrow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(pq.NewReaderProperties(mem)))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	tbl, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer tbl.Release()

	md := fileMetadata(pf.MetaData().KeyValueMetadata())
	schema := arrow.NewSchema(tbl.Schema().Fields(), &md)

	cols := make([]arrow.Column, tbl.NumCols())
	for i := range cols {
		cols[i] = *tbl.Column(i)
	}
	return array.NewTable(schema, cols, tbl.NumRows()), nil
}

// fileMetadata carries the key/value metadata of a parquet file over to
// arrow, leaving out the serialized arrow schema.
func fileMetadata(kv metadata.KeyValueMetadata) arrow.Metadata {
	var keys, values []string
	vs := kv.Values()
	for i, k := range kv.Keys() {
		if k == pqarrowSchemaKey {
			continue
		}
		keys = append(keys, k)
		values = append(values, vs[i])
	}
	return arrow.NewMetadata(keys, values)
}

func readArrow(path string, mem memory.Allocator) (arrow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open arrow file: %w", err)
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}
	defer r.Close()

	recs := make([]arrow.Record, 0, r.NumRecords())
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read record batch %d: %w", i, err)
		}
		rec.Retain()
		recs = append(recs, rec)
	}

	return array.NewTableFromRecords(r.Schema(), recs), nil
}

func (t *Table) setTable(tbl arrow.Table) error {
	t.schema = tbl.Schema()
	t.rows = int(tbl.NumRows())
	t.index = make(map[string]int, tbl.NumCols())

	for i, field := range t.schema.Fields() {
		chunks := tbl.Column(i).Data().Chunks()

		var arr arrow.Array
		switch len(chunks) {
		case 0:
			b := array.NewBuilder(t.mem, field.Type)
			arr = b.NewArray()
			b.Release()
		case 1:
			arr = chunks[0]
			arr.Retain()
		default:
			var err error
			arr, err = array.Concatenate(chunks, t.mem)
			if err != nil {
				return fmt.Errorf("column %s: %w", field.Name, err)
			}
		}

		t.index[field.Name] = len(t.columns)
		t.names = append(t.names, field.Name)
		t.columns = append(t.columns, arr)
	}
	return nil
}

// Release frees the column arrays.
func (t *Table) Release() {
	for _, arr := range t.columns {
		arr.Release()
	}
	t.columns = nil
}

func (t *Table) NumRows() int {
	return t.rows
}

func (t *Table) Columns() []string {
	return t.names
}

func (t *Table) Schema() *arrow.Schema {
	return t.schema
}

func (t *Table) column(name string) (arrow.Array, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchColumn, name)
	}
	return t.columns[i], nil
}

// Row returns a view of row i.
func (t *Table) Row(i int) (source.Row, error) {
	if i < 0 || i >= t.rows {
		return nil, fmt.Errorf("%w: row %d, table has %d rows", ErrRowOutOfRange, i, t.rows)
	}
	return row{t: t, i: i}, nil
}

type row struct {
	t *Table
	i int
}

func (r row) Columns() []string {
	return r.t.names
}

func (r row) Scalar(column string) (any, error) {
	arr, err := r.t.column(column)
	if err != nil {
		return nil, err
	}
	if _, ok := arr.(array.ListLike); ok {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotScalar, column, arr.DataType())
	}
	return value(arr, r.i)
}

func (r row) Sequence(column string) ([]any, error) {
	arr, err := r.t.column(column)
	if err != nil {
		return nil, err
	}
	l, ok := arr.(array.ListLike)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotSequence, column, arr.DataType())
	}
	if l.IsNull(r.i) {
		return []any{}, nil
	}

	start, end := l.ValueOffsets(r.i)
	values := l.ListValues()
	out := make([]any, 0, end-start)
	for j := start; j < end; j++ {
		v, err := value(values, int(j))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", column, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func value(arr arrow.Array, i int) (any, error) {
	if arr.IsNull(i) {
		return nil, nil
	}

	switch a := arr.(type) {
	case *array.Float64:
		return a.Value(i), nil
	case *array.Float32:
		return a.Value(i), nil
	case *array.Int64:
		return a.Value(i), nil
	case *array.Int32:
		return a.Value(i), nil
	case *array.Int16:
		return a.Value(i), nil
	case *array.Int8:
		return a.Value(i), nil
	case *array.Uint64:
		return a.Value(i), nil
	case *array.Uint32:
		return a.Value(i), nil
	case *array.Uint16:
		return a.Value(i), nil
	case *array.Uint8:
		return a.Value(i), nil
	case *array.Boolean:
		return a.Value(i), nil
	case *array.String:
		return a.Value(i), nil
	case *array.LargeString:
		return a.Value(i), nil
	case *array.Binary:
		return string(a.Value(i)), nil
	case *array.Dictionary:
		return value(a.Dictionary(), a.GetValueIndex(i))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, arr.DataType())
}
