package source

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Event table columns.
const (
	EventTime     = "time"
	EventPhotFlag = "photflag"
	EventFlux     = "flux"
	EventFluxErr  = "fluxErr"
	EventPassband = "passband"
)

var eventFields = []arrow.Field{
	{Name: EventTime, Type: arrow.PrimitiveTypes.Float64},
	{Name: EventPhotFlag, Type: arrow.PrimitiveTypes.Int64},
	{Name: EventFlux, Type: arrow.PrimitiveTypes.Float64},
	{Name: EventFluxErr, Type: arrow.PrimitiveTypes.Float64},
	{Name: EventPassband, Type: arrow.BinaryTypes.String},
}

// EventTable returns one row per observation. Times are rebased on the
// earliest MJD. The schema metadata carries the static attributes.
// The caller owns the returned table and must Release it.
func (s *Source) EventTable(mem memory.Allocator) (arrow.Table, error) {
	if err := s.aligned(); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(s.static))
	values := make([]string, 0, len(s.static))
	for _, name := range s.static {
		v, _ := s.StaticValue(name)
		keys = append(keys, name)
		values = append(values, strconv.FormatFloat(v, 'g', -1, 64))
	}
	md := arrow.NewMetadata(keys, values)
	schema := arrow.NewSchema(eventFields, &md)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	t0 := minimum(s.MJD)
	times := b.Field(0).(*array.Float64Builder)
	for _, t := range s.MJD {
		times.Append(t - t0)
	}
	b.Field(1).(*array.Int64Builder).AppendValues(s.PhotFlag, nil)
	b.Field(2).(*array.Float64Builder).AppendValues(s.FluxCal, nil)
	b.Field(3).(*array.Float64Builder).AppendValues(s.FluxCalErr, nil)
	b.Field(4).(*array.StringBuilder).AppendValues(s.Band, nil)

	rec := b.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	if tbl.NumRows() != int64(s.NumObservations()) {
		tbl.Release()
		return nil, fmt.Errorf("%w: table has %d rows, source has %d time points",
			ErrTimeArrayMismatch, tbl.NumRows(), s.NumObservations())
	}
	return tbl, nil
}

func minimum(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
