package parquet

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbolytics/lightcurves/internal/source"
	"github.com/turbolytics/lightcurves/internal/taxonomy"
)

func writeFixtures(t *testing.T, n int) (string, []LightCurve) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lightcurves.parquet")
	curves := GenerateLightCurves(n, 42, []string{"SNIa-SALT2", "SNII-NMF"})
	require.NoError(t, WriteLightCurves(path, curves))
	return path, curves
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatParquet, DetectFormat("a/b.parquet"))
	assert.Equal(t, FormatArrow, DetectFormat("b.FEATHER"))
	assert.Equal(t, FormatUnknown, DetectFormat("c.csv"))
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("parquet fixtures", func(t *testing.T) {
		path, curves := writeFixtures(t, 4)

		tbl, err := Load(ctx, path)
		require.NoError(t, err)
		defer tbl.Release()

		assert.Equal(t, 4, tbl.NumRows())
		assert.Contains(t, tbl.Columns(), "MJD")
		assert.Contains(t, tbl.Columns(), "SIM_PEAKMJD")

		row, err := tbl.Row(2)
		require.NoError(t, err)

		id, err := row.Scalar("SNID")
		require.NoError(t, err)
		assert.Equal(t, curves[2].SNID, id)

		class, err := row.Scalar("ELASTICC_class")
		require.NoError(t, err)
		assert.Equal(t, curves[2].Class, class)

		mjd, err := row.Sequence("MJD")
		require.NoError(t, err)
		require.Len(t, mjd, len(curves[2].MJD))
		assert.Equal(t, curves[2].MJD[0], mjd[0])

		bands, err := row.Sequence("BAND")
		require.NoError(t, err)
		assert.Equal(t, curves[2].Band[0], bands[0])
	})

	t.Run("builds sources", func(t *testing.T) {
		path, curves := writeFixtures(t, 2)

		tbl, err := Load(ctx, path)
		require.NoError(t, err)
		defer tbl.Release()

		row, err := tbl.Row(1)
		require.NoError(t, err)

		s, err := source.New(row, taxonomy.Elasticc)
		require.NoError(t, err)
		assert.Equal(t, curves[1].FluxCal, s.FluxCal)
		assert.Equal(t, curves[1].PhotFlag, s.PhotFlag)
		assert.Equal(t, curves[1].HostMagY, s.Static.HostMag[5])
		assert.Equal(t, curves[1].HostLogMass, s.Static.HostLogMass)
		assert.Equal(t, curves[1].HostLogsSFR, s.Static.HostLogsSFR)
		assert.Contains(t, s.StaticFeatures(), "HOSTGAL_COLOR_ERR")
		assert.NotContains(t, s.StaticFeatures(), "SIM_PEAKMJD")
	})

	t.Run("row out of range", func(t *testing.T) {
		path, _ := writeFixtures(t, 3)

		tbl, err := Load(ctx, path)
		require.NoError(t, err)
		defer tbl.Release()

		_, err = tbl.Row(3)
		assert.ErrorIs(t, err, ErrRowOutOfRange)
		_, err = tbl.Row(-1)
		assert.ErrorIs(t, err, ErrRowOutOfRange)
	})

	t.Run("shape errors", func(t *testing.T) {
		path, _ := writeFixtures(t, 1)

		tbl, err := Load(ctx, path)
		require.NoError(t, err)
		defer tbl.Release()

		row, err := tbl.Row(0)
		require.NoError(t, err)

		_, err = row.Scalar("MJD")
		assert.ErrorIs(t, err, ErrNotScalar)
		_, err = row.Sequence("RA")
		assert.ErrorIs(t, err, ErrNotSequence)
		_, err = row.Scalar("NOPE")
		assert.ErrorIs(t, err, ErrNoSuchColumn)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "missing.parquet"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.parquet")
		require.NoError(t, os.WriteFile(path, []byte("not parquet"), 0644))
		_, err := Load(ctx, path)
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Load(ctx, "data.csv")
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("arrow ipc", func(t *testing.T) {
		mem := memory.NewGoAllocator()
		schema := arrow.NewSchema([]arrow.Field{
			{Name: "SNID", Type: arrow.PrimitiveTypes.Int64},
			{Name: "MJD", Type: arrow.ListOf(arrow.PrimitiveTypes.Float64)},
		}, nil)

		b := array.NewRecordBuilder(mem, schema)
		defer b.Release()
		b.Field(0).(*array.Int64Builder).AppendValues([]int64{7, 8}, nil)
		lb := b.Field(1).(*array.ListBuilder)
		vb := lb.ValueBuilder().(*array.Float64Builder)
		lb.Append(true)
		vb.AppendValues([]float64{1, 2}, nil)
		lb.Append(true)
		vb.AppendValues([]float64{3}, nil)
		rec := b.NewRecord()
		defer rec.Release()

		path := filepath.Join(t.TempDir(), "lc.arrow")
		f, err := os.Create(path)
		require.NoError(t, err)
		w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(mem))
		require.NoError(t, err)
		require.NoError(t, w.Write(rec))
		require.NoError(t, w.Close())
		require.NoError(t, f.Close())

		tbl, err := Load(ctx, path)
		require.NoError(t, err)
		defer tbl.Release()

		assert.Equal(t, 2, tbl.NumRows())
		row, err := tbl.Row(1)
		require.NoError(t, err)
		mjd, err := row.Sequence("MJD")
		require.NoError(t, err)
		assert.Equal(t, []any{3.0}, mjd)
	})
}

func TestDescribe(t *testing.T) {
	path, _ := writeFixtures(t, 1)

	tbl, err := Load(context.Background(), path)
	require.NoError(t, err)
	defer tbl.Release()

	schema := Describe(tbl.Schema())
	assert.Empty(t, schema.Missing())
	assert.Equal(t, []string{"SNID"}, schema.ByRole(source.RoleIdentity))
	assert.ElementsMatch(t, source.TimeSeriesFeatureNames(), schema.ByRole(source.RoleTimeSeries))
	assert.Equal(t, []string{"SIM_PEAKMJD"}, schema.ByRole(source.RoleIgnored))

	assert.Equal(t, []string{"SNID", "ELASTICC_class"}, Schema{}.Missing())
}

func TestWriteTable(t *testing.T) {
	mem := memory.NewGoAllocator()

	path, _ := writeFixtures(t, 1)
	tbl, err := Load(context.Background(), path)
	require.NoError(t, err)
	defer tbl.Release()

	row, err := tbl.Row(0)
	require.NoError(t, err)
	s, err := source.New(row, taxonomy.Elasticc)
	require.NoError(t, err)

	events, err := s.EventTable(mem)
	require.NoError(t, err)
	defer events.Release()

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, events))

	out := filepath.Join(t.TempDir(), "events.parquet")
	require.NoError(t, os.WriteFile(out, buf.Bytes(), 0644))

	back, err := Load(context.Background(), out)
	require.NoError(t, err)
	defer back.Release()

	assert.Equal(t, s.NumObservations(), back.NumRows())
	assert.Equal(t, []string{"time", "photflag", "flux", "fluxErr", "passband"}, back.Columns())

	md := back.Schema().Metadata()
	assert.Equal(t, -1, md.FindKey("ARROW:schema"))
	assert.Equal(t, len(s.StaticFeatures()), md.Len())
	idx := md.FindKey("HOSTGAL_LOGMASS")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, strconv.FormatFloat(s.Static.HostLogMass, 'g', -1, 64), md.Values()[idx])
}
