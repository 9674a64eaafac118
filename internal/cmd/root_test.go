package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/turbolytics/lightcurves/internal/parquet"
	"github.com/turbolytics/lightcurves/internal/source"
	"github.com/turbolytics/lightcurves/internal/taxonomy"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func fixture(t *testing.T, n int) (string, []parquet.LightCurve) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elasticc.parquet")
	curves := parquet.GenerateLightCurves(n, 3, []string{"SNIa-SALT2", "SNII-NMF", "KN_K17"})
	require.NoError(t, parquet.WriteLightCurves(path, curves))
	return path, curves
}

func TestLabels(t *testing.T) {
	path, curves := fixture(t, 4)

	t.Run("one per row", func(t *testing.T) {
		out, err := run(t, "labels", "--file", path)
		require.NoError(t, err)

		var expected []string
		for _, c := range curves {
			label, err := taxonomy.Elasticc.Map(c.Class)
			require.NoError(t, err)
			expected = append(expected, label)
		}
		assert.Equal(t, expected, strings.Fields(out))
	})

	t.Run("counts", func(t *testing.T) {
		out, err := run(t, "labels", "--file", path, "--counts")
		require.NoError(t, err)

		var counts map[string]int
		require.NoError(t, yaml.Unmarshal([]byte(out), &counts))
		total := 0
		for _, n := range counts {
			total += n
		}
		assert.Equal(t, 4, total)
	})
}

func TestInspect(t *testing.T) {
	path, curves := fixture(t, 2)

	out, err := run(t, "inspect", "--file", path, "--index", "1")
	require.NoError(t, err)

	var summary struct {
		SNID            string             `yaml:"snid"`
		Class           string             `yaml:"class"`
		NumObservations int                `yaml:"num_observations"`
		Static          map[string]float64 `yaml:"static"`
		Events          []struct {
			Time     float64 `yaml:"time"`
			Flux     float64 `yaml:"flux"`
			Passband string  `yaml:"passband"`
		} `yaml:"events"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))

	assert.Equal(t, "1001", summary.SNID)
	assert.Equal(t, curves[1].Class, summary.Class)
	assert.Equal(t, len(curves[1].MJD), summary.NumObservations)
	assert.Len(t, summary.Events, summary.NumObservations)
	assert.Equal(t, 0.0, summary.Events[0].Time)
	assert.Equal(t, curves[1].Band[0], summary.Events[0].Passband)
	assert.Equal(t, curves[1].FluxCal[0], summary.Events[0].Flux)
	assert.InDelta(t, curves[1].RA, summary.Static["RA"], 1e-9)
}

func TestInspect_OutOfRange(t *testing.T) {
	path, _ := fixture(t, 2)

	_, err := run(t, "inspect", "--file", path, "--index", "2")
	assert.ErrorIs(t, err, parquet.ErrRowOutOfRange)
}

func TestPlot(t *testing.T) {
	path, _ := fixture(t, 1)
	out := filepath.Join(t.TempDir(), "flux.svg")

	_, err := run(t, "plot", "--file", path, "--out", out)
	require.NoError(t, err)

	bs, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(bs), "<svg")
}

func TestSchemaInspect(t *testing.T) {
	path, _ := fixture(t, 1)

	out, err := run(t, "schema", "inspect", "--file", path)
	require.NoError(t, err)

	var schema parquet.Schema
	require.NoError(t, yaml.Unmarshal([]byte(out), &schema))
	assert.Equal(t, []string{source.ColumnID}, schema.ByRole(source.RoleIdentity))
	assert.Equal(t, []string{"SIM_PEAKMJD"}, schema.ByRole(source.RoleIgnored))
	assert.Empty(t, schema.Missing())
}

func TestFixturesGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.parquet")

	_, err := run(t, "fixtures", "generate", "--out", path, "--records", "3", "--seed", "9")
	require.NoError(t, err)

	tbl, err := parquet.Load(context.Background(), path)
	require.NoError(t, err)
	defer tbl.Release()
	assert.Equal(t, 3, tbl.NumRows())
}
