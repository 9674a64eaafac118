package archiver

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbolytics/lightcurves/internal/catalog"
	"github.com/turbolytics/lightcurves/internal/parquet"
)

func TestSnapshot(t *testing.T) {
	t.Run("local repository", func(t *testing.T) {
		ctx := context.Background()
		tempDir := t.TempDir()
		outDir := filepath.Join(tempDir, "out")

		dataPath := filepath.Join(tempDir, "elasticc.parquet")
		curves := parquet.GenerateLightCurves(5, 7, []string{"SNIa-SALT2", "SNII-NMF"})
		require.NoError(t, parquet.WriteLightCurves(dataPath, curves))

		configPath := filepath.Join(tempDir, "config.yml")
		configTemplate := `
global:
  logger:
    level: error

dataset:
  path: "{{.DataPath}}"

archiver:
  name: elasticc-test
  repository:
    type: local
    local:
      path: "{{.OutDir}}"
  plot:
    format: svg`

		tmpl, err := template.New("config").Parse(configTemplate)
		require.NoError(t, err)

		configFile, err := os.Create(configPath)
		require.NoError(t, err)
		err = tmpl.Execute(configFile, struct {
			DataPath string
			OutDir   string
		}{
			DataPath: dataPath,
			OutDir:   outDir,
		})
		require.NoError(t, err)
		require.NoError(t, configFile.Close())

		var out bytes.Buffer
		cmd := newSnapshotCommand()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--config", configPath})
		require.NoError(t, cmd.ExecuteContext(ctx))

		snapshotID := strings.TrimSpace(out.String())
		require.NotEmpty(t, snapshotID)
		snapshotPath := filepath.Join(outDir, snapshotID)

		data, err := os.ReadFile(filepath.Join(snapshotPath, "catalog.json"))
		require.NoError(t, err)

		var log catalog.Catalog
		require.NoError(t, json.Unmarshal(data, &log))

		assert.True(t, log.Success)
		assert.Equal(t, "elasticc-test", log.Source)
		assert.Equal(t, 5, log.NumSourceRecords)
		assert.Equal(t, 5, log.NumRecordsProcessed)
		assert.Len(t, log.Entries, 5)

		for _, c := range curves {
			assert.FileExists(t, filepath.Join(snapshotPath, strconv.FormatInt(c.SNID, 10), "events.parquet"))
			assert.FileExists(t, filepath.Join(snapshotPath, strconv.FormatInt(c.SNID, 10), "flux.svg"))
		}
	})

	t.Run("missing config", func(t *testing.T) {
		cmd := newSnapshotCommand()
		cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yml")})
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		assert.Error(t, cmd.ExecuteContext(context.Background()))
	})
}
