package sources

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/turbolytics/lightcurves/internal/source"
)

type event struct {
	Time      float64 `yaml:"time"`
	PhotFlag  int64   `yaml:"photflag"`
	Flux      float64 `yaml:"flux"`
	FluxErr   float64 `yaml:"fluxErr"`
	Passband  string  `yaml:"passband"`
	Detection bool    `yaml:"detection"`
}

type summary struct {
	SNID            string             `yaml:"snid"`
	Class           string             `yaml:"class"`
	AstroClass      string             `yaml:"astro_class"`
	NumObservations int                `yaml:"num_observations"`
	TimeSeries      []string           `yaml:"time_series"`
	Static          map[string]float64 `yaml:"static"`
	Events          []event            `yaml:"events"`
}

func NewInspectCommand() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Prints one source and its event table",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, l, err := openDataset(cmd.Context(), "inspect")
			if err != nil {
				return err
			}
			defer d.Close()
			defer l.Sync()

			s, err := d.Get(index)
			if err != nil {
				return err
			}
			l.Debug("inspecting source", zap.Int("index", index), zap.String("snid", s.ID))

			tbl, err := s.EventTable(memory.DefaultAllocator)
			if err != nil {
				return err
			}
			defer tbl.Release()

			out := summary{
				SNID:            s.ID,
				Class:           s.Class,
				AstroClass:      s.AstroClass,
				NumObservations: s.NumObservations(),
				TimeSeries:      s.TimeSeriesFeatures(),
				Static:          s.StaticMap(),
			}

			tr := array.NewTableReader(tbl, tbl.NumRows())
			defer tr.Release()
			for tr.Next() {
				rec := tr.Record()
				times := column(rec, source.EventTime).(*array.Float64)
				flags := column(rec, source.EventPhotFlag).(*array.Int64)
				flux := column(rec, source.EventFlux).(*array.Float64)
				fluxErr := column(rec, source.EventFluxErr).(*array.Float64)
				bands := column(rec, source.EventPassband).(*array.String)
				for i := 0; i < int(rec.NumRows()); i++ {
					out.Events = append(out.Events, event{
						Time:      times.Value(i),
						Passband:  bands.Value(i),
						Flux:      flux.Value(i),
						FluxErr:   fluxErr.Value(i),
						PhotFlag:  flags.Value(i),
						Detection: flags.Value(i)&source.DetectionBit != 0,
					})
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(out)
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "Row index of the source")
	return cmd
}

func column(rec arrow.Record, name string) arrow.Array {
	return rec.Column(rec.Schema().FieldIndices(name)[0])
}
