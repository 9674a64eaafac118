package sources

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/turbolytics/lightcurves/internal/source"
)

func NewPlotCommand() *cobra.Command {
	var (
		index  int
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Renders the flux curve of one source",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, l, err := openDataset(cmd.Context(), "plot")
			if err != nil {
				return err
			}
			defer d.Close()
			defer l.Sync()

			s, err := d.Get(index)
			if err != nil {
				return err
			}

			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			if format == "" {
				format = "png"
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := s.PlotFluxCurve(f, source.WithFormat(format)); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			l.Info("wrote plot",
				zap.String("snid", s.ID),
				zap.String("path", out),
				zap.String("format", format),
			)
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "Row index of the source")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output image path")
	cmd.Flags().StringVar(&format, "format", "", "Image format (png, svg, pdf); defaults to the output extension")
	cmd.MarkFlagRequired("out")
	return cmd
}
