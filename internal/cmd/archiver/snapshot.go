package archiver

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/turbolytics/lightcurves/internal/archiver"
	"github.com/turbolytics/lightcurves/internal/config"
	"github.com/turbolytics/lightcurves/internal/dataset"
)

func newSnapshotCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Invokes a snapshot. Every source is exported to the repository.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := config.NewFromFile(configPath)
			if err != nil {
				return err
			}

			logger, err := c.Logger()
			if err != nil {
				return err
			}
			defer logger.Sync()
			l := logger.Named("archiver.snapshot")

			sid := uuid.Must(uuid.NewUUID())
			l.Info("starting archiver", zap.String("snapshot_id", sid.String()))

			d, err := dataset.Open(
				ctx,
				c.Dataset.Path,
				dataset.WithLogger(l),
				dataset.WithTaxonomy(c.Taxonomy()),
			)
			if err != nil {
				return err
			}
			defer d.Close()

			repository, err := config.InitializeRepository(c, sid.String(), l)
			if err != nil {
				return err
			}

			name := c.Archiver.Name
			if name == "" {
				name = c.Dataset.Path
			}

			a := archiver.New(
				archiver.WithLogger(l),
				archiver.WithDataset(d),
				archiver.WithRepository(repository),
				archiver.WithName(name),
				archiver.WithPlotFormat(c.Archiver.Plot.Format),
				archiver.WithPlotSize(
					vg.Length(c.Archiver.Plot.WidthCM)*vg.Centimeter,
					vg.Length(c.Archiver.Plot.HeightCM)*vg.Centimeter,
				),
			)

			if _, err := a.Snapshot(ctx, sid); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), sid.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.MarkFlagRequired("config")

	return cmd
}
