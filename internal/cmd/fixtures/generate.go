package fixtures

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/turbolytics/lightcurves/internal/parquet"
	"github.com/turbolytics/lightcurves/internal/taxonomy"
)

func newGenerateCommand() *cobra.Command {
	var (
		out     string
		records int
		seed    int64
		classes []string
	)

	var cmd = &cobra.Command{
		Use:   "generate",
		Short: "Generates a parquet file of synthetic light curves",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, _ := zap.NewDevelopment()
			defer logger.Sync()
			l := logger.Named("fixtures.generate")

			if records <= 0 {
				return fmt.Errorf("records must be positive, got %d", records)
			}
			if len(classes) == 0 {
				for fine := range taxonomy.Elasticc {
					classes = append(classes, fine)
				}
				sort.Strings(classes)
			}

			curves := parquet.GenerateLightCurves(records, seed, classes)
			if err := parquet.WriteLightCurves(out, curves); err != nil {
				return err
			}

			l.Info("generated fixtures",
				zap.String("path", out),
				zap.Int("records", records),
				zap.Int64("seed", seed),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d light curves to %s\n", records, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output parquet path")
	cmd.Flags().IntVarP(&records, "records", "r", 10, "Number of records to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().StringSliceVar(&classes, "classes", nil, "Fine classes to draw from (defaults to every ELAsTiCC model)")
	cmd.MarkFlagRequired("out")
	return cmd
}
