package schema

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/turbolytics/lightcurves/internal/config"
	"github.com/turbolytics/lightcurves/internal/parquet"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Lists the columns of a file and the role each plays in a source",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := config.NewLogger(viper.GetString("log-level"))
			if err != nil {
				return err
			}
			defer logger.Sync()
			l := logger.Named("schema.inspect")

			path := viper.GetString("file")
			if path == "" {
				return fmt.Errorf("no file given: set --file or LIGHTCURVES_FILE")
			}

			tbl, err := parquet.Load(cmd.Context(), path, parquet.WithLogger(l))
			if err != nil {
				return err
			}
			defer tbl.Release()

			schema := parquet.Describe(tbl.Schema())
			if missing := schema.Missing(); len(missing) > 0 {
				l.Warn("file cannot produce sources", zap.Strings("missing", missing))
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(schema)
		},
	}
	return cmd
}
