package sources

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/turbolytics/lightcurves/internal/config"
	"github.com/turbolytics/lightcurves/internal/dataset"
)

func openDataset(ctx context.Context, name string) (*dataset.Dataset, *zap.Logger, error) {
	logger, err := config.NewLogger(viper.GetString("log-level"))
	if err != nil {
		return nil, nil, err
	}
	l := logger.Named(name)

	path := viper.GetString("file")
	if path == "" {
		return nil, nil, fmt.Errorf("no dataset given: set --file or LIGHTCURVES_FILE")
	}

	d, err := dataset.Open(ctx, path, dataset.WithLogger(l))
	if err != nil {
		return nil, nil, err
	}
	return d, l, nil
}
