package config

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/turbolytics/lightcurves/internal"
	"github.com/turbolytics/lightcurves/internal/local"
	"github.com/turbolytics/lightcurves/internal/s3"
)

// NewLogger builds a development logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// InitializeRepository builds the configured repository. Every artifact
// lands below prefix.
func InitializeRepository(c *Config, prefix string, l *zap.Logger) (internal.Repository, error) {
	r := c.Archiver.Repository
	switch r.Type {
	case "local":
		return local.New(
			r.LocalConfig.Path,
			local.WithPrefix(prefix),
			local.WithLogger(l),
		), nil
	case "s3":
		repo, err := s3.New(
			s3.WithLogger(l),
			s3.WithRegion(r.S3Config.Region),
			s3.WithBucket(r.S3Config.Bucket),
			s3.WithEndpoint(r.S3Config.Endpoint),
			s3.WithPrefix(path.Join(r.S3Config.Prefix, prefix)),
			s3.WithForcePathStyle(r.S3Config.ForcePathStyle),
		)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown repository type: %q", r.Type)
	}
}

// Logger builds the logger described by the global section.
func (c *Config) Logger() (*zap.Logger, error) {
	return NewLogger(c.Global.Logger.Level)
}
