package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/turbolytics/lightcurves/internal/taxonomy"
)

type Logger struct {
	Level string `yaml:"level"`
}

type Global struct {
	Logger Logger `yaml:"logger"`
}

type Dataset struct {
	Path string `yaml:"path"`

	// Taxonomy replaces the built in ELAsTiCC class mapping when set.
	Taxonomy map[string]string `yaml:"taxonomy"`
}

type LocalConfig struct {
	Path string `yaml:"path"`
}

type S3Config struct {
	Bucket         string `yaml:"bucket"`
	Region         string `yaml:"region"`
	Prefix         string `yaml:"prefix"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

type Repository struct {
	Type        string      `yaml:"type"`
	LocalConfig LocalConfig `yaml:"local"`
	S3Config    S3Config    `yaml:"s3"`
}

type Plot struct {
	Format   string  `yaml:"format"`
	WidthCM  float64 `yaml:"width_cm"`
	HeightCM float64 `yaml:"height_cm"`
}

type Archiver struct {
	Name       string     `yaml:"name"`
	Repository Repository `yaml:"repository"`
	Plot       Plot       `yaml:"plot"`
}

type Config struct {
	Global   Global   `yaml:"global"`
	Dataset  Dataset  `yaml:"dataset"`
	Archiver Archiver `yaml:"archiver"`
}

func NewFromFile(fpath string) (*Config, error) {
	bs, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	c := Config{
		Global: Global{
			Logger: Logger{Level: "info"},
		},
		Archiver: Archiver{
			Plot: Plot{Format: "png", WidthCM: 20, HeightCM: 12},
		},
	}
	if err := yaml.Unmarshal(bs, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// Taxonomy returns the configured class mapping.
func (c *Config) Taxonomy() taxonomy.Mapper {
	if len(c.Dataset.Taxonomy) == 0 {
		return taxonomy.Elasticc
	}
	return taxonomy.Table(c.Dataset.Taxonomy)
}
