// Package config loads the ambient configuration for building and running
// an index: page size, buffer pool capacity, and where index/relation files
// live on disk.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the top-level configuration document, unmarshalled from YAML.
type Config struct {
	Storage struct {
		DataDir string `mapstructure:"data_dir"`
		// PageSize is loaded but not applied: storage.PageSize is a constant.
		PageSize int `mapstructure:"page_size"`
	} `mapstructure:"storage"`
	BufferPool struct {
		Capacity int `mapstructure:"capacity"`
	} `mapstructure:"buffer_pool"`
	Relation struct {
		RowWidth int `mapstructure:"row_width"`
	} `mapstructure:"relation"`
}

// Default returns a Config populated with the engine's built-in defaults,
// used when no config file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.Storage.DataDir = "./data"
	cfg.Storage.PageSize = 8 * 1024
	cfg.BufferPool.Capacity = 128
	cfg.Relation.RowWidth = 64
	return cfg
}

// Load reads a YAML config file at path and overlays it onto Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("storage.page_size", cfg.Storage.PageSize)
	v.SetDefault("buffer_pool.capacity", cfg.BufferPool.Capacity)
	v.SetDefault("relation.row_width", cfg.Relation.RowWidth)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
