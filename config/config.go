// Package config loads the service configuration once at startup with
// layered sources (built-in defaults, optional YAML file, environment
// overrides) and validates it. The resulting struct is immutable; the only
// mutable piece is the city lookup table, which swaps atomically on reload.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the override variables, e.g.
// VKINDER_SEARCH_AGE_RANGE -> search.age_range.
const envPrefix = "VKINDER_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	VK       VKConfig       `koanf:"vk"`
	Search   SearchConfig   `koanf:"search"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

type DatabaseConfig struct {
	DSN         string `koanf:"dsn" validate:"required"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

type VKConfig struct {
	Token   string `koanf:"token"`
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Version string `koanf:"version" validate:"required"`
}

// SearchConfig is the tuning surface of the matching pipeline. Bounds follow
// the platform's plausibility limits, enforced at startup.
type SearchConfig struct {
	Count               int    `koanf:"count" validate:"min=1,max=1000"`
	AgeRange            int    `koanf:"age_range" validate:"min=1,max=20"`
	MaxPhotos           int    `koanf:"max_photos" validate:"min=1,max=10"`
	MinPhotoLikes       int    `koanf:"min_photo_likes" validate:"min=0"`
	ViewedRetentionDays int    `koanf:"viewed_retention_days" validate:"min=1"`
	CountryID           int64  `koanf:"country_id" validate:"min=1"`
	CityFile            string `koanf:"city_file"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8081"},
		Database: DatabaseConfig{AutoMigrate: true},
		VK: VKConfig{
			BaseURL: "https://api.vk.com/method",
			Version: "5.131",
		},
		Search: SearchConfig{
			Count:               100,
			AgeRange:            5,
			MaxPhotos:           3,
			MinPhotoLikes:       1,
			ViewedRetentionDays: 30,
			CountryID:           1, // Russia; without it the search is worldwide
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (skipped when absent) and VKINDER_* environment variables, then
// validates it. An invalid configuration is the one fatal path in the
// program.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform maps VKINDER_SEARCH_AGE_RANGE to search.age_range: the first
// underscore after the prefix separates the section, the rest stays flat.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate applies the struct tag rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}
